package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apimiddleware "github.com/taskvault/taskvault-api/internal/api/middleware"
	"github.com/taskvault/taskvault-api/internal/api/shared"
	"github.com/taskvault/taskvault-api/internal/cache"
	"github.com/taskvault/taskvault-api/internal/config"
	"github.com/taskvault/taskvault-api/internal/mocks"
	"github.com/taskvault/taskvault-api/internal/service"
	"github.com/taskvault/taskvault-api/internal/service/auth"
)

// testEnv wires the full HTTP stack against in-memory stores, mirroring the
// production router's layout.
type testEnv struct {
	router    http.Handler
	userStore *mocks.MockUserStore
	taskStore *mocks.MockTaskStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
		AccessTokenLifetimeMinutes:  15,
		RefreshTokenLifetimeMinutes: 1440,
	})
	require.NoError(t, err)

	userStore := mocks.NewMockUserStore()
	taskStore := mocks.NewMockTaskStore()

	authService := service.NewAuthService(
		userStore,
		jwtService,
		auth.NewBcryptHasher(bcrypt.MinCost),
		nil,
	)
	taskService := service.NewTaskService(taskStore, cache.NewNoopTaskCache(), 5*time.Minute, nil)

	authHandler := NewAuthHandler(authService, nil)
	taskHandler := NewTaskHandler(taskService, nil)
	authMiddleware := apimiddleware.NewAuthMiddleware(jwtService)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/auth/logout", authHandler.Logout)

			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks", taskHandler.List)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Put("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAdmin)
				r.Get("/admin/tasks", taskHandler.ListAll)
			})
		})
	})

	return &testEnv{
		router:    r,
		userStore: userStore,
		taskStore: taskStore,
	}
}

// do performs a request against the test router. A non-empty token is sent
// as a Bearer Authorization header; a non-nil body is JSON-encoded.
func (e *testEnv) do(
	t *testing.T,
	method, path, token string,
	body interface{},
) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeEnvelope unmarshals the standard response envelope.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) shared.Envelope {
	t.Helper()

	var envelope shared.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

// dataField digs a field out of the envelope's data payload.
func dataField(t *testing.T, envelope shared.Envelope, field string) interface{} {
	t.Helper()

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok, "envelope data is not an object")
	return data[field]
}

// registerAndLogin creates a user through the API and returns the token
// pair from a successful login.
func (e *testEnv) registerAndLogin(
	t *testing.T,
	email, password string,
	role string,
) (accessToken, refreshToken string) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "register failed: %s", rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	envelope := decodeEnvelope(t, rec)
	access, _ := dataField(t, envelope, "access_token").(string)
	refresh, _ := dataField(t, envelope, "refresh_token").(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	return access, refresh
}
