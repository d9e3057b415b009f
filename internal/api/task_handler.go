package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskvault/taskvault-api/internal/api/shared"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/platform/logger"
	"github.com/taskvault/taskvault-api/internal/service"
)

// TaskHandler handles task CRUD HTTP requests. All routes require an
// authenticated user; the admin listing additionally requires the ADMIN
// role, enforced by middleware.
type TaskHandler struct {
	taskService *service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler. If log is nil, a default
// logger is used.
func NewTaskHandler(taskService *service.TaskService, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default().With(slog.String("component", "task_handler"))
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      log,
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, _, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, shared.FieldErrors(err))
		return
	}

	task, err := h.taskService.Create(ctx, userID,
		req.Title, req.Description,
		domain.TaskStatus(req.Status), domain.TaskPriority(req.Priority))
	if err != nil {
		h.respondError(w, r, err, "task creation failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, "Task created", task)
}

// List handles GET /tasks. Supports page, limit and status query
// parameters; unknown or invalid values fall back to defaults.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, _, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	page, limit := pagination(r)

	var status *domain.TaskStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.TaskStatus(raw)
		if !s.IsValid() {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status filter")
			return
		}
		status = &s
	}

	result, err := h.taskService.GetTasks(ctx, userID, page, limit, status)
	if err != nil {
		h.respondError(w, r, err, "task listing failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, "Tasks retrieved", result)
}

// ListAll handles GET /admin/tasks: every user's tasks with owner emails.
func (h *TaskHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, limit := pagination(r)

	result, err := h.taskService.GetAllTasks(ctx, page, limit)
	if err != nil {
		h.respondError(w, r, err, "admin task listing failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, "Tasks retrieved", result)
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, role, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	taskID, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTaskByID(ctx, taskID, userID, role == domain.RoleAdmin)
	if err != nil {
		h.respondError(w, r, err, "task lookup failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, "Task retrieved", task)
}

// Update handles PUT /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, role, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	taskID, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, shared.FieldErrors(err))
		return
	}

	update := service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		update.Status = &s
	}
	if req.Priority != nil {
		p := domain.TaskPriority(*req.Priority)
		update.Priority = &p
	}

	task, err := h.taskService.Update(ctx, taskID, userID, role == domain.RoleAdmin, update)
	if err != nil {
		h.respondError(w, r, err, "task update failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, "Task updated", task)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, role, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	taskID, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(ctx, taskID, userID, role == domain.RoleAdmin); err != nil {
		h.respondError(w, r, err, "task deletion failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, "Task deleted", nil)
}

// respondError logs server-side failures and writes the sanitized error
// envelope.
func (h *TaskHandler) respondError(w http.ResponseWriter, r *http.Request, err error, op string) {
	status := MapErrorToStatusCode(err)
	if status >= http.StatusInternalServerError {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Error(op, slog.String("error", err.Error()))
	}
	shared.RespondWithError(w, r, status, SafeErrorMessage(err))
}

// requireIdentity extracts the authenticated user's ID and role from the
// request context, writing a 401 if either is missing.
func requireIdentity(w http.ResponseWriter, r *http.Request) (uuid.UUID, domain.Role, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, "", false
	}
	role, ok := shared.UserRoleFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, "", false
	}
	return userID, role, true
}

// pathTaskID parses the {id} path parameter, writing a 400 on a malformed
// UUID.
func pathTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads the page and limit query parameters. Values that are
// missing or unparsable come back as zero and are normalized downstream.
func pagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}
