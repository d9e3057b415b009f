package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. The default
// behavior is a working in-memory store with real filtering, ordering and
// pagination; individual methods can be overridden through the function
// fields.
type MockTaskStore struct {
	mu sync.Mutex

	// Function fields for customizable behavior
	CreateFn  func(ctx context.Context, task *domain.Task) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateFn  func(ctx context.Context, task *domain.Task) error
	DeleteFn  func(ctx context.Context, id uuid.UUID) error
	ListFn    func(ctx context.Context, userID uuid.UUID, filter store.ListFilter) (*store.TaskPage, error)
	ListAllFn func(ctx context.Context, filter store.ListFilter) (*store.TaskPage, error)

	// Tasks holds the in-memory state for the default implementation.
	Tasks map[uuid.UUID]*domain.Task

	// OwnerEmails maps user IDs to emails for ListAll's owner column.
	OwnerEmails map[uuid.UUID]string

	// ListCalls counts how often the default List implementation hit the
	// store, letting cache tests assert read-through behavior.
	ListCalls int
}

// NewMockTaskStore creates a new mock store with initialized defaults.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks:       make(map[uuid.UUID]*domain.Task),
		OwnerEmails: make(map[uuid.UUID]string),
	}
}

// Ensure MockTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.Tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}

	copied := *task
	return &copied, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Tasks[task.ID]; !exists {
		return store.ErrTaskNotFound
	}

	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Tasks[id]; !exists {
		return store.ErrTaskNotFound
	}

	delete(m.Tasks, id)
	return nil
}

// List implements the TaskStore interface
func (m *MockTaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.ListFilter,
) (*store.TaskPage, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls++

	matched := m.collect(func(t *domain.Task) bool {
		if t.UserID != userID {
			return false
		}
		return filter.Status == nil || t.Status == *filter.Status
	}, false)

	return paginate(matched, filter), nil
}

// ListAll implements the TaskStore interface
func (m *MockTaskStore) ListAll(
	ctx context.Context,
	filter store.ListFilter,
) (*store.TaskPage, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.collect(func(t *domain.Task) bool { return true }, true)
	return paginate(matched, filter), nil
}

// WithTx implements the TaskStore interface; the mock ignores transactions.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

// collect returns matching tasks ordered by creation time descending.
// Must be called with the mutex held.
func (m *MockTaskStore) collect(match func(*domain.Task) bool, withOwner bool) []domain.Task {
	matched := []domain.Task{}
	for _, task := range m.Tasks {
		if match(task) {
			copied := *task
			if withOwner {
				copied.OwnerEmail = m.OwnerEmails[task.UserID]
			}
			matched = append(matched, copied)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return matched
}

// paginate slices the matched tasks down to the filter's page.
func paginate(matched []domain.Task, filter store.ListFilter) *store.TaskPage {
	total := len(matched)

	start := filter.Offset()
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	return &store.TaskPage{Tasks: matched[start:end], Total: total}
}
