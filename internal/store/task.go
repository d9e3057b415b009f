package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskvault/taskvault-api/internal/domain"
)

// TaskPage is one page of a task listing together with the total number of
// rows matching the filter (before pagination was applied).
type TaskPage struct {
	Tasks []domain.Task
	Total int
}

// ListFilter narrows and paginates a task listing. Page and Limit must be
// normalized by the caller (page >= 1, limit > 0); Status nil means all
// statuses.
type ListFilter struct {
	Page   int
	Limit  int
	Status *domain.TaskStatus
}

// Offset returns the number of rows to skip for the filter's page.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if the owning user does not exist.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID, regardless of owner.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update persists the task's mutable fields (title, description, status,
	// priority) and bumps the update timestamp.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of the given user's tasks matching the filter,
	// ordered by creation time descending, together with the total count.
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*TaskPage, error)

	// ListAll returns one page of every user's tasks ordered by creation
	// time descending, with each task's OwnerEmail populated. Used by the
	// admin listing; the Status filter is ignored.
	ListAll(ctx context.Context, filter ListFilter) (*TaskPage, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
