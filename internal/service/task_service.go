package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskvault/taskvault-api/internal/cache"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/platform/logger"
	"github.com/taskvault/taskvault-api/internal/store"
)

// Default pagination applied when the caller provides no or invalid values.
const (
	defaultPage  = 1
	defaultLimit = 10
)

// TaskListResult is one page of a task listing.
type TaskListResult struct {
	Tasks []domain.Task `json:"tasks"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
}

// TaskUpdate carries the mutable task fields for an update. Nil fields are
// left unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
}

// TaskService implements task CRUD with a read-through, write-invalidated
// cache in front of the relational store.
//
// Writes commit to the store first and invalidate the cache before
// returning, so the owning user never observes stale data after their own
// write. Invalidation failures are logged as a bounded staleness risk and
// never surfaced: a successful write must not look like a failure because
// the cache was unavailable.
type TaskService struct {
	taskStore store.TaskStore
	cache     cache.TaskCache
	cacheTTL  time.Duration
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService with the given dependencies.
// If logger is nil, a default logger will be used.
func NewTaskService(
	taskStore store.TaskStore,
	taskCache cache.TaskCache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskService{
		taskStore: taskStore,
		cache:     taskCache,
		cacheTTL:  cacheTTL,
		logger:    logger.With(slog.String("component", "task_service")),
	}
}

// Create stores a new task for the user and invalidates their cached
// listings.
func (s *TaskService) Create(
	ctx context.Context,
	userID uuid.UUID,
	title, description string,
	status domain.TaskStatus,
	priority domain.TaskPriority,
) (*domain.Task, error) {
	task, err := domain.NewTask(userID, title, description, status, priority)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	return task, nil
}

// GetTasks returns one page of the user's tasks, consulting the cache
// first. Pagination is normalized to page >= 1 and limit > 0 (defaults
// 1/10); a nil status means all statuses.
func (s *TaskService) GetTasks(
	ctx context.Context,
	userID uuid.UUID,
	page, limit int,
	status *domain.TaskStatus,
) (*TaskListResult, error) {
	page, limit = normalizePagination(page, limit)

	key := cache.PageKey{UserID: userID, Page: page, Limit: limit, Status: status}
	if result := s.cachedPage(ctx, key); result != nil {
		return result, nil
	}

	taskPage, err := s.taskStore.List(ctx, userID, store.ListFilter{
		Page:   page,
		Limit:  limit,
		Status: status,
	})
	if err != nil {
		return nil, err
	}

	result := newListResult(taskPage, page, limit)
	s.storePage(ctx, key, result)
	return result, nil
}

// GetAllTasks returns one page of every user's tasks with owner emails,
// for the admin listing. Cached under shared admin keys that are
// invalidated on any user-scoped mutation, since admin views aggregate all
// users.
func (s *TaskService) GetAllTasks(
	ctx context.Context,
	page, limit int,
) (*TaskListResult, error) {
	page, limit = normalizePagination(page, limit)

	key := cache.PageKey{Page: page, Limit: limit}
	if result := s.cachedPage(ctx, key); result != nil {
		return result, nil
	}

	taskPage, err := s.taskStore.ListAll(ctx, store.ListFilter{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}

	result := newListResult(taskPage, page, limit)
	s.storePage(ctx, key, result)
	return result, nil
}

// GetTaskByID fetches a single task, enforcing ownership.
// Returns store.ErrTaskNotFound if the task does not exist, and
// ErrTaskAccessDenied if the requester is neither the owner nor an admin.
// The ownership check runs on every call and is never cached.
func (s *TaskService) GetTaskByID(
	ctx context.Context,
	taskID, requesterID uuid.UUID,
	isAdmin bool,
) (*domain.Task, error) {
	return s.getOwned(ctx, taskID, requesterID, isAdmin)
}

// Update applies the non-nil fields of the update to the task, enforcing
// ownership, and invalidates the owner's cached listings. The owner is the
// task's owner, not the requester: an admin editing another user's task
// invalidates that user's cache.
func (s *TaskService) Update(
	ctx context.Context,
	taskID, requesterID uuid.UUID,
	isAdmin bool,
	update TaskUpdate,
) (*domain.Task, error) {
	task, err := s.getOwned(ctx, taskID, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	if update.Title == nil && update.Description == nil &&
		update.Status == nil && update.Priority == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		return nil, err
	}

	s.invalidate(ctx, task.UserID)
	return task, nil
}

// Delete removes the task, enforcing ownership, and invalidates the
// owner's cached listings.
func (s *TaskService) Delete(
	ctx context.Context,
	taskID, requesterID uuid.UUID,
	isAdmin bool,
) error {
	task, err := s.getOwned(ctx, taskID, requesterID, isAdmin)
	if err != nil {
		return err
	}

	if err := s.taskStore.Delete(ctx, taskID); err != nil {
		return err
	}

	s.invalidate(ctx, task.UserID)
	return nil
}

// getOwned fetches a task and re-runs the authorization check: the
// requester must be the owner or an admin.
func (s *TaskService) getOwned(
	ctx context.Context,
	taskID, requesterID uuid.UUID,
	isAdmin bool,
) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && task.UserID != requesterID {
		return nil, ErrTaskAccessDenied
	}

	return task, nil
}

// cachedPage returns the cached listing for the key, or nil on a miss or
// any cache problem.
func (s *TaskService) cachedPage(ctx context.Context, key cache.PageKey) *TaskListResult {
	log := logger.FromContextOrDefault(ctx, s.logger)

	payload, err := s.cache.GetPage(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn("cache read error, falling through to store",
				slog.String("key", key.String()),
				slog.String("error", err.Error()))
		}
		return nil
	}

	var result TaskListResult
	if err := json.Unmarshal(payload, &result); err != nil {
		// A corrupt entry is treated as a miss and will be overwritten.
		log.Warn("failed to decode cached page",
			slog.String("key", key.String()),
			slog.String("error", err.Error()))
		return nil
	}

	return &result
}

// storePage serializes the listing into the cache. Failures only cost
// performance and are handled inside the cache.
func (s *TaskService) storePage(ctx context.Context, key cache.PageKey, result *TaskListResult) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	payload, err := json.Marshal(result)
	if err != nil {
		log.Warn("failed to encode page for caching",
			slog.String("key", key.String()),
			slog.String("error", err.Error()))
		return
	}

	if err := s.cache.SetPage(ctx, key, payload, s.cacheTTL); err != nil {
		log.Warn("cache write error",
			slog.String("key", key.String()),
			slog.String("error", err.Error()))
	}
}

// invalidate drops the user's cached listings (and the admin pages) after a
// successful write. Runs synchronously so a read issued by the same caller
// after this returns cannot observe pre-write data.
func (s *TaskService) invalidate(ctx context.Context, userID uuid.UUID) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		log.Warn("cache invalidation error, stale entries expire by TTL",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
	}
}

// normalizePagination clamps page and limit to usable values.
func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// newListResult assembles a listing page with its pagination math:
// pages = ceil(total/limit).
func newListResult(taskPage *store.TaskPage, page, limit int) *TaskListResult {
	return &TaskListResult{
		Tasks: taskPage.Tasks,
		Total: taskPage.Total,
		Page:  page,
		Pages: (taskPage.Total + limit - 1) / limit,
	}
}
