// Package cache provides the read-through, write-invalidated cache for task
// query results. The cache is strictly a performance layer: every operation
// degrades to a miss or a no-op when the backend is absent or failing, and
// correctness never depends on it.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskvault/taskvault-api/internal/domain"
)

// ErrCacheMiss is returned by GetPage when no unexpired entry exists for the
// requested key. It is the only expected error on the read path; anything
// else indicates a backend problem and is treated as a miss by callers.
var ErrCacheMiss = errors.New("cache miss")

// adminIndexOwner is the sentinel owner for the admin "all tasks" pages.
const adminIndexOwner = "all"

// PageKey identifies one cached page of a task listing. A zero UserID marks
// the admin listing, which aggregates every user's tasks and is therefore
// invalidated on any user-scoped mutation.
type PageKey struct {
	UserID uuid.UUID
	Page   int
	Limit  int
	Status *domain.TaskStatus
}

// String returns the deterministic cache key for the page. Absent status
// filters normalize to the sentinel "all" so that equivalent queries share
// an entry.
func (k PageKey) String() string {
	status := "all"
	if k.Status != nil {
		status = string(*k.Status)
	}
	if k.UserID == uuid.Nil {
		return fmt.Sprintf("tasks:all:%d:%d", k.Page, k.Limit)
	}
	return fmt.Sprintf("tasks:%s:%d:%d:%s", k.UserID, k.Page, k.Limit, status)
}

// indexKey returns the key of the index set that tracks this entry for
// invalidation.
func (k PageKey) indexKey() string {
	if k.UserID == uuid.Nil {
		return indexKeyFor(adminIndexOwner)
	}
	return indexKeyFor(k.UserID.String())
}

func indexKeyFor(owner string) string {
	return "tasks:index:" + owner
}

// TaskCache is the read-through cache consulted by task listing operations.
//
// Implementations must make InvalidateUser remove every entry belonging to
// the user plus all admin listing entries, so that a user's read issued
// after their own write never observes stale data.
type TaskCache interface {
	// GetPage returns the serialized page stored under key, or ErrCacheMiss
	// if no unexpired entry exists.
	GetPage(ctx context.Context, key PageKey) ([]byte, error)

	// SetPage stores the serialized page under key with the given TTL,
	// overwriting any existing entry, and records the key in its owner's
	// invalidation index.
	SetPage(ctx context.Context, key PageKey, payload []byte, ttl time.Duration) error

	// InvalidateUser deletes every cached page belonging to the user, plus
	// the admin listing pages (which aggregate all users). Must be called
	// before a mutating operation returns to its caller.
	InvalidateUser(ctx context.Context, userID uuid.UUID) error
}
