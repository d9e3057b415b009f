package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("defaults status and priority", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask(userID, "write report", "quarterly numbers", "", "")
		require.NoError(t, err)

		assert.Equal(t, TaskStatusTodo, task.Status)
		assert.Equal(t, TaskPriorityMedium, task.Priority)
		assert.Equal(t, userID, task.UserID)
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	})

	t.Run("explicit status and priority", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask(userID, "deploy", "", TaskStatusInProgress, TaskPriorityHigh)
		require.NoError(t, err)

		assert.Equal(t, TaskStatusInProgress, task.Status)
		assert.Equal(t, TaskPriorityHigh, task.Priority)
	})

	tests := []struct {
		name     string
		userID   uuid.UUID
		title    string
		status   TaskStatus
		priority TaskPriority
		wantErr  error
	}{
		{
			name:    "missing owner",
			userID:  uuid.Nil,
			title:   "orphan",
			wantErr: ErrEmptyTaskOwner,
		},
		{
			name:    "empty title",
			userID:  userID,
			wantErr: ErrEmptyTaskTitle,
		},
		{
			name:    "unknown status",
			userID:  userID,
			title:   "ok",
			status:  "PAUSED",
			wantErr: ErrInvalidStatus,
		},
		{
			name:     "unknown priority",
			userID:   userID,
			title:    "ok",
			priority: "URGENT",
			wantErr:  ErrInvalidPriority,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewTask(tt.userID, tt.title, "", tt.status, tt.priority)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTaskStatusIsValid(t *testing.T) {
	t.Parallel()

	for _, status := range []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone} {
		assert.True(t, status.IsValid())
	}
	assert.False(t, TaskStatus("").IsValid())
	assert.False(t, TaskStatus("ARCHIVED").IsValid())
}

func TestTaskPriorityIsValid(t *testing.T) {
	t.Parallel()

	for _, priority := range []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh} {
		assert.True(t, priority.IsValid())
	}
	assert.False(t, TaskPriority("CRITICAL").IsValid())
}
