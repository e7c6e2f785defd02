package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hoangnd/video-processing-be/internal/api/domain"
	"github.com/hoangnd/video-processing-be/internal/api/model"
	"github.com/hoangnd/video-processing-be/internal/api/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatusStore struct {
	tasks   map[string]*model.Task
	listed  []model.Task
	listErr error
	getErr  error
}

func (f *fakeStatusStore) GetTaskByID(ctx context.Context, taskID string) (*model.Task, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	task, ok := f.tasks[taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (f *fakeStatusStore) ListTasks(ctx context.Context, filter storage.TaskFilter) ([]model.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

func processedTask(taskID string) *model.Task {
	return &model.Task{
		TaskID:       taskID,
		UserID:       "user-a",
		Status:       domain.TaskStatusProcessed,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		SourceURL:    sql.NullString{String: "https://b.s3.r.amazonaws.com/videos/" + taskID + "/in.mp4", Valid: true},
		ThumbnailURL: sql.NullString{String: "https://b.s3.r.amazonaws.com/thumbnails/" + taskID + ".jpg", Valid: true},
	}
}

func TestStatusService_ListTasks_ByID(t *testing.T) {
	task := processedTask("task-1")
	store := &fakeStatusStore{tasks: map[string]*model.Task{"task-1": task}}
	svc := NewStatusService(slog.Default(), store)

	// The row is returned even though the caller supplies a different
	// user_id; ownership is not checked on this path.
	tasks, cursor, err := svc.ListTasks(context.Background(), "someone-else", "task-1", 20, nil)

	require.NoError(t, err)
	assert.Nil(t, cursor)
	require.Len(t, tasks, 1)
	assert.Equal(t, "task-1", tasks[0].TaskID)
}

func TestStatusService_ListTasks_MissingIDIsEmpty(t *testing.T) {
	store := &fakeStatusStore{tasks: map[string]*model.Task{}}
	svc := NewStatusService(slog.Default(), store)

	tasks, cursor, err := svc.ListTasks(context.Background(), "user-a", "nope", 20, nil)

	require.NoError(t, err)
	assert.Nil(t, cursor)
	assert.Empty(t, tasks)
}

func TestStatusService_ListTasks_Pagination(t *testing.T) {
	listed := []model.Task{
		{TaskID: "t-3", CreatedAt: time.Unix(300, 0)},
		{TaskID: "t-2", CreatedAt: time.Unix(200, 0)},
		{TaskID: "t-1", CreatedAt: time.Unix(100, 0)},
	}
	store := &fakeStatusStore{listed: listed}
	svc := NewStatusService(slog.Default(), store)

	tasks, cursor, err := svc.ListTasks(context.Background(), "user-a", "", 2, nil)

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.NotNil(t, cursor)
	assert.Equal(t, "t-2", cursor.TaskID)
	assert.Equal(t, time.Unix(200, 0), cursor.CreatedAt)
}

func TestStatusService_ListTasks_NoMoreResults(t *testing.T) {
	store := &fakeStatusStore{listed: []model.Task{{TaskID: "t-1"}}}
	svc := NewStatusService(slog.Default(), store)

	tasks, cursor, err := svc.ListTasks(context.Background(), "user-a", "", 20, nil)

	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Nil(t, cursor)
}

func TestStatusService_GetDetail(t *testing.T) {
	task := processedTask("task-1")

	tests := []struct {
		name   string
		taskID string
		kind   string
		want   string
	}{
		{
			name:   "thumbnail kind returns thumbnail URL",
			taskID: "task-1",
			kind:   DetailKindThumbnail,
			want:   task.ThumbnailURL.String,
		},
		{
			name:   "progress kind returns status",
			taskID: "task-1",
			kind:   DetailKindProgress,
			want:   domain.TaskStatusProcessed,
		},
		{
			name:   "unknown kind is empty, not an error",
			taskID: "task-1",
			kind:   "subtitles",
			want:   "",
		},
		{
			name:   "missing task is empty, not an error",
			taskID: "ghost",
			kind:   DetailKindProgress,
			want:   "",
		},
	}

	store := &fakeStatusStore{tasks: map[string]*model.Task{"task-1": task}}
	svc := NewStatusService(slog.Default(), store)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetDetail(context.Background(), tt.taskID, tt.kind)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// progress must always mirror the status field a listing would return.
func TestStatusService_ProgressMatchesListedStatus(t *testing.T) {
	for _, status := range []string{
		domain.TaskStatusSaved,
		domain.TaskStatusProcessing,
		domain.TaskStatusProcessed,
		domain.TaskStatusFailed,
	} {
		task := &model.Task{TaskID: "task-1", Status: status}
		store := &fakeStatusStore{tasks: map[string]*model.Task{"task-1": task}}
		svc := NewStatusService(slog.Default(), store)

		listed, _, err := svc.ListTasks(context.Background(), "user-a", "task-1", 20, nil)
		require.NoError(t, err)
		require.Len(t, listed, 1)

		progress, err := svc.GetDetail(context.Background(), "task-1", DetailKindProgress)
		require.NoError(t, err)

		assert.Equal(t, listed[0].Status, progress)
	}
}

func TestStatusService_GetDetail_StoreError(t *testing.T) {
	store := &fakeStatusStore{getErr: errors.New("connection refused")}
	svc := NewStatusService(slog.Default(), store)

	_, err := svc.GetDetail(context.Background(), "task-1", DetailKindProgress)
	require.Error(t, err)
}
