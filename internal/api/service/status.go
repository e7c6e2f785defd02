package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hoangnd/video-processing-be/internal/api/domain"
	"github.com/hoangnd/video-processing-be/internal/api/model"
	"github.com/hoangnd/video-processing-be/internal/api/storage"
)

// Detail kinds accepted by GetDetail. Anything else resolves to empty.
const (
	DetailKindThumbnail = "thumbnail"
	DetailKindProgress  = "progress"
)

// StatusStore is the record-store surface the read paths go through.
type StatusStore interface {
	GetTaskByID(ctx context.Context, taskID string) (*model.Task, error)
	ListTasks(ctx context.Context, filter storage.TaskFilter) ([]model.Task, error)
}

// StatusService serves the task lifecycle read paths. Missing tasks are empty
// results, not errors, on every path.
type StatusService struct {
	logger *slog.Logger
	store  StatusStore
}

func NewStatusService(logger *slog.Logger, store StatusStore) *StatusService {
	return &StatusService{
		logger: logger,
		store:  store,
	}
}

// ListTasks returns tasks for the user, newest first. When taskID is given it
// returns at most that one row; the row is not checked against userID, so any
// caller supplying a task id can read that task's summary.
func (s *StatusService) ListTasks(ctx context.Context, userID, taskID string, pageSize int, cursor *storage.TaskCursor) ([]model.Task, *storage.TaskCursor, error) {
	if taskID != "" {
		task, err := s.store.GetTaskByID(ctx, taskID)
		if err != nil {
			if errors.Is(err, domain.ErrTaskNotFound) {
				return nil, nil, nil
			}
			return nil, nil, err
		}
		return []model.Task{*task}, nil, nil
	}

	tasks, err := s.store.ListTasks(ctx, storage.TaskFilter{
		UserID:   userID,
		PageSize: pageSize,
		Cursor:   cursor,
	})
	if err != nil {
		return nil, nil, err
	}

	var nextCursor *storage.TaskCursor
	if len(tasks) > pageSize {
		tasks = tasks[:pageSize]
		last := tasks[len(tasks)-1]
		nextCursor = &storage.TaskCursor{
			CreatedAt: last.CreatedAt,
			TaskID:    last.TaskID,
		}
	}

	return tasks, nextCursor, nil
}

// GetDetail returns a single field of the task. Unknown kinds and missing
// tasks both yield an empty value rather than an error.
func (s *StatusService) GetDetail(ctx context.Context, taskID, kind string) (string, error) {
	task, err := s.store.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			s.logger.Debug("Task detail requested for unknown task",
				slog.String("task_id", taskID),
				slog.String("kind", kind),
			)
			return "", nil
		}
		return "", err
	}

	switch kind {
	case DetailKindThumbnail:
		return task.ThumbnailURL.String, nil
	case DetailKindProgress:
		return task.Status, nil
	default:
		return "", nil
	}
}
