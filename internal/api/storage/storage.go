package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hoangnd/video-processing-be/internal/api/domain"
	"github.com/hoangnd/video-processing-be/internal/api/model"
	"github.com/hoangnd/video-processing-be/shared/postgresql"
	"github.com/jmoiron/sqlx"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

func (s *Storage) CreateTask(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (
			task_id, user_id, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		task.TaskID,
		task.UserID,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, taskID string) (*model.Task, error) {
	var task model.Task
	query := `
		SELECT
			task_id, user_id, status, created_at, updated_at,
			source_url, output_video_url, thumbnail_url, queue_ref
		FROM tasks
		WHERE task_id = $1
	`

	err := s.db.GetContext(ctx, &task, query, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

// ListTasksCreatedBetween returns every task created in [from, to).
// The admission checks count these rows in memory rather than issuing
// per-user count queries, matching the full-day rescan the quotas are
// defined over.
func (s *Storage) ListTasksCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	query := `
		SELECT
			task_id, user_id, status, created_at, updated_at,
			source_url, output_video_url, thumbnail_url, queue_ref
		FROM tasks
		WHERE created_at >= $1 AND created_at < $2
	`

	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by creation time: %w", err)
	}

	return tasks, nil
}

// MarkTaskEnqueued records the upload location and the queue message id
// and moves the task into PROCESSING in a single targeted update.
func (s *Storage) MarkTaskEnqueued(ctx context.Context, taskID, sourceURL, queueRef string) error {
	query := `
		UPDATE tasks
		SET source_url = $1,
		    queue_ref = $2,
		    status = $3,
		    updated_at = NOW()
		WHERE task_id = $4
	`

	_, err := s.db.ExecContext(ctx, query, sourceURL, queueRef, domain.TaskStatusProcessing, taskID)
	if err != nil {
		return fmt.Errorf("failed to mark task enqueued: %w", err)
	}

	return nil
}

type TaskFilter struct {
	UserID   string
	PageSize int
	Cursor   *TaskCursor
}

type TaskCursor struct {
	CreatedAt time.Time
	TaskID    string
}

func (s *Storage) ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := `
        SELECT
            task_id, user_id, status, created_at, updated_at,
            source_url, output_video_url, thumbnail_url, queue_ref
        FROM tasks
        WHERE user_id = $1
    `
	args := []interface{}{filter.UserID}
	argIdx := 2

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, task_id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.TaskID)
		argIdx += 2
	}

	// Order by created_at DESC, task_id DESC for consistent pagination
	query += " ORDER BY created_at DESC, task_id DESC"

	// Fetch one extra to determine if there are more results
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}
