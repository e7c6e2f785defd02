package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hoangnd/video-processing-be/internal/worker/domain"
	"github.com/jmoiron/sqlx"
)

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// GetTaskByID retrieves a task from the database by its ID
func (s *Storage) GetTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query := `
		SELECT task_id, user_id, status, source_url
		FROM tasks
		WHERE task_id = $1
	`

	var task domain.Task
	var sourceURL sql.NullString

	err := s.db.QueryRowContext(ctx, query, taskID).Scan(
		&task.TaskID,
		&task.UserID,
		&task.Status,
		&sourceURL,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if sourceURL.Valid {
		task.SourceURL = sourceURL.String
	}

	return &task, nil
}

// FinalizeProcessed moves the task into PROCESSED and records whichever
// artifact references were produced. Columns for absent artifacts are left
// untouched; a run that produced nothing still finalizes as PROCESSED.
func (s *Storage) FinalizeProcessed(ctx context.Context, taskID string, video, thumbnail domain.ArtifactRef) error {
	query := `
		UPDATE tasks
		SET status = $1,
		    updated_at = NOW()
	`
	args := []interface{}{domain.TaskStatusProcessed}
	argIdx := 2

	if video.Valid {
		query += fmt.Sprintf(", output_video_url = $%d", argIdx)
		args = append(args, video.URL)
		argIdx++
	}

	if thumbnail.Valid {
		query += fmt.Sprintf(", thumbnail_url = $%d", argIdx)
		args = append(args, thumbnail.URL)
		argIdx++
	}

	// Terminal states are never overwritten, even by a duplicate run.
	query += fmt.Sprintf(" WHERE task_id = $%d AND status NOT IN ($%d, $%d)", argIdx, argIdx+1, argIdx+2)
	args = append(args, taskID, domain.TaskStatusProcessed, domain.TaskStatusFailed)

	_, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to finalize task: %w", err)
	}

	s.logger.Info("Task finalized as PROCESSED",
		slog.String("task_id", taskID),
		slog.Bool("has_video", video.Valid),
		slog.Bool("has_thumbnail", thumbnail.Valid),
	)

	return nil
}

// MarkFailed moves the task into FAILED. No artifact references are written.
func (s *Storage) MarkFailed(ctx context.Context, taskID string) error {
	query := `
		UPDATE tasks
		SET status = $1,
		    updated_at = NOW()
		WHERE task_id = $2 AND status NOT IN ($3, $4)
	`

	_, err := s.db.ExecContext(ctx, query, domain.TaskStatusFailed, taskID,
		domain.TaskStatusProcessed, domain.TaskStatusFailed)
	if err != nil {
		return fmt.Errorf("failed to mark task failed: %w", err)
	}

	s.logger.Info("Task marked as FAILED",
		slog.String("task_id", taskID),
	)

	return nil
}
