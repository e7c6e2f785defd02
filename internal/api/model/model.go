package model

import (
	"database/sql"
	"time"
)

type Task struct {
	TaskID         string         `db:"task_id"`
	UserID         string         `db:"user_id"`
	Status         string         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	SourceURL      sql.NullString `db:"source_url"`
	OutputVideoURL sql.NullString `db:"output_video_url"`
	ThumbnailURL   sql.NullString `db:"thumbnail_url"`
	QueueRef       sql.NullString `db:"queue_ref"`
}
