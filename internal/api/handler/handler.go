package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/hoangnd/video-processing-be/internal/api/domain"
	"github.com/hoangnd/video-processing-be/internal/api/model"
	"github.com/hoangnd/video-processing-be/internal/api/storage"
)

// Ingestor is the upload entry point consumed by the video handler.
type Ingestor interface {
	Submit(ctx context.Context, userID string, file io.Reader, filename, contentType string) (string, domain.Code, error)
}

// StatusReader serves the task read paths.
type StatusReader interface {
	ListTasks(ctx context.Context, userID, taskID string, pageSize int, cursor *storage.TaskCursor) ([]model.Task, *storage.TaskCursor, error)
	GetDetail(ctx context.Context, taskID, kind string) (string, error)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger *slog.Logger
	Ingest Ingestor
	Status StatusReader
}

// VideoHandler handles video upload and task status HTTP requests
type VideoHandler struct {
	logger *slog.Logger
	ingest Ingestor
	status StatusReader
}

// NewVideoHandler creates a new VideoHandler instance
func NewVideoHandler(deps *Dependencies) *VideoHandler {
	return &VideoHandler{
		logger: deps.Logger,
		ingest: deps.Ingest,
		status: deps.Status,
	}
}
