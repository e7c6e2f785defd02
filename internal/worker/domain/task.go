package domain

import "errors"

// Task status constants, mirrored from the API side.
const (
	TaskStatusSaved      = "SAVED"
	TaskStatusProcessing = "PROCESSING"
	TaskStatusProcessed  = "PROCESSED"
	TaskStatusFailed     = "FAILED"
)

// Task represents a task row as the worker reads it
type Task struct {
	TaskID    string
	UserID    string
	Status    string
	SourceURL string // empty when ingestion never finished the upload
}

// TaskMessage represents a task message from RabbitMQ
type TaskMessage struct {
	TaskID      string `json:"task_id"`
	DeliveryTag uint64 `json:"-"`
}

// ArtifactRef is an optional blob-store reference produced by the pipeline.
// An invalid ref means the artifact was never produced; the distinction is
// carried in the type rather than an empty-string sentinel.
type ArtifactRef struct {
	URL   string
	Valid bool
}

// Artifact builds a valid reference.
func Artifact(url string) ArtifactRef {
	return ArtifactRef{URL: url, Valid: true}
}

var (
	// ErrTaskNotFound is returned when a task cannot be found in the database
	ErrTaskNotFound = errors.New("task not found")
)
