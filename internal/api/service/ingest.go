package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/hoangnd/video-processing-be/internal/api/admission"
	"github.com/hoangnd/video-processing-be/internal/api/domain"
	"github.com/hoangnd/video-processing-be/internal/api/model"
	"github.com/hoangnd/video-processing-be/internal/metrics"
)

// TaskStore is the record-store surface the ingest path writes through.
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	MarkTaskEnqueued(ctx context.Context, taskID, sourceURL, queueRef string) error
}

// BlobUploader streams an upload into the blob store and returns its URL.
type BlobUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// QueuePublisher hands a task id to the worker side.
type QueuePublisher interface {
	PublishWithRetry(ctx context.Context, messageID string, body []byte) error
}

// AdmissionChecker gates an upload before any record is created.
type AdmissionChecker interface {
	Check(ctx context.Context, userID, contentType string) (admission.Outcome, error)
}

// IngestService accepts uploads: admission check, task record, blob upload,
// queue handoff. The steps are sequential, non-atomic side effects; a failure
// partway leaves the task row in the last committed state.
type IngestService struct {
	logger    *slog.Logger
	admission AdmissionChecker
	store     TaskStore
	blobs     BlobUploader
	queue     QueuePublisher
}

func NewIngestService(logger *slog.Logger, checker AdmissionChecker, store TaskStore, blobs BlobUploader, queue QueuePublisher) *IngestService {
	return &IngestService{
		logger:    logger,
		admission: checker,
		store:     store,
		blobs:     blobs,
		queue:     queue,
	}
}

type taskMessage struct {
	TaskID string `json:"task_id"`
}

// Submit processes one upload. The returned code is the internal status code
// for the response body; err is non-nil only for infrastructure failures that
// map to the generic processing-error code.
func (s *IngestService) Submit(ctx context.Context, userID string, file io.Reader, filename, contentType string) (string, domain.Code, error) {
	outcome, err := s.admission.Check(ctx, userID, contentType)
	if err != nil {
		s.logger.Error("Admission check failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return "", domain.CodeFileProcessingFailed, err
	}

	if outcome != admission.OutcomeAdmitted {
		metrics.UploadsTotal.WithLabelValues(outcome.String()).Inc()
		return "", admissionCode(outcome), nil
	}

	now := time.Now()
	task := &model.Task{
		TaskID:    uuid.New().String(),
		UserID:    userID,
		Status:    domain.TaskStatusSaved,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		s.logger.Error("Failed to create task record",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		metrics.UploadsTotal.WithLabelValues("store_error").Inc()
		return "", domain.CodeFileProcessingFailed, err
	}

	// Stream the body straight into the blob store; nothing touches local
	// disk on the request path. If this fails the row stays in SAVED with
	// no source URL and is never cleaned up automatically.
	key := fmt.Sprintf("videos/%s/%s", task.TaskID, path.Base(filename))
	counted := &countingReader{r: file}

	sourceURL, err := s.blobs.Upload(ctx, key, counted, contentType)
	if err != nil {
		s.logger.Error("Failed to upload video to blob store",
			slog.String("task_id", task.TaskID),
			slog.String("key", key),
			slog.Any("error", err),
		)
		metrics.UploadsTotal.WithLabelValues("upload_error").Inc()
		return "", domain.CodeFileProcessingFailed, err
	}
	metrics.UploadBytesTotal.Add(float64(counted.n))

	// The queue message id is generated up front so the row carries its
	// queue ref before the message exists. Enqueue is the last step: by the
	// time a worker can see this task id, source_url and PROCESSING are
	// already committed.
	queueRef := uuid.New().String()
	if err := s.store.MarkTaskEnqueued(ctx, task.TaskID, sourceURL, queueRef); err != nil {
		s.logger.Error("Failed to transition task to PROCESSING",
			slog.String("task_id", task.TaskID),
			slog.Any("error", err),
		)
		metrics.UploadsTotal.WithLabelValues("store_error").Inc()
		return "", domain.CodeFileProcessingFailed, err
	}

	body, err := json.Marshal(taskMessage{TaskID: task.TaskID})
	if err != nil {
		return "", domain.CodeFileProcessingFailed, fmt.Errorf("failed to marshal task message: %w", err)
	}

	if err := s.queue.PublishWithRetry(ctx, queueRef, body); err != nil {
		s.logger.Error("Failed to enqueue task",
			slog.String("task_id", task.TaskID),
			slog.String("queue_ref", queueRef),
			slog.Any("error", err),
		)
		metrics.UploadsTotal.WithLabelValues("enqueue_error").Inc()
		return "", domain.CodeFileProcessingFailed, err
	}

	s.logger.Info("Upload accepted",
		slog.String("task_id", task.TaskID),
		slog.String("user_id", userID),
		slog.String("queue_ref", queueRef),
	)
	metrics.UploadsTotal.WithLabelValues(admission.OutcomeAdmitted.String()).Inc()

	return task.TaskID, domain.CodeSuccess, nil
}

func admissionCode(outcome admission.Outcome) domain.Code {
	switch outcome {
	case admission.OutcomeGlobalQuotaExhausted:
		return domain.CodeGlobalRateLimitExhausted
	case admission.OutcomeUserQuotaExhausted:
		return domain.CodeUserRateLimitExhausted
	case admission.OutcomeUnsupportedType:
		return domain.CodeUnsupportedFileType
	default:
		return domain.CodeInvalidInput
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
