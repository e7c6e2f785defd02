package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/hoangnd/video-processing-be/internal/metrics"
	"github.com/hoangnd/video-processing-be/internal/worker/domain"
	"github.com/hoangnd/video-processing-be/shared/s3"
)

// TaskStore is the record-store surface the pipeline commits through.
type TaskStore interface {
	GetTaskByID(ctx context.Context, taskID string) (*domain.Task, error)
	FinalizeProcessed(ctx context.Context, taskID string, video, thumbnail domain.ArtifactRef) error
	MarkFailed(ctx context.Context, taskID string) error
}

// BlobStore moves artifacts between the blob store and the working directory.
type BlobStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	DownloadToFile(ctx context.Context, key, path string) error
}

// Transcoder runs the external conversion and thumbnail steps.
type Transcoder interface {
	ConvertToMP4(ctx context.Context, inputPath, outputPath string) error
	ExtractThumbnail(ctx context.Context, inputPath, outputPath string) error
}

// Pipeline is the transcode pipeline for a single delivered task id:
// download, convert, thumbnail, upload, finalize. The working directory is
// removed on every exit path. Conversion and thumbnail extraction are
// best-effort: a missing output file skips that artifact rather than failing
// the task, so a task can finalize as PROCESSED with either, both, or
// neither artifact.
type Pipeline struct {
	logger     *slog.Logger
	store      TaskStore
	blobs      BlobStore
	transcoder Transcoder
	workDir    string
}

// PipelineConfig holds pipeline dependencies
type PipelineConfig struct {
	Logger     *slog.Logger
	Store      TaskStore
	Blobs      BlobStore
	Transcoder Transcoder
	WorkDir    string
}

// NewPipeline creates a new Pipeline instance
func NewPipeline(cfg *PipelineConfig) *Pipeline {
	workDir := cfg.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &Pipeline{
		logger:     cfg.Logger,
		store:      cfg.Store,
		blobs:      cfg.Blobs,
		transcoder: cfg.Transcoder,
		workDir:    workDir,
	}
}

// Run executes the pipeline for one task id. A missing row or a row whose
// upload never completed is a no-op, not an error: the pipeline requires
// ingestion to have finished first.
func (p *Pipeline) Run(ctx context.Context, taskID string) error {
	start := time.Now()

	task, err := p.store.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			p.logger.Warn("Task not found, skipping",
				slog.String("task_id", taskID),
			)
			return nil
		}
		err = fmt.Errorf("failed to fetch task: %w", err)
		p.fail(ctx, taskID, start, err)
		return err
	}

	if task.SourceURL == "" {
		p.logger.Warn("Task has no source upload, skipping",
			slog.String("task_id", taskID),
			slog.String("status", task.Status),
		)
		return nil
	}

	video, thumbnail, err := p.process(ctx, task)
	if err != nil {
		p.fail(ctx, task.TaskID, start, err)
		return err
	}

	if err := p.store.FinalizeProcessed(ctx, task.TaskID, video, thumbnail); err != nil {
		p.fail(ctx, task.TaskID, start, err)
		return err
	}

	metrics.PipelineRunsTotal.WithLabelValues("processed").Inc()
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("Pipeline completed",
		slog.String("task_id", task.TaskID),
		slog.Bool("has_video", video.Valid),
		slog.Bool("has_thumbnail", thumbnail.Valid),
		slog.Duration("duration", time.Since(start)),
	)

	return nil
}

// fail records a failed run: the row is moved to FAILED and the run is
// counted and timed. The mark is best effort; a row already in a terminal
// state is left untouched by the store's status guard.
func (p *Pipeline) fail(ctx context.Context, taskID string, start time.Time, cause error) {
	p.logger.Error("Pipeline failed",
		slog.String("task_id", taskID),
		slog.Any("error", cause),
	)

	if markErr := p.store.MarkFailed(ctx, taskID); markErr != nil {
		p.logger.Error("Failed to mark task as FAILED",
			slog.String("task_id", taskID),
			slog.Any("error", markErr),
		)
	}

	metrics.PipelineRunsTotal.WithLabelValues("failed").Inc()
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())
}

// process runs the download -> convert -> thumbnail -> upload steps inside a
// per-task working directory that is removed before returning.
func (p *Pipeline) process(ctx context.Context, task *domain.Task) (video, thumbnail domain.ArtifactRef, err error) {
	taskDir := filepath.Join(p.workDir, "task-"+task.TaskID)
	if err = os.MkdirAll(taskDir, 0o755); err != nil {
		return video, thumbnail, fmt.Errorf("failed to create working directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(taskDir); rmErr != nil {
			p.logger.Error("Failed to remove working directory",
				slog.String("task_id", task.TaskID),
				slog.String("dir", taskDir),
				slog.Any("error", rmErr),
			)
		}
	}()

	sourceKey, err := s3.ObjectKey(task.SourceURL)
	if err != nil {
		return video, thumbnail, fmt.Errorf("bad source reference: %w", err)
	}

	sourcePath := filepath.Join(taskDir, "source"+path.Ext(sourceKey))
	if err = p.blobs.DownloadToFile(ctx, sourceKey, sourcePath); err != nil {
		return video, thumbnail, fmt.Errorf("failed to download source video: %w", err)
	}

	p.logger.Info("Source video downloaded",
		slog.String("task_id", task.TaskID),
		slog.String("key", sourceKey),
	)

	outputPath := filepath.Join(taskDir, "output.mp4")
	if err = p.transcoder.ConvertToMP4(ctx, sourcePath, outputPath); err != nil {
		return video, thumbnail, fmt.Errorf("failed to invoke transcode: %w", err)
	}

	if fileExists(outputPath) {
		url, upErr := p.uploadFile(ctx, outputPath, "processed/"+task.TaskID+".mp4", "video/mp4")
		if upErr != nil {
			return video, thumbnail, fmt.Errorf("failed to upload transcoded video: %w", upErr)
		}
		video = domain.Artifact(url)
	} else {
		p.logger.Warn("Transcode produced no output, skipping video artifact",
			slog.String("task_id", task.TaskID),
		)
	}

	thumbPath := filepath.Join(taskDir, "thumbnail.jpg")
	if err = p.transcoder.ExtractThumbnail(ctx, outputPath, thumbPath); err != nil {
		return video, thumbnail, fmt.Errorf("failed to invoke thumbnail extraction: %w", err)
	}

	if fileExists(thumbPath) {
		url, upErr := p.uploadFile(ctx, thumbPath, "thumbnails/"+task.TaskID+".jpg", "image/jpeg")
		if upErr != nil {
			return video, thumbnail, fmt.Errorf("failed to upload thumbnail: %w", upErr)
		}
		thumbnail = domain.Artifact(url)
	} else {
		p.logger.Warn("Thumbnail extraction produced no output, skipping thumbnail artifact",
			slog.String("task_id", task.TaskID),
		)
	}

	return video, thumbnail, nil
}

func (p *Pipeline) uploadFile(ctx context.Context, localPath, key, contentType string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	return p.blobs.Upload(ctx, key, f, contentType)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
