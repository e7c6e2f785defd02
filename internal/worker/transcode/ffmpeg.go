package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
)

// Thumbnail extraction parameters: one frame, ten seconds in, scaled to
// 320px wide with the aspect ratio preserved.
const (
	thumbnailTimestamp = "00:00:10"
	thumbnailScale     = "scale=320:-1"
)

// FFmpeg invokes the ffmpeg binary for video conversion and thumbnail
// extraction. A non-zero exit is logged and swallowed: the caller decides
// what to do by checking whether the output file materialized. Only a
// failure to launch the binary at all is returned as an error.
type FFmpeg struct {
	binary string
	logger *slog.Logger
}

// NewFFmpeg creates a runner for the given ffmpeg binary path.
// An empty path falls back to "ffmpeg" on PATH.
func NewFFmpeg(binary string, logger *slog.Logger) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{
		binary: binary,
		logger: logger,
	}
}

// ConvertToMP4 transcodes inputPath into a normalized MP4 at outputPath.
func (f *FFmpeg) ConvertToMP4(ctx context.Context, inputPath, outputPath string) error {
	args := []string{
		"-i", inputPath, // input file
		"-c:v", "libx264", // video codec
		"-preset", "fast", // encoding speed
		"-crf", "22", // quality (lower is better, range: 0-51)
		outputPath,
	}

	return f.run(ctx, "convert", args)
}

// ExtractThumbnail grabs a single scaled frame from inputPath into outputPath.
func (f *FFmpeg) ExtractThumbnail(ctx context.Context, inputPath, outputPath string) error {
	args := []string{
		"-i", inputPath,
		"-ss", thumbnailTimestamp,
		"-vf", thumbnailScale,
		"-frames:v", "1",
		outputPath,
	}

	return f.run(ctx, "thumbnail", args)
}

func (f *FFmpeg) run(ctx context.Context, step string, args []string) error {
	cmd := exec.CommandContext(ctx, f.binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		f.logger.Debug("ffmpeg step completed",
			slog.String("step", step),
		)
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Best-effort policy: a failed encode is not a failed task.
		// The output file simply never materializes.
		f.logger.Error("ffmpeg exited with an error",
			slog.String("step", step),
			slog.Int("exit_code", exitErr.ExitCode()),
			slog.String("stderr", stderr.String()),
		)
		return nil
	}

	return fmt.Errorf("failed to run ffmpeg %s step: %w", step, err)
}
