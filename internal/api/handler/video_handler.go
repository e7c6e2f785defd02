package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hoangnd/video-processing-be/internal/api/domain"
	"github.com/hoangnd/video-processing-be/internal/api/dto"
)

// Upload handles POST /upload
// Accepts a multipart video upload and hands it to the ingest pipeline.
// Admission rejections come back as HTTP 200 with the internal status code;
// only infrastructure failures surface as a processing error.
func (h *VideoHandler) Upload(c *gin.Context) {
	userID := c.PostForm("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.UploadResponse{
			Status:             "error",
			InternalStatusCode: domain.CodeInvalidInput,
		})
		return
	}

	fileHeader, err := c.FormFile("video_file")
	if err != nil {
		h.logger.Error("Missing video file in upload request",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, dto.UploadResponse{
			Status:             "error",
			InternalStatusCode: domain.CodeInvalidInput,
		})
		return
	}

	h.logger.Info("Video upload requested",
		slog.String("user_id", userID),
		slog.String("filename", fileHeader.Filename),
		slog.Int64("size", fileHeader.Size),
	)

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, dto.UploadResponse{
			Status:             "error",
			InternalStatusCode: domain.CodeFileProcessingFailed,
		})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	taskID, code, err := h.ingest.Submit(c.Request.Context(), userID, file, fileHeader.Filename, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.UploadResponse{
			Status:             "error",
			InternalStatusCode: code,
		})
		return
	}

	if taskID == "" {
		// Admission rejection: structured outcome, no task created.
		c.JSON(http.StatusOK, dto.UploadResponse{
			Status:             "error",
			InternalStatusCode: code,
		})
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{
		Status:             "ok",
		TaskID:             taskID,
		InternalStatusCode: code,
	})
}

// ListTasks handles GET /tasks
// Lists tasks for a user, or a single task when task_id is supplied.
func (h *VideoHandler) ListTasks(c *gin.Context) {
	var req dto.ListTasksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	if req.PageSize > 100 {
		req.PageSize = 100
	}

	cursor, err := DecodeTaskCursor(req.Cursor)
	if err != nil {
		h.logger.Error("Invalid cursor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}

	tasks, nextCursor, err := h.status.ListTasks(c.Request.Context(), req.UserID, req.TaskID, req.PageSize, cursor)
	if err != nil {
		h.logger.Error("Failed to list tasks", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list tasks",
		})
		return
	}

	taskResponse := make([]dto.TaskDTO, len(tasks))
	for i, task := range tasks {
		taskResponse[i] = dto.TaskDTO{
			TaskID:       task.TaskID,
			UserID:       task.UserID,
			Status:       task.Status,
			CreatedAt:    task.CreatedAt.Format(time.RFC3339),
			UpdatedAt:    task.UpdatedAt.Format(time.RFC3339),
			VideoURL:     task.OutputVideoURL.String,
			ThumbnailURL: task.ThumbnailURL.String,
		}
	}

	var encodedCursor string
	if nextCursor != nil {
		encodedCursor, err = EncodeTaskCursor(nextCursor)
		if err != nil {
			h.logger.Error("Failed to encode next cursor", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to encode next cursor",
			})
			return
		}
	}

	c.JSON(http.StatusOK, dto.ListTasksResponse{
		Status:     "ok",
		Data:       taskResponse,
		NextCursor: encodedCursor,
	})
}

// GetTaskDetail handles GET /task
// Returns a single detail field (thumbnail URL or progress) for a task.
// Unknown detail types and missing tasks yield an empty detail, not an error.
func (h *VideoHandler) GetTaskDetail(c *gin.Context) {
	var req dto.TaskDetailRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "task_id and type are required",
		})
		return
	}

	h.logger.Info("Task detail requested",
		slog.String("task_id", req.TaskID),
		slog.String("type", req.Type),
	)

	detail, err := h.status.GetDetail(c.Request.Context(), req.TaskID, req.Type)
	if err != nil {
		h.logger.Error("Failed to get task detail", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get task detail",
		})
		return
	}

	c.JSON(http.StatusOK, dto.TaskDetailResponse{
		Status: "ok",
		Detail: detail,
	})
}
