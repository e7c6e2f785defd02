package dto

import "github.com/hoangnd/video-processing-be/internal/api/domain"

type UploadResponse struct {
	Status             string      `json:"status"`
	TaskID             string      `json:"task_id,omitempty"`
	InternalStatusCode domain.Code `json:"internal_status_code"`
}

type ListTasksRequest struct {
	UserID   string `form:"user_id" binding:"required"`
	TaskID   string `form:"task_id"`
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

type ListTasksResponse struct {
	Status     string    `json:"status"`
	Data       []TaskDTO `json:"data"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

type TaskDTO struct {
	TaskID       string `json:"task_id"`
	UserID       string `json:"user_id"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	VideoURL     string `json:"video_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

type TaskDetailRequest struct {
	TaskID string `form:"task_id" binding:"required"`
	Type   string `form:"type" binding:"required"`
}

type TaskDetailResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}
