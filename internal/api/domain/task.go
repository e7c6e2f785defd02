package domain

import "errors"

// Task status constants. Transitions only move forward:
// SAVED -> PROCESSING -> PROCESSED, or PROCESSING -> FAILED.
const (
	TaskStatusSaved      = "SAVED"
	TaskStatusProcessing = "PROCESSING"
	TaskStatusProcessed  = "PROCESSED"
	TaskStatusFailed     = "FAILED"
)

// Code is the internal status code returned alongside HTTP responses.
type Code int

const (
	CodeSuccess Code = iota + 1
	CodeInvalidInput
	CodeUnsupportedFileType
	CodeFileSizeExceeded
	CodeGlobalRateLimitExhausted
	CodeUserRateLimitExhausted
	CodeFileUnderProcessing
	CodeFileProcessingFailed
)

// AllowedContentTypes is the upload MIME allow-list.
var AllowedContentTypes = []string{
	"video/mp4",       // MP4
	"video/x-msvideo", // AVI
	"video/quicktime", // MOV
	"video/x-ms-wmv",  // WMV
	"video/x-flv",     // FLV
}

var (
	ErrTaskNotFound = errors.New("task not found")
)
