package admission

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/hoangnd/video-processing-be/internal/api/domain"
	"github.com/hoangnd/video-processing-be/internal/api/model"
)

// Outcome is the result of the admission gate.
type Outcome int

const (
	OutcomeAdmitted Outcome = iota
	OutcomeGlobalQuotaExhausted
	OutcomeUserQuotaExhausted
	OutcomeUnsupportedType
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdmitted:
		return "admitted"
	case OutcomeGlobalQuotaExhausted:
		return "global_quota_exhausted"
	case OutcomeUserQuotaExhausted:
		return "user_quota_exhausted"
	case OutcomeUnsupportedType:
		return "unsupported_type"
	default:
		return "unknown"
	}
}

// TaskScanner provides the daily task scan the quota checks count over.
type TaskScanner interface {
	ListTasksCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Task, error)
}

// Checker gates uploads on the daily quotas and the content-type allow-list.
// Checks run in a fixed order: global quota, user quota, content type; the
// first failing check wins.
type Checker struct {
	store       TaskScanner
	globalLimit int
	userLimit   int
	logger      *slog.Logger
	now         func() time.Time
}

func NewChecker(store TaskScanner, globalLimit, userLimit int, logger *slog.Logger) *Checker {
	return &Checker{
		store:       store,
		globalLimit: globalLimit,
		userLimit:   userLimit,
		logger:      logger,
		now:         time.Now,
	}
}

// Check evaluates the admission gate for one upload attempt. Both quota
// checks rescan all of today's rows on every call; the per-user count
// filters that same scan in memory rather than issuing a second query.
func (c *Checker) Check(ctx context.Context, userID, contentType string) (Outcome, error) {
	startOfDay, endOfDay := c.dayBounds()

	tasks, err := c.store.ListTasksCreatedBetween(ctx, startOfDay, endOfDay)
	if err != nil {
		return OutcomeAdmitted, fmt.Errorf("failed to scan today's tasks: %w", err)
	}

	if len(tasks) >= c.globalLimit {
		c.logger.Warn("Global daily upload quota exhausted",
			slog.String("user_id", userID),
			slog.Int("today_count", len(tasks)),
			slog.Int("limit", c.globalLimit),
		)
		return OutcomeGlobalQuotaExhausted, nil
	}

	userCount := 0
	for _, task := range tasks {
		if task.UserID == userID {
			userCount++
		}
	}

	if userCount >= c.userLimit {
		c.logger.Warn("User daily upload quota exhausted",
			slog.String("user_id", userID),
			slog.Int("user_count", userCount),
			slog.Int("limit", c.userLimit),
		)
		return OutcomeUserQuotaExhausted, nil
	}

	if !slices.Contains(domain.AllowedContentTypes, contentType) {
		c.logger.Warn("Unsupported upload content type",
			slog.String("user_id", userID),
			slog.String("content_type", contentType),
		)
		return OutcomeUnsupportedType, nil
	}

	return OutcomeAdmitted, nil
}

// dayBounds returns the server-local calendar day containing now.
func (c *Checker) dayBounds() (time.Time, time.Time) {
	now := c.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.Add(24 * time.Hour)
}
