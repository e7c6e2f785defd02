package admission

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hoangnd/video-processing-be/internal/api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScanner struct {
	tasks   []model.Task
	err     error
	gotFrom time.Time
	gotTo   time.Time
	scanned int
}

func (f *fakeScanner) ListTasksCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	f.gotFrom = from
	f.gotTo = to
	f.scanned++
	return f.tasks, f.err
}

func taskFor(userID string) model.Task {
	return model.Task{TaskID: "t-" + userID, UserID: userID}
}

func newChecker(store *fakeScanner, globalLimit, userLimit int) *Checker {
	return NewChecker(store, globalLimit, userLimit, slog.Default())
}

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name        string
		today       []model.Task
		globalLimit int
		userLimit   int
		userID      string
		contentType string
		want        Outcome
	}{
		{
			name:        "admitted when under all limits",
			today:       nil,
			globalLimit: 2,
			userLimit:   1,
			userID:      "user-a",
			contentType: "video/mp4",
			want:        OutcomeAdmitted,
		},
		{
			name:        "user quota exhausted before global",
			today:       []model.Task{taskFor("user-a")},
			globalLimit: 2,
			userLimit:   1,
			userID:      "user-a",
			contentType: "video/mp4",
			want:        OutcomeUserQuotaExhausted,
		},
		{
			name:        "other user still admitted at same counts",
			today:       []model.Task{taskFor("user-a")},
			globalLimit: 2,
			userLimit:   1,
			userID:      "user-b",
			contentType: "video/quicktime",
			want:        OutcomeAdmitted,
		},
		{
			name:        "global quota exhausted for any user",
			today:       []model.Task{taskFor("user-a"), taskFor("user-b")},
			globalLimit: 2,
			userLimit:   1,
			userID:      "user-c",
			contentType: "video/mp4",
			want:        OutcomeGlobalQuotaExhausted,
		},
		{
			name:        "global check runs before user check",
			today:       []model.Task{taskFor("user-a"), taskFor("user-a")},
			globalLimit: 2,
			userLimit:   1,
			userID:      "user-a",
			contentType: "video/mp4",
			want:        OutcomeGlobalQuotaExhausted,
		},
		{
			name:        "quota checks run before content type check",
			today:       []model.Task{taskFor("user-a"), taskFor("user-b")},
			globalLimit: 2,
			userLimit:   1,
			userID:      "user-c",
			contentType: "application/pdf",
			want:        OutcomeGlobalQuotaExhausted,
		},
		{
			name:        "unsupported content type",
			today:       nil,
			globalLimit: 10,
			userLimit:   5,
			userID:      "user-a",
			contentType: "application/pdf",
			want:        OutcomeUnsupportedType,
		},
		{
			name:        "all allow-listed video types admitted",
			today:       nil,
			globalLimit: 10,
			userLimit:   5,
			userID:      "user-a",
			contentType: "video/x-flv",
			want:        OutcomeAdmitted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeScanner{tasks: tt.today}
			checker := newChecker(store, tt.globalLimit, tt.userLimit)

			outcome, err := checker.Check(context.Background(), tt.userID, tt.contentType)

			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome)
			assert.Equal(t, 1, store.scanned)
		})
	}
}

// The quota scenario of record: global ceiling 2, user ceiling 1. User A's
// second submission hits the user quota, user B fills the global ceiling,
// after which everyone is rejected globally.
func TestChecker_QuotaScenario(t *testing.T) {
	store := &fakeScanner{}
	checker := newChecker(store, 2, 1)
	ctx := context.Background()

	outcome, err := checker.Check(ctx, "user-a", "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdmitted, outcome)
	store.tasks = append(store.tasks, taskFor("user-a"))

	outcome, err = checker.Check(ctx, "user-a", "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, OutcomeUserQuotaExhausted, outcome)

	outcome, err = checker.Check(ctx, "user-b", "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdmitted, outcome)
	store.tasks = append(store.tasks, taskFor("user-b"))

	for _, userID := range []string{"user-a", "user-b", "user-c"} {
		outcome, err = checker.Check(ctx, userID, "video/mp4")
		require.NoError(t, err)
		assert.Equal(t, OutcomeGlobalQuotaExhausted, outcome, "user %s", userID)
	}
}

func TestChecker_DayBounds(t *testing.T) {
	store := &fakeScanner{}
	checker := newChecker(store, 10, 5)
	checker.now = func() time.Time {
		return time.Date(2025, 6, 15, 13, 45, 30, 0, time.Local)
	}

	_, err := checker.Check(context.Background(), "user-a", "video/mp4")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local), store.gotFrom)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.Local), store.gotTo)
}

func TestChecker_ScanError(t *testing.T) {
	store := &fakeScanner{err: errors.New("connection refused")}
	checker := newChecker(store, 10, 5)

	_, err := checker.Check(context.Background(), "user-a", "video/mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan today's tasks")
}
