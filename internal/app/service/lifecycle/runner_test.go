package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vitalfit/backend/internal/models"
	"github.com/vitalfit/backend/pkg/types"
)

type memRunStore struct {
	mu   sync.Mutex
	runs []*models.LifecycleRun
	err  error
}

func (s *memRunStore) Save(_ context.Context, run *models.LifecycleRun) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func (s *memRunStore) ListRecent(_ context.Context, limit int) ([]*models.LifecycleRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.runs) {
		limit = len(s.runs)
	}
	return s.runs[:limit], nil
}

func newTestRunner(store SubscriptionStore, notif Notifier, runs RunStore, now time.Time) *Runner {
	log := zap.NewNop().Sugar()
	expiry := NewExpiryChecker(store, notif, log)
	expiry.now = func() time.Time { return now }
	inactivity := NewInactivityChecker(testLifecycleConfig(), store, notif, log)
	inactivity.now = func() time.Time { return now }
	return NewRunner(expiry, inactivity, runs, log)
}

func TestRunner_RecordsCompletedRun(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	store := &memSubStore{
		subs: []*models.Subscription{
			activeSub("sub-7", "user-7", time.Date(2025, 3, 17, 10, 0, 0, 0, time.UTC)),
			activeSub("sub-overdue", "user-o", time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)),
			planSub("sub-idle", "user-idle"),
		},
		workouts: map[string]time.Time{
			"sub-idle": now.AddDate(0, 0, -9),
		},
	}
	notif := &recordingNotifier{}
	runs := &memRunStore{}
	r := newTestRunner(store, notif, runs, now)

	summary, err := r.Run(context.Background(), types.LifecycleTriggerSchedule)
	require.NoError(t, err)
	require.NotNil(t, summary)
	require.NotEmpty(t, summary.RunID)
	require.Equal(t, 1, summary.Expiring7)
	require.Equal(t, 1, summary.Expired)
	require.Equal(t, 1, summary.Inactive)
	require.Equal(t, 0, summary.Failures)

	require.Len(t, runs.runs, 1)
	rec := runs.runs[0]
	require.Equal(t, summary.RunID, rec.ID)
	require.Equal(t, types.LifecycleTriggerSchedule, rec.Trigger)
	require.Equal(t, types.LifecycleRunStatusCompleted, rec.Status)
	require.NotNil(t, rec.FinishedAt)
	require.Nil(t, rec.Error)
}

func TestRunner_RecordsFailedRun(t *testing.T) {
	store := &memSubStore{endingErr: fmt.Errorf("connection refused")}
	notif := &recordingNotifier{}
	runs := &memRunStore{}
	r := newTestRunner(store, notif, runs, time.Now())

	summary, err := r.Run(context.Background(), types.LifecycleTriggerManual)
	require.Error(t, err)
	require.NotNil(t, summary)

	require.Len(t, runs.runs, 1)
	rec := runs.runs[0]
	require.Equal(t, types.LifecycleRunStatusFailed, rec.Status)
	require.NotNil(t, rec.Error)
	require.Contains(t, *rec.Error, "connection refused")
}

func TestRunner_ExpiryFailureDoesNotSkipInactivity(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	store := &memSubStore{
		endingErr: fmt.Errorf("connection refused"),
		subs:      []*models.Subscription{planSub("sub-idle", "user-idle")},
		workouts:  map[string]time.Time{"sub-idle": now.AddDate(0, 0, -9)},
	}
	notif := &recordingNotifier{}
	runs := &memRunStore{}
	r := newTestRunner(store, notif, runs, now)

	summary, err := r.Run(context.Background(), types.LifecycleTriggerSchedule)
	require.Error(t, err)
	require.Equal(t, 1, summary.Inactive)
	require.Len(t, notif.forUser("user-idle"), 1)
}

func TestRunner_RejectsConcurrentRun(t *testing.T) {
	r := newTestRunner(&memSubStore{}, &recordingNotifier{}, &memRunStore{}, time.Now())

	r.mu.Lock()
	_, err := r.Run(context.Background(), types.LifecycleTriggerManual)
	r.mu.Unlock()
	require.ErrorIs(t, err, ErrRunInProgress)

	// lock released, runs again
	_, err = r.Run(context.Background(), types.LifecycleTriggerManual)
	require.NoError(t, err)
}

func TestRunner_RunRecordSaveFailureIsNotFatal(t *testing.T) {
	runs := &memRunStore{err: fmt.Errorf("disk full")}
	r := newTestRunner(&memSubStore{}, &recordingNotifier{}, runs, time.Now())

	summary, err := r.Run(context.Background(), types.LifecycleTriggerSchedule)
	require.NoError(t, err)
	require.NotNil(t, summary)
}
