package lifecycle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vitalfit/backend/internal/models"
	"github.com/vitalfit/backend/pkg/config"
	"github.com/vitalfit/backend/pkg/types"
)

func planSub(id, userID string) *models.Subscription {
	planID := "plan-1"
	return &models.Subscription{
		ID:     id,
		UserID: userID,
		GymID:  "gym-1",
		Status: types.SubscriptionStatusActive,
		PlanID: &planID,
	}
}

func testLifecycleConfig() *config.Config {
	return &config.Config{Lifecycle: config.LifecycleConfig{
		InactiveAfterWorkoutDays: 5,
		InactiveAfterSignupDays:  7,
	}}
}

func newInactivityCheckerAt(cfg *config.Config, store SubscriptionStore, notif Notifier, now time.Time) *InactivityChecker {
	c := NewInactivityChecker(cfg, store, notif, zap.NewNop().Sugar())
	c.now = func() time.Time { return now }
	return c
}

func TestInactivityChecker_WorkoutThreshold(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &memSubStore{
		subs: []*models.Subscription{
			planSub("sub-idle", "user-idle"),
			planSub("sub-fresh", "user-fresh"),
		},
		workouts: map[string]time.Time{
			"sub-idle":  now.AddDate(0, 0, -6),
			"sub-fresh": now.AddDate(0, 0, -2),
		},
	}
	notif := &recordingNotifier{}
	c := newInactivityCheckerAt(testLifecycleConfig(), store, notif, now)

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Notified)
	require.Equal(t, 0, res.Failures)

	got := notif.forUser("user-idle")
	require.Len(t, got, 1)
	require.Contains(t, got[0].tpl.Message, "6 días")
	require.Equal(t, types.NotificationTypeRoutine, got[0].tpl.Type)
	require.Empty(t, notif.forUser("user-fresh"))
}

func TestInactivityChecker_SignupThresholdWhenNeverTrained(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &memSubStore{
		subs: []*models.Subscription{
			planSub("sub-never-old", "user-never-old"),
			planSub("sub-never-new", "user-never-new"),
		},
		workouts: map[string]time.Time{},
		users: map[string]time.Time{
			"user-never-old": now.AddDate(0, 0, -8),
			"user-never-new": now.AddDate(0, 0, -3),
		},
	}
	notif := &recordingNotifier{}
	c := newInactivityCheckerAt(testLifecycleConfig(), store, notif, now)

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Notified)

	got := notif.forUser("user-never-old")
	require.Len(t, got, 1)
	require.Contains(t, got[0].tpl.Message, "8 días")
	require.Empty(t, notif.forUser("user-never-new"))
}

func TestInactivityChecker_ExactThresholdNotifies(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &memSubStore{
		subs: []*models.Subscription{planSub("sub-a", "user-a")},
		workouts: map[string]time.Time{
			"sub-a": now.AddDate(0, 0, -5),
		},
	}
	notif := &recordingNotifier{}
	c := newInactivityCheckerAt(testLifecycleConfig(), store, notif, now)

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Notified)
}

func TestInactivityChecker_SkipsSubscriptionsWithoutPlan(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &memSubStore{
		subs: []*models.Subscription{
			activeSub("sub-noplan", "user-noplan", now.AddDate(0, 1, 0)),
		},
		workouts: map[string]time.Time{},
	}
	notif := &recordingNotifier{}
	c := newInactivityCheckerAt(testLifecycleConfig(), store, notif, now)

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, res.Notified)
	require.Empty(t, notif.dispatched)
}

func TestInactivityChecker_PerItemFailureIsolation(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &memSubStore{
		subs: []*models.Subscription{
			planSub("sub-bad", "user-bad"),
			planSub("sub-good", "user-good"),
		},
		workouts: map[string]time.Time{
			"sub-bad":  now.AddDate(0, 0, -10),
			"sub-good": now.AddDate(0, 0, -10),
		},
	}
	notif := &recordingNotifier{failFor: map[string]error{"user-bad": fmt.Errorf("push gateway timeout")}}
	c := newInactivityCheckerAt(testLifecycleConfig(), store, notif, now)

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Notified)
	require.Equal(t, 1, res.Failures)
	require.Len(t, notif.forUser("user-good"), 1)
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	require.Equal(t, 0, daysSince(now.Add(-23*time.Hour), now))
	require.Equal(t, 1, daysSince(now.Add(-25*time.Hour), now))
	require.Equal(t, 6, daysSince(now.AddDate(0, 0, -6), now))
}
