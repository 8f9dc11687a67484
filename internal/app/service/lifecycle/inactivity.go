package lifecycle

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vitalfit/backend/internal/app/service/notification"
	"github.com/vitalfit/backend/pkg/config"
	"github.com/vitalfit/backend/pkg/logctx"
)

// InactivityChecker nags members on active subscriptions with an assigned
// training plan who have not recorded a workout recently.
//
// The threshold is a level-triggered gate evaluated fresh each run: a member
// who stays inactive is re-notified every day, on purpose.
type InactivityChecker struct {
	store SubscriptionStore
	notif Notifier
	log   *zap.SugaredLogger
	now   func() time.Time

	workoutThresholdDays int
	signupThresholdDays  int
}

func NewInactivityChecker(cfg *config.Config, store SubscriptionStore, notif Notifier, log *zap.SugaredLogger) *InactivityChecker {
	return &InactivityChecker{
		store:                store,
		notif:                notif,
		log:                  log,
		now:                  time.Now,
		workoutThresholdDays: cfg.Lifecycle.InactiveAfterWorkoutDays,
		signupThresholdDays:  cfg.Lifecycle.InactiveAfterSignupDays,
	}
}

type InactivityResult struct {
	Notified int `json:"notified"`
	Failures int `json:"failures"`
}

func daysSince(t, now time.Time) int {
	return int(now.Sub(t).Hours() / 24)
}

// Run executes one inactivity pass. One bad record never aborts the batch.
func (c *InactivityChecker) Run(ctx context.Context) (InactivityResult, error) {
	var res InactivityResult
	log := logctx.FromCtx(ctx, c.log)
	now := c.now()

	subs, err := c.store.ActiveWithPlanAssignment(ctx)
	if err != nil {
		return res, fmt.Errorf("inactivity candidate query: %w", err)
	}

	for _, sub := range subs {
		last, err := c.store.LatestWorkout(ctx, sub.ID)
		if err != nil {
			log.Errorw("failed to load latest workout",
				"subscription_id", sub.ID, "user_id", sub.UserID, "err", err)
			res.Failures++
			continue
		}

		var idle int
		var threshold int
		if last == nil {
			createdAt, err := c.store.UserCreatedAt(ctx, sub.UserID)
			if err != nil {
				log.Errorw("failed to load user creation time",
					"subscription_id", sub.ID, "user_id", sub.UserID, "err", err)
				res.Failures++
				continue
			}
			idle = daysSince(createdAt, now)
			threshold = c.signupThresholdDays
		} else {
			idle = daysSince(last.PerformedAt, now)
			threshold = c.workoutThresholdDays
		}

		if idle < threshold {
			continue
		}

		if _, err := c.notif.DispatchTemplate(ctx, sub.UserID, gymRef(sub), notification.InactivityReminder(idle)); err != nil {
			log.Errorw("inactivity reminder dispatch failed",
				"subscription_id", sub.ID, "user_id", sub.UserID, "idle_days", idle, "err", err)
			res.Failures++
			continue
		}
		res.Notified++
	}

	return res, nil
}
