package lifecycle

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vitalfit/backend/internal/app/service/notification"
	"github.com/vitalfit/backend/internal/models"
	"github.com/vitalfit/backend/pkg/logctx"
)

// reminderOffsets are the days-until-expiry tiers that trigger a reminder.
var reminderOffsets = []int{7, 3, 1}

// ExpiryChecker classifies active subscriptions by days-until-expiry and
// transitions overdue ones to expired.
//
// Reminder dispatch is at-least-once: re-running within the same day
// re-notifies the same subscriptions. The expired sweep is self-limiting
// because the status flip removes the row from the active filter.
type ExpiryChecker struct {
	store SubscriptionStore
	notif Notifier
	log   *zap.SugaredLogger
	now   func() time.Time
}

func NewExpiryChecker(store SubscriptionStore, notif Notifier, log *zap.SugaredLogger) *ExpiryChecker {
	return &ExpiryChecker{store: store, notif: notif, log: log, now: time.Now}
}

type ExpiryResult struct {
	Expiring7 int `json:"expiring_7"`
	Expiring3 int `json:"expiring_3"`
	Expiring1 int `json:"expiring_1"`
	Expired   int `json:"expired"`
	Failures  int `json:"failures"`
}

// dayWindow returns the server-local calendar day containing t as a
// half-open interval [midnight, midnight+24h).
func dayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// Run executes one expiry pass. A bucket query failure aborts the remaining
// buckets and is returned alongside the partial result; per-subscription
// failures are logged, counted and skipped.
func (c *ExpiryChecker) Run(ctx context.Context) (ExpiryResult, error) {
	var res ExpiryResult
	log := logctx.FromCtx(ctx, c.log)
	now := c.now()

	for _, days := range reminderOffsets {
		from, to := dayWindow(now.AddDate(0, 0, days))
		subs, err := c.store.ActiveEndingBetween(ctx, from, to)
		if err != nil {
			return res, fmt.Errorf("expiry reminder query (%dd): %w", days, err)
		}
		sent := 0
		for _, sub := range subs {
			if _, err := c.notif.DispatchTemplate(ctx, sub.UserID, gymRef(sub), notification.SubscriptionExpiring(days)); err != nil {
				log.Errorw("expiry reminder dispatch failed",
					"subscription_id", sub.ID, "user_id", sub.UserID, "days", days, "err", err)
				res.Failures++
				continue
			}
			sent++
		}
		switch days {
		case 7:
			res.Expiring7 = sent
		case 3:
			res.Expiring3 = sent
		case 1:
			res.Expiring1 = sent
		}
	}

	overdue, err := c.store.ActiveEndedBefore(ctx, now)
	if err != nil {
		return res, fmt.Errorf("overdue subscription query: %w", err)
	}
	if len(overdue) > 0 {
		log.Infow("found overdue subscriptions", "count", len(overdue))
	}
	for _, sub := range overdue {
		if err := c.store.MarkExpired(ctx, sub.ID); err != nil {
			log.Errorw("failed to expire subscription",
				"subscription_id", sub.ID, "user_id", sub.UserID, "err", err)
			res.Failures++
			continue
		}
		res.Expired++
		if _, err := c.notif.DispatchTemplate(ctx, sub.UserID, gymRef(sub), notification.SubscriptionExpired()); err != nil {
			log.Errorw("expired notification dispatch failed",
				"subscription_id", sub.ID, "user_id", sub.UserID, "err", err)
			res.Failures++
		}
	}

	return res, nil
}

func gymRef(sub *models.Subscription) *string {
	if sub.GymID == "" {
		return nil
	}
	id := sub.GymID
	return &id
}
