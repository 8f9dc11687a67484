package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vitalfit/backend/internal/models"
	"github.com/vitalfit/backend/internal/app/service/notification"
	"github.com/vitalfit/backend/pkg/types"
)

// SubscriptionStore is the persistence surface the checkers need. Injected so
// tests can substitute a double instead of a database.
type SubscriptionStore interface {
	// ActiveEndingBetween returns active subscriptions whose end date falls
	// inside [from, to).
	ActiveEndingBetween(ctx context.Context, from, to time.Time) ([]*models.Subscription, error)
	// ActiveEndedBefore returns active subscriptions already past their end date.
	ActiveEndedBefore(ctx context.Context, t time.Time) ([]*models.Subscription, error)
	// MarkExpired transitions one active subscription to expired.
	MarkExpired(ctx context.Context, subscriptionID string) error
	// ActiveWithPlanAssignment returns active subscriptions having at least
	// one training-plan assignment.
	ActiveWithPlanAssignment(ctx context.Context) ([]*models.Subscription, error)
	// LatestWorkout returns the most recent workout session for a
	// subscription, or nil when none was ever recorded.
	LatestWorkout(ctx context.Context, subscriptionID string) (*models.WorkoutSession, error)
	// UserCreatedAt returns the account creation time of a user.
	UserCreatedAt(ctx context.Context, userID string) (time.Time, error)
}

// RunStore persists lifecycle run records.
type RunStore interface {
	Save(ctx context.Context, run *models.LifecycleRun) error
	ListRecent(ctx context.Context, limit int) ([]*models.LifecycleRun, error)
}

// Notifier is the dispatcher dependency of both checkers.
// *notification.Service satisfies it.
type Notifier interface {
	DispatchTemplate(ctx context.Context, userID string, gymID *string, tpl notification.Template) (*models.Notification, error)
}

// GormStore is the postgres-backed implementation of the store interfaces.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ActiveEndingBetween(ctx context.Context, from, to time.Time) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	err := s.db.WithContext(ctx).
		Where("status = ?", types.SubscriptionStatusActive).
		Where("end_at >= ? AND end_at < ?", from, to).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions ending in window: %w", err)
	}
	return subs, nil
}

func (s *GormStore) ActiveEndedBefore(ctx context.Context, t time.Time) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	err := s.db.WithContext(ctx).
		Where("status = ?", types.SubscriptionStatusActive).
		Where("end_at < ?", t).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue subscriptions: %w", err)
	}
	return subs, nil
}

func (s *GormStore) MarkExpired(ctx context.Context, subscriptionID string) error {
	res := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ? AND status = ?", subscriptionID, types.SubscriptionStatusActive).
		Update("status", types.SubscriptionStatusExpired)
	if res.Error != nil {
		return fmt.Errorf("failed to mark subscription expired: %w", res.Error)
	}
	return nil
}

func (s *GormStore) ActiveWithPlanAssignment(ctx context.Context) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	err := s.db.WithContext(ctx).
		Where("status = ?", types.SubscriptionStatusActive).
		Where("EXISTS (SELECT 1 FROM plan_assignment pa WHERE pa.subscription_id = subscription.id)").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions with plan assignment: %w", err)
	}
	return subs, nil
}

func (s *GormStore) LatestWorkout(ctx context.Context, subscriptionID string) (*models.WorkoutSession, error) {
	var ws models.WorkoutSession
	err := s.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("performed_at desc").
		First(&ws).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest workout: %w", err)
	}
	return &ws, nil
}

func (s *GormStore) UserCreatedAt(ctx context.Context, userID string) (time.Time, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		return time.Time{}, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	return u.CreatedAt, nil
}

func (s *GormStore) Save(ctx context.Context, run *models.LifecycleRun) error {
	if err := s.db.WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("failed to save lifecycle run: %w", err)
	}
	return nil
}

func (s *GormStore) ListRecent(ctx context.Context, limit int) ([]*models.LifecycleRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	var runs []*models.LifecycleRun
	err := s.db.WithContext(ctx).
		Order("started_at desc").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lifecycle runs: %w", err)
	}
	return runs, nil
}
