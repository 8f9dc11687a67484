package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vitalfit/backend/internal/app/service/notification"
	"github.com/vitalfit/backend/internal/models"
	"github.com/vitalfit/backend/pkg/config"
	"github.com/vitalfit/backend/pkg/logctx"
	"github.com/vitalfit/backend/pkg/tool"
	"github.com/vitalfit/backend/pkg/types"
)

// Service implements the back-office and portal operations on subscriptions.
// It never writes the expired status; that transition belongs to the
// lifecycle expiry checker.
type Service struct {
	cfg   *config.Config
	db    *gorm.DB
	log   *zap.SugaredLogger
	notif *notification.Service
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, notif *notification.Service) *Service {
	return &Service{cfg: cfg, db: db, log: log, notif: notif}
}

func (s *Service) get(ctx context.Context, tx *gorm.DB, id string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := tx.WithContext(ctx).Where("id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subscription not found: %s", id)
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &sub, nil
}

// Activate transitions a pending subscription to active and welcomes the
// member. Admin action on signup approval.
func (s *Service) Activate(ctx context.Context, subscriptionID string) error {
	var sub *models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		sub, err = s.get(ctx, tx, subscriptionID)
		if err != nil {
			return err
		}
		if !sub.Status.CanTransitionTo(types.SubscriptionStatusActive) {
			return fmt.Errorf("cannot activate subscription in status %s", sub.Status)
		}
		sub.Status = types.SubscriptionStatusActive
		if sub.StartAt.IsZero() {
			sub.StartAt = time.Now()
		}
		return tx.WithContext(ctx).Save(sub).Error
	})
	if err != nil {
		return fmt.Errorf("failed to activate subscription: %w", err)
	}

	var member models.User
	name := ""
	if err := s.db.WithContext(ctx).Where("id = ?", sub.UserID).First(&member).Error; err == nil {
		name = member.Name
	}
	if _, err := s.notif.DispatchTemplate(ctx, sub.UserID, gymRef(sub), notification.Welcome(name)); err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("welcome notification dispatch failed",
			"subscription_id", sub.ID, "user_id", sub.UserID, "err", err)
	}
	return nil
}

// Cancel records the member's cancellation. Status stays active until
// natural expiry; only CancelledAt and the auto-renew flag change.
func (s *Service) Cancel(ctx context.Context, subscriptionID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := s.get(ctx, tx, subscriptionID)
		if err != nil {
			return err
		}
		if sub.Status != types.SubscriptionStatusActive && sub.Status != types.SubscriptionStatusPending {
			return fmt.Errorf("cannot cancel subscription in status %s", sub.Status)
		}
		if sub.CancelledAt != nil {
			return nil
		}
		now := time.Now()
		sub.CancelledAt = &now
		sub.AutoRenew = false
		return tx.WithContext(ctx).Save(sub).Error
	})
	if err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return nil
}

// Renew extends a subscription's end date, reactivating it when it had
// already expired, and notifies the member. When an amount is recorded a
// payment-received notification is dispatched as well.
func (s *Service) Renew(ctx context.Context, subscriptionID string, until time.Time, amountCents int64, currency string) error {
	var sub *models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		sub, err = s.get(ctx, tx, subscriptionID)
		if err != nil {
			return err
		}
		if sub.EndAt != nil && !until.After(*sub.EndAt) {
			return fmt.Errorf("renewal end %s must be after current end %s", until, sub.EndAt)
		}
		switch sub.Status {
		case types.SubscriptionStatusActive:
		case types.SubscriptionStatusExpired:
			sub.Status = types.SubscriptionStatusActive
		default:
			return fmt.Errorf("cannot renew subscription in status %s", sub.Status)
		}
		sub.EndAt = &until
		sub.CancelledAt = nil
		return tx.WithContext(ctx).Save(sub).Error
	})
	if err != nil {
		return fmt.Errorf("failed to renew subscription: %w", err)
	}

	log := logctx.FromCtx(ctx, s.log)
	if _, err := s.notif.DispatchTemplate(ctx, sub.UserID, gymRef(sub), notification.SubscriptionRenewed(until)); err != nil {
		log.Errorw("renewal notification dispatch failed",
			"subscription_id", sub.ID, "user_id", sub.UserID, "err", err)
	}
	if amountCents > 0 {
		if _, err := s.notif.DispatchTemplate(ctx, sub.UserID, gymRef(sub), notification.PaymentReceived(amountCents, currency)); err != nil {
			log.Errorw("payment notification dispatch failed",
				"subscription_id", sub.ID, "user_id", sub.UserID, "err", err)
		}
	}
	return nil
}

// AssignPlan records a training-plan assignment (trainer portal action) and
// tells the member about the new routine.
func (s *Service) AssignPlan(ctx context.Context, subscriptionID, planID, planName string) error {
	sub, err := s.get(ctx, s.db, subscriptionID)
	if err != nil {
		return err
	}
	if sub.Status != types.SubscriptionStatusActive {
		return fmt.Errorf("cannot assign a plan to subscription in status %s", sub.Status)
	}
	pa := &models.PlanAssignment{
		ID:             tool.GenerateUUIDV7(),
		SubscriptionID: sub.ID,
		PlanID:         planID,
		AssignedAt:     time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(pa).Error; err != nil {
		return fmt.Errorf("failed to create plan assignment: %w", err)
	}
	if _, err := s.notif.DispatchTemplate(ctx, sub.UserID, gymRef(sub), notification.RoutineAssigned(planName)); err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("routine notification dispatch failed",
			"subscription_id", sub.ID, "user_id", sub.UserID, "err", err)
	}
	return nil
}

// GetByUser returns a user's subscriptions, newest first.
func (s *Service) GetByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list user subscriptions: %w", err)
	}
	return subs, nil
}

// Scan request/response for the admin listing.
type ScanSubscriptionsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanSubscriptionsResponse struct {
	Items []*models.Subscription `json:"items"`
	Total int64                  `json:"total"`
}

// filtersAnd wraps a list of filters into a single clause.Expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, f := range w.filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		f.Build(builder)
	}
}

// ScanSubscriptions lists subscriptions with filters, pagination and sorting
// for the admin back-office.
func (s *Service) ScanSubscriptions(ctx context.Context, req *ScanSubscriptionsRequest) (*ScanSubscriptionsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Subscription{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var rows []*models.Subscription
	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return &ScanSubscriptionsResponse{Items: rows, Total: total}, nil
}

func gymRef(sub *models.Subscription) *string {
	if sub.GymID == "" {
		return nil
	}
	id := sub.GymID
	return &id
}
