package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vitalfit/backend/internal/models"
	"github.com/vitalfit/backend/pkg/logctx"
	"github.com/vitalfit/backend/pkg/metrics"
	"github.com/vitalfit/backend/pkg/tool"
	"github.com/vitalfit/backend/pkg/types"
)

// Service is the single creation point for notification rows. Every "notify
// user" side effect in the system goes through Dispatch.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type DispatchInput struct {
	UserID    string
	Title     string
	Message   string
	Type      types.NotificationType
	ActionURL *string
	GymID     *string
}

// Dispatch persists exactly one notification row. Callers decide whether a
// failure aborts their work; the lifecycle checkers log and continue.
func (s *Service) Dispatch(ctx context.Context, in DispatchInput) (*models.Notification, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if in.Title == "" || in.Message == "" {
		return nil, fmt.Errorf("title and message are required")
	}
	if in.Type == "" {
		in.Type = types.NotificationTypeInfo
	}

	n := &models.Notification{
		ID:        tool.GenerateUUIDV7(),
		UserID:    in.UserID,
		Title:     in.Title,
		Message:   in.Message,
		Type:      in.Type,
		ActionURL: in.ActionURL,
		GymID:     in.GymID,
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("failed to create notification",
			"user_id", in.UserID, "type", in.Type, "err", err)
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	metrics.NotificationsDispatched.WithLabelValues(string(n.Type)).Inc()
	return n, nil
}

// DispatchTemplate composes a prebuilt template with Dispatch.
func (s *Service) DispatchTemplate(ctx context.Context, userID string, gymID *string, tpl Template) (*models.Notification, error) {
	return s.Dispatch(ctx, DispatchInput{
		UserID:    userID,
		Title:     tpl.Title,
		Message:   tpl.Message,
		Type:      tpl.Type,
		ActionURL: tpl.ActionURL,
		GymID:     gymID,
	})
}

// ListByUser returns a user's notifications, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var items []*models.Notification
	if err := q.Order("created_at desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

// MarkRead flips the read flag; the only mutation a notification row allows.
func (s *Service) MarkRead(ctx context.Context, userID string, notificationID string) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
