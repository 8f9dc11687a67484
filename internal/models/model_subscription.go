package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/vitalfit/backend/pkg/types"
)

// Subscription is a user's paid relationship to one gym.
//
// EndAt, once set, is the sole authority for expiry computation. The expired
// status is written only by the lifecycle expiry checker; user cancellation
// records CancelledAt and leaves the status active until natural expiry.
type Subscription struct {
	ID        string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID    string                   `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	GymID     string                   `gorm:"column:gym_id;type:varchar(64);not null;index" json:"gym_id"`
	Status    types.SubscriptionStatus `gorm:"column:status;type:varchar(64);not null;index" json:"status"`
	StartAt   time.Time                `gorm:"column:start_at;not null" json:"start_at"`
	EndAt     *time.Time               `gorm:"column:end_at;default:null;index" json:"end_at"`
	PlanID    *string                  `gorm:"column:plan_id;type:varchar(64);default:null" json:"plan_id"`
	TrainerID *string                  `gorm:"column:trainer_id;type:varchar(64);default:null" json:"trainer_id"`
	AutoRenew bool                     `gorm:"column:auto_renew;not null;default:false" json:"auto_renew"`
	// CancelledAt is set when the user cancels; status stays active until EndAt.
	CancelledAt *time.Time `gorm:"column:cancelled_at;default:null" json:"cancelled_at"`
	// Extra stores additional JSON data (for example: signup channel, promo code).
	Extra     datatypes.JSON `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

func (s *Subscription) Valid() bool {
	return s != nil &&
		s.Status == types.SubscriptionStatusActive &&
		s.EndAt != nil &&
		s.EndAt.After(time.Now())
}
