package models

import (
	"time"

	"github.com/vitalfit/backend/pkg/types"
)

// Notification is one message delivered to one user. Rows are immutable after
// creation except for the read flag, which the portal flips on mark-as-read.
type Notification struct {
	ID        string                 `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID    string                 `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	Title     string                 `gorm:"column:title;type:varchar(256);not null" json:"title"`
	Message   string                 `gorm:"column:message;type:text;not null" json:"message"`
	Type      types.NotificationType `gorm:"column:type;type:varchar(64);not null;index" json:"type"`
	ActionURL *string                `gorm:"column:action_url;type:varchar(512);default:null" json:"action_url"`
	GymID     *string                `gorm:"column:gym_id;type:varchar(64);default:null" json:"gym_id"`
	Read      bool                   `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt time.Time              `json:"created_at"`
}

func (Notification) TableName() string {
	return "notification"
}
