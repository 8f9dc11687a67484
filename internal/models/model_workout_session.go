package models

import "time"

// WorkoutSession records one completed workout for a subscription. The
// lifecycle engine only ever reads the most recent session per subscription.
type WorkoutSession struct {
	ID             string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID string    `gorm:"column:subscription_id;type:uuid;not null;index" json:"subscription_id"`
	PerformedAt    time.Time `gorm:"column:performed_at;not null;index" json:"performed_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func (WorkoutSession) TableName() string {
	return "workout_session"
}
