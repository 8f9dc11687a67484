package models

import "time"

// PlanAssignment links a training plan to a subscription. Its existence (not
// its count) gates the inactivity checker.
type PlanAssignment struct {
	ID             string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID string    `gorm:"column:subscription_id;type:uuid;not null;index" json:"subscription_id"`
	PlanID         string    `gorm:"column:plan_id;type:varchar(64);not null" json:"plan_id"`
	AssignedAt     time.Time `gorm:"column:assigned_at;not null" json:"assigned_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func (PlanAssignment) TableName() string {
	return "plan_assignment"
}
