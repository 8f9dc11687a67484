package models

import "time"

// User is read-only from this service's perspective. CreatedAt anchors the
// inactivity computation for members who never recorded a workout.
type User struct {
	ID        string    `gorm:"column:id;type:varchar(64);primary_key" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Email     string    `gorm:"column:email;type:varchar(256);not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "app_user"
}
