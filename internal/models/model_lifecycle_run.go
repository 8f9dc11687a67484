package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/vitalfit/backend/pkg/types"
)

// LifecycleRun records one execution of the daily lifecycle checks, with
// per-bucket counts. The most recent completed row doubles as the
// "last successful run" marker.
type LifecycleRun struct {
	ID         string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Trigger    types.LifecycleTrigger   `gorm:"column:trigger;type:varchar(32);not null" json:"trigger"`
	Status     types.LifecycleRunStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	StartedAt  time.Time                `gorm:"column:started_at;not null;index" json:"started_at"`
	FinishedAt *time.Time               `gorm:"column:finished_at;default:null" json:"finished_at"`
	Expiring7  int                      `gorm:"column:expiring_7;not null;default:0" json:"expiring_7"`
	Expiring3  int                      `gorm:"column:expiring_3;not null;default:0" json:"expiring_3"`
	Expiring1  int                      `gorm:"column:expiring_1;not null;default:0" json:"expiring_1"`
	Expired    int                      `gorm:"column:expired;not null;default:0" json:"expired"`
	Inactive   int                      `gorm:"column:inactive;not null;default:0" json:"inactive"`
	Failures   int                      `gorm:"column:failures;not null;default:0" json:"failures"`
	Error      *string                  `gorm:"column:error;type:text;default:null" json:"error"`
	Extra      datatypes.JSON           `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

func (LifecycleRun) TableName() string {
	return "lifecycle_run"
}
