package types

type NotificationType string

const (
	NotificationTypeInfo         NotificationType = "info"
	NotificationTypeRoutine      NotificationType = "routine"
	NotificationTypeSubscription NotificationType = "subscription"
	NotificationTypePayment      NotificationType = "payment"
	NotificationTypeBenefit      NotificationType = "benefit"
	NotificationTypeSystem       NotificationType = "system"
)

type LifecycleTrigger string

const (
	LifecycleTriggerSchedule LifecycleTrigger = "schedule"
	LifecycleTriggerManual   LifecycleTrigger = "manual"
)

type LifecycleRunStatus string

const (
	LifecycleRunStatusCompleted LifecycleRunStatus = "completed"
	LifecycleRunStatusFailed    LifecycleRunStatus = "failed"
)
