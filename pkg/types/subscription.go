package types

type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusSuspended SubscriptionStatus = "suspended"
)

// CanTransitionTo validates manual status transitions. The expired state is
// reserved for the lifecycle expiry checker and is never a valid target here.
func (s SubscriptionStatus) CanTransitionTo(next SubscriptionStatus) bool {
	switch s {
	case SubscriptionStatusPending:
		return next == SubscriptionStatusActive || next == SubscriptionStatusCancelled
	case SubscriptionStatusActive:
		return next == SubscriptionStatusSuspended || next == SubscriptionStatusCancelled
	case SubscriptionStatusSuspended:
		return next == SubscriptionStatusActive || next == SubscriptionStatusCancelled
	case SubscriptionStatusExpired:
		return next == SubscriptionStatusActive
	default:
		return false
	}
}

type SubscriptionChangeReason string

const (
	SubscriptionChangeReasonSignup   SubscriptionChangeReason = "signup"
	SubscriptionChangeReasonActivate SubscriptionChangeReason = "activate"
	SubscriptionChangeReasonRenew    SubscriptionChangeReason = "renew"
	SubscriptionChangeReasonCancel   SubscriptionChangeReason = "cancel"
	SubscriptionChangeReasonExpire   SubscriptionChangeReason = "expire"
)
