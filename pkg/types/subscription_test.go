package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from SubscriptionStatus
		to   SubscriptionStatus
		ok   bool
	}{
		{SubscriptionStatusPending, SubscriptionStatusActive, true},
		{SubscriptionStatusPending, SubscriptionStatusCancelled, true},
		{SubscriptionStatusPending, SubscriptionStatusSuspended, false},
		{SubscriptionStatusActive, SubscriptionStatusSuspended, true},
		{SubscriptionStatusActive, SubscriptionStatusCancelled, true},
		{SubscriptionStatusActive, SubscriptionStatusPending, false},
		{SubscriptionStatusSuspended, SubscriptionStatusActive, true},
		{SubscriptionStatusSuspended, SubscriptionStatusCancelled, true},
		{SubscriptionStatusExpired, SubscriptionStatusActive, true},
		{SubscriptionStatusExpired, SubscriptionStatusCancelled, false},
		{SubscriptionStatusCancelled, SubscriptionStatusActive, false},
		{SubscriptionStatusCancelled, SubscriptionStatusPending, false},
	}
	for _, c := range cases {
		require.Equal(t, c.ok, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestCanTransitionTo_ExpiredIsNeverAManualTarget(t *testing.T) {
	for _, from := range []SubscriptionStatus{
		SubscriptionStatusPending,
		SubscriptionStatusActive,
		SubscriptionStatusSuspended,
		SubscriptionStatusExpired,
		SubscriptionStatusCancelled,
	} {
		require.False(t, from.CanTransitionTo(SubscriptionStatusExpired), "from %s", from)
	}
}
