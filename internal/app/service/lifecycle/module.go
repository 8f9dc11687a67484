package lifecycle

import (
	"go.uber.org/fx"

	"github.com/vitalfit/backend/internal/app/service/notification"
)

// Module wires the lifecycle engine: gorm-backed stores, both checkers and
// the runner. The notification service doubles as the Notifier dependency.
var Module = fx.Options(
	fx.Provide(
		NewGormStore,
		func(s *GormStore) SubscriptionStore { return s },
		func(s *GormStore) RunStore { return s },
		func(n *notification.Service) Notifier { return n },
		NewExpiryChecker,
		NewInactivityChecker,
		NewRunner,
	),
)
