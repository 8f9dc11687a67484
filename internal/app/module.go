package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/vitalfit/backend/internal/app/api/server"
	"github.com/vitalfit/backend/internal/app/scheduler"
	"github.com/vitalfit/backend/internal/app/service/lifecycle"
	"github.com/vitalfit/backend/internal/app/service/notification"
	"github.com/vitalfit/backend/internal/app/service/statistics"
	"github.com/vitalfit/backend/internal/app/service/subscription"
	"github.com/vitalfit/backend/internal/platform/db"
	"github.com/vitalfit/backend/pkg/config"
	"github.com/vitalfit/backend/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	scheduler.Module,
	notification.Module,
	lifecycle.Module,
	subscription.Module,
	statistics.Module,
)
