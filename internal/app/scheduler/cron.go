package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/vitalfit/backend/internal/app/service/lifecycle"
	cfgpkg "github.com/vitalfit/backend/pkg/config"
	"github.com/vitalfit/backend/pkg/types"
)

// Scheduler fires the lifecycle runner once per day. Errors never propagate
// to cron; a failed day is retried naturally by the next firing.
type Scheduler struct {
	cron   *cron.Cron
	runner *lifecycle.Runner
	log    *zap.SugaredLogger
	spec   string
}

func New(cfg *cfgpkg.Config, runner *lifecycle.Runner, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		log:    log,
		spec:   cfg.Cron.Spec,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		// context.Background: the run is not tied to any request lifetime.
		if _, err := s.runner.Run(context.Background(), types.LifecycleTriggerSchedule); err != nil {
			s.log.Errorw("scheduled lifecycle run failed", "err", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infow("lifecycle scheduler started", "spec", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	// wait for an in-flight job before letting fx tear down the db pool
	<-ctx.Done()
	s.log.Infow("lifecycle scheduler stopped")
}

func register(lc fx.Lifecycle, cfg *cfgpkg.Config, s *Scheduler) {
	if !cfg.Cron.Enabled {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return s.Start() },
		OnStop: func(ctx context.Context) error {
			s.Stop()
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(register),
)
