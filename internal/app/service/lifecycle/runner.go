package lifecycle

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vitalfit/backend/internal/models"
	"github.com/vitalfit/backend/pkg/logctx"
	"github.com/vitalfit/backend/pkg/metrics"
	"github.com/vitalfit/backend/pkg/tool"
	"github.com/vitalfit/backend/pkg/types"
)

// ErrRunInProgress is returned when a run is requested while another is
// still executing (e.g. a manual trigger during the scheduled window).
var ErrRunInProgress = errors.New("lifecycle run already in progress")

// Runner executes the expiry and inactivity checks sequentially, records a
// LifecycleRun row and holds an in-process lock so the cron firing and the
// HTTP trigger cannot run concurrently against the same data.
type Runner struct {
	expiry     *ExpiryChecker
	inactivity *InactivityChecker
	runs       RunStore
	log        *zap.SugaredLogger

	mu sync.Mutex
}

func NewRunner(expiry *ExpiryChecker, inactivity *InactivityChecker, runs RunStore, log *zap.SugaredLogger) *Runner {
	return &Runner{expiry: expiry, inactivity: inactivity, runs: runs, log: log}
}

// RunSummary is what callers (cron wrapper, HTTP trigger) see of a run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Expiring7  int       `json:"expiring_7"`
	Expiring3  int       `json:"expiring_3"`
	Expiring1  int       `json:"expiring_1"`
	Expired    int       `json:"expired"`
	Inactive   int       `json:"inactive"`
	Failures   int       `json:"failures"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Run executes one lifecycle pass. Checker-level failures are folded into
// the run record and returned; the caller decides whether to surface them
// (the cron wrapper swallows, the HTTP trigger answers 500).
func (r *Runner) Run(ctx context.Context, trigger types.LifecycleTrigger) (*RunSummary, error) {
	if !r.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer r.mu.Unlock()

	log := logctx.FromCtx(ctx, r.log)
	started := time.Now()
	log.Infow("lifecycle run started", "trigger", trigger)

	expRes, expErr := r.expiry.Run(ctx)
	if expErr != nil {
		log.Errorw("expiry check failed", "err", expErr)
	}
	inRes, inErr := r.inactivity.Run(ctx)
	if inErr != nil {
		log.Errorw("inactivity check failed", "err", inErr)
	}

	finished := time.Now()
	runErr := errors.Join(expErr, inErr)

	run := &models.LifecycleRun{
		ID:         tool.GenerateUUIDV7(),
		Trigger:    trigger,
		Status:     types.LifecycleRunStatusCompleted,
		StartedAt:  started,
		FinishedAt: &finished,
		Expiring7:  expRes.Expiring7,
		Expiring3:  expRes.Expiring3,
		Expiring1:  expRes.Expiring1,
		Expired:    expRes.Expired,
		Inactive:   inRes.Notified,
		Failures:   expRes.Failures + inRes.Failures,
	}
	if runErr != nil {
		run.Status = types.LifecycleRunStatusFailed
		msg := runErr.Error()
		run.Error = &msg
	}

	if err := r.runs.Save(ctx, run); err != nil {
		// The run itself happened; a missing record only degrades observability.
		log.Errorw("failed to persist lifecycle run record", "err", err)
	}

	metrics.LifecycleRuns.WithLabelValues(string(trigger), string(run.Status)).Inc()
	metrics.LifecycleRunDuration.Observe(metrics.MillisecondsSince(started))

	summary := &RunSummary{
		RunID:      run.ID,
		Expiring7:  run.Expiring7,
		Expiring3:  run.Expiring3,
		Expiring1:  run.Expiring1,
		Expired:    run.Expired,
		Inactive:   run.Inactive,
		Failures:   run.Failures,
		StartedAt:  started,
		FinishedAt: finished,
	}

	log.Infow("lifecycle run finished",
		"trigger", trigger,
		"status", run.Status,
		"expiring_7", run.Expiring7,
		"expiring_3", run.Expiring3,
		"expiring_1", run.Expiring1,
		"expired", run.Expired,
		"inactive", run.Inactive,
		"failures", run.Failures,
		"elapsed_ms", finished.Sub(started).Milliseconds(),
	)

	return summary, runErr
}
