package usecase

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/gridrivals/gridrivals/internal/platform/logging"
	"github.com/gridrivals/gridrivals/internal/platform/resilience"
)

const defaultTriggerTimeout = 2 * time.Minute

// RollupTrigger drives the rollup from result-store writes. Runs are
// fire-and-forget: failures are logged, never surfaced to the writer.
// Concurrent triggers coalesce onto one in-flight recalculation; a trigger
// that joined an already-running pass schedules one more so the write that
// caused it is always covered.
type RollupTrigger struct {
	rollup  *RollupService
	logger  *logging.Logger
	flight  resilience.SingleFlight
	wg      conc.WaitGroup
	timeout time.Duration
}

func NewRollupTrigger(rollup *RollupService, logger *logging.Logger) *RollupTrigger {
	if logger == nil {
		logger = logging.Default()
	}

	return &RollupTrigger{
		rollup:  rollup,
		logger:  logger,
		timeout: defaultTriggerTimeout,
	}
}

// ResultChanged implements event.ChangeListener. It returns immediately; the
// recalculation happens on a tracked background goroutine.
func (t *RollupTrigger) ResultChanged(eventID string) {
	t.wg.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()

		processed, err, shared := t.flight.Do("rollup:recalculate", func() (any, error) {
			return t.rollup.RecalculateAll(ctx)
		})
		if err == nil && shared {
			processed, err, _ = t.flight.Do("rollup:recalculate", func() (any, error) {
				return t.rollup.RecalculateAll(ctx)
			})
		}
		if err != nil {
			t.logger.Error("automatic rollup failed", "event_id", eventID, "error", err)
			return
		}

		t.logger.Info("automatic rollup completed", "event_id", eventID, "participants", processed)
	})
}

// Drain waits for in-flight background recalculations, for shutdown.
func (t *RollupTrigger) Drain() {
	t.wg.Wait()
}
