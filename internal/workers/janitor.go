package workers

import (
	"context"
	"time"

	"github.com/savekeep/savekeep/internal/config"
	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/internal/store"
)

// janitor periodically prunes rows whose flow was abandoned: verification
// challenges nobody redeemed and escrowed handoff tokens from email changes
// that never completed. Without it a stale handoff row would hold a dead
// token forever.
type janitor struct {
	verifications store.VerificationRepository
	tokens        store.TokenRepository

	interval time.Duration
	maxAge   time.Duration

	logger *logger.Logger
}

func newJanitor(verifications store.VerificationRepository, tokens store.TokenRepository, cfg config.Janitor, logger *logger.Logger) *janitor {
	return &janitor{
		verifications: verifications,
		tokens:        tokens,
		interval:      cfg.Interval,
		maxAge:        cfg.MaxPendingAge,
		logger:        logger,
	}
}

// Run starts the pruning loop. A zero interval disables the worker.
func (j *janitor) Run(ctx context.Context) {
	if j.interval <= 0 {
		j.logger.Info().Msg("janitor disabled")
		return
	}

	go j.loop(ctx)
}

func (j *janitor) loop(ctx context.Context) {
	j.logger.Info().
		Dur("interval", j.interval).
		Dur("max_pending_age", j.maxAge).
		Msg("janitor started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("janitor stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *janitor) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-j.maxAge)

	verifications, err := j.verifications.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Err(err).Msg("pruning stale verifications failed")
	}

	handoffs, err := j.tokens.DeleteHandoffsOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Err(err).Msg("pruning stale handoff tokens failed")
	}

	if verifications > 0 || handoffs > 0 {
		j.logger.Info().
			Int64("verifications", verifications).
			Int64("handoffs", handoffs).
			Msg("pruned abandoned rows")
	}
}
