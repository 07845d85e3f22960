// Package jobs runs the recurring background work: the daily challenge
// rollover and the trending snapshot refresh.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

type challengeEnsurer interface {
	EnsureDailyChallenges(ctx context.Context, date time.Time) error
}

type trendingRefresher interface {
	Refresh(ctx context.Context) ([]*domain.Question, error)
}

// Config holds the scheduling knobs.
type Config struct {
	// TrendingRefresh is the interval between trending recomputations.
	TrendingRefresh time.Duration
	// JobTimeout bounds a single job run.
	JobTimeout time.Duration
}

// Runner owns the cron scheduler. Challenge rollover fires shortly after
// UTC midnight; trending refresh fires on a fixed interval.
type Runner struct {
	log      *slog.Logger
	cron     *cron.Cron
	ensurer  challengeEnsurer
	trending trendingRefresher
	cfg      Config
}

// NewRunner creates a Runner. Jobs are registered but not started.
func NewRunner(log *slog.Logger, ensurer challengeEnsurer, trending trendingRefresher, cfg Config) (*Runner, error) {
	if cfg.TrendingRefresh <= 0 {
		cfg.TrendingRefresh = 5 * time.Minute
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = time.Minute
	}

	r := &Runner{
		log:      log.With("component", "jobs"),
		cron:     cron.New(cron.WithLocation(time.UTC)),
		ensurer:  ensurer,
		trending: trending,
		cfg:      cfg,
	}

	// A minute past midnight so the new UTC date is unambiguous on every
	// instance, however skewed its clock.
	if _, err := r.cron.AddFunc("1 0 * * *", r.rolloverChallenges); err != nil {
		return nil, fmt.Errorf("register challenge rollover: %w", err)
	}

	spec := fmt.Sprintf("@every %s", cfg.TrendingRefresh)
	if _, err := r.cron.AddFunc(spec, r.refreshTrending); err != nil {
		return nil, fmt.Errorf("register trending refresh: %w", err)
	}

	return r, nil
}

// Start runs both jobs once immediately, then hands off to the scheduler.
// The immediate run guarantees today's challenges exist after a deploy that
// missed midnight.
func (r *Runner) Start(ctx context.Context) {
	r.runWithTimeout(ctx, "challenge_rollover", func(jobCtx context.Context) error {
		return r.ensurer.EnsureDailyChallenges(jobCtx, time.Now().UTC())
	})
	r.runWithTimeout(ctx, "trending_refresh", func(jobCtx context.Context) error {
		_, err := r.trending.Refresh(jobCtx)
		return err
	})

	r.cron.Start()
	r.log.Info("background jobs started",
		"trending_refresh", r.cfg.TrendingRefresh.String(),
	)
}

// Stop halts the scheduler and waits for running jobs to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
	r.log.Info("background jobs stopped")
}

func (r *Runner) rolloverChallenges() {
	r.runWithTimeout(context.Background(), "challenge_rollover", func(jobCtx context.Context) error {
		return r.ensurer.EnsureDailyChallenges(jobCtx, time.Now().UTC())
	})
}

func (r *Runner) refreshTrending() {
	r.runWithTimeout(context.Background(), "trending_refresh", func(jobCtx context.Context) error {
		_, err := r.trending.Refresh(jobCtx)
		return err
	})
}

func (r *Runner) runWithTimeout(ctx context.Context, name string, fn func(ctx context.Context) error) {
	jobCtx, cancel := context.WithTimeout(ctx, r.cfg.JobTimeout)
	defer cancel()

	if err := fn(jobCtx); err != nil {
		r.log.Error("job failed", "job", name, "error", err)
	}
}
