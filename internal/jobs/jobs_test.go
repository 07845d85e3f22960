package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

type mockEnsurer struct {
	calls []time.Time
	err   error
}

func (m *mockEnsurer) EnsureDailyChallenges(_ context.Context, date time.Time) error {
	m.calls = append(m.calls, date)
	return m.err
}

type mockRefresher struct {
	calls int
	err   error
}

func (m *mockRefresher) Refresh(_ context.Context) ([]*domain.Question, error) {
	m.calls++
	return nil, m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunner_StartRunsJobsImmediately(t *testing.T) {
	t.Parallel()

	ensurer := &mockEnsurer{}
	refresher := &mockRefresher{}

	r, err := NewRunner(testLogger(), ensurer, refresher, Config{TrendingRefresh: time.Hour})
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Stop()

	r.Start(context.Background())

	if len(ensurer.calls) != 1 {
		t.Errorf("EnsureDailyChallenges called %d times, want 1", len(ensurer.calls))
	}
	if refresher.calls != 1 {
		t.Errorf("Refresh called %d times, want 1", refresher.calls)
	}
}

func TestRunner_JobErrorsDoNotPropagate(t *testing.T) {
	t.Parallel()

	ensurer := &mockEnsurer{err: errors.New("db down")}
	refresher := &mockRefresher{err: errors.New("db down")}

	r, err := NewRunner(testLogger(), ensurer, refresher, Config{TrendingRefresh: time.Hour})
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Stop()

	// Must not panic or abort startup.
	r.Start(context.Background())
}

func TestNewRunner_DefaultsApplied(t *testing.T) {
	t.Parallel()

	r, err := NewRunner(testLogger(), &mockEnsurer{}, &mockRefresher{}, Config{})
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	if r.cfg.TrendingRefresh != 5*time.Minute {
		t.Errorf("TrendingRefresh = %v, want 5m", r.cfg.TrendingRefresh)
	}
	if r.cfg.JobTimeout != time.Minute {
		t.Errorf("JobTimeout = %v, want 1m", r.cfg.JobTimeout)
	}
}
