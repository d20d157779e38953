package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"peopledesk/internal/platform/querier"
)

type JobFunc func(ctx context.Context) error

type job struct {
	name string
	fn   JobFunc
}

// Service runs background jobs in-process: an enqueue channel drained
// by a single worker, plus interval schedulers that feed it. Every run
// is recorded in job_runs.
type Service struct {
	DB     querier.Querier
	queue  chan job
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func New(db querier.Querier) *Service {
	return &Service{DB: db, queue: make(chan job, 64)}
}

func (s *Service) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case j := <-s.queue:
				s.runJob(ctx, j)
			}
		}
	}()
}

// Stop cancels the worker and schedulers and waits for them to exit.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Service) Enqueue(name string, fn JobFunc) {
	select {
	case s.queue <- job{name: name, fn: fn}:
	default:
		slog.Warn("job queue full, dropping job", slog.String("job", name))
	}
}

// Schedule enqueues the job immediately and then on every tick.
func (s *Service) Schedule(ctx context.Context, name string, interval time.Duration, fn JobFunc) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Enqueue(name, fn)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Enqueue(name, fn)
			}
		}
	}()
}

func (s *Service) runJob(ctx context.Context, j job) {
	start := time.Now()
	var runID string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (name, started_at, status)
    VALUES ($1, $2, 'running')
    RETURNING id
  `, j.name, start).Scan(&runID)
	if err != nil {
		slog.Error("failed to record job start",
			slog.String("job", j.name), slog.Any("error", err))
	}

	jobErr := j.fn(ctx)

	status := "succeeded"
	errText := ""
	if jobErr != nil {
		status = "failed"
		errText = jobErr.Error()
		slog.Error("job failed",
			slog.String("job", j.name),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", jobErr))
	} else {
		slog.Info("job completed",
			slog.String("job", j.name),
			slog.Duration("duration", time.Since(start)))
	}

	if runID != "" {
		if _, err := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET finished_at = now(), status = $1, error = NULLIF($2,'')
      WHERE id = $3
    `, status, errText, runID); err != nil {
			slog.Error("failed to record job finish",
				slog.String("job", j.name), slog.Any("error", err))
		}
	}
}
