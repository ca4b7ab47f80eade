package sweepers

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// TaskQueueSweeper periodically requeues tasks whose worker died
// mid-processing. A task stuck in processing past the stale window goes
// back to pending if it has retries left, otherwise it is failed.
type TaskQueueSweeper struct {
	pool       *pgxpool.Pool
	logger     *zerolog.Logger
	interval   time.Duration
	staleAfter time.Duration
	stopChan   chan struct{}
}

func NewTaskQueueSweeper(pool *pgxpool.Pool, logger *zerolog.Logger, interval, staleAfter time.Duration) *TaskQueueSweeper {
	return &TaskQueueSweeper{
		pool:       pool,
		logger:     logger,
		interval:   interval,
		staleAfter: staleAfter,
		stopChan:   make(chan struct{}),
	}
}

// Start begins the periodic recovery sweep
func (s *TaskQueueSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("stale_after", s.staleAfter).
		Msg("Starting task queue sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Task queue sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Task queue sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			if err := s.RecoverOrphanedTasks(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Failed to recover orphaned tasks")
			}
		}
	}
}

// Stop signals the sweeper to stop
func (s *TaskQueueSweeper) Stop() {
	close(s.stopChan)
}

// RecoverOrphanedTasks requeues or fails stale processing tasks
func (s *TaskQueueSweeper) RecoverOrphanedTasks(ctx context.Context) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE task_queue
		SET status = CASE WHEN attempts < max_retries THEN 'pending' ELSE 'failed' END,
		    last_error = 'recovered by sweeper',
		    started_at = NULL
		WHERE status = 'processing'
		  AND started_at < NOW() - make_interval(secs => $1)
	`, int(s.staleAfter.Seconds()))
	if err != nil {
		return fmt.Errorf("recovering orphaned tasks: %w", err)
	}

	if n := tag.RowsAffected(); n > 0 {
		s.logger.Info().Int64("recovered", n).Msg("Recovered orphaned tasks")
	}
	return nil
}
