// Package scheduler runs the periodic jobs on a River queue: the weekly
// draw-and-recreate cycle and the pending-payment sweep. River stores jobs
// in Postgres, so ticks survive restarts and multiple instances do not
// double-run a job.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	lotteryservice "github.com/cryptolotto/lotto-backend/app/modules/lottery/application"
	paymentservice "github.com/cryptolotto/lotto-backend/app/modules/payment/application"
	"github.com/cryptolotto/lotto-backend/app/shared/attr"
)

const sweepInterval = 5 * time.Minute

// Service owns the River client and its connection pool.
type Service struct {
	client *river.Client[pgx.Tx]
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewService creates the scheduler. drawInterval is the round cadence; the
// draw tick fires on that interval and the sweep every five minutes.
func NewService(
	ctx context.Context,
	dsn string,
	drawInterval time.Duration,
	lottery lotteryservice.Service,
	payments paymentservice.Service,
	logger *slog.Logger,
) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// River requires pgx, not database/sql.
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewDrawWorker(lottery, logger))
	river.AddWorker(workers, NewSweepWorker(payments, logger))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 5},
		},
		Workers:      workers,
		PeriodicJobs: periodicJobs(drawInterval),
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	return &Service{
		client: client,
		pool:   pool,
		logger: logger,
	}, nil
}

// periodicJobs declares the recurring work. Unique opts keep concurrent
// instances from inserting the same tick twice.
func periodicJobs(drawInterval time.Duration) []*river.PeriodicJob {
	uniqueByKind := &river.InsertOpts{
		UniqueOpts: river.UniqueOpts{ByArgs: true},
	}
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(drawInterval),
			func() (river.JobArgs, *river.InsertOpts) {
				return DrawAndRecreateJob{}, uniqueByKind
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		),
		river.NewPeriodicJob(
			river.PeriodicInterval(sweepInterval),
			func() (river.JobArgs, *river.InsertOpts) {
				return PaymentSweepJob{}, uniqueByKind
			},
			&river.PeriodicJobOpts{RunOnStart: false},
		),
	}
}

// Start begins processing jobs.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting scheduler")
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	return nil
}

// Stop drains running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping scheduler")
	if err := s.client.Stop(ctx); err != nil {
		s.logger.Warn("Scheduler stop error", attr.Error(err))
	}
	s.pool.Close()
	return nil
}
