// Package app wires configuration, storage, the event bus, every module,
// the HTTP API, and the scheduler into one runnable unit.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/cryptolotto/lotto-backend/app/modules/lottery"
	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
	"github.com/cryptolotto/lotto-backend/app/modules/payment"
	"github.com/cryptolotto/lotto-backend/app/modules/stats"
	"github.com/cryptolotto/lotto-backend/app/modules/ticket"
	"github.com/cryptolotto/lotto-backend/app/modules/user"
	"github.com/cryptolotto/lotto-backend/app/scheduler"
	"github.com/cryptolotto/lotto-backend/app/server"
	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/eventbus"
	"github.com/cryptolotto/lotto-backend/app/shared/metrics"
	"github.com/cryptolotto/lotto-backend/config"
	"github.com/cryptolotto/lotto-backend/db/bundb"
)

const metricsNamespace = "lotto"

// App is the assembled service.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Modules server.Modules

	db        *bun.DB
	bus       eventbus.EventBus
	httpSrv   *server.Server
	metricSrv *http.Server
	sched     *scheduler.Service
}

// New builds the full dependency graph. Nothing starts running until Run.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := bundb.New(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var bus eventbus.EventBus = eventbus.NoOpBus{}
	if cfg.NATS.URL != "" {
		jsBus, err := eventbus.NewJetStreamEventBus(cfg.NATS.URL, watermill.NewSlogLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to connect event bus: %w", err)
		}
		bus = jsBus
	} else {
		logger.Warn("NATS URL not configured, domain events are disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	operationMetrics := metrics.NewPrometheus(registry, metricsNamespace)
	counters := metrics.NewLotteryCounters(registry, metricsNamespace)
	tracer := otel.Tracer("lotto-backend")

	roundRepo := lotterydb.NewRepository(db)
	lotteryModule := lottery.NewModule(logger, operationMetrics, counters, tracer, db, bus, cfg.Lottery)
	ticketModule := ticket.NewModule(logger, operationMetrics, counters, tracer, db, bus, roundRepo)
	paymentModule := payment.NewModule(
		logger, operationMetrics, counters, tracer, db, bus,
		roundRepo, ticketModule.Service, cfg.Payment, cfg.HTTP.FrontendURL,
	)
	statsModule := stats.NewModule(logger, operationMetrics, tracer, db, roundRepo, lotteryModule.Service)
	userModule := user.NewModule(logger, operationMetrics, tracer, db)

	mods := server.Modules{
		Lottery: lotteryModule,
		Ticket:  ticketModule,
		Payment: paymentModule,
		Stats:   statsModule,
		User:    userModule,
	}

	sched, err := scheduler.NewService(
		ctx, cfg.Postgres.DSN, cfg.Lottery.RoundDuration,
		lotteryModule.Service, paymentModule.Service, logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Modules: mods,
		db:      db,
		bus:     bus,
		httpSrv: server.New(cfg.HTTP.Addr, server.NewRouter(mods, cfg), logger),
		sched:   sched,
	}
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		a.metricSrv = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
	}
	return a, nil
}

// Run serves until ctx is cancelled, then shuts everything down in reverse
// dependency order.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.httpSrv.Run(gctx)
	})

	g.Go(func() error {
		if err := a.sched.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		return a.sched.Stop(context.Background())
	})

	if a.metricSrv != nil {
		g.Go(func() error {
			a.Logger.Info("Metrics server listening", attr.String("addr", a.metricSrv.Addr))
			if err := a.metricSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return a.metricSrv.Shutdown(context.Background())
		})
	}

	err := g.Wait()

	if cerr := a.bus.Close(); cerr != nil {
		a.Logger.Warn("Failed to close event bus", attr.Error(cerr))
	}
	if cerr := a.db.Close(); cerr != nil {
		a.Logger.Warn("Failed to close database", attr.Error(cerr))
	}
	return err
}
