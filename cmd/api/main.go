package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/projectpulse/pulse/internal/alertgate"
	"github.com/projectpulse/pulse/internal/classify"
	"github.com/projectpulse/pulse/internal/config"
	"github.com/projectpulse/pulse/internal/httpapi"
	"github.com/projectpulse/pulse/internal/logging"
	"github.com/projectpulse/pulse/internal/notify"
	"github.com/projectpulse/pulse/internal/pipeline"
	"github.com/projectpulse/pulse/internal/probe"
	"github.com/projectpulse/pulse/internal/repo"
	"github.com/projectpulse/pulse/internal/repo/memory"
	"github.com/projectpulse/pulse/internal/repo/postgres"
	"github.com/projectpulse/pulse/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		services  repo.ServiceStore
		incidents repo.IncidentStore
	)
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		services, incidents = pg, pg
		logger.Info("store_postgres")
	} else {
		mem := memory.New()
		services, incidents = mem, mem
		logger.Info("store_memory")
	}

	var notifiers notify.Multi
	if wh := notify.NewWebhook(cfg.Alerts.WebhookURL); wh != nil {
		notifiers = append(notifiers, wh)
	}
	if em := notify.NewEmail(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Password); em != nil {
		notifiers = append(notifiers, em)
	}

	gate := alertgate.New(logger, services, incidents, notifiers, cfg.Alerts.Cooldown)
	pipe := pipeline.New(logger,
		probe.NewHTTPProber(cfg.Probe.Timeout),
		classify.New(cfg.Classify.LatencyThresholdMS),
		gate,
	)
	sched := scheduler.New(logger, services, pipe, cfg.Scheduler.TickInterval, cfg.Scheduler.Concurrency)
	go sched.Run(ctx)

	api := httpapi.NewServer(logger, services, incidents)
	srv := &http.Server{Addr: cfg.Addr, Handler: api.Router()}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
