// Command server runs the rezo registration API.
//
// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal feature
// packages. Postgres, Redis and Kafka are all optional: when unconfigured the
// process falls back to in-memory implementations so local development needs
// no backing services.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rezo/internal/mailer"
	mailerhandler "rezo/internal/mailer/handler"
	"rezo/internal/platform/config"
	"rezo/internal/platform/httpserver"
	"rezo/internal/platform/logger"
	"rezo/internal/platform/metrics"
	"rezo/internal/platform/postgres"
	"rezo/internal/platform/redis"
	reghandler "rezo/internal/registrant/handler"
	regmetrics "rezo/internal/registrant/metrics"
	regservice "rezo/internal/registrant/service"
	regstore "rezo/internal/registrant/store"
	httptransport "rezo/internal/transport/http"
	verifhandler "rezo/internal/verification/handler"
	verifmetrics "rezo/internal/verification/metrics"
	verifservice "rezo/internal/verification/service"
	verifstore "rezo/internal/verification/store"
	"rezo/internal/verification/token"
	audit "rezo/pkg/platform/audit"
	auditpublisher "rezo/pkg/platform/audit/publisher"
	auditkafka "rezo/pkg/platform/audit/store/kafka"
	auditmemory "rezo/pkg/platform/audit/store/memory"
)

const (
	startupTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
	auditBufferSize = 256
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Postgres. Nil client means in-memory registrant storage.
	pg, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	var registrants regstore.Store
	if pg != nil {
		if err := regstore.EnsureSchema(ctx, pg.Pool()); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		registrants = regstore.NewPostgres(pg.Pool())
		defer pg.Close()
	} else {
		log.Warn("DATABASE_URL not set, using in-memory registrant store")
		registrants = regstore.NewInMemory()
	}

	// Redis. Nil client means in-memory verification codes.
	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	var codes verifstore.CodeStore
	if rdb != nil {
		codes = verifstore.NewRedis(rdb.Client)
		defer rdb.Close()
	} else {
		log.Warn("REDIS_URL not set, using in-memory verification store")
		codes = verifstore.NewInMemory()
	}

	// Audit trail. Kafka when brokers are configured, in-process otherwise.
	var auditSink audit.Store
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaStore, err := auditkafka.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer kafkaStore.Close()
		auditSink = kafkaStore
	} else {
		log.Warn("KAFKA_BROKERS not set, keeping audit trail in memory")
		auditSink = auditmemory.NewInMemoryStore()
	}
	publisher := auditpublisher.NewPublisher(auditSink, auditpublisher.WithAsyncBuffer(auditBufferSize))
	defer publisher.Close()

	// Outbound mail. Log-only sender when no relay is configured.
	var sender mailer.Sender
	if cfg.SMTP.Host != "" {
		sender = mailer.NewSMTPSender(cfg.SMTP)
	} else {
		log.Warn("SMTP_HOST not set, emails will only be logged")
		sender = mailer.NewLogSender(log)
	}

	issuer := token.NewIssuer([]byte(cfg.JWTSigningKey), 24*time.Hour)

	registrantSvc := regservice.NewService(registrants, issuer, publisher, log, regmetrics.New())
	verificationSvc := verifservice.NewService(codes, sender, issuer, publisher, log, verifmetrics.New(), cfg.CodeTTL, cfg.ResendCooldown)

	// Typed nil pointers must not reach the interface fields, or /healthz
	// would treat an unconfigured dependency as configured and panic.
	var pgHealth, redisHealth httptransport.HealthChecker
	if pg != nil {
		pgHealth = pg
	}
	if rdb != nil {
		redisHealth = rdb
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Metrics:      metrics.New(),
		Registrant:   reghandler.New(registrantSvc),
		Verification: verifhandler.New(verificationSvc),
		Mail:         mailerhandler.New(sender),
		Postgres:     pgHealth,
		Redis:        redisHealth,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
