package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"steamgate/internal/admission"
	"steamgate/internal/admission/cache"
	"steamgate/internal/admission/handler"
	"steamgate/internal/admission/metrics"
	"steamgate/internal/audit"
	"steamgate/internal/lang"
	"steamgate/internal/platform/config"
	"steamgate/internal/platform/httpserver"
	"steamgate/internal/platform/logger"
	platformredis "steamgate/internal/platform/redis"
	"steamgate/internal/steam"
	"steamgate/internal/whitelist"
	"steamgate/pkg/platform/middleware/requestid"
	"steamgate/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Admission logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	m := metrics.New()
	messages := lang.NewCatalog(cfg.AdditionalKickMessage)
	members := cache.New(cfg.CachePassedPlayers, cfg.CacheDeniedPlayers)

	// An empty API key disables the whole admission subsystem rather than
	// failing every connection.
	var service *admission.Service
	if cfg.Enabled() {
		var clientOpts []steam.Option
		if cfg.SteamBaseURL != "" {
			clientOpts = append(clientOpts, steam.WithBaseURL(cfg.SteamBaseURL))
		}
		client, err := steam.New(cfg.SteamAPIKey, clientOpts...)
		if err != nil {
			log.Error("steam client init failed", "error", err)
			os.Exit(1)
		}

		service, err = admission.NewService(client, cfg.Policy,
			admission.WithLogger(log),
			admission.WithMetrics(m),
		)
		if err != nil {
			log.Error("admission service init failed", "error", err)
			os.Exit(1)
		}

		for _, warning := range cfg.Policy.Warnings() {
			log.Warn(warning)
		}
	} else {
		log.Error("STEAM_API_KEY is not set: admission checks are disabled, every connection will be admitted")
	}

	var bypass whitelist.Store = whitelist.NewInMemory()
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		bypass = whitelist.NewRedis(redisClient.Client)
		log.Info("whitelist backed by redis")
	}

	var publisher audit.Publisher = audit.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafka(cfg.KafkaBrokers, cfg.AuditTopic, audit.WithLogger(log))
		if err != nil {
			log.Error("audit publisher init failed", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		publisher = kafka
		log.Info("audit events published to kafka", "topic", cfg.AuditTopic)
	}

	gate, err := admission.NewGate(service, members, bypass, messages,
		admission.GateConfig{
			Enabled:          cfg.Enabled(),
			LogInsteadOfKick: cfg.LogInsteadOfKick,
		},
		admission.GateWithLogger(log),
		admission.GateWithMetrics(m),
		admission.GateWithAudit(publisher),
	)
	if err != nil {
		log.Error("gate init failed", "error", err)
		os.Exit(1)
	}

	var diagnoser handler.Diagnoser
	if service != nil {
		diagnoser = service
	}
	h := handler.New(gate, diagnoser, bypass, log)

	router := chi.NewRouter()
	router.Use(requestid.Middleware)
	router.Use(requesttime.Middleware)
	h.Register(router)
	h.RegisterAdmin(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting steamgate", "addr", cfg.Addr, "enabled", cfg.Enabled())

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
