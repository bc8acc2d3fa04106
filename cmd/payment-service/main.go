package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/failfastlab/orderflow/internal/payment/application"
	payhttp "github.com/failfastlab/orderflow/internal/payment/infrastructure/http"
	"github.com/failfastlab/orderflow/pkg/logging"
	"github.com/failfastlab/orderflow/pkg/shutdown"
	"github.com/failfastlab/orderflow/pkg/tracing"
)

func main() {
	log := logging.New()
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	jaeger := env("JAEGER_URL", "http://localhost:14268/api/traces")
	httpAddr := env("HTTP_ADDR", ":8002")

	cfg := application.DefaultConfig()
	cfg.DeclineRate = envFloat("DECLINE_RATE", cfg.DeclineRate)
	cfg.SlowRate = envFloat("SLOW_RATE", cfg.SlowRate)

	tp, err := tracing.Init(ctx, "payment-service", jaeger, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	sim := application.NewSimulator(log, cfg)
	handler := payhttp.NewHandler(log, sim)

	r := chi.NewRouter()
	r.Mount("/", handler.Routes())
	// WriteTimeout must outlast the slowest simulated charge.
	srv := &http.Server{
		Addr:         httpAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	go func() {
		log.Info("payment listening", "addr", httpAddr,
			"decline_rate", cfg.DeclineRate, "slow_rate", cfg.SlowRate)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("payment-service shutdown complete")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
