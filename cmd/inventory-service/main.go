package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/failfastlab/orderflow/internal/inventory/application"
	"github.com/failfastlab/orderflow/internal/inventory/domain"
	invhttp "github.com/failfastlab/orderflow/internal/inventory/infrastructure/http"
	"github.com/failfastlab/orderflow/pkg/logging"
	"github.com/failfastlab/orderflow/pkg/shutdown"
	"github.com/failfastlab/orderflow/pkg/tracing"
)

func main() {
	log := logging.New()
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	jaeger := env("JAEGER_URL", "http://localhost:14268/api/traces")
	httpAddr := env("HTTP_ADDR", ":8003")

	tp, err := tracing.Init(ctx, "inventory-service", jaeger, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	store := application.NewStore(log, domain.SeedCatalog())
	handler := invhttp.NewHandler(log, store)

	r := chi.NewRouter()
	r.Mount("/", handler.Routes())
	srv := &http.Server{
		Addr:         httpAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("inventory listening", "addr", httpAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("inventory-service shutdown complete")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
