package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/failfastlab/orderflow/internal/gateway/application"
	"github.com/failfastlab/orderflow/internal/gateway/domain"
	gwhttp "github.com/failfastlab/orderflow/internal/gateway/infrastructure/http"
	"github.com/failfastlab/orderflow/internal/gateway/infrastructure/httpclient"
	gwkafka "github.com/failfastlab/orderflow/internal/gateway/infrastructure/kafka"
	"github.com/failfastlab/orderflow/pkg/logging"
	"github.com/failfastlab/orderflow/pkg/metrics"
	"github.com/failfastlab/orderflow/pkg/shutdown"
	"github.com/failfastlab/orderflow/pkg/tracing"
)

func main() {
	log := logging.New()

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// Configuration
	mode := domain.Mode(strings.ToUpper(env("MODE", "BROKEN")))
	if mode != domain.ModeBroken && mode != domain.ModeFailFast {
		log.Error("unknown MODE, expected BROKEN or FAILFAST", "mode", string(mode))
		os.Exit(1)
	}
	capacity := envInt("MAX_QUEUE", 150)
	inventoryURL := env("INVENTORY_URL", "http://localhost:8003")
	paymentURL := env("PAYMENT_URL", "http://localhost:8002")
	jaeger := env("JAEGER_URL", "http://localhost:14268/api/traces")
	httpAddr := env("HTTP_ADDR", ":8080")
	redisAddr := os.Getenv("REDIS_ADDR")
	kafkaAddr := os.Getenv("KAFKA_ADDR")
	eventsTopic := env("EVENTS_TOPIC", "purchase.events")

	tp, err := tracing.Init(ctx, "gateway", jaeger, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	mp, promHandler, err := metrics.Setup("gateway")
	if err != nil {
		log.Error("metrics init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = mp.Shutdown(ctx) }()

	rec, err := metrics.NewRecorder(mp)
	if err != nil {
		log.Error("metrics recorder failed", "err", err)
		os.Exit(1)
	}

	// Outbound clients
	var catalog application.CatalogClient = httpclient.NewCatalog(log, inventoryURL)
	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer rdb.Close()
		catalog = httpclient.NewCachedCatalog(log, catalog, rdb, 30*time.Second)
		log.Info("catalog cache enabled", "redis", redisAddr)
	}
	inv := httpclient.NewInventory(log, inventoryURL)
	pay := httpclient.NewPayment(log, paymentURL)

	// Optional purchase event stream
	var emitter *gwkafka.Emitter
	if kafkaAddr != "" {
		writer := gwkafka.NewWriter([]string{kafkaAddr}, eventsTopic)
		defer writer.Close()
		emitter = gwkafka.NewEmitter(log, writer)
		log.Info("purchase events enabled", "kafka", kafkaAddr, "topic", eventsTopic)
	}

	ctrl := domain.NewController(mode, capacity, domain.NewStats())
	svc := application.NewService(log, catalog, inv, pay, ctrl.Timeouts())
	handler := gwhttp.NewHandler(log, ctrl, svc, emitter, rec, promHandler)

	r := chi.NewRouter()
	r.Mount("/", handler.Routes())
	// No WriteTimeout: broken mode deliberately holds responses open for as
	// long as a stalled payment call takes.
	srv := &http.Server{
		Addr:        httpAddr,
		Handler:     r,
		ReadTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("gateway listening", "addr", httpAddr, "mode", string(mode))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("gateway shutdown complete")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
