package http

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/failfastlab/orderflow/internal/gateway/application"
	"github.com/failfastlab/orderflow/internal/gateway/domain"
	gwkafka "github.com/failfastlab/orderflow/internal/gateway/infrastructure/kafka"
	"github.com/failfastlab/orderflow/pkg/apperr"
	"github.com/failfastlab/orderflow/pkg/metrics"
	"github.com/failfastlab/orderflow/pkg/tracing"
)

type Handler struct {
	log     *slog.Logger
	ctrl    *domain.Controller
	svc     *application.Service
	emitter *gwkafka.Emitter
	rec     *metrics.Recorder
	promh   http.Handler
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, ctrl *domain.Controller, svc *application.Service, emitter *gwkafka.Emitter, rec *metrics.Recorder, promh http.Handler) *Handler {
	return &Handler{
		log:     log,
		ctrl:    ctrl,
		svc:     svc,
		emitter: emitter,
		rec:     rec,
		promh:   promh,
		tracer:  otel.Tracer("gateway-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/buy", h.buy)
	r.Get("/metrics", h.metrics)
	if h.promh != nil {
		r.Handle("/metrics/prometheus", h.promh)
	}

	return r
}

func (h *Handler) buy(w http.ResponseWriter, r *http.Request) {
	ctx := tracing.ExtractHTTPHeaders(r.Context(), r)
	ctx, span := h.tracer.Start(ctx, "Buy")
	defer span.End()

	t0 := time.Now()
	stats := h.ctrl.Stats()
	stats.RecordRequest()
	h.rec.Request(ctx)

	productID := r.URL.Query().Get("product_id")
	qty := intQuery(r, "qty", 1)

	release, err := h.ctrl.Admit()
	if err != nil {
		stats.RecordError()
		h.rec.Error(ctx)
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}
	defer release()
	h.rec.InflightAdd(ctx, 1)
	defer h.rec.InflightAdd(ctx, -1)

	conf, err := h.svc.Purchase(ctx, productID, qty)
	if err != nil {
		stats.RecordError()
		h.rec.Error(ctx)
		h.emitter.PurchaseFailed(ctx, string(h.ctrl.Mode()), productID, qty, err)
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	stats.RecordLatency(time.Since(t0))
	h.rec.Duration(ctx, time.Since(t0))
	h.emitter.PurchaseCompleted(ctx, string(h.ctrl.Mode()), conf.Product, conf.Qty)

	status := "ok"
	if h.ctrl.Mode() == domain.ModeBroken {
		status = "ok-broken"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"product": conf.Product,
		"qty":     conf.Qty,
	})
}

func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	rep := h.ctrl.Snapshot()

	var p95 any = "n/a"
	if rep.HasP95 {
		p95 = rep.P95.Seconds()
	}
	out := map[string]any{
		"mode":                string(rep.Mode),
		"requests":            rep.Requests,
		"errors":              rep.Errors,
		"p95_latency_seconds": p95,
		"pending":             rep.Pending,
	}
	if rep.Mode == domain.ModeBroken {
		out["leaky_bag_megabytes"] = math.Round(float64(rep.LeakedBytes)/1048576*10) / 10
	} else {
		out["max_queue"] = rep.Capacity
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func intQuery(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
