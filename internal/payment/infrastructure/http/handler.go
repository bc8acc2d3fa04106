package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/failfastlab/orderflow/internal/payment/application"
	"github.com/failfastlab/orderflow/pkg/apperr"
	"github.com/failfastlab/orderflow/pkg/tracing"
)

type Handler struct {
	log    *slog.Logger
	sim    *application.Simulator
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, sim *application.Simulator) *Handler {
	return &Handler{
		log:    log,
		sim:    sim,
		tracer: otel.Tracer("payment-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/pay", h.pay)

	return r
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	ctx := tracing.ExtractHTTPHeaders(r.Context(), r)
	ctx, span := h.tracer.Start(ctx, "Pay")
	defer span.End()

	var c application.Charge
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := h.sim.Process(ctx, c); err != nil {
		if errors.Is(err, apperr.ErrPaymentFailed) {
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"status": "error",
				"reason": "card declined",
			})
			return
		}
		// Caller went away mid-charge.
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "charged",
		"order_id":     c.OrderID,
		"amount_cents": c.AmountCents,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
