package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/failfastlab/orderflow/internal/inventory/application"
	"github.com/failfastlab/orderflow/pkg/apperr"
	"github.com/failfastlab/orderflow/pkg/tracing"
)

type Handler struct {
	log    *slog.Logger
	store  *application.Store
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, store *application.Store) *Handler {
	return &Handler{
		log:    log,
		store:  store,
		tracer: otel.Tracer("inventory-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/summary", h.summary)
	r.Get("/availability", h.availability)
	r.Post("/reserve", h.reserve)
	r.Post("/commit", h.commit)
	r.Post("/release", h.release)

	return r
}

type reserveReq struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type commitReq struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	OrderID   string `json:"order_id"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	offset := intQuery(r, "offset", 0)
	limit := intQuery(r, "limit", 50)
	writeJSON(w, http.StatusOK, h.store.List(offset, limit))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Summary())
}

func (h *Handler) availability(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("product_id")
	qty := intQuery(r, "qty", 1)

	available, free, err := h.store.Availability(productID, qty)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"product_id": productID,
		"requested":  qty,
		"available":  available,
		"free":       free,
	})
}

func (h *Handler) reserve(w http.ResponseWriter, r *http.Request) {
	ctx := tracing.ExtractHTTPHeaders(r.Context(), r)
	_, span := h.tracer.Start(ctx, "Reserve")
	defer span.End()

	var req reserveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	free, reserved, err := h.store.Reserve(req.ProductID, req.Qty)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "reserved",
		"product_id":   req.ProductID,
		"qty":          req.Qty,
		"free_now":     free,
		"reserved_now": reserved,
	})
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	ctx := tracing.ExtractHTTPHeaders(r.Context(), r)
	_, span := h.tracer.Start(ctx, "Commit")
	defer span.End()

	var req commitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.store.Commit(req.ProductID, req.Qty, req.OrderID); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "committed",
		"product_id": req.ProductID,
		"qty":        req.Qty,
		"order_id":   req.OrderID,
	})
}

func (h *Handler) release(w http.ResponseWriter, r *http.Request) {
	ctx := tracing.ExtractHTTPHeaders(r.Context(), r)
	_, span := h.tracer.Start(ctx, "Release")
	defer span.End()

	var req reserveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	free, reserved, err := h.store.Release(req.ProductID, req.Qty)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "released",
		"product_id":   req.ProductID,
		"qty":          req.Qty,
		"free_now":     free,
		"reserved_now": reserved,
	})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), apperr.HTTPStatus(err))
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
