package httpclient

import (
	"context"
	"log/slog"
	"net/http"
)

type Payment struct {
	log  *slog.Logger
	base string
	hc   *http.Client
}

func NewPayment(log *slog.Logger, baseURL string) *Payment {
	return &Payment{log: log, base: baseURL, hc: newHTTPClient()}
}

type chargeReq struct {
	OrderID     string `json:"order_id"`
	AmountCents int64  `json:"amount_cents"`
}

func (c *Payment) Charge(ctx context.Context, orderID string, amountCents int64) error {
	return doJSON(ctx, c.hc, http.MethodPost, c.base+"/pay",
		chargeReq{OrderID: orderID, AmountCents: amountCents}, nil)
}
