package httpclient

import (
	"context"
	"log/slog"
	"net/http"
)

type Inventory struct {
	log  *slog.Logger
	base string
	hc   *http.Client
}

func NewInventory(log *slog.Logger, baseURL string) *Inventory {
	return &Inventory{log: log, base: baseURL, hc: newHTTPClient()}
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

type countersResp struct {
	FreeNow     int `json:"free_now"`
	ReservedNow int `json:"reserved_now"`
}

func (c *Inventory) Reserve(ctx context.Context, productID string, qty int) (free, reserved int, err error) {
	var out countersResp
	err = doJSON(ctx, c.hc, http.MethodPost, c.base+"/reserve", reserveReq{ProductID: productID, Qty: qty}, &out)
	if err != nil {
		return 0, 0, err
	}
	return out.FreeNow, out.ReservedNow, nil
}

func (c *Inventory) Commit(ctx context.Context, productID string, qty int, orderID string) error {
	return doJSON(ctx, c.hc, http.MethodPost, c.base+"/commit",
		commitReq{ProductID: productID, Qty: qty, OrderID: orderID}, nil)
}

func (c *Inventory) Release(ctx context.Context, productID string, qty int) (free, reserved int, err error) {
	var out countersResp
	err = doJSON(ctx, c.hc, http.MethodPost, c.base+"/release", reserveReq{ProductID: productID, Qty: qty}, &out)
	if err != nil {
		return 0, 0, err
	}
	return out.FreeNow, out.ReservedNow, nil
}
