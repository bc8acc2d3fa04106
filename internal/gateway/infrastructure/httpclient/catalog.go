package httpclient

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/failfastlab/orderflow/internal/gateway/application"
)

type Catalog struct {
	log  *slog.Logger
	base string
	hc   *http.Client
}

func NewCatalog(log *slog.Logger, baseURL string) *Catalog {
	return &Catalog{log: log, base: baseURL, hc: newHTTPClient()}
}

func (c *Catalog) Get(ctx context.Context, productID string) (application.ProductInfo, error) {
	var out application.ProductInfo
	if err := doJSON(ctx, c.hc, http.MethodGet, c.base+"/products/"+productID, nil, &out); err != nil {
		return application.ProductInfo{}, err
	}
	return out, nil
}
