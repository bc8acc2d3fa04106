package application

import (
	"context"
)

type ProductInfo struct {
	ID         string `json:"id"`
	PriceCents int64  `json:"price_cents"`
}

type CatalogClient interface {
	Get(ctx context.Context, productID string) (ProductInfo, error)
}

type InventoryClient interface {
	Reserve(ctx context.Context, productID string, qty int) (free, reserved int, err error)
	Commit(ctx context.Context, productID string, qty int, orderID string) error
	Release(ctx context.Context, productID string, qty int) (free, reserved int, err error)
}

type PaymentClient interface {
	Charge(ctx context.Context, orderID string, amountCents int64) error
}
