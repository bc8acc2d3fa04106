package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/failfastlab/orderflow/internal/gateway/domain"
	"github.com/failfastlab/orderflow/pkg/apperr"
)

// Service drives one purchase end to end: lookup, reserve, charge, commit,
// with a compensating release when charge or commit fails.
type Service struct {
	log      *slog.Logger
	catalog  CatalogClient
	inv      InventoryClient
	pay      PaymentClient
	timeouts domain.Timeouts
}

func NewService(log *slog.Logger, catalog CatalogClient, inv InventoryClient, pay PaymentClient, timeouts domain.Timeouts) *Service {
	return &Service{
		log:      log,
		catalog:  catalog,
		inv:      inv,
		pay:      pay,
		timeouts: timeouts,
	}
}

type Confirmation struct {
	Product string `json:"product"`
	Qty     int    `json:"qty"`
}

func (s *Service) Purchase(ctx context.Context, productID string, qty int) (Confirmation, error) {
	if qty <= 0 {
		return Confirmation{}, apperr.ErrInvalidArgument
	}

	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return Confirmation{}, err
	}
	amount := product.PriceCents * int64(qty)

	if err := s.reserve(ctx, productID, qty); err != nil {
		// Nothing held yet, nothing to compensate.
		return Confirmation{}, err
	}

	// The order id is informational and regenerated per downstream call; it
	// is not an idempotency key.
	if err := s.charge(ctx, newOrderID(), amount); err != nil {
		s.release(ctx, productID, qty)
		return Confirmation{}, fmt.Errorf("%w: %s", apperr.ErrPaymentFailed, err)
	}

	if err := s.commit(ctx, productID, qty, newOrderID()); err != nil {
		s.release(ctx, productID, qty)
		return Confirmation{}, fmt.Errorf("%w: %s", apperr.ErrCommitFailed, err)
	}

	return Confirmation{Product: productID, Qty: qty}, nil
}

func (s *Service) getProduct(ctx context.Context, productID string) (ProductInfo, error) {
	ctx, cancel := withTimeout(ctx, s.timeouts.Catalog)
	defer cancel()
	return s.catalog.Get(ctx, productID)
}

func (s *Service) reserve(ctx context.Context, productID string, qty int) error {
	ctx, cancel := withTimeout(ctx, s.timeouts.Reserve)
	defer cancel()
	_, _, err := s.inv.Reserve(ctx, productID, qty)
	return err
}

func (s *Service) charge(ctx context.Context, orderID string, amountCents int64) error {
	ctx, cancel := withTimeout(ctx, s.timeouts.Payment)
	defer cancel()
	return s.pay.Charge(ctx, orderID, amountCents)
}

func (s *Service) commit(ctx context.Context, productID string, qty int, orderID string) error {
	ctx, cancel := withTimeout(ctx, s.timeouts.Commit)
	defer cancel()
	return s.inv.Commit(ctx, productID, qty, orderID)
}

// release compensates a held reservation. A failure here means the counters
// are inconsistent and there is no further recourse; it is logged and not
// retried.
func (s *Service) release(ctx context.Context, productID string, qty int) {
	ctx, cancel := withTimeout(ctx, s.timeouts.Reserve)
	defer cancel()
	if _, _, err := s.inv.Release(ctx, productID, qty); err != nil {
		s.log.Error("compensating release failed, stock may be stuck in reserved",
			"product_id", productID, "qty", qty, "err", err)
	}
}

func newOrderID() string {
	return "ord-" + uuid.NewString()
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
