package application

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/failfastlab/orderflow/internal/inventory/domain"
	"github.com/failfastlab/orderflow/pkg/apperr"
)

// Store holds the per-product free/reserved counters. Every operation runs
// as a single critical section under one mutex so that no interleaving of
// reserve/commit/release can oversell a product.
type Store struct {
	log *slog.Logger

	mu       sync.Mutex
	products map[string]*domain.Product
}

func NewStore(log *slog.Logger, products map[string]*domain.Product) *Store {
	return &Store{log: log, products: products}
}

// Reserve moves qty units from free to reserved. Returns the updated
// counters.
func (s *Store) Reserve(productID string, qty int) (free, reserved int, err error) {
	if qty <= 0 {
		return 0, 0, apperr.ErrInvalidArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return 0, 0, apperr.ErrNotFound
	}
	if p.Free < qty {
		return 0, 0, apperr.ErrConflict
	}
	p.Free -= qty
	p.Reserved += qty
	s.log.Debug("reserved", "product_id", productID, "qty", qty, "free", p.Free, "reserved", p.Reserved)
	return p.Free, p.Reserved, nil
}

// Commit finalizes qty reserved units; they leave the system permanently.
// orderID is recorded in the log for traceability only; replays are not
// deduplicated.
func (s *Store) Commit(productID string, qty int, orderID string) error {
	if qty <= 0 {
		return apperr.ErrInvalidArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return apperr.ErrNotFound
	}
	if p.Reserved < qty {
		return apperr.ErrConflict
	}
	p.Reserved -= qty
	s.log.Debug("committed", "product_id", productID, "qty", qty, "order_id", orderID)
	return nil
}

// Release returns qty reserved units to free stock.
func (s *Store) Release(productID string, qty int) (free, reserved int, err error) {
	if qty <= 0 {
		return 0, 0, apperr.ErrInvalidArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return 0, 0, apperr.ErrNotFound
	}
	if p.Reserved < qty {
		return 0, 0, apperr.ErrConflict
	}
	p.Reserved -= qty
	p.Free += qty
	s.log.Debug("released", "product_id", productID, "qty", qty, "free", p.Free, "reserved", p.Reserved)
	return p.Free, p.Reserved, nil
}

// Get returns a copy of one product.
func (s *Store) Get(productID string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return domain.Product{}, apperr.ErrNotFound
	}
	return *p, nil
}

// List returns a page of products ordered by id.
func (s *Store) List(offset, limit int) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.products))
	for id := range s.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if offset < 0 {
		offset = 0
	}
	if offset > len(ids) {
		offset = len(ids)
	}
	end := offset + limit
	if limit <= 0 || end > len(ids) {
		end = len(ids)
	}

	page := make([]domain.Product, 0, end-offset)
	for _, id := range ids[offset:end] {
		page = append(page, *s.products[id])
	}
	return page
}

type Summary struct {
	TotalProducts        int `json:"total_products"`
	TotalFreeUnits       int `json:"total_free_units"`
	TotalReservedUnits   int `json:"total_reserved_units"`
	LowStockProductCount int `json:"low_stock_product_count"`
}

const lowStockThreshold = 5

func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Summary{TotalProducts: len(s.products)}
	for _, p := range s.products {
		out.TotalFreeUnits += p.Free
		out.TotalReservedUnits += p.Reserved
		if p.Free < lowStockThreshold {
			out.LowStockProductCount++
		}
	}
	return out
}

// Availability reports whether qty units of a product are currently free.
func (s *Store) Availability(productID string, qty int) (available bool, free int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return false, 0, apperr.ErrNotFound
	}
	return p.Free >= qty, p.Free, nil
}
