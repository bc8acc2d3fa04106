package application

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/failfastlab/orderflow/internal/inventory/domain"
	"github.com/failfastlab/orderflow/pkg/apperr"
)

func newTestStore(products ...*domain.Product) *Store {
	m := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return NewStore(slog.Default(), m)
}

func product(id string, free int) *domain.Product {
	return &domain.Product{ID: id, Name: "Product " + id, PriceCents: 1000, Free: free}
}

func TestReserveCommitRelease(t *testing.T) {
	s := newTestStore(product("p0001", 50))

	free, reserved, err := s.Reserve("p0001", 10)
	require.NoError(t, err)
	assert.Equal(t, 40, free)
	assert.Equal(t, 10, reserved)

	require.NoError(t, s.Commit("p0001", 10, "ord-1"))
	p, err := s.Get("p0001")
	require.NoError(t, err)
	assert.Equal(t, 40, p.Free)
	assert.Equal(t, 0, p.Reserved)

	// Only 40 free now; a 45-unit reserve must conflict.
	_, _, err = s.Reserve("p0001", 45)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestReleaseRoundTrip(t *testing.T) {
	s := newTestStore(product("p0001", 40))

	_, _, err := s.Reserve("p0001", 5)
	require.NoError(t, err)

	free, reserved, err := s.Release("p0001", 5)
	require.NoError(t, err)
	assert.Equal(t, 40, free)
	assert.Equal(t, 0, reserved)
}

func TestReserveErrors(t *testing.T) {
	s := newTestStore(product("p0001", 3))

	_, _, err := s.Reserve("p0001", 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, _, err = s.Reserve("p0001", -2)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, _, err = s.Reserve("missing", 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, _, err = s.Reserve("p0001", 4)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestCommitReleaseExceedingReservedConflicts(t *testing.T) {
	s := newTestStore(product("p0001", 10))

	_, _, err := s.Reserve("p0001", 4)
	require.NoError(t, err)

	// More than is reserved: defensive invariant, not a business path.
	assert.ErrorIs(t, s.Commit("p0001", 5, "ord-1"), apperr.ErrConflict)
	_, _, err = s.Release("p0001", 5)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	assert.ErrorIs(t, s.Commit("missing", 1, "ord-1"), apperr.ErrNotFound)
	assert.ErrorIs(t, s.Commit("p0001", 0, "ord-1"), apperr.ErrInvalidArgument)
}

func TestConcurrentReserveNeverOversells(t *testing.T) {
	const stock = 100
	s := newTestStore(product("p0001", stock))

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0

	for i := 0; i < 300; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := s.Reserve("p0001", 1); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, stock, granted)
	p, err := s.Get("p0001")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Free)
	assert.Equal(t, stock, p.Reserved)
}

func TestList(t *testing.T) {
	s := newTestStore(product("p0003", 1), product("p0001", 1), product("p0002", 1))

	all := s.List(0, 50)
	require.Len(t, all, 3)
	assert.Equal(t, "p0001", all[0].ID)
	assert.Equal(t, "p0003", all[2].ID)

	page := s.List(1, 1)
	require.Len(t, page, 1)
	assert.Equal(t, "p0002", page[0].ID)

	assert.Empty(t, s.List(10, 5))
}

func TestSummary(t *testing.T) {
	s := newTestStore(product("p0001", 50), product("p0002", 3))

	_, _, err := s.Reserve("p0001", 10)
	require.NoError(t, err)

	sum := s.Summary()
	assert.Equal(t, 2, sum.TotalProducts)
	assert.Equal(t, 43, sum.TotalFreeUnits)
	assert.Equal(t, 10, sum.TotalReservedUnits)
	assert.Equal(t, 1, sum.LowStockProductCount)
}

func TestAvailability(t *testing.T) {
	s := newTestStore(product("p0001", 5))

	ok, free, err := s.Availability("p0001", 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5, free)

	ok, _, err = s.Availability("p0001", 6)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = s.Availability("missing", 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
