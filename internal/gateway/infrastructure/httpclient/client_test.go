package httpclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invapp "github.com/failfastlab/orderflow/internal/inventory/application"
	invdomain "github.com/failfastlab/orderflow/internal/inventory/domain"
	invhttp "github.com/failfastlab/orderflow/internal/inventory/infrastructure/http"
	"github.com/failfastlab/orderflow/pkg/apperr"
)

func newInventoryServer(t *testing.T) (*httptest.Server, *invapp.Store) {
	t.Helper()
	store := invapp.NewStore(slog.Default(), map[string]*invdomain.Product{
		"p0001": {ID: "p0001", Name: "Product p0001", PriceCents: 1500, Free: 20},
	})
	srv := httptest.NewServer(invhttp.NewHandler(slog.Default(), store).Routes())
	t.Cleanup(srv.Close)
	return srv, store
}

func TestCatalogGet(t *testing.T) {
	srv, _ := newInventoryServer(t)
	c := NewCatalog(slog.Default(), srv.URL)

	p, err := c.Get(context.Background(), "p0001")
	require.NoError(t, err)
	assert.Equal(t, "p0001", p.ID)
	assert.Equal(t, int64(1500), p.PriceCents)

	_, err = c.Get(context.Background(), "p9999")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestInventoryReserveCommitRelease(t *testing.T) {
	srv, store := newInventoryServer(t)
	c := NewInventory(slog.Default(), srv.URL)
	ctx := context.Background()

	free, reserved, err := c.Reserve(ctx, "p0001", 4)
	require.NoError(t, err)
	assert.Equal(t, 16, free)
	assert.Equal(t, 4, reserved)

	require.NoError(t, c.Commit(ctx, "p0001", 2, "ord-1"))

	free, reserved, err = c.Release(ctx, "p0001", 2)
	require.NoError(t, err)
	assert.Equal(t, 18, free)
	assert.Equal(t, 0, reserved)

	p, err := store.Get("p0001")
	require.NoError(t, err)
	assert.Equal(t, 18, p.Free)
}

func TestInventoryErrorMapping(t *testing.T) {
	srv, _ := newInventoryServer(t)
	c := NewInventory(slog.Default(), srv.URL)
	ctx := context.Background()

	_, _, err := c.Reserve(ctx, "p0001", 100)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, _, err = c.Reserve(ctx, "p9999", 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, c.Commit(ctx, "p0001", 1, "ord-1"), apperr.ErrConflict)
}

func TestClientHonorsContextDeadline(t *testing.T) {
	stall := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server detects the client disconnect and
		// cancels the request context; otherwise Close blocks forever.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	t.Cleanup(stall.Close)

	c := NewPayment(slog.Default(), stall.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := c.Charge(ctx, "ord-1", 100)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPaymentChargeDeclined(t *testing.T) {
	declined := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(declined.Close)

	c := NewPayment(slog.Default(), declined.URL)
	assert.Error(t, c.Charge(context.Background(), "ord-1", 100))
}
