package domain

import (
	"sync"
	"time"

	"github.com/failfastlab/orderflow/pkg/apperr"
)

// Timeouts are the per-call deadlines for one orchestration. Zero means no
// deadline.
type Timeouts struct {
	Catalog time.Duration
	Reserve time.Duration
	Payment time.Duration
	Commit  time.Duration
}

type Mode string

const (
	// ModeBroken admits everything and leaks a buffer per admitted request.
	ModeBroken Mode = "BROKEN"
	// ModeFailFast rejects requests once capacity is reached.
	ModeFailFast Mode = "FAILFAST"
)

// leakSize is the never-freed allocation made per admitted request in
// broken mode, sized to make memory growth visible under load.
const leakSize = 256 * 1024

// Controller gates how many purchase orchestrations run concurrently. The
// mode is fixed at construction; there is no runtime transition.
type Controller struct {
	mode     Mode
	capacity int
	stats    *Stats

	mu       sync.Mutex
	inflight int
	leakyBag [][]byte
}

func NewController(mode Mode, capacity int, stats *Stats) *Controller {
	return &Controller{mode: mode, capacity: capacity, stats: stats}
}

func (c *Controller) Mode() Mode { return c.mode }

func (c *Controller) Capacity() int { return c.capacity }

func (c *Controller) Stats() *Stats { return c.stats }

// Admit claims one slot. The returned release func must be called exactly
// once when the orchestration finishes by any path. In broken mode admission
// never fails and each call leaks one buffer; in fail-fast mode the
// check-and-increment is atomic so concurrent requests can never jointly
// exceed capacity.
func (c *Controller) Admit() (release func(), err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeFailFast && c.inflight >= c.capacity {
		return nil, apperr.ErrOverloaded
	}
	c.inflight++
	if c.mode == ModeBroken {
		c.leakyBag = append(c.leakyBag, make([]byte, leakSize))
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.inflight--
			c.mu.Unlock()
		})
	}, nil
}

// Timeouts returns the per-call deadlines for the controller's mode. Broken
// mode runs with effectively unbounded timeouts so a stalled downstream call
// holds its slot indefinitely.
func (c *Controller) Timeouts() Timeouts {
	if c.mode == ModeBroken {
		return Timeouts{Payment: 60 * time.Second}
	}
	return Timeouts{
		Catalog: 2 * time.Second,
		Reserve: 2500 * time.Millisecond,
		Payment: 5 * time.Second,
		Commit:  2 * time.Second,
	}
}

// Snapshot reports the observability surface for /metrics.
func (c *Controller) Snapshot() Report {
	c.mu.Lock()
	inflight := c.inflight
	var leaked int64
	for _, b := range c.leakyBag {
		leaked += int64(len(b))
	}
	c.mu.Unlock()

	requests, errors, p95, hasP95 := c.stats.Totals()
	return Report{
		Mode:        c.mode,
		Requests:    requests,
		Errors:      errors,
		Pending:     inflight,
		P95:         p95,
		HasP95:      hasP95,
		LeakedBytes: leaked,
		Capacity:    c.capacity,
	}
}

type Report struct {
	Mode        Mode
	Requests    int64
	Errors      int64
	Pending     int
	P95         time.Duration
	HasP95      bool
	LeakedBytes int64
	Capacity    int
}
