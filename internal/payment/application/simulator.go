package application

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/failfastlab/orderflow/pkg/apperr"
)

// Config shapes the simulated outcome distribution: DeclineRate of calls are
// declined after a short delay, SlowRate land on the slow path, the rest on
// the fast path.
type Config struct {
	DeclineRate float64
	SlowRate    float64
	SlowMin     time.Duration
	SlowMax     time.Duration
	FastMin     time.Duration
	FastMax     time.Duration
}

func DefaultConfig() Config {
	return Config{
		DeclineRate: 0.10,
		SlowRate:    0.50,
		SlowMin:     2500 * time.Millisecond,
		SlowMax:     6 * time.Second,
		FastMin:     10 * time.Millisecond,
		FastMax:     200 * time.Millisecond,
	}
}

type Simulator struct {
	log *slog.Logger
	cfg Config

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulator(log *slog.Logger, cfg Config) *Simulator {
	return &Simulator{
		log: log,
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type Charge struct {
	OrderID     string `json:"order_id"`
	AmountCents int64  `json:"amount_cents"`
}

// Process charges an order after a simulated processing delay. Declines
// surface as ErrPaymentFailed. The sleep honors ctx so a caller's deadline
// aborts the charge.
func (s *Simulator) Process(ctx context.Context, c Charge) error {
	p, delay := s.roll()

	if err := sleep(ctx, delay); err != nil {
		return err
	}
	if p < s.cfg.DeclineRate {
		s.log.Info("charge declined", "order_id", c.OrderID, "amount_cents", c.AmountCents)
		return apperr.ErrPaymentFailed
	}
	s.log.Info("charged", "order_id", c.OrderID, "amount_cents", c.AmountCents, "delay", delay)
	return nil
}

func (s *Simulator) roll() (p float64, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p = s.rng.Float64()
	switch {
	case p < s.cfg.DeclineRate:
		delay = 50 * time.Millisecond
	case p < s.cfg.DeclineRate+s.cfg.SlowRate:
		delay = s.cfg.SlowMin + time.Duration(s.rng.Int63n(int64(s.cfg.SlowMax-s.cfg.SlowMin)))
	default:
		delay = s.cfg.FastMin + time.Duration(s.rng.Int63n(int64(s.cfg.FastMax-s.cfg.FastMin)))
	}
	return p, delay
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
