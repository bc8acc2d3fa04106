package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureProducer struct {
	msgs []kafka.Message
	err  error
}

func (p *captureProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func TestEmitPurchaseCompleted(t *testing.T) {
	prod := &captureProducer{}
	e := NewEmitter(slog.Default(), prod)

	e.PurchaseCompleted(context.Background(), "FAILFAST", "p0001", 2)

	require.Len(t, prod.msgs, 1)
	msg := prod.msgs[0]
	assert.Equal(t, []byte("p0001"), msg.Key)

	var ev purchaseEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, "PurchaseCompleted", ev.Type)
	assert.Equal(t, 2, ev.Qty)
	assert.Equal(t, "FAILFAST", ev.Mode)
	assert.Empty(t, ev.Error)

	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("PurchaseCompleted"), msg.Headers[0].Value)
}

func TestEmitPurchaseFailedCarriesCause(t *testing.T) {
	prod := &captureProducer{}
	e := NewEmitter(slog.Default(), prod)

	e.PurchaseFailed(context.Background(), "BROKEN", "p0002", 1, errors.New("payment failure"))

	require.Len(t, prod.msgs, 1)
	var ev purchaseEvent
	require.NoError(t, json.Unmarshal(prod.msgs[0].Value, &ev))
	assert.Equal(t, "PurchaseFailed", ev.Type)
	assert.Equal(t, "payment failure", ev.Error)
}

func TestEmitIsBestEffort(t *testing.T) {
	e := NewEmitter(slog.Default(), &captureProducer{err: errors.New("broker down")})

	// Must not panic or propagate.
	e.PurchaseCompleted(context.Background(), "FAILFAST", "p0001", 1)
}

func TestNilEmitterDropsEvents(t *testing.T) {
	var e *Emitter
	e.PurchaseCompleted(context.Background(), "FAILFAST", "p0001", 1)
	e.PurchaseFailed(context.Background(), "FAILFAST", "p0001", 1, errors.New("x"))
}
