package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/failfastlab/orderflow/pkg/tracing"
)

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
}

// Emitter publishes purchase outcomes for downstream analysis. Emission is
// best effort: a broker hiccup must never fail a purchase. A nil *Emitter is
// valid and drops everything.
type Emitter struct {
	log      *slog.Logger
	producer Producer
}

func NewEmitter(log *slog.Logger, producer Producer) *Emitter {
	return &Emitter{log: log, producer: producer}
}

type purchaseEvent struct {
	Type      string `json:"type"`
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	Mode      string `json:"mode"`
	Error     string `json:"error,omitempty"`
}

func (e *Emitter) PurchaseCompleted(ctx context.Context, mode, productID string, qty int) {
	e.emit(ctx, purchaseEvent{Type: "PurchaseCompleted", ProductID: productID, Qty: qty, Mode: mode})
}

func (e *Emitter) PurchaseFailed(ctx context.Context, mode, productID string, qty int, cause error) {
	e.emit(ctx, purchaseEvent{Type: "PurchaseFailed", ProductID: productID, Qty: qty, Mode: mode, Error: cause.Error()})
}

func (e *Emitter) emit(ctx context.Context, ev purchaseEvent) {
	if e == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	headers := []kafka.Header{{Key: "event_type", Value: []byte(ev.Type)}}
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	emitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	msg := kafka.Message{
		Key:     []byte(ev.ProductID),
		Value:   payload,
		Headers: headers,
	}
	if err := e.producer.WriteMessages(emitCtx, msg); err != nil {
		e.log.Warn("event emit failed", "type", ev.Type, "product_id", ev.ProductID, "err", err)
		return
	}
	e.log.Debug("event emitted", "type", ev.Type, "product_id", ev.ProductID)
}
