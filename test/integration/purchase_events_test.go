package integration

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gwkafka "github.com/failfastlab/orderflow/internal/gateway/infrastructure/kafka"
)

// Requires a local Docker daemon; opt in with INTEGRATION=1.
func TestPurchaseEventsRoundTrip(t *testing.T) {
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run container-backed tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	env, err := Setup(ctx)
	require.NoError(t, err)
	defer env.Teardown(context.Background())

	const topic = "purchase.events"
	writer := gwkafka.NewWriter(env.Brokers, topic)
	defer writer.Close()
	writer.AllowAutoTopicCreation = true

	// Prime the topic: the first write on a fresh broker can outlast the
	// emitter's own best-effort deadline.
	require.Eventually(t, func() bool {
		return writer.WriteMessages(ctx, kafkago.Message{Key: []byte("warmup"), Value: []byte("{}")}) == nil
	}, time.Minute, time.Second)

	emitter := gwkafka.NewEmitter(slog.Default(), writer)
	emitter.PurchaseCompleted(ctx, "FAILFAST", "p0001", 2)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     env.Brokers,
		Topic:       topic,
		StartOffset: kafkago.FirstOffset,
	})
	defer reader.Close()

	// Skip past the warmup message.
	var msg kafkago.Message
	for {
		var err error
		msg, err = reader.ReadMessage(ctx)
		require.NoError(t, err)
		if string(msg.Key) != "warmup" {
			break
		}
	}
	assert.Equal(t, []byte("p0001"), msg.Key)

	var ev struct {
		Type      string `json:"type"`
		ProductID string `json:"product_id"`
		Qty       int    `json:"qty"`
		Mode      string `json:"mode"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, "PurchaseCompleted", ev.Type)
	assert.Equal(t, "p0001", ev.ProductID)
	assert.Equal(t, 2, ev.Qty)
	assert.Equal(t, "FAILFAST", ev.Mode)
}
