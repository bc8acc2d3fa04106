package integration

import (
	"context"

	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

// Env is the containerized broker the event-stream tests run against.
type Env struct {
	Kafka   *kafka.KafkaContainer
	Brokers []string
}

func Setup(ctx context.Context) (*Env, error) {
	kafkaC, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		kafka.WithClusterID("orderflow-test"),
	)
	if err != nil {
		return nil, err
	}

	brokers, err := kafkaC.Brokers(ctx)
	if err != nil {
		_ = kafkaC.Terminate(ctx)
		return nil, err
	}
	return &Env{Kafka: kafkaC, Brokers: brokers}, nil
}

func (e *Env) Teardown(ctx context.Context) {
	_ = e.Kafka.Terminate(ctx)
}
