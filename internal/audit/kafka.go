package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafka publishes admission events to a Kafka topic, keyed by steam id so
// one identity's events stay ordered within a partition. Production is
// asynchronous; delivery failures are logged, never surfaced to the gate.
type Kafka struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// KafkaOption configures a Kafka publisher.
type KafkaOption func(*Kafka)

// WithLogger sets a logger for delivery error reporting.
func WithLogger(logger *slog.Logger) KafkaOption {
	return func(k *Kafka) {
		k.logger = logger
	}
}

// NewKafka connects a publisher to the given brokers and topic.
func NewKafka(brokers []string, topic string, opts ...KafkaOption) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	k := &Kafka{
		client: client,
		topic:  topic,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k, nil
}

// Publish produces one event. Marshal or delivery problems are logged and
// dropped; admissions never wait on the audit path.
func (k *Kafka) Publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		if k.logger != nil {
			k.logger.ErrorContext(ctx, "marshal audit event", "error", err)
		}
		return
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.SteamID),
		Value: payload,
	}
	k.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil && k.logger != nil {
			k.logger.Error("publish audit event",
				"topic", k.topic,
				"steam_id", event.SteamID,
				"error", err,
			)
		}
	})
}

// Close flushes buffered records and releases the client.
func (k *Kafka) Close() {
	k.client.Close()
}
