package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSink fans audit events out to a topic for downstream consumers. The
// store remains the source of truth; the sink is best-effort delivery.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// kafkaEvent is the wire shape published to the topic.
type kafkaEvent struct {
	ID             string    `json:"id"`
	Category       string    `json:"category"`
	Timestamp      time.Time `json:"timestamp"`
	Operation      string    `json:"operation"`
	SubstrateIDHex string    `json:"substrate_id"`
	LensIDHex      string    `json:"lens_id"`
	Fabricated     bool      `json:"fabricated"`
	Source         string    `json:"source"`
	RequestID      string    `json:"request_id,omitempty"`
}

// NewKafkaSink connects to the brokers and ensures the topic exists.
func NewKafkaSink(ctx context.Context, brokers []string, topic string) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}

	admin := kadm.NewClient(client)
	if _, err := admin.CreateTopic(ctx, 1, 1, nil, topic); err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		client.Close()
		return nil, fmt.Errorf("ensure topic %q: %w", topic, err)
	}
	return &KafkaSink{client: client, topic: topic}, nil
}

// Publish produces one event synchronously, keyed by the substrate id so a
// substrate's trail stays ordered within a partition.
func (s *KafkaSink) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(kafkaEvent{
		ID:             event.ID,
		Category:       string(event.Category),
		Timestamp:      event.Timestamp,
		Operation:      event.Operation,
		SubstrateIDHex: event.SubstrateIDHex,
		LensIDHex:      event.LensIDHex,
		Fabricated:     event.Fabricated,
		Source:         event.Source,
		RequestID:      event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.SubstrateIDHex),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes and releases the client.
func (s *KafkaSink) Close() {
	s.client.Close()
}
