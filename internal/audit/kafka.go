package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher streams audit events to a Kafka topic so downstream systems
// (grievance analytics, district dashboards) can consume them.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic, logger: logger}, nil
}

func (p *KafkaPublisher) Emit(ctx context.Context, event Event) {
	event = stamp(ctx, event)

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal audit event", slog.String("error", err.Error()))
		return
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.MemberID),
		Value: payload,
	}
	// Async produce keeps the registration path off the broker round trip.
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("produce audit event",
				slog.String("action", string(event.Action)),
				slog.String("error", err.Error()))
		}
	})
}

// Close flushes buffered records before shutting the producer down.
func (p *KafkaPublisher) Close(ctx context.Context) error {
	if err := p.client.Flush(ctx); err != nil {
		return fmt.Errorf("flush kafka producer: %w", err)
	}
	p.client.Close()
	return nil
}
