// Package kafka relays audit events to a Kafka topic so downstream consumers
// (SIEM, long-term archive) receive the trail without coupling to the service
// database.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/audit"
)

// Sink publishes audit events to a Kafka topic keyed by project so all events
// for one project land on the same partition in order.
type Sink struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// record is the JSON payload published to the topic.
type record struct {
	Timestamp string `json:"timestamp"`
	ProjectID string `json:"project_id"`
	ActorID   string `json:"actor_id,omitempty"`
	Action    string `json:"action"`
	EntityID  string `json:"entity_id,omitempty"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// NewSink connects to the given brokers. The topic must exist; this sink only
// produces.
func NewSink(brokers []string, topic string, logger *slog.Logger) (*Sink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Sink{client: client, topic: topic, logger: logger}, nil
}

// Publish produces the event asynchronously. Delivery failures are logged,
// not returned: the store remains the system of record and the relay must not
// fail domain mutations.
func (s *Sink) Publish(ctx context.Context, event audit.Event) error {
	payload := record{
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		ProjectID: event.ProjectID.String(),
		Action:    event.Action,
		EntityID:  event.EntityID,
		Detail:    event.Detail,
		RequestID: event.RequestID,
	}
	if !event.ActorID.IsNil() {
		payload.ActorID = event.ActorID.String()
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	s.client.Produce(ctx, &kgo.Record{
		Topic: s.topic,
		Key:   []byte(payload.ProjectID),
		Value: value,
	}, func(_ *kgo.Record, err error) {
		if err != nil && s.logger != nil {
			s.logger.Error("audit record delivery failed",
				"topic", s.topic,
				"action", event.Action,
				"error", err,
			)
		}
	})
	return nil
}

// Close flushes buffered records and releases the client.
func (s *Sink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.client.Flush(ctx); err != nil {
		s.client.Close()
		return fmt.Errorf("flush kafka producer: %w", err)
	}
	s.client.Close()
	return nil
}
