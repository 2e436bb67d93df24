package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/Joenyengs/backend/internal/evaluation/metrics"
	"github.com/Joenyengs/backend/internal/evaluation/models"
	"github.com/Joenyengs/backend/pkg/requestcontext"
)

// Message is the record value published for each notification.
type Message struct {
	Recipients []string  `json:"recipients"`
	Message    string    `json:"message"`
	Link       string    `json:"link,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Kafka publishes notifications to a topic. Produce is asynchronous: broker
// failures are reported through the logger and the failure counter, never
// to the caller.
type Kafka struct {
	client  *kgo.Client
	topic   string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type KafkaOption func(*Kafka)

func WithLogger(logger *slog.Logger) KafkaOption {
	return func(k *Kafka) {
		k.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) KafkaOption {
	return func(k *Kafka) {
		k.metrics = m
	}
}

func NewKafka(client *kgo.Client, topic string, opts ...KafkaOption) *Kafka {
	k := &Kafka{client: client, topic: topic}
	for _, opt := range opts {
		opt(k)
	}
	if k.logger == nil {
		k.logger = slog.New(slog.DiscardHandler)
	}
	return k
}

// Notify enqueues the record. Only encoding errors are returned.
func (k *Kafka) Notify(ctx context.Context, n models.Notification) error {
	msg := Message{
		Recipients: make([]string, len(n.Recipients)),
		Message:    n.Message,
		Link:       n.Link,
		RequestID:  requestcontext.RequestID(ctx),
		CreatedAt:  requestcontext.Now(ctx),
	}
	for i, r := range n.Recipients {
		msg.Recipients[i] = string(r)
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	record := &kgo.Record{
		Topic: k.topic,
		Value: value,
	}
	if len(msg.Recipients) > 0 {
		record.Key = []byte(msg.Recipients[0])
	}
	if msg.RequestID != "" {
		record.Headers = append(record.Headers, kgo.RecordHeader{Key: "request_id", Value: []byte(msg.RequestID)})
	}

	// The request may finish before the broker acknowledges.
	k.client.Produce(context.WithoutCancel(ctx), record, func(r *kgo.Record, err error) {
		if err == nil {
			return
		}
		k.metrics.IncNotificationFailure()
		k.logger.Warn("notification publish failed",
			"topic", r.Topic,
			"request_id", msg.RequestID,
			"error", err,
		)
	})
	return nil
}

// Flush waits for buffered records. Call it before closing the client.
func (k *Kafka) Flush(ctx context.Context) error {
	return k.client.Flush(ctx)
}
