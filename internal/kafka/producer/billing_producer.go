package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/humbelmindai/humblemind-bi-platform/internal/domain"
	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

// Topics for normalized billing events
const (
	TopicPaymentCompleted = "billing.payment.completed"
	TopicPaymentFailed    = "billing.payment.failed"
	TopicPaymentIgnored   = "billing.payment.ignored"
)

// BillingProducer publishes normalized payment events for downstream
// consumers (analytics, notifications)
type BillingProducer interface {
	// PublishPaymentEvent publishes a payment event to the topic matching
	// its status
	PublishPaymentEvent(ctx context.Context, event domain.PaymentEvent) error

	// Close closes the producer
	Close() error
}

type kafkaBillingProducer struct {
	producer sarama.SyncProducer
	log      *logger.Logger
}

// NewKafkaBillingProducer creates a new Kafka billing event producer
func NewKafkaBillingProducer(producer sarama.SyncProducer, log *logger.Logger) BillingProducer {
	return &kafkaBillingProducer{
		producer: producer,
		log:      log,
	}
}

// topicForStatus routes a payment status onto a topic. Pending and
// unrecognized statuses land on the ignored topic for observability.
func topicForStatus(status domain.PaymentStatus) string {
	switch status {
	case domain.PaymentStatusComplete:
		return TopicPaymentCompleted
	case domain.PaymentStatusFailed, domain.PaymentStatusCancelled:
		return TopicPaymentFailed
	default:
		return TopicPaymentIgnored
	}
}

// PublishPaymentEvent publishes a payment event keyed by the internal payment id
func (p *kafkaBillingProducer) PublishPaymentEvent(ctx context.Context, event domain.PaymentEvent) error {
	topic := topicForStatus(event.Status)

	messageValue, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.PaymentID),
		Value: sarama.ByteEncoder(messageValue),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("payment_status"),
				Value: []byte(event.RawStatus),
			},
		},
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish payment event: %w", err)
	}

	p.log.Info("Published payment event to topic %s: partition=%d offset=%d",
		topic, partition, offset)

	return nil
}

// Close closes the producer
func (p *kafkaBillingProducer) Close() error {
	return p.producer.Close()
}
