package producer

import (
	"context"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humbelmindai/humblemind-bi-platform/internal/domain"
	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

func TestTopicForStatus(t *testing.T) {
	tests := []struct {
		status domain.PaymentStatus
		topic  string
	}{
		{domain.PaymentStatusComplete, TopicPaymentCompleted},
		{domain.PaymentStatusFailed, TopicPaymentFailed},
		{domain.PaymentStatusCancelled, TopicPaymentFailed},
		{domain.PaymentStatusPending, TopicPaymentIgnored},
		{domain.PaymentStatusUnknown, TopicPaymentIgnored},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.topic, topicForStatus(tt.status), "status %s", tt.status)
	}
}

func TestPublishPaymentEvent(t *testing.T) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true

	mockProducer := mocks.NewSyncProducer(t, config)
	mockProducer.ExpectSendMessageAndSucceed()

	p := NewKafkaBillingProducer(mockProducer, logger.New(logger.ERROR))
	defer p.Close()

	err := p.PublishPaymentEvent(context.Background(), domain.PaymentEvent{
		PaymentID:        "payment_1",
		PayFastPaymentID: "1089250",
		Status:           domain.PaymentStatusComplete,
		RawStatus:        "COMPLETE",
		AmountGross:      899,
		ReceivedAt:       time.Now(),
	})
	require.NoError(t, err)
}

func TestPublishPaymentEventBrokerFailure(t *testing.T) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true

	mockProducer := mocks.NewSyncProducer(t, config)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrBrokerNotAvailable)

	p := NewKafkaBillingProducer(mockProducer, logger.New(logger.ERROR))
	defer p.Close()

	err := p.PublishPaymentEvent(context.Background(), domain.PaymentEvent{
		PaymentID: "payment_1",
		Status:    domain.PaymentStatusComplete,
	})
	assert.Error(t, err)
}
