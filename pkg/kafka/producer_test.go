package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

func TestPublishSendsValue(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"event_type":"order_status_changed"}` {
			return errors.New("unexpected payload " + string(val))
		}
		return nil
	})

	producer := NewProducerWith(mock, logger.NewNop())

	err := producer.Publish(context.Background(), "order-events", "ord-1",
		[]byte(`{"event_type":"order_status_changed"}`),
		map[string]string{"event_type": "order_status_changed"})

	require.NoError(t, err)
	require.NoError(t, producer.Close())
}

func TestPublishReturnsBrokerError(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)

	producer := NewProducerWith(mock, logger.NewNop())

	err := producer.Publish(context.Background(), "order-events", "ord-1", []byte(`{}`), nil)

	assert.ErrorIs(t, err, sarama.ErrNotLeaderForPartition)
	require.NoError(t, producer.Close())
}

func TestPublishSkipsCancelledContext(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	producer := NewProducerWith(mock, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := producer.Publish(ctx, "order-events", "ord-1", []byte(`{}`), nil)

	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, producer.Close())
}

func TestNewConfigWaitsForAllReplicas(t *testing.T) {
	config := NewConfig("munchclub-admin")

	assert.Equal(t, "munchclub-admin", config.ClientID)
	assert.Equal(t, sarama.WaitForAll, config.Producer.RequiredAcks)
	assert.True(t, config.Producer.Return.Successes)
	assert.NoError(t, config.Validate())
}
