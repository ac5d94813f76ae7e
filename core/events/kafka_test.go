package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewProducerConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var e Event
		if err := json.Unmarshal(val, &e); err != nil {
			return err
		}
		if e.Type != StockAdjusted || e.Key != "A-1" {
			return errors.New("unexpected event")
		}
		return nil
	})

	p := NewPublisher(producer, "inventory.events", zap.NewNop())
	require.NoError(t, p.Publish(context.Background(), New(StockAdjusted, "A-1", map[string]int{"delta": -4})))
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_SendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewProducerConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewPublisher(producer, "inventory.events", nil)
	err := p.Publish(context.Background(), New(SnapshotCreated, "snap-1", nil))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewProducerConfig())
	p := NewPublisher(producer, "inventory.events", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, New(ImportCompleted, "merge", nil)), context.Canceled)
	require.NoError(t, p.Close())
}

func TestNewKafkaPublisher_NoBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(Config{Enabled: true, Brokers: []string{" ", ""}, Topic: "t"}, nil)
	assert.ErrorContains(t, err, "no kafka brokers")
}

func TestNew(t *testing.T) {
	a := New(SnapshotDeleted, "x", nil)
	b := New(SnapshotDeleted, "x", nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.OccurredAt.IsZero())
	assert.NoError(t, Nop{}.Publish(context.Background(), a))
}
