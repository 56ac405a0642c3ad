package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaSinkPublish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var ev Event
		return json.Unmarshal(value, &ev)
	})

	sink := &KafkaSink{producer: producer, topic: "shop_events"}
	err := sink.Publish(context.Background(), Event{
		Type:       EventOrderCreated,
		OrderID:    "NC-20260829-ABCDEF",
		BuyerID:    "buyer-1",
		TotalPrice: "30.00",
		At:         time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, sink.Close())
}

func TestKafkaSinkPublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	sink := &KafkaSink{producer: producer, topic: "shop_events"}
	err := sink.Publish(context.Background(), Event{Type: EventOrderRejected, OrderID: "NC-20260829-ABCDEF"})
	assert.Error(t, err)
	require.NoError(t, sink.Close())
}
