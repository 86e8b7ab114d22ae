package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
	"github.com/radieske/palpiteiro-premiado/pkg/contracts/topics"
)

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Publish(ctx context.Context, channel string, payload []byte) error {
	return m.Called(ctx, channel, payload).Error(0)
}

func newForwarder(pub Broadcaster) *Forwarder {
	return &Forwarder{
		Log:     zap.NewNop(),
		Pub:     pub,
		Channel: "user_notifications",
		Types: map[string]string{
			topics.CreditTransactionDecided: events.NotificationCreditDecided,
			topics.PredictionResolved:       events.NotificationPredictionResolved,
		},
	}
}

func TestForward(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("credit decision is wrapped for its user", func(t *testing.T) {
		pub := new(MockBroadcaster)
		var sent []byte
		pub.On("Publish", ctx, "user_notifications", mock.Anything).
			Run(func(args mock.Arguments) { sent = args.Get(2).([]byte) }).
			Return(nil)

		bal := int64(300)
		value, err := json.Marshal(events.CreditTransactionDecided{TransactionID: "t1", UserID: "u1", Status: "approved", Amount: 300, BalanceAfter: &bal})
		require.NoError(t, err)

		forwarded := 0
		f := newForwarder(pub)
		f.OnForwarded = func() { forwarded++ }
		require.NoError(t, f.Forward(ctx, kafka.Message{Topic: topics.CreditTransactionDecided, Value: value}))

		var n events.UserNotification
		require.NoError(t, json.Unmarshal(sent, &n))
		assert.Equal(t, "u1", n.UserID)
		assert.Equal(t, events.NotificationCreditDecided, n.Type)
		assert.JSONEq(t, string(value), string(n.Payload))
		assert.Equal(t, 1, forwarded)
	})

	t.Run("unknown topic is skipped", func(t *testing.T) {
		pub := new(MockBroadcaster)
		require.NoError(t, newForwarder(pub).Forward(ctx, kafka.Message{Topic: "other", Value: []byte(`{"userId":"u"}`)}))
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("event without user", func(t *testing.T) {
		pub := new(MockBroadcaster)
		err := newForwarder(pub).Forward(ctx, kafka.Message{Topic: topics.PredictionResolved, Value: []byte(`{"status":"won"}`)})
		assert.Error(t, err)
	})

	t.Run("redis failure is returned", func(t *testing.T) {
		pub := new(MockBroadcaster)
		pub.On("Publish", ctx, mock.Anything, mock.Anything).Return(errors.New("redis down"))
		err := newForwarder(pub).Forward(ctx, kafka.Message{Topic: topics.PredictionResolved, Value: []byte(`{"userId":"u1","status":"won"}`)})
		assert.Error(t, err)
	})
}
