package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"paulapastas-be/internal/logger"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func sampleEvent() OrderEvent {
	return OrderEvent{
		Type:       OrderApproved,
		OrderID:    "6f1c1b7e-0000-4000-8000-000000000001",
		PaymentID:  "123456789",
		Status:     "approved",
		Total:      decimal.NewFromInt(5000),
		Currency:   "ARS",
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "6f1c1b7e-0000-4000-8000-000000000001", string(msg.Key))
	assert.Equal(t, "type", msg.Headers[0].Key)
	assert.Equal(t, OrderApproved, string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "123456789", decoded["paymentId"])
	assert.Equal(t, "5000", decoded["total"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}}

	err := p.Publish(context.Background(), sampleEvent())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestLogPublisher(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	defer logger.Replace(zap.New(core))()

	require.NoError(t, LogPublisher{}.Publish(context.Background(), sampleEvent()))

	logs := observed.TakeAll()
	require.Len(t, logs, 1)
	assert.Equal(t, OrderApproved, logs[0].ContextMap()["type"])
}

func TestNewPublisher(t *testing.T) {
	assert.IsType(t, LogPublisher{}, NewPublisher(nil, "orders"))

	p := NewPublisher([]string{"localhost:9092"}, "orders")
	assert.IsType(t, &KafkaPublisher{}, p)
}

func TestTypeForStatus(t *testing.T) {
	typ, ok := TypeForStatus("expired")
	assert.True(t, ok)
	assert.Equal(t, OrderExpired, typ)

	_, ok = TypeForStatus("pending")
	assert.False(t, ok)
}
