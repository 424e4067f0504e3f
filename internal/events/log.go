package events

import (
	"context"

	"paulapastas-be/internal/logger"

	"go.uber.org/zap"
)

// LogPublisher is used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, event OrderEvent) error {
	logger.FromCtx(ctx).Info("order event",
		zap.String("type", event.Type),
		zap.String("order_id", event.OrderID),
		zap.String("payment_id", event.PaymentID),
		zap.String("status", event.Status),
	)
	return nil
}

func (LogPublisher) Close() error { return nil }

// NewPublisher picks Kafka when brokers are configured.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return LogPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}
