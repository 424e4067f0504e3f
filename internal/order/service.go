package order

import (
	"context"
	"fmt"
	"time"

	"paulapastas-be/internal/events"
	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/metrics"
	"paulapastas-be/internal/payment"
	"paulapastas-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCurrency = "ARS"

type Service interface {
	// CreatePending stores a new order in pending state. It assigns the id,
	// number and total when they are not set.
	CreatePending(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*Order, error)
	AttachPreference(ctx context.Context, id uuid.UUID, pref payment.Preference) error

	// ApplyPayment applies an authoritative provider payment to the order
	// named by externalRef. Events are published only when the returned
	// Change was applied.
	ApplyPayment(ctx context.Context, externalRef string, p payment.Payment) (Change, error)

	Expire(ctx context.Context, o Order) (bool, error)
	ListStale(ctx context.Context, olderThan time.Time, limit int) ([]Order, error)
	RecordReconcileAttempt(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f ListFilter) ([]Order, error)
}

type service struct {
	repo      Repository
	publisher events.Publisher
	metrics   *metrics.Registry
	now       func() time.Time
}

// NewService wires the order lifecycle. reg may be nil.
func NewService(repo Repository, publisher events.Publisher, reg *metrics.Registry) Service {
	if publisher == nil {
		publisher = events.LogPublisher{}
	}
	return &service{
		repo:      repo,
		publisher: publisher,
		metrics:   reg,
		now:       time.Now,
	}
}

func (s *service) CreatePending(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreatePending"),
	)

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Number == "" {
		o.Number = utils.GenerateOrderNumber()
	}
	if o.Currency == "" {
		o.Currency = defaultCurrency
	}
	if o.Total.IsZero() {
		o.Total = o.ItemsTotal().Add(o.DeliveryFee)
	}
	o.Status = StatusPending

	if err := s.repo.Create(ctx, o); err != nil {
		log.Error("failed to create order", zap.Error(err))
		return err
	}

	s.metrics.Inc("orders_created")
	log.Info("pending order created",
		zap.String("order_id", o.ID.String()),
		zap.String("number", o.Number),
		zap.String("total", o.Total.String()),
	)
	return nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByIdempotencyKey(ctx context.Context, key string) (*Order, error) {
	if key == "" {
		return nil, nil
	}
	return s.repo.GetByIdempotencyKey(ctx, key)
}

func (s *service) AttachPreference(ctx context.Context, id uuid.UUID, pref payment.Preference) error {
	return s.repo.AttachPreference(ctx, id, pref)
}

func (s *service) ApplyPayment(ctx context.Context, externalRef string, p payment.Payment) (Change, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ApplyPayment"),
		zap.String("external_reference", externalRef),
		zap.String("payment_id", p.ID),
		zap.String("payment_status", string(p.Status)),
		zap.Bool("internal", utils.IsInternalRequest(ctx)),
	)

	id, err := uuid.Parse(externalRef)
	if err != nil {
		return Change{}, fmt.Errorf("%w: bad external reference %q", ErrOrderNotFound, externalRef)
	}

	o, change, err := s.repo.ApplyPayment(ctx, id, p)
	if err != nil {
		log.Warn("payment not applied",
			zap.Bool("terminal", IsTerminalFailure(err)),
			zap.Error(err),
		)
		return change, err
	}

	if !change.Applied {
		log.Info("payment already reflected", zap.String("status", string(change.From)))
		return change, nil
	}

	s.metrics.Inc("orders_" + string(change.To))
	log.Info("order transitioned",
		zap.String("from", string(change.From)),
		zap.String("to", string(change.To)),
	)

	s.publish(ctx, o, change.To, p.ID)
	return change, nil
}

func (s *service) Expire(ctx context.Context, o Order) (bool, error) {
	expired, err := s.repo.Expire(ctx, o.ID)
	if err != nil || !expired {
		return false, err
	}

	s.metrics.Inc("orders_expired")
	logger.FromCtx(ctx).Info("order expired",
		zap.String("order_id", o.ID.String()),
		zap.Time("created_at", o.CreatedAt),
	)

	o.Status = StatusExpired
	s.publish(ctx, &o, StatusExpired, "")
	return true, nil
}

func (s *service) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]Order, error) {
	return s.repo.ListStale(ctx, olderThan, limit)
}

func (s *service) RecordReconcileAttempt(ctx context.Context, id uuid.UUID) error {
	return s.repo.IncrementReconcileAttempts(ctx, id)
}

func (s *service) List(ctx context.Context, f ListFilter) ([]Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return []Order{}, nil
	}
	return s.repo.List(ctx, f)
}

// publish never fails the caller: the transition is already committed.
func (s *service) publish(ctx context.Context, o *Order, status Status, paymentID string) {
	eventType, ok := events.TypeForStatus(string(status))
	if !ok {
		return
	}

	err := s.publisher.Publish(ctx, events.OrderEvent{
		Type:       eventType,
		OrderID:    o.ID.String(),
		Number:     o.Number,
		PaymentID:  paymentID,
		Status:     string(status),
		Total:      o.Total,
		Currency:   o.Currency,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.metrics.Inc("order_events_failed")
		logger.FromCtx(ctx).Error("failed to publish order event",
			zap.String("order_id", o.ID.String()),
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}
