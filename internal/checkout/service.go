package checkout

import (
	"context"
	"errors"
	"fmt"

	"paulapastas-be/internal/catalog"
	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/metrics"
	"paulapastas-be/internal/order"
	"paulapastas-be/internal/payment"
	"paulapastas-be/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const deliveryLineID = "envio"

type ProductSource interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]catalog.Product, error)
}

type OrderStore interface {
	CreatePending(ctx context.Context, o *order.Order) error
	GetByIdempotencyKey(ctx context.Context, key string) (*order.Order, error)
	AttachPreference(ctx context.Context, id uuid.UUID, pref payment.Preference) error
}

type Config struct {
	Currency    string
	DeliveryFee decimal.Decimal
}

type Service interface {
	// CreatePreference validates and re-prices req, stores a pending order
	// and opens a hosted checkout for it. A non-empty idemKey replays the
	// result of an earlier call made with the same key.
	CreatePreference(ctx context.Context, req Request, idemKey string) (*payment.Preference, error)
}

type service struct {
	products ProductSource
	orders   OrderStore
	gateway  payment.Gateway
	cfg      Config
	metrics  *metrics.Registry
}

func NewService(products ProductSource, orders OrderStore, gateway payment.Gateway, cfg Config, reg *metrics.Registry) Service {
	if cfg.Currency == "" {
		cfg.Currency = "ARS"
	}
	return &service{
		products: products,
		orders:   orders,
		gateway:  gateway,
		cfg:      cfg,
		metrics:  reg,
	}
}

func (s *service) CreatePreference(ctx context.Context, req Request, idemKey string) (*payment.Preference, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreatePreference"),
	)

	if err := utils.ValidateStruct(req); err != nil {
		s.metrics.Inc("checkout_rejected")
		return nil, err
	}

	if idemKey != "" {
		existing, err := s.orders.GetByIdempotencyKey(ctx, idemKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOrderFailed, err)
		}
		if existing != nil {
			log.Info("replaying checkout for idempotency key", zap.String("order_id", existing.ID.String()))
			return s.resume(ctx, existing)
		}
	}

	o, err := s.buildOrder(ctx, req)
	if err != nil {
		s.metrics.Inc("checkout_rejected")
		return nil, err
	}
	o.IdempotencyKey = idemKey

	if err := s.orders.CreatePending(ctx, o); err != nil {
		if errors.Is(err, order.ErrDuplicateIdemKey) {
			// A concurrent request with the same key won the insert.
			existing, getErr := s.orders.GetByIdempotencyKey(ctx, idemKey)
			if getErr == nil && existing != nil {
				return s.resume(ctx, existing)
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrOrderFailed, err)
	}

	return s.openPreference(ctx, o)
}

// resume returns the stored preference of an earlier attempt, or opens one
// if that attempt never reached the provider.
func (s *service) resume(ctx context.Context, o *order.Order) (*payment.Preference, error) {
	if o.PreferenceID != "" {
		return &payment.Preference{
			ID:                o.PreferenceID,
			InitPoint:         o.InitPoint,
			SandboxInitPoint:  o.SandboxInitPoint,
			ExternalReference: o.ID.String(),
		}, nil
	}
	if o.Status != order.StatusPending {
		return nil, fmt.Errorf("%w: order %s is %s", ErrOrderFailed, o.ID, o.Status)
	}
	return s.openPreference(ctx, o)
}

func (s *service) buildOrder(ctx context.Context, req Request) (*order.Order, error) {
	quantities := make(map[string]int, len(req.Items))
	var ids []string
	for _, it := range req.Items {
		if _, seen := quantities[it.ProductID]; !seen {
			ids = append(ids, it.ProductID)
		}
		quantities[it.ProductID] += it.Quantity
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: load products: %v", ErrOrderFailed, err)
	}

	var (
		items   []order.Item
		details []string
	)
	for _, id := range ids {
		p, ok := products[id]
		switch {
		case !ok:
			details = append(details, fmt.Sprintf("product %s does not exist", id))
			continue
		case !p.Available:
			details = append(details, fmt.Sprintf("product %s is not available", id))
			continue
		}
		items = append(items, order.Item{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  quantities[id],
			UnitPrice: p.Price,
		})
	}
	if len(details) > 0 {
		return nil, utils.NewValidationError(details...)
	}

	delivery := req.DeliveryOption
	if delivery == "" {
		delivery = order.DeliveryPickup
	}

	o := &order.Order{
		Buyer: order.Buyer{
			Name:  req.Buyer.Name,
			Email: req.Buyer.Email,
			Phone: req.Buyer.Phone,
		},
		Items:          items,
		DeliveryOption: delivery,
		Notes:          req.Notes,
		Currency:       s.cfg.Currency,
		DeliveryFee:    decimal.Zero,
	}
	if delivery == order.DeliveryDelivery {
		o.Address = req.Address
		o.DeliveryFee = s.cfg.DeliveryFee
	}
	o.Total = o.ItemsTotal().Add(o.DeliveryFee)
	return o, nil
}

func (s *service) openPreference(ctx context.Context, o *order.Order) (*payment.Preference, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("order_id", o.ID.String()),
	)

	lines := make([]payment.PreferenceItem, 0, len(o.Items)+1)
	for _, it := range o.Items {
		lines = append(lines, payment.PreferenceItem{
			ID:        it.ProductID,
			Title:     it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	if o.DeliveryFee.IsPositive() {
		lines = append(lines, payment.PreferenceItem{
			ID:        deliveryLineID,
			Title:     "Envío a domicilio",
			Quantity:  1,
			UnitPrice: o.DeliveryFee,
		})
	}

	timer := metrics.StartTimer()
	pref, err := s.gateway.CreatePreference(ctx, payment.PreferenceRequest{
		ExternalReference: o.ID.String(),
		Items:             lines,
		Payer: payment.Payer{
			Name:  o.Buyer.Name,
			Email: o.Buyer.Email,
			Phone: o.Buyer.Phone,
		},
		Metadata: map[string]any{
			"order_number":    o.Number,
			"delivery_option": string(o.DeliveryOption),
		},
		IdempotencyKey: o.ID.String(),
	})
	took := timer.Duration()
	if err != nil {
		s.metrics.Inc("checkout_provider_failures")
		log.Error("preference creation failed",
			zap.Bool("retryable", payment.IsRetryable(err)),
			zap.Duration("took", took),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrPreferenceFailed, err)
	}

	if err := s.orders.AttachPreference(ctx, o.ID, *pref); err != nil {
		// The buyer can still pay: webhooks resolve the order by its id.
		log.Error("failed to store preference on order", zap.String("preference_id", pref.ID), zap.Error(err))
	}

	s.metrics.Inc("checkout_preferences_created")
	log.Info("checkout preference created",
		zap.String("preference_id", pref.ID),
		zap.Duration("took", took),
		zap.String("total", o.Total.String()),
	)
	return pref, nil
}
