package reconcile

import (
	"context"
	"sort"
	"time"

	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/metrics"
	"paulapastas-be/internal/order"
	"paulapastas-be/internal/payment"
	"paulapastas-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService is the part of the order lifecycle the job drives.
type OrderService interface {
	ListStale(ctx context.Context, olderThan time.Time, limit int) ([]order.Order, error)
	ApplyPayment(ctx context.Context, externalRef string, p payment.Payment) (order.Change, error)
	Expire(ctx context.Context, o order.Order) (bool, error)
	RecordReconcileAttempt(ctx context.Context, id uuid.UUID) error
}

type Config struct {
	Interval    time.Duration
	MinAge      time.Duration
	ExpireAfter time.Duration
	BatchSize   int
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 10 * time.Minute
	}
	if c.MinAge <= 0 {
		c.MinAge = 15 * time.Minute
	}
	if c.ExpireAfter <= 0 {
		c.ExpireAfter = 72 * time.Hour
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	return c
}

// Result counts what one pass did.
type Result struct {
	Checked   int `json:"checked"`
	Resolved  int `json:"resolved"`
	Expired   int `json:"expired"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}

// Job settles orders whose webhook never arrived by asking the provider
// directly.
type Job struct {
	orders  OrderService
	gateway payment.Gateway
	cfg     Config
	metrics *metrics.Registry
	now     func() time.Time
}

func NewJob(orders OrderService, gateway payment.Gateway, cfg Config, reg *metrics.Registry) *Job {
	return &Job{
		orders:  orders,
		gateway: gateway,
		cfg:     cfg.withDefaults(),
		metrics: reg,
		now:     time.Now,
	}
}

// Run executes a pass immediately and then every Interval until ctx is done.
func (j *Job) Run(ctx context.Context) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "reconcile"))
	log.Info("reconciliation started", zap.Duration("interval", j.cfg.Interval))

	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	for {
		if _, err := j.RunOnce(ctx); err != nil && ctx.Err() == nil {
			log.Error("reconciliation pass failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			log.Info("reconciliation stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce reconciles one batch of stale orders. Per-order failures are
// counted, never returned; the error is reserved for failing to list.
func (j *Job) RunOnce(ctx context.Context) (Result, error) {
	ctx = utils.WithInternalRequest(ctx)
	log := logger.FromCtx(ctx).With(zap.String("layer", "reconcile"))
	timer := metrics.StartTimer()
	var res Result

	now := j.now()
	stale, err := j.orders.ListStale(ctx, now.Add(-j.cfg.MinAge), j.cfg.BatchSize)
	if err != nil {
		return res, err
	}

	for _, o := range stale {
		if ctx.Err() != nil {
			break
		}
		res.Checked++
		switch j.reconcileOrder(ctx, o, now) {
		case outcomeResolved:
			res.Resolved++
		case outcomeExpired:
			res.Expired++
		case outcomeFailed:
			res.Failed++
		default:
			res.Unchanged++
		}
	}

	j.metrics.Counter("reconcile_resolved").Add(uint64(res.Resolved))
	j.metrics.Counter("reconcile_expired").Add(uint64(res.Expired))
	j.metrics.Counter("reconcile_failed").Add(uint64(res.Failed))
	j.metrics.Inc("reconcile_runs")
	took := timer.Duration()
	j.metrics.Counter("reconcile_duration_ms").Add(uint64(took.Milliseconds()))

	log.Info("reconciliation pass finished",
		zap.Duration("took", took),
		zap.Int("checked", res.Checked),
		zap.Int("resolved", res.Resolved),
		zap.Int("expired", res.Expired),
		zap.Int("unchanged", res.Unchanged),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

type outcome int

const (
	outcomeUnchanged outcome = iota
	outcomeResolved
	outcomeExpired
	outcomeFailed
)

func (j *Job) reconcileOrder(ctx context.Context, o order.Order, now time.Time) outcome {
	ctx = logger.WithFields(ctx, zap.String("order_id", o.ID.String()))
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "reconcile"),
		zap.String("status", string(o.Status)),
		zap.Int("attempts", o.ReconcileAttempts),
	)

	if err := j.orders.RecordReconcileAttempt(ctx, o.ID); err != nil {
		log.Warn("failed to record reconcile attempt", zap.Error(err))
	}

	payments, err := j.gateway.SearchPayments(ctx, o.ID.String())
	if err != nil {
		logFailure(log, "payment search failed", err)
		return outcomeFailed
	}

	if best := pickPayment(payments); best != nil {
		change, err := j.orders.ApplyPayment(ctx, o.ID.String(), *best)
		if err != nil {
			logFailure(log.With(zap.String("payment_id", best.ID)), "payment not applied", err)
			return outcomeFailed
		}
		if change.Applied {
			log.Info("order reconciled",
				zap.String("payment_id", best.ID),
				zap.String("to", string(change.To)),
			)
			return outcomeResolved
		}
		return outcomeUnchanged
	}

	if o.Status == order.StatusPending && now.Sub(o.CreatedAt) >= j.cfg.ExpireAfter {
		expired, err := j.orders.Expire(ctx, o)
		if err != nil {
			logFailure(log, "expire failed", err)
			return outcomeFailed
		}
		if expired {
			return outcomeExpired
		}
	}
	return outcomeUnchanged
}

func logFailure(log *zap.Logger, msg string, err error) {
	if order.IsTerminalFailure(err) {
		log.Error(msg, zap.Bool("retryable", false), zap.Error(err))
		return
	}
	log.Warn(msg, zap.Bool("retryable", true), zap.Error(err))
}

// pickPayment prefers an approved payment, then the most recent one.
func pickPayment(payments []payment.Payment) *payment.Payment {
	if len(payments) == 0 {
		return nil
	}

	sorted := make([]payment.Payment, len(payments))
	copy(sorted, payments)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].CreatedAt.After(sorted[b].CreatedAt)
	})

	for i := range sorted {
		if sorted[i].Status == payment.StatusApproved {
			return &sorted[i]
		}
	}
	return &sorted[0]
}
