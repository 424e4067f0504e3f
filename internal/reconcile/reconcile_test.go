package reconcile

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/metrics"
	"paulapastas-be/internal/order"
	"paulapastas-be/internal/payment"
	"paulapastas-be/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// --- Mocks ---

type MockOrders struct {
	mock.Mock
}

func (m *MockOrders) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]order.Order, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrders) ApplyPayment(ctx context.Context, externalRef string, p payment.Payment) (order.Change, error) {
	args := m.Called(ctx, externalRef, p)
	return args.Get(0).(order.Change), args.Error(1)
}

func (m *MockOrders) Expire(ctx context.Context, o order.Order) (bool, error) {
	args := m.Called(ctx, o)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrders) RecordReconcileAttempt(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreatePreference(ctx context.Context, req payment.PreferenceRequest) (*payment.Preference, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Preference), args.Error(1)
}

func (m *MockGateway) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockGateway) SearchPayments(ctx context.Context, ref string) ([]payment.Payment, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *MockGateway) VerifySignature(r *http.Request) error {
	return m.Called(r).Error(0)
}

// --- Helpers ---

var clock = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newJob(orders *MockOrders, gw *MockGateway, reg *metrics.Registry) *Job {
	j := NewJob(orders, gw, Config{MinAge: 15 * time.Minute, ExpireAfter: 72 * time.Hour, BatchSize: 10}, reg)
	j.now = func() time.Time { return clock }
	return j
}

func staleOrder(age time.Duration) order.Order {
	return order.Order{
		ID:        uuid.New(),
		Status:    order.StatusPending,
		Total:     decimal.NewFromInt(5000),
		Currency:  "ARS",
		CreatedAt: clock.Add(-age),
	}
}

// --- Tests ---

func TestRunOnce_StaleOrderWithApprovedPaymentIsResolved(t *testing.T) {
	ctx := context.Background()
	orders, gw := new(MockOrders), new(MockGateway)
	reg := metrics.NewRegistry()
	o := staleOrder(time.Hour)

	approved := payment.Payment{ID: "991", Status: payment.StatusApproved, ExternalReference: o.ID.String(),
		Amount: decimal.NewFromInt(5000), Currency: "ARS", CreatedAt: clock.Add(-50 * time.Minute)}
	rejected := payment.Payment{ID: "990", Status: payment.StatusRejected, ExternalReference: o.ID.String(),
		CreatedAt: clock.Add(-40 * time.Minute)}

	orders.On("ListStale", mock.Anything, clock.Add(-15*time.Minute), 10).Return([]order.Order{o}, nil)
	orders.On("RecordReconcileAttempt", mock.Anything, o.ID).Return(nil)
	gw.On("SearchPayments", mock.Anything, o.ID.String()).Return([]payment.Payment{rejected, approved}, nil)
	internal := mock.MatchedBy(func(c context.Context) bool { return utils.IsInternalRequest(c) })
	orders.On("ApplyPayment", internal, o.ID.String(), approved).
		Return(order.Change{From: order.StatusPending, To: order.StatusApproved, PaymentID: "991", Applied: true}, nil)

	res, err := newJob(orders, gw, reg).RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Checked: 1, Resolved: 1}, res)
	assert.Equal(t, uint64(1), reg.Counter("reconcile_resolved").Load())
	assert.Contains(t, reg.Snapshot(), "reconcile_duration_ms")
	orders.AssertExpectations(t)
}

func TestRunOnce_OldOrderWithoutPaymentsExpires(t *testing.T) {
	ctx := context.Background()
	orders, gw := new(MockOrders), new(MockGateway)
	old := staleOrder(80 * time.Hour)
	young := staleOrder(2 * time.Hour)

	orders.On("ListStale", mock.Anything, mock.Anything, 10).Return([]order.Order{old, young}, nil)
	orders.On("RecordReconcileAttempt", mock.Anything, mock.Anything).Return(nil)
	gw.On("SearchPayments", mock.Anything, mock.Anything).Return([]payment.Payment{}, nil)
	orders.On("Expire", mock.Anything, old).Return(true, nil)

	res, err := newJob(orders, gw, nil).RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Checked: 2, Expired: 1, Unchanged: 1}, res)
	orders.AssertNumberOfCalls(t, "Expire", 1)
}

func TestRunOnce_InReviewIsNeverExpired(t *testing.T) {
	ctx := context.Background()
	orders, gw := new(MockOrders), new(MockGateway)
	o := staleOrder(100 * time.Hour)
	o.Status = order.StatusInReview

	orders.On("ListStale", mock.Anything, mock.Anything, 10).Return([]order.Order{o}, nil)
	orders.On("RecordReconcileAttempt", mock.Anything, o.ID).Return(nil)
	gw.On("SearchPayments", mock.Anything, o.ID.String()).Return(nil, nil)

	res, err := newJob(orders, gw, nil).RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Unchanged)
	orders.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything)
}

func TestRunOnce_ErrorsForOneOrderDoNotStopTheRun(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	defer logger.Replace(zap.New(core))()

	ctx := context.Background()
	orders, gw := new(MockOrders), new(MockGateway)
	flaky := staleOrder(time.Hour)
	mismatched := staleOrder(time.Hour)
	fine := staleOrder(time.Hour)

	orders.On("ListStale", mock.Anything, mock.Anything, 10).Return([]order.Order{flaky, mismatched, fine}, nil)
	orders.On("RecordReconcileAttempt", mock.Anything, mock.Anything).Return(nil)

	gw.On("SearchPayments", mock.Anything, flaky.ID.String()).
		Return(nil, &payment.APIError{StatusCode: http.StatusServiceUnavailable})

	bad := payment.Payment{ID: "1", Status: payment.StatusApproved, Amount: decimal.NewFromInt(1), Currency: "ARS"}
	gw.On("SearchPayments", mock.Anything, mismatched.ID.String()).Return([]payment.Payment{bad}, nil)
	orders.On("ApplyPayment", mock.Anything, mismatched.ID.String(), bad).Return(order.Change{}, order.ErrAmountMismatch)

	pending := payment.Payment{ID: "2", Status: payment.StatusPending}
	gw.On("SearchPayments", mock.Anything, fine.ID.String()).Return([]payment.Payment{pending}, nil)
	orders.On("ApplyPayment", mock.Anything, fine.ID.String(), pending).Return(order.Change{From: order.StatusPending, To: order.StatusPending}, nil)

	res, err := newJob(orders, gw, nil).RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Checked: 3, Failed: 2, Unchanged: 1}, res)

	warns := observed.FilterMessage("payment search failed").FilterField(zap.Bool("retryable", true))
	assert.Equal(t, 1, warns.Len())
	assert.Equal(t, zapcore.WarnLevel, warns.All()[0].Level)

	terminal := observed.FilterMessage("payment not applied").All()
	require.Len(t, terminal, 1)
	assert.Equal(t, zapcore.ErrorLevel, terminal[0].Level)

	finished := observed.FilterMessage("reconciliation pass finished").All()
	require.Len(t, finished, 1)
	assert.Contains(t, finished[0].ContextMap(), "took")
}

func TestRunOnce_ListFailure(t *testing.T) {
	ctx := context.Background()
	orders, gw := new(MockOrders), new(MockGateway)
	orders.On("ListStale", mock.Anything, mock.Anything, 10).Return(nil, errors.New("db down"))

	_, err := newJob(orders, gw, nil).RunOnce(ctx)
	assert.EqualError(t, err, "db down")
}

func TestRun_StopsOnCancel(t *testing.T) {
	orders, gw := new(MockOrders), new(MockGateway)
	listed := make(chan struct{}, 1)
	orders.On("ListStale", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case listed <- struct{}{}:
			default:
			}
		}).
		Return([]order.Order{}, nil)

	j := NewJob(orders, gw, Config{Interval: time.Hour}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		j.Run(ctx)
		close(done)
	}()

	select {
	case <-listed:
	case <-time.After(time.Second):
		t.Fatal("first pass did not run")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestPickPayment(t *testing.T) {
	assert.Nil(t, pickPayment(nil))

	older := payment.Payment{ID: "a", Status: payment.StatusRejected, CreatedAt: clock.Add(-2 * time.Hour)}
	newer := payment.Payment{ID: "b", Status: payment.StatusInProcess, CreatedAt: clock.Add(-time.Hour)}
	assert.Equal(t, "b", pickPayment([]payment.Payment{older, newer}).ID)

	approved := payment.Payment{ID: "c", Status: payment.StatusApproved, CreatedAt: clock.Add(-3 * time.Hour)}
	assert.Equal(t, "c", pickPayment([]payment.Payment{newer, approved, older}).ID)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, 10*time.Minute, cfg.Interval)
	assert.Equal(t, 15*time.Minute, cfg.MinAge)
	assert.Equal(t, 72*time.Hour, cfg.ExpireAfter)
	assert.Equal(t, 50, cfg.BatchSize)
}
