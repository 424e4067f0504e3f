package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"paulapastas-be/internal/payment"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderCols = []string{
	"id", "number", "buyer", "items", "delivery_option", "address", "notes",
	"delivery_fee", "total", "currency", "status", "preference_id", "init_point",
	"sandbox_init_point", "payment_id", "payment_status", "idempotency_key",
	"reconcile_attempts", "created_at", "updated_at", "paid_at",
}

var testOrderID = uuid.MustParse("7b0c1d5e-8f7a-4c2b-9e41-3c6f5a2d9b10")

func orderRow(rows *sqlmock.Rows, status Status) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		testOrderID.String(), "PP-20260114-103000-123-4567",
		[]byte(`{"name":"Paula","email":"paula@example.com","phone":"1155550000"}`),
		[]byte(`[{"productId":"ravioles-de-carne","name":"Ravioles de carne","quantity":2,"unitPrice":"2500"}]`),
		"pickup", nil, nil,
		"0", "5000", "ARS", string(status), "pref-1", "https://mp.example/init",
		nil, nil, nil, nil,
		0, now, now, nil,
	)
}

func newRepo(t *testing.T) (*repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	repo := &repository{db: db, now: time.Now}
	return repo, mock, func() { db.Close() }
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()
	o := &Order{
		ID:             testOrderID,
		Number:         "PP-1",
		Buyer:          Buyer{Name: "Paula", Email: "paula@example.com", Phone: "1155550000"},
		Items:          []Item{{ProductID: "ravioles-de-carne", Quantity: 2, UnitPrice: decimal.NewFromInt(2500)}},
		DeliveryOption: DeliveryPickup,
		Total:          decimal.NewFromInt(5000),
		Currency:       "ARS",
		Status:         StatusPending,
		IdempotencyKey: "idem-1",
	}

	t.Run("Success", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		now := time.Now()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(testOrderID.String(), "PP-1", sqlmock.AnyArg(), sqlmock.AnyArg(), "pickup", nil, nil,
				"0", "5000", "ARS", "pending", "idem-1").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		require.NoError(t, repo.Create(ctx, o))
		assert.Equal(t, now, o.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate idempotency key", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "orders_idempotency_key_key"})

		assert.ErrorIs(t, repo.Create(ctx, o), ErrDuplicateIdemKey)
	})

	t.Run("Order number collision is retried with a new number", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()
		repo.newNumber = func() string { return "PP-261014-7K3QZA" }

		colliding := *o
		now := time.Now()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(testOrderID.String(), "PP-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), nil, nil,
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "orders_number_key"})
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(testOrderID.String(), "PP-261014-7K3QZA", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), nil, nil,
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		require.NoError(t, repo.Create(ctx, &colliding))
		assert.Equal(t, "PP-261014-7K3QZA", colliding.Number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Order number collisions give up eventually", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()
		repo.newNumber = func() string { return "PP-SAME" }

		collision := &pq.Error{Code: "23505", Constraint: "orders_number_key"}
		for i := 0; i < maxNumberAttempts; i++ {
			mock.ExpectQuery(`INSERT INTO orders`).WillReturnError(collision)
		}

		colliding := *o
		err := repo.Create(ctx, &colliding)
		assert.ErrorIs(t, err, collision)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1`).
			WithArgs(testOrderID.String()).
			WillReturnRows(orderRow(sqlmock.NewRows(orderCols), StatusPending))

		o, err := repo.GetByID(ctx, testOrderID)
		require.NoError(t, err)
		assert.Equal(t, testOrderID, o.ID)
		assert.Equal(t, "paula@example.com", o.Buyer.Email)
		require.Len(t, o.Items, 1)
		assert.Equal(t, 2, o.Items[0].Quantity)
		assert.True(t, decimal.NewFromInt(5000).Equal(o.Total))
		assert.Equal(t, StatusPending, o.Status)
		assert.Empty(t, o.PaymentID)
		assert.Nil(t, o.PaidAt)
	})

	t.Run("Missing", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`FROM orders WHERE id = \$1`).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, testOrderID)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_GetByIdempotencyKey(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectQuery(`WHERE idempotency_key = \$1`).WithArgs("idem-x").WillReturnError(sql.ErrNoRows)

	o, err := repo.GetByIdempotencyKey(context.Background(), "idem-x")
	assert.NoError(t, err)
	assert.Nil(t, o)
}

func TestRepository_AttachPreference(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectExec(`UPDATE orders SET preference_id = \$2`).
		WithArgs(testOrderID.String(), "pref-1", "https://mp.example/init", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE orders SET preference_id`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	pref := payment.Preference{ID: "pref-1", InitPoint: "https://mp.example/init"}
	assert.NoError(t, repo.AttachPreference(context.Background(), testOrderID, pref))
	assert.ErrorIs(t, repo.AttachPreference(context.Background(), testOrderID, pref), ErrOrderNotFound)
}

func TestRepository_ApplyPayment(t *testing.T) {
	ctx := context.Background()
	approved := payment.Payment{
		ID:                "pay-1",
		Status:            payment.StatusApproved,
		ExternalReference: testOrderID.String(),
		Amount:            decimal.NewFromInt(5000),
		Currency:          "ARS",
	}

	t.Run("Applies transition under row lock", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1 FOR UPDATE`).
			WithArgs(testOrderID.String()).
			WillReturnRows(orderRow(sqlmock.NewRows(orderCols), StatusPending))
		mock.ExpectExec(`UPDATE orders SET status = \$2, payment_id = \$3, payment_status = \$4, .* WHERE id = \$1 AND status = \$6`).
			WithArgs(testOrderID.String(), "approved", "pay-1", "approved", sqlmock.AnyArg(), "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		o, change, err := repo.ApplyPayment(ctx, testOrderID, approved)
		require.NoError(t, err)
		assert.True(t, change.Applied)
		assert.Equal(t, StatusApproved, o.Status)
		assert.Equal(t, "pay-1", o.PaymentID)
		assert.NotNil(t, o.PaidAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already approved is a no-op", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WillReturnRows(orderRow(sqlmock.NewRows(orderCols), StatusApproved))
		mock.ExpectRollback()

		_, change, err := repo.ApplyPayment(ctx, testOrderID, approved)
		require.NoError(t, err)
		assert.False(t, change.Applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Amount mismatch rolls back", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WillReturnRows(orderRow(sqlmock.NewRows(orderCols), StatusPending))
		mock.ExpectRollback()

		short := approved
		short.Amount = decimal.NewFromInt(100)
		_, _, err := repo.ApplyPayment(ctx, testOrderID, short)
		assert.ErrorIs(t, err, ErrAmountMismatch)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Lost race", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WillReturnRows(orderRow(sqlmock.NewRows(orderCols), StatusPending))
		mock.ExpectExec(`UPDATE orders SET status`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, _, err := repo.ApplyPayment(ctx, testOrderID, approved)
		assert.ErrorIs(t, err, ErrConcurrentUpdate)
	})

	t.Run("Order missing", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, _, err := repo.ApplyPayment(ctx, testOrderID, approved)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("Begin fails", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		_, _, err := repo.ApplyPayment(ctx, testOrderID, approved)
		assert.EqualError(t, err, "pool exhausted")
	})
}

func TestRepository_Expire(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectExec(`SET status = 'expired'.* WHERE id = \$1 AND status = 'pending'`).
		WithArgs(testOrderID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SET status = 'expired'`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Expire(context.Background(), testOrderID)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Expire(context.Background(), testOrderID)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_ListStale(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	cutoff := time.Now().Add(-15 * time.Minute)
	mock.ExpectQuery(`WHERE status IN \('pending', 'in_review'\) AND created_at < \$1 ORDER BY reconcile_attempts ASC, created_at ASC LIMIT \$2`).
		WithArgs(cutoff, defaultListLimit).
		WillReturnRows(orderRow(sqlmock.NewRows(orderCols), StatusPending))

	orders, err := repo.ListStale(context.Background(), cutoff, 0)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestRepository_IncrementReconcileAttempts(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectExec(`SET reconcile_attempts = reconcile_attempts \+ 1`).
		WithArgs(testOrderID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.IncrementReconcileAttempts(context.Background(), testOrderID))
}

func TestRepository_List(t *testing.T) {
	t.Run("Status filter with clamped limit", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`FROM orders WHERE status = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
			WithArgs("approved", maxListLimit, 0).
			WillReturnRows(sqlmock.NewRows(orderCols))

		orders, err := repo.List(context.Background(), ListFilter{Status: StatusApproved, Limit: 1000, Offset: -3})
		require.NoError(t, err)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
	})

	t.Run("No filter", func(t *testing.T) {
		repo, mock, done := newRepo(t)
		defer done()

		mock.ExpectQuery(`FROM orders ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
			WithArgs(defaultListLimit, 10).
			WillReturnRows(orderRow(sqlmock.NewRows(orderCols), StatusRejected))

		orders, err := repo.List(context.Background(), ListFilter{Offset: 10})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, StatusRejected, orders[0].Status)
	})
}
