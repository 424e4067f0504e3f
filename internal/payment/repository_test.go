package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDelivery() *Webhook {
	return &Webhook{
		Provider:       ProviderMercadoPago,
		EventID:        "evt-1",
		EventType:      "payment",
		ExternalID:     "123",
		SignatureValid: true,
		Payload:        json.RawMessage(`{"type":"payment","data":{"id":"123"}}`),
	}
}

func TestRepository_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("New delivery", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		now := time.Now()
		w := newDelivery()
		mock.ExpectQuery(`INSERT INTO payment_webhooks .* ON CONFLICT \(provider, event_id\) DO NOTHING RETURNING id, created_at`).
			WithArgs(ProviderMercadoPago, "evt-1", "payment", "123", true, []byte(w.Payload)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, now))

		dup, err := NewRepository(db).Record(ctx, w)
		require.NoError(t, err)
		assert.False(t, dup)
		assert.Equal(t, int64(7), w.ID)
		assert.Equal(t, now, w.CreatedAt)
	})

	t.Run("Empty payload stored as object", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		w := newDelivery()
		w.Payload = nil
		mock.ExpectQuery(`INSERT INTO payment_webhooks`).
			WithArgs(ProviderMercadoPago, "evt-1", "payment", "123", true, []byte(`{}`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(8, time.Now()))

		_, err = NewRepository(db).Record(ctx, w)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate delivery", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO payment_webhooks`).WillReturnError(sql.ErrNoRows)

		w := newDelivery()
		dup, err := NewRepository(db).Record(ctx, w)
		require.NoError(t, err)
		assert.True(t, dup)
		assert.Zero(t, w.ID)
	})

	t.Run("DB error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO payment_webhooks`).WillReturnError(errors.New("conn reset"))

		dup, err := NewRepository(db).Record(ctx, newDelivery())
		assert.Error(t, err)
		assert.False(t, dup)
	})
}

func TestRepository_MarkDelivery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE payment_webhooks SET processed_at = now\(\), process_error = NULL WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE payment_webhooks SET process_error = \$2 WHERE id = \$1`).
		WithArgs(int64(8), "order not found").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkProcessed(context.Background(), 7))
	require.NoError(t, repo.MarkFailed(context.Background(), 8, "order not found"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	reason := "amount mismatch"
	mock.ExpectQuery(`FROM payment_webhooks WHERE processed_at IS NULL AND process_error IS NOT NULL ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "provider", "event_id", "event_type", "external_id", "signature_valid",
			"payload", "processed_at", "process_error", "created_at",
		}).AddRow(8, ProviderMercadoPago, "evt-2", "payment", "123", true, []byte(`{}`), nil, reason, time.Now()))

	hooks, err := NewRepository(db).ListFailed(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, hooks, 1)
	require.NotNil(t, hooks[0].ProcessError)
	assert.Equal(t, reason, *hooks[0].ProcessError)
	assert.Nil(t, hooks[0].ProcessedAt)
}

func TestRepository_Release(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM payment_webhooks WHERE id = \$1 AND processed_at IS NULL`).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewRepository(db).Release(context.Background(), 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}
