package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Webhook is one stored provider notification.
type Webhook struct {
	ID             int64           `json:"id"`
	Provider       string          `json:"provider"`
	EventID        string          `json:"eventId"`
	EventType      string          `json:"eventType"`
	ExternalID     string          `json:"externalId"`
	SignatureValid bool            `json:"signatureValid"`
	Payload        json.RawMessage `json:"payload"`
	ProcessedAt    *time.Time      `json:"processedAt,omitempty"`
	ProcessError   *string         `json:"processError,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Repository is the delivery log that makes webhook handling idempotent.
// Deliveries are unique per (provider, event id).
type Repository interface {
	// Record stores w and fills its ID and CreatedAt. A delivery already on
	// file reports duplicate and leaves w untouched.
	Record(ctx context.Context, w *Webhook) (duplicate bool, err error)
	MarkProcessed(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
	// Release drops an unprocessed delivery so a provider retry with the
	// same event id is processed again.
	Release(ctx context.Context, id int64) error
	ListFailed(ctx context.Context, limit int) ([]Webhook, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const webhookColumns = `id, provider, event_id, event_type, external_id, signature_valid,
	payload, processed_at, process_error, created_at`

func (r *repository) Record(ctx context.Context, w *Webhook) (bool, error) {
	payload := []byte(w.Payload)
	if len(payload) == 0 {
		payload = []byte(`{}`)
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO payment_webhooks (provider, event_id, event_type, external_id, signature_valid, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider, event_id) DO NOTHING
		RETURNING id, created_at`,
		w.Provider, w.EventID, w.EventType, w.ExternalID, w.SignatureValid, payload,
	).Scan(&w.ID, &w.CreatedAt)

	// ON CONFLICT DO NOTHING returns no row for a delivery already on file.
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	return false, err
}

func (r *repository) MarkProcessed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payment_webhooks SET processed_at = now(), process_error = NULL WHERE id = $1`, id)
	return err
}

func (r *repository) MarkFailed(ctx context.Context, id int64, reason string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payment_webhooks SET process_error = $2 WHERE id = $1`, id, reason)
	return err
}

func (r *repository) Release(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM payment_webhooks WHERE id = $1 AND processed_at IS NULL`, id)
	return err
}

// ListFailed returns the most recent unprocessed deliveries that recorded an
// error, newest first.
func (r *repository) ListFailed(ctx context.Context, limit int) ([]Webhook, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+webhookColumns+`
		FROM payment_webhooks
		WHERE processed_at IS NULL AND process_error IS NOT NULL
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hooks := []Webhook{}
	for rows.Next() {
		var (
			w       Webhook
			payload []byte
		)
		if err := rows.Scan(
			&w.ID, &w.Provider, &w.EventID, &w.EventType, &w.ExternalID, &w.SignatureValid,
			&payload, &w.ProcessedAt, &w.ProcessError, &w.CreatedAt,
		); err != nil {
			return nil, err
		}
		w.Payload = payload
		hooks = append(hooks, w)
	}
	return hooks, rows.Err()
}
