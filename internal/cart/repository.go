package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, sessionID uuid.UUID, c *Cart, expiresAt time.Time) error
	Delete(ctx context.Context, sessionID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Get returns (nil, nil) when there is no live cart for the session.
func (r *repository) Get(ctx context.Context, sessionID uuid.UUID) (*Cart, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT items
		FROM carts
		WHERE session_id = $1 AND expires_at > NOW()
	`, sessionID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedGetCart, err)
	}

	c := &Cart{}
	if err := json.Unmarshal(raw, &c.Items); err != nil {
		return nil, fmt.Errorf("%w: decode items: %v", ErrFailedGetCart, err)
	}
	return c, nil
}

func (r *repository) Save(ctx context.Context, sessionID uuid.UUID, c *Cart, expiresAt time.Time) error {
	items := c.Items
	if items == nil {
		items = []Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO carts (session_id, items, expires_at, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (session_id) DO UPDATE
		SET items = EXCLUDED.items,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = NOW()
	`, sessionID, raw, expiresAt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedClearCart, err)
	}
	return nil
}

func (r *repository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
