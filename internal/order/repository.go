package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"paulapastas-be/internal/payment"
	"paulapastas-be/internal/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*Order, error)
	AttachPreference(ctx context.Context, id uuid.UUID, pref payment.Preference) error

	// ApplyPayment locks the order row, decides the transition and persists
	// it in one transaction. The returned order reflects the stored state.
	ApplyPayment(ctx context.Context, id uuid.UUID, p payment.Payment) (*Order, Change, error)

	Expire(ctx context.Context, id uuid.UUID) (bool, error)
	ListStale(ctx context.Context, olderThan time.Time, limit int) ([]Order, error)
	IncrementReconcileAttempts(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f ListFilter) ([]Order, error)
}

type repository struct {
	db        *sql.DB
	now       func() time.Time
	newNumber func() string
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db, now: time.Now, newNumber: utils.GenerateOrderNumber}
}

// maxNumberAttempts bounds retries when a generated order number collides.
const maxNumberAttempts = 5

const numberConstraint = "orders_number_key"

const orderColumns = `
	id, number, buyer, items, delivery_option, address, notes,
	delivery_fee, total, currency, status, preference_id, init_point,
	sandbox_init_point, payment_id, payment_status, idempotency_key,
	reconcile_attempts, created_at, updated_at, paid_at`

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o                                     Order
		buyer, items                          []byte
		address, notes, prefID, initPoint     sql.NullString
		sandboxPoint, paymentID, paymentState sql.NullString
		idemKey                               sql.NullString
		paidAt                                sql.NullTime
	)
	err := row.Scan(
		&o.ID, &o.Number, &buyer, &items, &o.DeliveryOption, &address, &notes,
		&o.DeliveryFee, &o.Total, &o.Currency, &o.Status, &prefID, &initPoint,
		&sandboxPoint, &paymentID, &paymentState, &idemKey,
		&o.ReconcileAttempts, &o.CreatedAt, &o.UpdatedAt, &paidAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(buyer, &o.Buyer); err != nil {
		return nil, fmt.Errorf("decode buyer: %w", err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	o.Address = address.String
	o.Notes = notes.String
	o.PreferenceID = prefID.String
	o.InitPoint = initPoint.String
	o.SandboxInitPoint = sandboxPoint.String
	o.PaymentID = paymentID.String
	o.PaymentStatus = paymentState.String
	o.IdempotencyKey = idemKey.String
	if paidAt.Valid {
		t := paidAt.Time
		o.PaidAt = &t
	}
	return &o, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	buyer, err := json.Marshal(o.Buyer)
	if err != nil {
		return fmt.Errorf("encode buyer: %w", err)
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	const q = `
	INSERT INTO orders (
		id, number, buyer, items, delivery_option, address, notes,
		delivery_fee, total, currency, status, idempotency_key
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	RETURNING created_at, updated_at
	`
	for attempt := 1; ; attempt++ {
		err = r.db.QueryRowContext(ctx, q,
			o.ID, o.Number, buyer, items, o.DeliveryOption, nullable(o.Address), nullable(o.Notes),
			o.DeliveryFee, o.Total, o.Currency, o.Status, nullable(o.IdempotencyKey),
		).Scan(&o.CreatedAt, &o.UpdatedAt)

		var pqErr *pq.Error
		if err == nil || !errors.As(err, &pqErr) || pqErr.Code != "23505" {
			return err
		}
		switch {
		case strings.Contains(pqErr.Constraint, "idempotency"):
			return ErrDuplicateIdemKey
		case pqErr.Constraint == numberConstraint && attempt < maxNumberAttempts:
			o.Number = r.generateNumber()
		default:
			return err
		}
	}
}

func (r *repository) generateNumber() string {
	if r.newNumber == nil {
		return utils.GenerateOrderNumber()
	}
	return r.newNumber()
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

func (r *repository) GetByIdempotencyKey(ctx context.Context, key string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE idempotency_key = $1`, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

func (r *repository) AttachPreference(ctx context.Context, id uuid.UUID, pref payment.Preference) error {
	const q = `
	UPDATE orders
	SET preference_id = $2, init_point = $3, sandbox_init_point = $4, updated_at = NOW()
	WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q, id, pref.ID, pref.InitPoint, nullable(pref.SandboxInitPoint))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) ApplyPayment(ctx context.Context, id uuid.UUID, p payment.Payment) (*Order, Change, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, Change{}, err
	}
	defer tx.Rollback()

	o, err := scanOrder(tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Change{}, ErrOrderNotFound
	}
	if err != nil {
		return nil, Change{}, err
	}

	change, err := DecideTransition(o, p)
	if err != nil || !change.Applied {
		return o, change, err
	}

	var paidAt *time.Time
	if change.To == StatusApproved {
		t := r.now().UTC()
		if p.ApprovedAt != nil {
			t = p.ApprovedAt.UTC()
		}
		paidAt = &t
	}

	const q = `
	UPDATE orders
	SET status = $2, payment_id = $3, payment_status = $4,
		paid_at = COALESCE($5, paid_at), updated_at = NOW()
	WHERE id = $1 AND status = $6
	`
	res, err := tx.ExecContext(ctx, q, id, change.To, p.ID, string(p.Status), paidAt, change.From)
	if err != nil {
		return nil, Change{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, Change{}, ErrConcurrentUpdate
	}

	if err := tx.Commit(); err != nil {
		return nil, Change{}, err
	}

	o.Status = change.To
	o.PaymentID = p.ID
	o.PaymentStatus = string(p.Status)
	if paidAt != nil {
		o.PaidAt = paidAt
	}
	return o, change, nil
}

// Expire moves a still-pending order to expired. It reports false when the
// order had already left pending.
func (r *repository) Expire(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE orders
	SET status = 'expired', updated_at = NOW()
	WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repository) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return r.queryOrders(ctx, `
	SELECT `+orderColumns+`
	FROM orders
	WHERE status IN ('pending', 'in_review') AND created_at < $1
	ORDER BY reconcile_attempts ASC, created_at ASC
	LIMIT $2
	`, olderThan, limit)
}

func (r *repository) IncrementReconcileAttempts(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE orders
	SET reconcile_attempts = reconcile_attempts + 1, last_reconciled_at = NOW()
	WHERE id = $1
	`, id)
	return err
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Order, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return r.queryOrders(ctx, query, args...)
}

func (r *repository) queryOrders(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
