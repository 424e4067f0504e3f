package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"paulapastas-be/internal/logger"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultBaseURL        = "https://api.mercadopago.com"
	defaultTimeout        = 10 * time.Second
	defaultMaxRetries     = 3
	defaultInitialBackoff = 500 * time.Millisecond
	maxBackoff            = 5 * time.Second
)

type MercadoPagoConfig struct {
	AccessToken         string
	BaseURL             string
	WebhookSecret       string
	NotificationURL     string
	SuccessURL          string
	FailureURL          string
	PendingURL          string
	StatementDescriptor string
	Currency            string

	// Timeout bounds every single attempt, not the whole retry sequence.
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration

	// RequireSignature rejects webhooks when no secret is configured.
	RequireSignature bool
}

type mercadoPagoGateway struct {
	cfg        MercadoPagoConfig
	httpClient *http.Client
}

// ----------------- Constructor -----------------

func NewMercadoPagoGateway(cfg MercadoPagoConfig) Gateway {
	if cfg.AccessToken == "" {
		logger.L().Warn("MercadoPago access token is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialBackoff
	}
	if cfg.Currency == "" {
		cfg.Currency = "ARS"
	}

	return &mercadoPagoGateway{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

// ----------------- Wire types -----------------

type mpItem struct {
	ID         string  `json:"id,omitempty"`
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
	PictureURL string  `json:"picture_url,omitempty"`
}

type mpPhone struct {
	Number string `json:"number"`
}

type mpPayer struct {
	Name  string   `json:"name,omitempty"`
	Email string   `json:"email,omitempty"`
	Phone *mpPhone `json:"phone,omitempty"`
}

type mpBackURLs struct {
	Success string `json:"success,omitempty"`
	Failure string `json:"failure,omitempty"`
	Pending string `json:"pending,omitempty"`
}

type mpPreferenceRequest struct {
	Items               []mpItem       `json:"items"`
	Payer               mpPayer        `json:"payer"`
	BackURLs            mpBackURLs     `json:"back_urls"`
	AutoReturn          string         `json:"auto_return,omitempty"`
	ExternalReference   string         `json:"external_reference"`
	NotificationURL     string         `json:"notification_url,omitempty"`
	StatementDescriptor string         `json:"statement_descriptor,omitempty"`
	Metadata            map[string]any `json:"metadata,omitempty"`
}

type mpPreferenceResponse struct {
	ID                string `json:"id"`
	InitPoint         string `json:"init_point"`
	SandboxInitPoint  string `json:"sandbox_init_point"`
	ExternalReference string `json:"external_reference"`
}

type mpPayment struct {
	ID                int64           `json:"id"`
	Status            string          `json:"status"`
	StatusDetail      string          `json:"status_detail"`
	ExternalReference string          `json:"external_reference"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	CurrencyID        string          `json:"currency_id"`
	DateCreated       time.Time       `json:"date_created"`
	DateApproved      *time.Time      `json:"date_approved"`
}

func (p mpPayment) toPayment() Payment {
	return Payment{
		ID:                strconv.FormatInt(p.ID, 10),
		Status:            Status(p.Status),
		StatusDetail:      p.StatusDetail,
		ExternalReference: p.ExternalReference,
		Amount:            p.TransactionAmount,
		Currency:          p.CurrencyID,
		CreatedAt:         p.DateCreated,
		ApprovedAt:        p.DateApproved,
	}
}

type mpSearchResponse struct {
	Results []mpPayment `json:"results"`
}

type mpErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ----------------- CreatePreference -----------------

func (g *mercadoPagoGateway) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("external_reference", req.ExternalReference),
		zap.Int("items", len(req.Items)),
	)

	body := mpPreferenceRequest{
		Payer: mpPayer{Name: req.Payer.Name, Email: req.Payer.Email},
		BackURLs: mpBackURLs{
			Success: g.cfg.SuccessURL,
			Failure: g.cfg.FailureURL,
			Pending: g.cfg.PendingURL,
		},
		ExternalReference:   req.ExternalReference,
		NotificationURL:     g.cfg.NotificationURL,
		StatementDescriptor: g.cfg.StatementDescriptor,
		Metadata:            req.Metadata,
	}
	if g.cfg.SuccessURL != "" {
		body.AutoReturn = "approved"
	}
	if req.Payer.Phone != "" {
		body.Payer.Phone = &mpPhone{Number: req.Payer.Phone}
	}
	for _, it := range req.Items {
		body.Items = append(body.Items, mpItem{
			ID:         it.ID,
			Title:      it.Title,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice.InexactFloat64(),
			CurrencyID: g.cfg.Currency,
			PictureURL: it.PictureURL,
		})
	}

	idemKey := req.IdempotencyKey
	if idemKey == "" {
		idemKey = req.ExternalReference
	}

	log.Info("Sending preference request to MercadoPago")

	var res mpPreferenceResponse
	if err := g.do(ctx, http.MethodPost, "/checkout/preferences", body, idemKey, &res); err != nil {
		log.Error("MercadoPago preference failed", zap.Error(err), zap.Bool("retryable", IsRetryable(err)))
		return nil, err
	}

	log.Info("MercadoPago preference created", zap.String("preference_id", res.ID))

	return &Preference{
		ID:                res.ID,
		InitPoint:         res.InitPoint,
		SandboxInitPoint:  res.SandboxInitPoint,
		ExternalReference: req.ExternalReference,
	}, nil
}

// ----------------- GetPayment -----------------

func (g *mercadoPagoGateway) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	log := logger.FromCtx(ctx).With(zap.String("payment_id", paymentID))

	var res mpPayment
	if err := g.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(paymentID), nil, "", &res); err != nil {
		log.Warn("MercadoPago get payment failed", zap.Error(err), zap.Bool("retryable", IsRetryable(err)))
		return nil, err
	}

	p := res.toPayment()
	return &p, nil
}

// ----------------- SearchPayments -----------------

// SearchPayments lists payments for an external reference, newest first.
func (g *mercadoPagoGateway) SearchPayments(ctx context.Context, externalReference string) ([]Payment, error) {
	q := url.Values{}
	q.Set("external_reference", externalReference)
	q.Set("sort", "date_created")
	q.Set("criteria", "desc")

	var res mpSearchResponse
	if err := g.do(ctx, http.MethodGet, "/v1/payments/search?"+q.Encode(), nil, "", &res); err != nil {
		logger.FromCtx(ctx).Warn("MercadoPago payment search failed",
			zap.String("external_reference", externalReference),
			zap.Error(err),
		)
		return nil, err
	}

	out := make([]Payment, 0, len(res.Results))
	for _, p := range res.Results {
		out = append(out, p.toPayment())
	}
	return out, nil
}

// ----------------- Transport -----------------

// do sends one API call with a per-attempt timeout, retrying network
// failures, 429 and 5xx answers with exponential backoff.
func (g *mercadoPagoGateway) do(ctx context.Context, method, path string, in any, idemKey string, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("marshal mercadopago request: %w", err)
		}
	}

	attempt := 0
	op := func() error {
		attempt++
		err := g.attempt(ctx, method, path, payload, idemKey, out)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		logger.FromCtx(ctx).Debug("retrying MercadoPago call",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return err
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = g.cfg.InitialBackoff
	eb.MaxInterval = maxBackoff
	eb.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(g.cfg.MaxRetries)), ctx)
	return backoff.Retry(op, policy)
}

func (g *mercadoPagoGateway) attempt(ctx context.Context, method, path string, payload []byte, idemKey string, out any) error {
	attemptCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(attemptCtx, method, g.cfg.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.AccessToken)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idemKey != "" {
		req.Header.Set("X-Idempotency-Key", idemKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrProviderUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
		var eb mpErrorBody
		if json.Unmarshal(bodyBytes, &eb) == nil {
			apiErr.Message = eb.Message
			if apiErr.Message == "" {
				apiErr.Message = eb.Error
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("decode mercadopago response: %w", err)
	}
	return nil
}

// ----------------- Verify Signature -----------------

func (g *mercadoPagoGateway) VerifySignature(r *http.Request) error {
	if g.cfg.WebhookSecret == "" {
		if g.cfg.RequireSignature {
			return errors.New("webhook secret not configured")
		}
		return nil // skip in dev
	}

	// The handler only processes the id covered here, so an unsigned id
	// cannot slip through an empty manifest part.
	dataID := r.URL.Query().Get("data.id")
	if dataID == "" {
		return fmt.Errorf("%w: missing data.id", ErrInvalidSignature)
	}
	return VerifyWebhookSignature(
		g.cfg.WebhookSecret,
		r.Header.Get("x-signature"),
		r.Header.Get("x-request-id"),
		dataID,
	)
}
