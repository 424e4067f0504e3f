package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"paulapastas-be/internal/auth"
	"paulapastas-be/internal/cache"
	"paulapastas-be/internal/cart"
	"paulapastas-be/internal/catalog"
	"paulapastas-be/internal/checkout"
	"paulapastas-be/internal/config"
	"paulapastas-be/internal/content"
	"paulapastas-be/internal/db"
	"paulapastas-be/internal/events"
	"paulapastas-be/internal/graph"
	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/metrics"
	"paulapastas-be/internal/middleware"
	"paulapastas-be/internal/newsletter"
	"paulapastas-be/internal/order"
	"paulapastas-be/internal/payment"
	"paulapastas-be/internal/payment/webhook"
	"paulapastas-be/internal/reconcile"
	"paulapastas-be/internal/review"
	"paulapastas-be/internal/user"

	"go.uber.org/zap"
)

const (
	shutdownTimeout   = 15 * time.Second
	readHeaderTimeout = 10 * time.Second
	cartPurgeInterval = time.Hour
	homeCacheSize     = 4
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := newServer(cfg, database)
	defer srv.Close()
	srv.startBackground(ctx)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           srv,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	logger.L().Info("http server starting", zap.String("addr", httpSrv.Addr), zap.String("env", cfg.AppEnv))
	return startServerFunc(ctx, httpSrv)
}

// startServer serves until ctx is cancelled, then drains in-flight requests.
func startServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type server struct {
	handler   http.Handler
	limiter   *middleware.RateLimiter
	reconcile *reconcile.Job
	carts     cart.Service
	publisher events.Publisher
	metrics   *metrics.Registry

	reconcileEnabled bool
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *server) Close() {
	if err := s.publisher.Close(); err != nil {
		logger.L().Warn("close event publisher", zap.Error(err))
	}
}

// startBackground launches the jobs that live as long as ctx.
func (s *server) startBackground(ctx context.Context) {
	go s.limiter.Cleanup(ctx)
	go s.purgeCarts(ctx)
	if s.reconcileEnabled {
		go s.reconcile.Run(ctx)
	}
}

func (s *server) purgeCarts(ctx context.Context) {
	ticker := time.NewTicker(cartPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.carts.PurgeExpired(ctx)
			if err != nil {
				logger.L().Warn("purge expired carts failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.L().Info("expired carts purged", zap.Int64("count", n))
			}
		}
	}
}

func gatewayConfig(cfg *config.Config) payment.MercadoPagoConfig {
	return payment.MercadoPagoConfig{
		AccessToken:         cfg.MPAccessToken,
		BaseURL:             cfg.MPBaseURL,
		WebhookSecret:       cfg.MPWebhookSecret,
		NotificationURL:     cfg.MPNotificationURL,
		SuccessURL:          cfg.MPSuccessURL,
		FailureURL:          cfg.MPFailureURL,
		PendingURL:          cfg.MPPendingURL,
		StatementDescriptor: cfg.MPStatementDescriptor,
		Currency:            cfg.Currency,
		Timeout:             cfg.MPTimeout,
		MaxRetries:          cfg.MPMaxRetries,
		RequireSignature:    cfg.IsProduction(),
	}
}

func newServer(cfg *config.Config, database *sql.DB) *server {
	reg := metrics.NewRegistry()
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	gateway := payment.NewMercadoPagoGateway(gatewayConfig(cfg))
	homeCache := cache.NewTTL[content.Home](homeCacheSize, cfg.HomeCacheTTL)

	catalogSvc := catalog.NewService(catalog.NewRepository(database), homeCache)
	cartSvc := cart.NewService(cart.NewRepository(database), catalogSvc, cfg.CartTTL)
	orderSvc := order.NewService(order.NewRepository(database), publisher, reg)
	checkoutSvc := checkout.NewService(catalogSvc, orderSvc, gateway,
		checkout.Config{Currency: cfg.Currency, DeliveryFee: cfg.DeliveryFee}, reg)
	contentSvc := content.NewService(content.NewRepository(database), catalogSvc, homeCache)
	reviewSvc := review.NewService(review.NewRepository(database), catalogSvc)
	newsletterSvc := newsletter.NewService(newsletter.NewRepository(database))
	userSvc := user.NewService(user.NewRepository(database), tokens)

	job := reconcile.NewJob(orderSvc, gateway, reconcile.Config{
		Interval:    cfg.ReconcileInterval,
		MinAge:      cfg.ReconcileMinAge,
		ExpireAfter: cfg.ReconcileExpireAfter,
		BatchSize:   cfg.ReconcileBatchSize,
	}, reg)

	secure := cfg.IsProduction()
	gql := graph.NewHandler(&graph.Resolver{
		CatalogSvc:    catalogSvc,
		CartSvc:       cartSvc,
		ContentSvc:    contentSvc,
		ReviewSvc:     reviewSvc,
		NewsletterSvc: newsletterSvc,
		UserSvc:       userSvc,
		OrderSvc:      orderSvc,
		CartTTL:       cfg.CartTTL,
		SessionTTL:    cfg.JWTTTL,
		SecureCookies: secure,
	}, graph.HandlerConfig{Introspection: !cfg.IsProduction()})

	rt := routes{
		catalog:    catalog.NewHandler(catalogSvc),
		cart:       cart.NewHandler(cartSvc, cart.HandlerConfig{TTL: cfg.CartTTL, SecureCookie: secure}),
		checkout:   checkout.NewHandler(checkoutSvc),
		webhook:    webhook.NewWebhookHandler(orderSvc, gateway, payment.NewRepository(database), reg),
		orders:     order.NewHandler(orderSvc),
		content:    content.NewHandler(contentSvc),
		reviews:    review.NewHandler(reviewSvc),
		newsletter: newsletter.NewHandler(newsletterSvc),
		users:      user.NewHandler(userSvc, cfg.JWTTTL, secure),
		metrics:    reg,
		graphql:    gql,
		playground: !cfg.IsProduction(),
	}

	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey)
	handler := middleware.Chain(setupRouter(rt),
		logger.RequestIDMiddleware,
		middleware.LoggingMiddleware,
		middleware.CORS(cfg.CORSOrigin),
		middleware.AuthMiddleware(tokens),
		limiter.Middleware,
	)

	return &server{
		handler:          handler,
		limiter:          limiter,
		reconcile:        job,
		carts:            cartSvc,
		publisher:        publisher,
		metrics:          reg,
		reconcileEnabled: cfg.ReconcileEnabled,
	}
}

type routes struct {
	catalog    *catalog.Handler
	cart       *cart.Handler
	checkout   *checkout.Handler
	webhook    *webhook.Handler
	orders     *order.Handler
	content    *content.Handler
	reviews    *review.Handler
	newsletter *newsletter.Handler
	users      *user.Handler
	metrics    *metrics.Registry
	graphql    http.Handler
	playground bool
}

func setupRouter(rt routes) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", middleware.RequireAdmin(rt.metrics.Handler()))
	mux.Handle(graph.Endpoint, rt.graphql)
	if rt.playground {
		mux.Handle("GET "+graph.PlaygroundPath, graph.PlaygroundHandler())
	}

	admin := middleware.RequireAdmin
	authed := middleware.RequireAuth

	rt.catalog.Register(mux, admin)
	rt.cart.Register(mux)
	rt.checkout.Register(mux)
	rt.webhook.Register(mux, admin)
	rt.orders.Register(mux, admin)
	rt.content.Register(mux, admin)
	rt.reviews.Register(mux, authed, admin)
	rt.newsletter.Register(mux, admin)
	rt.users.Register(mux, authed)

	return mux
}
