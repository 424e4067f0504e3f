package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paulapastas-be/internal/config"
	"paulapastas-be/internal/db"
	"paulapastas-be/internal/events"
	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/metrics"
	"paulapastas-be/internal/order"
	"paulapastas-be/internal/payment"
	"paulapastas-be/internal/reconcile"

	"go.uber.org/zap"
)

type onceRunner interface {
	RunOnce(ctx context.Context) (reconcile.Result, error)
}

func main() {
	batch := flag.Int("batch", 0, "max orders to check, overrides RECONCILE_BATCH_SIZE")
	minAge := flag.Duration("min-age", 0, "only check orders older than this, overrides RECONCILE_MIN_AGE")
	flag.Parse()

	cfg := config.LoadConfig()
	if *batch > 0 {
		cfg.ReconcileBatchSize = *batch
	}
	if *minAge > 0 {
		cfg.ReconcileMinAge = *minAge
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	reg := metrics.NewRegistry()
	job := reconcile.NewJob(
		order.NewService(order.NewRepository(database), publisher, reg),
		payment.NewMercadoPagoGateway(payment.MercadoPagoConfig{
			AccessToken: cfg.MPAccessToken,
			BaseURL:     cfg.MPBaseURL,
			Currency:    cfg.Currency,
			Timeout:     cfg.MPTimeout,
			MaxRetries:  cfg.MPMaxRetries,
		}),
		reconcile.Config{
			MinAge:      cfg.ReconcileMinAge,
			ExpireAfter: cfg.ReconcileExpireAfter,
			BatchSize:   cfg.ReconcileBatchSize,
		},
		reg,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	if err := run(ctx, job, os.Stdout); err != nil {
		logger.L().Error("reconciliation failed", zap.Error(err))
		logger.Sync()
		log.Fatal(err)
	}
}

// run performs a single pass and prints its counts as JSON.
func run(ctx context.Context, job onceRunner, out io.Writer) error {
	res, err := job.RunOnce(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
