package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/marktprijs/catalog/internal/config"
	"github.com/marktprijs/catalog/internal/logger"
	"github.com/marktprijs/catalog/internal/metrics"
	"github.com/marktprijs/catalog/internal/model"
	"github.com/marktprijs/catalog/internal/repository/sql"
	"github.com/marktprijs/catalog/internal/service"
	sqspkg "github.com/marktprijs/catalog/internal/sqs"
)

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.StartDB(ctx, conf.Database)
	handleErr("starting database", err)
	defer db.Close()

	productRepository := sql.NewProductRepository(db)
	categoryRepository := sql.NewCategoryRepository(db)
	supermarketRepository := sql.NewSupermarketRepository(db)
	sessionRepository := sql.NewSessionRepository(db)

	// Sessions fail loudly on unknown sources, so register the known chains
	// before consuming.
	for code, def := range model.KnownSupermarkets {
		if _, err := supermarketRepository.Ensure(ctx, code, def.Name, def.BaseURL); err != nil {
			handleErr("registering supermarket "+code, err)
		}
	}

	engine := service.NewPersistenceEngine(productRepository, categoryRepository, supermarketRepository, conf.BatchChunkSize)
	tracker := service.NewSessionTracker(sessionRepository, supermarketRepository)
	coordinator := service.NewIngestCoordinator(engine, tracker, conf.BatchChunkSize)

	sqsClient, err := sqspkg.NewClient(ctx, conf.AWS.Region, conf.AWS.Endpoint)
	handleErr("creating SQS client", err)

	metrics.StartMetricsServer(conf)

	consumer := sqspkg.NewConsumer(sqsClient, conf.AWS.SQSQueueURL, coordinator)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		handleErr("consuming intake queue", err)
	}
	slog.Info("intake worker stopped")
}

func handleErr(action string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", action, err)
	}
}
