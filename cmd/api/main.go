package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wefi-dex/munchclub-admin/internal/api"
	"github.com/wefi-dex/munchclub-admin/internal/clients"
	"github.com/wefi-dex/munchclub-admin/internal/config"
	"github.com/wefi-dex/munchclub-admin/internal/database"
	"github.com/wefi-dex/munchclub-admin/internal/docstore"
	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/internal/outbox"
	"github.com/wefi-dex/munchclub-admin/internal/repository"
	"github.com/wefi-dex/munchclub-admin/internal/service"
	"github.com/wefi-dex/munchclub-admin/pkg/kafka"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l, err := logger.NewLogger(cfg.LogLevel, cfg.Env)

	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer l.Sync()

	if err := run(cfg, l); err != nil {
		l.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, l logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg, l)

	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	docs, err := docstore.Connect(connectCtx, cfg.Mongo, l)
	cancel()

	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := docs.Close(closeCtx); err != nil {
			l.Error("Error closing document store", "error", err)
		}
	}()

	orderRepo := repository.NewOrderRepository(db, l)
	userRepo := repository.NewUserRepository(db, l)
	catalogRepo := repository.NewCatalogRepository(db, l)
	couponRepo := repository.NewCouponRepository(docs.Collection(repository.CouponCollection), l)
	outboxRepo := repository.NewOutboxRepository(db, l)

	printer := clients.NewPrinterClient(cfg.Printer.BaseURL, cfg.Printer.Timeout, l)

	services := api.Services{
		Orders:  service.NewOrderService(orderRepo, userRepo, l),
		Printer: service.NewPrinterService(orderRepo, printer, l),
		Coupons: service.NewCouponService(couponRepo, nil, l),
		Users:   service.NewUserService(userRepo, l),
		Admin:   service.NewAdminService(userRepo, catalogRepo, couponRepo, l),
	}

	processor := outbox.NewProcessor(outboxRepo, outbox.ProcessorConfig{
		PollingInterval: cfg.Outbox.PollingInterval,
		BatchSize:       cfg.Outbox.BatchSize,
		MaxRetries:      cfg.Outbox.MaxRetries,
	}, l)

	var handler outbox.MessageHandler = outbox.NewLoggingHandler(l)

	if cfg.KafkaEnabled() {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, "munchclub-admin", l)

		if err != nil {
			return err
		}
		defer func() {
			if err := producer.Close(); err != nil {
				l.Error("Error closing Kafka producer", "error", err)
			}
		}()

		handler = outbox.NewKafkaHandler(producer, cfg.Kafka.OrdersTopic, l)
	} else {
		l.Warn("KAFKA_BROKERS not set, order events are only logged")
	}

	processor.RegisterHandler(models.EventOrderStatusChanged, handler)
	processor.RegisterHandler(models.EventOrderDeleted, handler)
	processor.Start(ctx)
	defer processor.Stop()

	server := api.NewServer(cfg, services, map[string]api.HealthCheck{
		"database":      db.Ping,
		"documentStore": docs.Ping,
	}, l)

	errCh := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	l.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error("Server forced to shutdown", "error", err)
		return err
	}

	l.Info("Server exiting")
	return nil
}
