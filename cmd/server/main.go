package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"orthanc/internal/commons"
	"orthanc/internal/config"
	"orthanc/internal/infrastructure/kafka"
	"orthanc/internal/infrastructure/logger"
	"orthanc/internal/infrastructure/mysql"
	"orthanc/internal/inventory"
	"orthanc/internal/order"
	"orthanc/internal/server"
	"orthanc/internal/shipment"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if cfg.Database.RunMigrations {
		if err := mysql.RunMigrations(db, cfg.Database.MigrationsPath, cfg.Database.Name); err != nil {
			zapLogger.Fatal("running migrations", zap.Error(err))
		}
		zapLogger.Info("migrations applied")
	}

	orderCtrl := order.NewModule(db, cfg, zapLogger)
	stockCtrl, receiveUC := inventory.NewModule(db, cfg, zapLogger)
	shipmentCtrl := shipment.NewModule(db, cfg, zapLogger)

	router := server.NewRouter(orderCtrl, stockCtrl, shipmentCtrl, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	var consumer *kafka.Consumer
	if len(cfg.Kafka.Brokers) > 0 {
		consumer = kafka.NewConsumer(cfg.Kafka, receiveUC, zapLogger)
		go func() {
			if err := consumer.Start(consumerCtx); err != nil {
				zapLogger.Error("kafka consumer error", zap.Error(err))
			}
		}()
	} else {
		zapLogger.Info("no kafka brokers configured, consumer disabled")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	stopConsumer()
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			zapLogger.Warn("closing kafka consumer", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

// loadConfig prefers a YAML file named via CONFIG_FILE and falls back to
// environment variables.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return commons.LoadConfig(path)
	}
	return config.Load()
}
