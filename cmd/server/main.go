package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/humbelmindai/humblemind-bi-platform/config"
	"github.com/humbelmindai/humblemind-bi-platform/internal/api/rest"
	"github.com/humbelmindai/humblemind-bi-platform/internal/kafka"
	"github.com/humbelmindai/humblemind-bi-platform/internal/kafka/producer"
	"github.com/humbelmindai/humblemind-bi-platform/internal/metrics"
	"github.com/humbelmindai/humblemind-bi-platform/internal/payfast"
	"github.com/humbelmindai/humblemind-bi-platform/internal/repository/postgres"
	"github.com/humbelmindai/humblemind-bi-platform/internal/service"
	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

var log *logger.Logger

func init() {
	// .env is optional; production provides real environment variables
	_ = godotenv.Load()

	log = logger.New(logger.ParseLevel(os.Getenv("LOG_LEVEL")))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Prometheus
	promRegistry := prometheus.NewRegistry()
	billingMetrics := metrics.NewBillingMetrics(promRegistry, log)

	// Database
	runMigrations(cfg)

	dbPool, err := postgres.NewConnection(ctx, cfg.Database.GetDSN(), log)
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	subscriptionRepo := postgres.NewSubscriptionRepository(dbPool, log)
	invoiceRepo := postgres.NewInvoiceRepository(dbPool, log)
	activityRepo := postgres.NewActivityRepository(dbPool, log)

	// Kafka producer
	var billingProducer producer.BillingProducer
	if cfg.Kafka.Enabled {
		kafkaConfig := kafka.NewConfig(cfg.Kafka.Brokers)
		saramaConfig := kafka.NewSaramaConfig(kafkaConfig, log)

		kafkaProducer, err := sarama.NewSyncProducer(kafkaConfig.Brokers, saramaConfig)
		if err != nil {
			log.Fatal("Failed to create Kafka producer: %v", err)
		}
		defer kafkaProducer.Close()

		billingProducer = producer.NewKafkaBillingProducer(kafkaProducer, log)
	}

	// PayFast gateway client
	gateway := payfast.NewClient(payfast.Config{
		MerchantID:  cfg.PayFast.MerchantID,
		MerchantKey: cfg.PayFast.MerchantKey,
		Passphrase:  cfg.PayFast.Passphrase,
		Sandbox:     cfg.PayFast.Sandbox,
	}, log)

	billingService := service.NewBillingService(
		gateway,
		subscriptionRepo,
		invoiceRepo,
		activityRepo,
		billingProducer,
		billingMetrics,
		cfg.Server.SiteURL,
		log,
	)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := rest.SetupRouter(billingService, promRegistry, log)
	server := rest.NewServer(router, cfg, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// runMigrations applies pending schema migrations before serving traffic
func runMigrations(cfg *config.Config) {
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "internal/repository/postgres/migrations"
	}

	m, err := migrate.New("file://"+migrationsPath, cfg.Database.GetMigrationURL())
	if err != nil {
		log.Fatal("Failed to create migrate instance: %v", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("Failed to apply migrations: %v", err)
	}

	log.Info("Database migrations applied")
}
