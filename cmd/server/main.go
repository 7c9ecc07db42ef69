package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cashflow-insight/config"
	"cashflow-insight/internal/analysis"
	"cashflow-insight/internal/api"
	"cashflow-insight/internal/broker"
	"cashflow-insight/internal/dataset"
	"cashflow-insight/internal/insight"
	"cashflow-insight/internal/redisclient"
	"cashflow-insight/internal/store"
	"cashflow-insight/internal/util"
	"cashflow-insight/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting cashflow insight service")

	tp, err := util.InitTracer("cashflow-insight", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	files := dataset.NewFileStore(cfg.Data.Dir)
	holder := dataset.NewHolder()

	policy := analysis.Policy{
		RestockHorizonDays: cfg.Business.RestockHorizonDays,
		DefaultBudget:      cfg.Business.DefaultReorderBudget,
		Clearance: analysis.ClearancePolicy{
			DiscountRate:      cfg.Business.ClearanceDiscountRate,
			LiftMultiplier:    cfg.Business.ClearanceLiftMultiplier,
			SlowMoverQuantile: cfg.Business.SlowMoverQuantile,
		},
	}
	analysisService := analysis.NewService(holder, files, eventPublisher, policy)

	if err := analysisService.RestorePersisted(); err != nil {
		log.Printf("Failed to restore persisted dataset: %v", err)
	}

	insights := insight.NewGenerator(
		cfg.AI.APIKey,
		cfg.AI.Model,
		cfg.AI.MaxTokens,
		redisClient,
		time.Duration(cfg.AI.CacheTTLSecs)*time.Second,
	)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	auditConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
	auditWorker := worker.NewAuditWorker(auditConsumer, db)
	go func() {
		if err := auditWorker.Start(workerCtx); err != nil {
			log.Printf("Audit worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(analysisService, insights, db, cfg.Server.AllowedOrigins)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	auditWorker.Stop()

	log.Println("Server exited")
}
