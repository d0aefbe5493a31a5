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

	"hotelsync/internal/app/review-sync/adapter"
	"hotelsync/internal/app/review-sync/config"
	"hotelsync/internal/app/review-sync/handler"
	"hotelsync/internal/app/review-sync/infrastructure/messaging"
	"hotelsync/internal/app/review-sync/processor"
	"hotelsync/internal/app/review-sync/repository"
	"hotelsync/internal/app/review-sync/service"
	"hotelsync/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	log.Println("Starting Review Sync Service...")

	logger.Init("review-sync-service", getLogLevel())

	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// === ПОДКЛЮЧЕНИЕ К MONGODB ===
	// Канонические отзывы и интеграции
	mongoClient, err := connectMongo(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	mongoDB := mongoClient.Database(cfg.Mongo.DBName)
	log.Println("Successfully connected to MongoDB")

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL ===
	// Справочник отелей
	db, err := connectDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to PostgreSQL (hotels)")

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Single-flight блокировки синхронизаций
	redisClient, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Successfully connected to Redis")

	// === ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ ===
	integrationRepo := repository.NewIntegrationRepository(mongoDB)
	reviewRepo := repository.NewReviewRepository(mongoDB)
	hotelRepo := repository.NewHotelRepository(db)
	lockRepo := repository.NewSyncLockRepository(redisClient, cfg.Redis.LockTTL)
	log.Println("Repositories initialized")

	// === ИНИЦИАЛИЗАЦИЯ KAFKA PRODUCER ===
	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	log.Printf("Kafka producer initialized (topic: %s)", cfg.Kafka.Topic)

	// === ИНИЦИАЛИЗАЦИЯ ДВИЖКА СИНХРОНИЗАЦИИ ===
	scraperClient := service.NewScraperAPIClient(cfg.Scraper.BaseURL, cfg.Scraper.APIKey, cfg.Scraper.Timeout)
	adapterRegistry := adapter.NewRegistry()
	syncGate := service.NewSyncGate(cfg.Sync.MaxConcurrent)

	syncSvc := service.NewSyncService(
		integrationRepo,
		reviewRepo,
		hotelRepo,
		lockRepo,
		scraperClient,
		adapterRegistry,
		kafkaProducer,
		syncGate,
	)

	integrationSvc := service.NewIntegrationService(
		integrationRepo,
		reviewRepo,
		hotelRepo,
		syncSvc,
		cfg.Sync.DefaultMaxReviews,
		cfg.Sync.DefaultLanguage,
	)
	log.Printf("Sync engine initialized (max concurrent syncs: %d)", cfg.Sync.MaxConcurrent)

	// === ИНИЦИАЛИЗАЦИЯ CRON SCHEDULER ===
	cronScheduler := processor.NewCronScheduler(integrationRepo, syncSvc, lockRepo, syncGate)

	if err := cronScheduler.Start(ctx, cfg.CronSchedule); err != nil {
		log.Fatalf("Failed to start cron scheduler: %v", err)
	}
	defer cronScheduler.Stop()

	// === ИНИЦИАЛИЗАЦИЯ HTTP СЕРВЕРА ===
	integrationHandler := handler.NewIntegrationHandler(integrationSvc)
	healthHandler := handler.NewHealthHandler(mongoClient, db, redisClient)

	router := handler.SetupRoutes(integrationHandler, healthHandler)

	httpServer := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on :%s...", cfg.HTTP.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	log.Println("Review Sync Service is running")
	log.Printf("Sync tiers scheduled: daily=%q weekly=%q monthly=%q",
		cfg.CronSchedule.Daily, cfg.CronSchedule.Weekly, cfg.CronSchedule.Monthly)

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Review Sync Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Review Sync Service stopped gracefully")
}

// getLogLevel читает уровень логирования из окружения
func getLogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return "info"
}

// connectMongo устанавливает соединение с MongoDB с retry logic
func connectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(5 * time.Second)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		client, err = mongo.Connect(ctx, opts)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = client.Ping(pingCtx, readpref.Primary())
			cancel()
			if err == nil {
				return client, nil
			}
		}
		log.Printf("Failed to connect to MongoDB (attempt %d/10): %v", i+1, err)
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to MongoDB after 10 attempts: %w", err)
}

// connectDB устанавливает соединение с PostgreSQL используя GORM
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	// Retry logic для устойчивости при запуске в Docker
	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else {
				if pingErr := sqlDB.Ping(); pingErr != nil {
					err = pingErr
				} else {
					sqlDB.SetMaxOpenConns(10)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
					sqlDB.SetConnMaxIdleTime(1 * time.Minute)
					return db, nil
				}
			}
		}
		log.Printf("Failed to connect to database (attempt %d/10): %v", i+1, err)
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

// connectRedis устанавливает соединение с Redis
func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	for i := 0; i < 10; i++ {
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		log.Printf("Failed to connect to Redis (attempt %d/10)", i+1)
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to Redis after 10 attempts")
}
