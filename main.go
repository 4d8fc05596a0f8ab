package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/sanket-jethava/saleor/internal/catalog"
	"github.com/sanket-jethava/saleor/internal/graphid"
	"github.com/sanket-jethava/saleor/internal/pricing"
	"github.com/sanket-jethava/saleor/internal/publisher"
	"github.com/sanket-jethava/saleor/internal/repository"
	"github.com/sanket-jethava/saleor/internal/serializer"
	"github.com/sanket-jethava/saleor/internal/server"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("checkout-events service starting...")

	// Configuration
	httpPort := getEnv("HTTP_PORT", "8080")
	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDB := getEnv("MONGO_DB", "catalog")
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	taxRate := getEnv("FLAT_TAX_RATE", "0.00")
	requestTimeout := 30 * time.Second

	// Database setup
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "checkout_events")
	migrationsPath := getEnv("MIGRATIONS_PATH", "./internal/repository/migrations")

	port, err := strconv.Atoi(dbPort)
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}

	rate, err := decimal.NewFromString(taxRate)
	if err != nil {
		log.Fatalf("Invalid FLAT_TAX_RATE: %v", err)
	}

	creds := &repository.Credentials{
		Host:              dbHost,
		Port:              port,
		User:              dbUser,
		Password:          dbPass,
		DBName:            dbName,
		MigrationsDirPath: migrationsPath,
	}

	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Catalog store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoDatabase, err := catalog.ConnectMongoDB(ctx, mongoURI, mongoDB)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to mongo: %v", err)
	}
	catalogRepo := catalog.NewMongoRepository(mongoDatabase)
	log.Printf("Connected to mongo at %s", mongoURI)

	// Price quoting with a redis-backed quote cache
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	quoteCache := pricing.NewRedisCache(redisClient)
	priceQuoter := pricing.NewCachedQuoter(pricing.ListingQuoter{}, quoteCache)

	taxQuoter := pricing.FlatRateTaxQuoter{Rate: rate}
	discounts := pricing.StaticDiscountProvider{}

	// Serialization core
	lines := serializer.NewCheckoutLinesSerializer(graphid.Encoder{}, priceQuoter, taxQuoter, discounts)

	// Outbox poller draining serialized payloads to Kafka
	poller := publisher.NewOutboxPoller(repo, kafkaBrokers...)
	pollerCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	go poller.Run(pollerCtx)
	log.Printf("Outbox poller publishing to %v", kafkaBrokers)

	// HTTP surface
	handler := server.NewEventsHandler(catalogRepo, lines, repo, discounts, requestTimeout)
	router := server.NewRouter(handler, requestTimeout)

	srv := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Checkout events service listening on :%s", httpPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down checkout events service...")
	stopPoller()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("checkout events service stopped")
}
