package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/amanuel-t/travel_booking/config"
	"github.com/amanuel-t/travel_booking/internal/adapter/gateway/chapa"
	"github.com/amanuel-t/travel_booking/internal/adapter/handler"
	"github.com/amanuel-t/travel_booking/internal/adapter/notifier"
	"github.com/amanuel-t/travel_booking/internal/adapter/repository/postgres"
	"github.com/amanuel-t/travel_booking/internal/core/services"
	"github.com/amanuel-t/travel_booking/internal/monitoring"
	"github.com/amanuel-t/travel_booking/internal/platform/cache"
	"github.com/amanuel-t/travel_booking/internal/platform/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using OS environment variables.")
	}

	cfg := config.LoadConfig()

	db, err := database.NewPostgresDB(database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to db after retries: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	defer db.Close()

	redisClient, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	listingRepo := postgres.NewListingRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	userRepo := postgres.NewUserRepository(db)

	gateway := chapa.NewClient(chapa.Config{
		BaseURL:     cfg.ChapaBaseURL,
		SecretKey:   cfg.ChapaSecretKey,
		CallbackURL: cfg.ChapaCallbackURL,
		ReturnURL:   cfg.ChapaReturnURL,
		Timeout:     cfg.GatewayTimeout,
	})

	queue := notifier.NewQueue(redisClient)

	bookingService := services.NewBookingService(listingRepo, bookingRepo, userRepo, queue, cfg.DefaultCurrency)
	paymentService := services.NewPaymentService(paymentRepo, bookingRepo, listingRepo, userRepo, gateway, queue, cfg.DefaultCurrency)
	listingService := services.NewListingService(listingRepo)
	reviewService := services.NewReviewService(reviewRepo, listingRepo)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	mailer := notifier.NewSMTPMailer(notifier.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
		FromName: cfg.EmailName,
	})

	dispatcher := notifier.NewDispatcher(
		redisClient,
		mailer,
		cfg.NotificationWorkers,
		cfg.NotificationMaxRetries,
		cfg.NotificationRetryBackoff,
	)

	go dispatcher.Run(workerCtx)
	go monitoring.NewMonitor(redisClient, notifier.QueueKey).Run(workerCtx)

	mux := handler.NewRouter(handler.Handlers{
		Booking: handler.NewBookingHandler(bookingService),
		Payment: handler.NewPaymentHandler(paymentService),
		Listing: handler.NewListingHandler(listingService),
		Review:  handler.NewReviewHandler(reviewService),
		Health:  handler.NewHealthHandler(db, redisClient),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	stopWorkers()
	log.Println("Server exiting")
}
