package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"go-storefront/config"
	"go-storefront/controllers"
	"go-storefront/events"
	"go-storefront/repositories"
	"go-storefront/routes"
	"go-storefront/seed"
	"go-storefront/services"
	"go-storefront/utils"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MongoDB
	client, err := utils.ConnectDB(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
	if err != nil {
		log.Error("connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error("disconnect MongoDB", "error", err)
		}
	}()
	db := client.Database(cfg.Mongo.Database)
	if err := repositories.EnsureIndexes(ctx, db); err != nil {
		log.Error("ensure indexes", "error", err)
		os.Exit(1)
	}
	log.Info("connected to MongoDB", "database", cfg.Mongo.Database)

	checks := map[string]controllers.Check{
		"mongo": func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
	}

	// Redis
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("connect to Redis", "error", err)
			os.Exit(1)
		}
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		log.Info("connected to Redis")
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	// RabbitMQ
	var publisher services.EventPublisher
	var notifier *events.Notifier
	if cfg.RabbitMQ.URL != "" {
		amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			log.Error("connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer amqpConn.Close()

		pubCh, err := amqpConn.Channel()
		if err != nil {
			log.Error("open RabbitMQ channel", "error", err)
			os.Exit(1)
		}
		defer pubCh.Close()

		if err := events.DeclareQueue(pubCh, cfg.RabbitMQ.Queue); err != nil {
			log.Error("setup RabbitMQ", "error", err)
			os.Exit(1)
		}
		publisher = events.NewPublisher(pubCh, cfg.RabbitMQ.Queue, log)
		log.Info("connected to RabbitMQ", "queue", cfg.RabbitMQ.Queue)

		if cfg.Postmark.APIToken != "" {
			subCh, err := amqpConn.Channel()
			if err != nil {
				log.Error("open RabbitMQ channel", "error", err)
				os.Exit(1)
			}
			defer subCh.Close()

			mailer := utils.NewEmailService(cfg.Postmark.APIToken, cfg.Postmark.Sender)
			notifier = events.NewNotifier(subCh, cfg.RabbitMQ.Queue, userRepo, redisClient, mailer, log)
		} else {
			log.Info("order notifications disabled", "reason", "POSTMARK_API_TOKEN not set")
		}
	}

	// Seed data
	if _, err := seed.Admin(ctx, userRepo, cfg.Admin, log); err != nil {
		log.Error("seed admin", "error", err)
		os.Exit(1)
	}
	if cfg.Admin.SeedSampleProducts {
		if _, err := seed.SampleProducts(ctx, productRepo, log); err != nil {
			log.Error("seed products", "error", err)
			os.Exit(1)
		}
	}

	tokens := utils.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration)
	cookie := utils.SessionCookie{Name: cfg.Cookie.Name, TTL: tokens.TTL(), Secure: cfg.Production()}

	// Services
	authSvc := services.NewAuthService(userRepo, tokens, log)
	productSvc := services.NewProductService(productRepo, userRepo, log)
	orderSvc := services.NewOrderService(orderRepo, userRepo, publisher, log)

	// Router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, routes.Dependencies{
		Users:     controllers.NewUserController(authSvc, cookie, log),
		Products:  controllers.NewProductController(productSvc, log),
		Orders:    controllers.NewOrderController(orderSvc, cookie, log),
		Health:    controllers.NewHealthController(checks, log),
		Pages:     controllers.NewPagesController(cfg.Web.Dir),
		Tokens:    tokens,
		Cookie:    cookie,
		RateLimit: cfg.RateLimit,
		Redis:     redisClient,
		Log:       log,
	})

	if notifier != nil {
		if err := notifier.Start(ctx); err != nil {
			log.Error("start order notifier", "error", err)
			os.Exit(1)
		}
		defer notifier.Stop()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("server error", "error", err)
	}

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
	cancel()
	log.Info("server stopped")
}
