package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventix/eventix/api"
	"github.com/eventix/eventix/config"
	"github.com/eventix/eventix/internal/bootstrap"
	"github.com/eventix/eventix/internal/cache"
	"github.com/eventix/eventix/internal/kafka"
	"github.com/eventix/eventix/internal/payment"
	"github.com/eventix/eventix/internal/repository"
	"github.com/eventix/eventix/internal/service/catalog"
	"github.com/eventix/eventix/internal/service/orders"
	"github.com/eventix/eventix/internal/service/tickets"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Catalog.CacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	gateway := payment.NewClient(cfg.Payment.APIBaseURL, cfg.Payment.SecretKey)

	tierRepo := repository.NewTierRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	catalogService := catalog.NewCatalogService(tierRepo, redisCache)
	ticketService := tickets.NewTicketService(ticketRepo)
	orderService := orders.NewOrderService(
		orderRepo,
		tierRepo,
		gateway,
		producer,
		cfg.HTTP.BaseURL,
		cfg.Payment.Environment,
		cfg.Payment.Currency,
		time.Duration(cfg.Payment.SessionTTLMinutes)*time.Minute,
		orders.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	reconciler := orders.NewWebhookReconciler(
		orderService,
		cfg.Payment.WebhookSecret,
		cfg.Payment.Environment,
		5*time.Minute,
		redisCache,
	)

	handlers := bootstrap.Handlers{
		Events:  api.NewEventHandler(catalogService),
		Orders:  api.NewOrderHandler(orderService),
		Tickets: api.NewTicketHandler(ticketService),
		Webhook: api.NewWebhookHandler(reconciler),
	}

	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
