package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtbook/config"
	"courtbook/internal/feed"
	"courtbook/internal/kafka"
	"courtbook/internal/notify"
	"courtbook/internal/repository"
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

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := notify.NewSender()

	go func() {
		if err := consumer.Consume(ctx, sender.Send); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	// watchers diff court-day snapshots and publish freed-slot events to the
	// notifications topic; the consumer above fans them out to users
	store := repository.NewBookingStore(pool)
	hub := feed.NewHub()
	pollInterval := time.Duration(cfg.Worker.PollIntervalSeconds) * time.Second
	feed.RunDayWatchers(ctx, store, hub, producer, cfg.Kafka.NotificationsTopic, cfg.Booking.Courts, pollInterval)

	log.Println("worker shut down")
}
