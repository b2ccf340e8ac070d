package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtbook/api"
	"courtbook/config"
	"courtbook/internal/bootstrap"
	"courtbook/internal/cache"
	"courtbook/internal/feed"
	"courtbook/internal/kafka"
	"courtbook/internal/repository"
	"courtbook/internal/service/reservation"
	"courtbook/internal/service/schedule"
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

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.ScheduleCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	store := repository.NewBookingStore(pool)
	reservationService := reservation.NewService(store, redisCache, producer, cfg.Kafka.BookingEventsTopic)
	scheduleService := schedule.NewService(store, redisCache)

	// live feed for SSE subscribers; kafka delivery is the worker's job
	hub := feed.NewHub()
	pollInterval := time.Duration(cfg.Worker.PollIntervalSeconds) * time.Second
	go feed.RunDayWatchers(ctx, store, hub, nil, "", cfg.Booking.Courts, pollInterval)

	bookingHandler := api.NewBookingHandler(reservationService, cfg.Booking.Courts)
	scheduleHandler := api.NewScheduleHandler(scheduleService)
	eventsHandler := api.NewEventsHandler(hub)

	if err := bootstrap.Run(ctx, cfg, bookingHandler, scheduleHandler, eventsHandler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
