package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/aircheckin/api"
	"github.com/Domenick1991/aircheckin/config"
	"github.com/Domenick1991/aircheckin/internal/boardingpass"
	"github.com/Domenick1991/aircheckin/internal/bootstrap"
	"github.com/Domenick1991/aircheckin/internal/cache"
	"github.com/Domenick1991/aircheckin/internal/kafka"
	"github.com/Domenick1991/aircheckin/internal/repository"
	"github.com/Domenick1991/aircheckin/internal/service/checkin"
	"github.com/Domenick1991/aircheckin/internal/service/flights"
	"github.com/Domenick1991/aircheckin/internal/service/identity"
	"github.com/Domenick1991/aircheckin/internal/service/seats"
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

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Checkin.FlightsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	passengerRepo := repository.NewPassengerRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)

	verifier := identity.NewVerifier(passengerRepo)
	seatEngine := seats.NewEngine(bookingRepo, redisCache, time.Duration(cfg.Checkin.SeatLockTTLSeconds)*time.Second)
	passGenerator := boardingpass.NewGenerator(redisCache.PassStore())

	checkinService := checkin.NewCheckinService(
		bookingRepo,
		passengerRepo,
		flightRepo,
		seatEngine,
		verifier,
		passGenerator,
		producer,
		cfg.Kafka.CheckinTopic,
		time.Duration(cfg.Checkin.ReminderWindowHours)*time.Hour,
		checkin.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	flightService := flights.NewFlightService(flightRepo, redisCache, time.Duration(cfg.Checkin.FlightsCacheTTLSeconds)*time.Second)

	router := api.NewRouter(
		api.NewCheckinHandler(checkinService, passGenerator),
		api.NewPassengerHandler(passengerRepo, verifier),
		api.NewFlightHandler(flightService),
	)

	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
