package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/aircheckin/config"
	"github.com/Domenick1991/aircheckin/internal/boardingpass"
	"github.com/Domenick1991/aircheckin/internal/cache"
	"github.com/Domenick1991/aircheckin/internal/email"
	"github.com/Domenick1991/aircheckin/internal/kafka"
	"github.com/Domenick1991/aircheckin/internal/repository"
	"github.com/Domenick1991/aircheckin/internal/service/checkin"
	"github.com/Domenick1991/aircheckin/internal/service/identity"
	"github.com/Domenick1991/aircheckin/internal/service/seats"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.CheckinEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	reminderTicker := time.NewTicker(time.Duration(cfg.Worker.ReminderSweepMinutes) * time.Minute)
	defer reminderTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-reminderTicker.C:
			pending, err := checkinService.RemindPendingCheckins(ctx)
			if err != nil {
				log.Printf("reminder sweep error: %v", err)
				continue
			}
			if len(pending) > 0 {
				log.Printf("sent %d check-in reminders", len(pending))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
