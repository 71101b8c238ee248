package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/aircheckin/config"
	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

func (c *RedisCache) AcquireSeatLock(ctx context.Context, flightID string, seat int, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatLockKey(flightID, seat), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSeatLock(ctx context.Context, flightID string, seat int) error {
	return c.client.Del(ctx, seatLockKey(flightID, seat)).Err()
}

// PassStore returns the boarding pass store sharing this client. Passes are
// write-once and have no TTL.
func (c *RedisCache) PassStore() *RedisPassStore {
	return &RedisPassStore{client: c.client}
}

type RedisPassStore struct {
	client *redis.Client
}

func (s *RedisPassStore) PutIfAbsent(ctx context.Context, bookingID string, content []byte) (bool, error) {
	return s.client.SetNX(ctx, passKey(bookingID), content, 0).Result()
}

func (s *RedisPassStore) Get(ctx context.Context, bookingID string) ([]byte, error) {
	data, err := s.client.Get(ctx, passKey(bookingID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func flightsKey() string {
	return "cache:flights"
}

func seatLockKey(flightID string, seat int) string {
	return fmt.Sprintf("lock:flight:%s:seat:%d", flightID, seat)
}

func passKey(bookingID string) string {
	return fmt.Sprintf("pass:%s", bookingID)
}
