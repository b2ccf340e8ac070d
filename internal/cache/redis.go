package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"courtbook/config"
	"courtbook/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      *redis.Client
	scheduleTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, scheduleTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		scheduleTTL: scheduleTTL,
	}
}

func (c *RedisCache) GetDaySchedule(ctx context.Context, courtID int, date string) ([]domain.ScheduleSlot, error) {
	data, err := c.client.Get(ctx, scheduleKey(courtID, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var schedule []domain.ScheduleSlot
	if err := json.Unmarshal(data, &schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (c *RedisCache) SetDaySchedule(ctx context.Context, courtID int, date string, schedule []domain.ScheduleSlot) error {
	payload, err := json.Marshal(schedule)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, scheduleKey(courtID, date), payload, c.scheduleTTL).Err()
}

// InvalidateDaySchedule drops the cached schedule after a successful mutation
// so readers do not see a full slot as bookable for the whole TTL.
func (c *RedisCache) InvalidateDaySchedule(ctx context.Context, courtID int, date string) error {
	return c.client.Del(ctx, scheduleKey(courtID, date)).Err()
}

func scheduleKey(courtID int, date string) string {
	return fmt.Sprintf("cache:schedule:%d:%s", courtID, date)
}
