package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cosmicpalm/destiny-backend/internal/logger"
	"github.com/cosmicpalm/destiny-backend/internal/utils"
)

// HoroscopeCache keeps the day's horoscope per owner in Redis so repeated
// requests within the same day skip the generation call. A nil cache is a
// valid no-op.
type HoroscopeCache struct {
	rdb *redis.Client
	log *logger.Logger
}

func NewHoroscopeCache(log *logger.Logger) (*HoroscopeCache, error) {
	cacheLog := log.With("service", "HoroscopeCache")
	addr := utils.GetEnv("REDIS_ADDR", "localhost:6379", log)
	password := utils.GetEnv("REDIS_PASSWORD", "", log)
	dbNum := utils.GetEnvAsInt("REDIS_DB", 0, log)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbNum,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &HoroscopeCache{rdb: rdb, log: cacheLog}, nil
}

func horoscopeKey(ownerID, date string) string {
	return fmt.Sprintf("horoscope:%s:%s", ownerID, date)
}

func (c *HoroscopeCache) Get(ctx context.Context, ownerID, date string) (string, bool) {
	if c == nil || c.rdb == nil {
		return "", false
	}
	val, err := c.rdb.Get(ctx, horoscopeKey(ownerID, date)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *HoroscopeCache) Set(ctx context.Context, ownerID, date, content string) {
	if c == nil || c.rdb == nil {
		return
	}
	ttl := untilEndOfDayUTC(time.Now().UTC())
	if err := c.rdb.Set(ctx, horoscopeKey(ownerID, date), content, ttl).Err(); err != nil {
		c.log.Warn("Failed to cache horoscope", "owner_id", ownerID, "error", err)
	}
}

func untilEndOfDayUTC(now time.Time) time.Duration {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return end.Sub(now)
}
