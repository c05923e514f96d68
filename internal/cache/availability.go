package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/MartinRAM24/app-gestion-citas/internal/config"
	domain "github.com/MartinRAM24/app-gestion-citas/internal/domain/booking"
)

// AvailabilityTTL bounds the staleness of a cached free-slot view. The
// unique index decides conflicts at write time, so a few seconds of
// eventual consistency here is acceptable.
const AvailabilityTTL = 5 * time.Second

func NewClient(cfg *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unavailable at %s, availability cache disabled: %v", cfg.RedisAddr, err)
	}

	return rdb
}

type Availability struct {
	rdb *redis.Client
}

func NewAvailability(rdb *redis.Client) *Availability {
	return &Availability{rdb: rdb}
}

func key(date time.Time) string {
	return "availability:" + date.Format("2006-01-02")
}

// Get treats every redis failure as a miss; the caller recomputes.
func (a *Availability) Get(ctx context.Context, date time.Time) ([]string, bool) {
	raw, err := a.rdb.Get(ctx, key(date)).Result()
	if err != nil {
		return nil, false
	}

	var slots []string
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (a *Availability) Set(ctx context.Context, date time.Time, slots []string) {
	b, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := a.rdb.Set(ctx, key(date), b, AvailabilityTTL).Err(); err != nil {
		log.Printf("availability cache set failed: %v", err)
	}
}

func (a *Availability) Invalidate(ctx context.Context, date time.Time) {
	if err := a.rdb.Del(ctx, key(date)).Err(); err != nil {
		log.Printf("availability cache invalidate failed: %v", err)
	}
}

// Compile-time check
var _ domain.AvailabilityCache = (*Availability)(nil)
