package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const reminderKeyPrefix = "license_reminder:"

// ReminderDeduplicator ensures one renewal reminder per key and expiration
// date across workers.
type ReminderDeduplicator struct {
	client *redis.Client
}

func NewReminderDeduplicator(client *redis.Client) *ReminderDeduplicator {
	return &ReminderDeduplicator{client: client}
}

// Format: license_reminder:{key}:{expires unix}
func (d *ReminderDeduplicator) buildKey(licenseKey string, expires time.Time) string {
	return fmt.Sprintf("%s%s:%d", reminderKeyPrefix, licenseKey, expires.Unix())
}

// TryAcquire atomically claims the reminder for (licenseKey, expires).
// It reports false when another run already claimed it.
func (d *ReminderDeduplicator) TryAcquire(ctx context.Context, licenseKey string, expires time.Time, ttl time.Duration) (bool, error) {
	acquired, err := d.client.SetNX(ctx, d.buildKey(licenseKey, expires), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire reminder lock: %w", err)
	}
	return acquired, nil
}

// Release drops a claim so a failed send can be retried on the next run.
func (d *ReminderDeduplicator) Release(ctx context.Context, licenseKey string, expires time.Time) error {
	if err := d.client.Del(ctx, d.buildKey(licenseKey, expires)).Err(); err != nil {
		return fmt.Errorf("failed to release reminder lock: %w", err)
	}
	return nil
}
