package cached

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/pkg/redis"
	"github.com/frontandrew/platescan/internal/repository"
)

const scanCachePrefix = "scan:"

// ScanCache хранит результаты распознавания по ключу изображения
type ScanCache struct {
	kv KV
}

var _ repository.ScanCache = (*ScanCache)(nil)

// NewScanCache создает кэш результатов распознавания
func NewScanCache(kv KV) *ScanCache {
	return &ScanCache{kv: kv}
}

func (c *ScanCache) Get(ctx context.Context, key string) (*repository.CachedRecognition, bool, error) {
	data, err := c.kv.Get(ctx, scanCachePrefix+key)
	if err != nil {
		if errors.Is(err, redis.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("scan cache get: %w", err)
	}

	var entry repository.CachedRecognition
	if err := json.Unmarshal(data, &entry); err != nil {
		// Битая запись трактуется как промах
		_ = c.kv.Del(ctx, scanCachePrefix+key)
		return nil, false, nil
	}
	if entry.Plates == nil {
		entry.Plates = []domain.LicensePlate{}
	}
	return &entry, true, nil
}

func (c *ScanCache) Set(ctx context.Context, key string, entry *repository.CachedRecognition, ttl time.Duration) error {
	if entry == nil {
		return nil
	}
	stored := *entry
	if stored.Plates == nil {
		stored.Plates = []domain.LicensePlate{}
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("scan cache marshal: %w", err)
	}
	if err := c.kv.Set(ctx, scanCachePrefix+key, data, ttl); err != nil {
		return fmt.Errorf("scan cache set: %w", err)
	}
	return nil
}
