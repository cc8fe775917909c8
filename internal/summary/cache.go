package summary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "summary:"

// CachedSummarizer - read-through кэш саммари в Redis.
// Ключ зависит от упорядоченного набора текстов, поэтому любое
// добавление или удаление отзыва дает новый ключ.
// Ошибки Redis только логируются: без кэша запрос все равно отрабатывает.
type CachedSummarizer struct {
	Next        Summarizer
	RedisClient *redis.Client
	Logger      *zap.SugaredLogger
	TTL         time.Duration
}

func NewCachedSummarizer(
	next Summarizer,
	redisClient *redis.Client,
	logger *zap.SugaredLogger,
	ttl time.Duration,
) *CachedSummarizer {
	return &CachedSummarizer{
		Next:        next,
		RedisClient: redisClient,
		Logger:      logger,
		TTL:         ttl,
	}
}

func (c *CachedSummarizer) Summarize(ctx context.Context, texts []string) (string, error) {
	key := CacheKey(texts)

	cached, err := c.RedisClient.Get(ctx, key).Result()
	switch {
	case err == nil:
		c.Logger.Infow("Summary served from cache", "key", key)
		return cached, nil
	case errors.Is(err, redis.Nil):
	default:
		c.Logger.Warnw("Failed get summary from Redis", zap.Error(err), "key", key)
	}

	summary, err := c.Next.Summarize(ctx, texts)
	if err != nil {
		return "", err
	}

	if err := c.RedisClient.Set(ctx, key, summary, c.TTL).Err(); err != nil {
		c.Logger.Warnw("Failed save summary to Redis", zap.Error(err), "key", key)
	}

	return summary, nil
}

// CacheKey - sha256 от текстов, разделенных нулевым байтом
func CacheKey(texts []string) string {
	h := sha256.New()
	for _, text := range texts {
		h.Write([]byte(text))
		h.Write([]byte{0})
	}

	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
