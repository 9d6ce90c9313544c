package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/banking/withdrawal-risk-service/internal/domain"
	"github.com/banking/withdrawal-risk-service/internal/pkg/logger"
	"github.com/banking/withdrawal-risk-service/internal/risk"
)

// HistoryCache is a read-through Redis cache in front of a withdrawal
// repository. Histories are cached with a short TTL so platform scans do not
// hammer the store; cache failures degrade to the underlying source and
// never fail a read.
type HistoryCache struct {
	source risk.WithdrawalRepository
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewHistoryCache creates a caching decorator over a withdrawal repository
func NewHistoryCache(source risk.WithdrawalRepository, client *redis.Client, ttl time.Duration, log *logger.Logger) *HistoryCache {
	return &HistoryCache{
		source: source,
		client: client,
		ttl:    ttl,
		log:    log.Named("history_cache"),
	}
}

func historyKey(userID uuid.UUID) string {
	return fmt.Sprintf("risk:history:%s", userID)
}

// ListWithdrawalsForUser serves the history from Redis when present,
// otherwise reads through to the source and populates the cache.
func (c *HistoryCache) ListWithdrawalsForUser(ctx context.Context, userID uuid.UUID) ([]domain.WithdrawalRecord, error) {
	key := historyKey(userID)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var records []domain.WithdrawalRecord
		if err := json.Unmarshal(raw, &records); err == nil {
			return records, nil
		}
		// Corrupt entry; fall through to the source and overwrite it.
		c.log.Warn("dropping undecodable cache entry", logger.StringField("key", key))
	} else if err != redis.Nil {
		c.log.Warn("history cache read failed", logger.ErrorField(err))
	}

	records, err := c.source.ListWithdrawalsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(records); err == nil {
		if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			c.log.Warn("history cache write failed", logger.ErrorField(err))
		}
	}

	return records, nil
}

// ListUserIDsWithWithdrawals always goes to the source: the user set drives
// platform scans and must not lag behind new first-time withdrawers.
func (c *HistoryCache) ListUserIDsWithWithdrawals(ctx context.Context) ([]uuid.UUID, error) {
	return c.source.ListUserIDsWithWithdrawals(ctx)
}
