package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"samadhan/internal/catalog/metrics"
	id "samadhan/pkg/domain"
)

const (
	questionKeyPrefix = "catalog:question:"
	optionKeyPrefix   = "catalog:option:"
)

// CachedStore is a read-through Redis cache in front of a catalog store.
// Cache failures degrade to the inner store; reference data reads never fail
// because the cache is down.
type CachedStore struct {
	inner   Store
	redis   redis.UniversalClient
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewCachedStore(inner Store, client redis.UniversalClient, ttl time.Duration, m *metrics.Metrics) *CachedStore {
	return &CachedStore{inner: inner, redis: client, ttl: ttl, metrics: m}
}

func (c *CachedStore) QuestionsByID(ctx context.Context, ids []id.QuestionID) ([]Question, error) {
	start := time.Now()
	defer c.observe("question", start)

	keys := make([]string, len(ids))
	for i, questionID := range ids {
		keys[i] = questionKeyPrefix + string(questionID)
	}

	cached, err := c.lookup(ctx, keys)
	if err != nil {
		return c.inner.QuestionsByID(ctx, ids)
	}

	result := make([]Question, 0, len(ids))
	var misses []id.QuestionID
	byID := make(map[id.QuestionID]Question, len(ids))
	for i, raw := range cached {
		var q Question
		if raw != "" && json.Unmarshal([]byte(raw), &q) == nil {
			byID[q.ID] = q
			c.recordHit("question")
			continue
		}
		misses = append(misses, ids[i])
		c.recordMiss("question")
	}

	if len(misses) > 0 {
		fetched, err := c.inner.QuestionsByID(ctx, misses)
		if err != nil {
			return nil, err
		}
		c.backfillQuestions(ctx, fetched)
		for _, q := range fetched {
			byID[q.ID] = q
		}
	}

	for _, questionID := range ids {
		if q, ok := byID[questionID]; ok {
			result = append(result, q)
		}
	}
	return result, nil
}

func (c *CachedStore) OptionsByID(ctx context.Context, ids []id.OptionID) ([]Option, error) {
	start := time.Now()
	defer c.observe("option", start)

	keys := make([]string, len(ids))
	for i, optionID := range ids {
		keys[i] = optionKeyPrefix + string(optionID)
	}

	cached, err := c.lookup(ctx, keys)
	if err != nil {
		return c.inner.OptionsByID(ctx, ids)
	}

	result := make([]Option, 0, len(ids))
	var misses []id.OptionID
	byID := make(map[id.OptionID]Option, len(ids))
	for i, raw := range cached {
		var o Option
		if raw != "" && json.Unmarshal([]byte(raw), &o) == nil {
			byID[o.ID] = o
			c.recordHit("option")
			continue
		}
		misses = append(misses, ids[i])
		c.recordMiss("option")
	}

	if len(misses) > 0 {
		fetched, err := c.inner.OptionsByID(ctx, misses)
		if err != nil {
			return nil, err
		}
		c.backfillOptions(ctx, fetched)
		for _, o := range fetched {
			byID[o.ID] = o
		}
	}

	for _, optionID := range ids {
		if o, ok := byID[optionID]; ok {
			result = append(result, o)
		}
	}
	return result, nil
}

// lookup returns one string per key, empty for absent entries.
func (c *CachedStore) lookup(ctx context.Context, keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	values, err := c.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	result := make([]string, len(keys))
	for i, v := range values {
		if s, ok := v.(string); ok {
			result[i] = s
		}
	}
	return result, nil
}

func (c *CachedStore) backfillQuestions(ctx context.Context, questions []Question) {
	pipe := c.redis.Pipeline()
	for _, q := range questions {
		payload, err := json.Marshal(q)
		if err != nil {
			continue
		}
		pipe.Set(ctx, questionKeyPrefix+string(q.ID), payload, c.ttl)
	}
	// Backfill failures are invisible to callers; the next read misses again.
	_, _ = pipe.Exec(ctx)
}

func (c *CachedStore) backfillOptions(ctx context.Context, options []Option) {
	pipe := c.redis.Pipeline()
	for _, o := range options {
		payload, err := json.Marshal(o)
		if err != nil {
			continue
		}
		pipe.Set(ctx, optionKeyPrefix+string(o.ID), payload, c.ttl)
	}
	_, _ = pipe.Exec(ctx)
}

func (c *CachedStore) recordHit(recordType string) {
	if c.metrics != nil {
		c.metrics.RecordCacheHit(recordType)
	}
}

func (c *CachedStore) recordMiss(recordType string) {
	if c.metrics != nil {
		c.metrics.RecordCacheMiss(recordType)
	}
}

func (c *CachedStore) observe(recordType string, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveLookupDuration(recordType, time.Since(start).Seconds())
	}
}
