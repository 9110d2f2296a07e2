// Package redis caches policy decision lookups. Policy values change only
// when a new version is activated, so a short TTL keeps authorization checks
// off the database on the hot path while staying close behind activations.
package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/ports"

	"github.com/go-redis/redis/v8"
)

// missMarker is stored for decision keys the active version does not cover,
// so repeated denials do not hammer the database either.
const missMarker = "\x00miss"

// PolicyCache is a read-through decorator over a PolicyReader.
type PolicyCache struct {
	client *redis.Client
	inner  ports.PolicyReader
	ttl    time.Duration
}

// NewPolicyCache creates a read-through cache with the given TTL.
func NewPolicyCache(client *redis.Client, inner ports.PolicyReader, ttl time.Duration) *PolicyCache {
	return &PolicyCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
	}
}

// ActiveValue answers from redis when possible and falls back to the inner
// reader. Redis being down degrades to uncached reads, never to an error.
func (c *PolicyCache) ActiveValue(
	ctx context.Context,
	decisionKey string,
	siteID, customerID *kernel.UUID,
) (string, bool, error) {
	key := cacheKey(decisionKey, siteID, customerID)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if cached == missMarker {
			return "", false, nil
		}
		return cached, true, nil
	}
	if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return "", false, ctx.Err()
	}

	value, found, err := c.inner.ActiveValue(ctx, decisionKey, siteID, customerID)
	if err != nil {
		return "", false, err
	}

	stored := value
	if !found {
		stored = missMarker
	}
	c.client.Set(ctx, key, stored, c.ttl)

	return value, found, nil
}

// Invalidate removes every cached decision value. Called after a policy
// version activation; a failure leaves stale values until the TTL expires.
func (c *PolicyCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "policy:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func cacheKey(decisionKey string, siteID, customerID *kernel.UUID) string {
	var b strings.Builder
	b.WriteString("policy:")
	b.WriteString(decisionKey)
	b.WriteString(":")
	if siteID != nil {
		b.WriteString(siteID.String())
	}
	b.WriteString(":")
	if customerID != nil {
		b.WriteString(customerID.String())
	}
	return b.String()
}
