package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Redis is the remote-KV backend (spec.md §4.1: "remote KV (out-of-process,
// over the network)"). Values are JSON-encoded so arbitrary result structs
// (MXRecord lists, SMTPOutcome, domain suggestions) round-trip without a
// bespoke wire format per namespace.
type Redis struct {
	client *redis.Client
	prefix string
	log    *logrus.Logger
}

// NewRedis wraps an existing *redis.Client. prefix is prepended to every key
// so one Redis instance can be shared across unrelated applications.
func NewRedis(client *redis.Client, prefix string, log *logrus.Logger) *Redis {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Redis{client: client, prefix: prefix, log: log}
}

func (r *Redis) fullKey(ns Namespace, key string) string {
	return r.prefix + ":" + string(ns) + ":" + key
}

// Get never returns an error to the caller: a backend failure (timeout,
// connection reset, decode error) is logged and treated as a cache miss, per
// spec.md §4.1 ("Cache failures are never fatal").
func (r *Redis) Get(ns Namespace, key string) (any, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := r.client.Get(ctx, r.fullKey(ns, key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.WithError(err).WithField("namespace", ns).Debug("cache: redis get failed, treating as miss")
		}
		return nil, false
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		r.log.WithError(err).WithField("namespace", ns).Warn("cache: redis value decode failed")
		return nil, false
	}
	return value, true
}

// GetTyped decodes a hit straight into dest, bypassing the lossy
// any-typed Get above. dest must be a non-nil pointer to the same concrete
// type the value was Set with (e.g. *[]string, *int, *DomainSuggestion) so
// json.Unmarshal reconstructs it exactly rather than handing back the
// generic []interface{}/float64/map[string]interface{} a JSON decode into
// `any` would produce.
func (r *Redis) GetTyped(ns Namespace, key string, dest any) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := r.client.Get(ctx, r.fullKey(ns, key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.WithError(err).WithField("namespace", ns).Debug("cache: redis get failed, treating as miss")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		r.log.WithError(err).WithField("namespace", ns).Warn("cache: redis typed value decode failed")
		return false
	}
	return true
}

func (r *Redis) Set(ns Namespace, key string, value any, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := json.Marshal(value)
	if err != nil {
		r.log.WithError(err).WithField("namespace", ns).Warn("cache: redis value encode failed, write dropped")
		return
	}
	if err := r.client.Set(ctx, r.fullKey(ns, key), raw, ttl).Err(); err != nil {
		r.log.WithError(err).WithField("namespace", ns).Debug("cache: redis set failed, write dropped")
	}
}

func (r *Redis) Delete(ns Namespace, key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := r.client.Del(ctx, r.fullKey(ns, key)).Result()
	if err != nil {
		r.log.WithError(err).WithField("namespace", ns).Debug("cache: redis delete failed")
		return false
	}
	return n > 0
}

func (r *Redis) Has(ns Namespace, key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := r.client.Exists(ctx, r.fullKey(ns, key)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// Clear removes every key under this instance's prefix using a SCAN cursor
// rather than KEYS, avoiding a blocking full-keyspace scan on a shared
// Redis deployment.
func (r *Redis) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var cursor uint64
	pattern := r.prefix + ":*"
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			r.log.WithError(err).Warn("cache: redis clear scan failed")
			return
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				r.log.WithError(err).Warn("cache: redis clear delete batch failed")
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
