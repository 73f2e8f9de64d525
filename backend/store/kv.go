package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const kvOperationTimeout = 5 * time.Second

// KV is a guarded key-value adapter over Redis. None of its operations ever
// return an error to the caller: failures are swallowed and logged, and a
// disabled instance is a clean no-op. Callers must treat every read as
// best-effort.
type KV struct {
	client  *redis.Client
	enabled bool
	log     *logrus.Logger
}

func NewKV(addr string, enabled bool, log *logrus.Logger) *KV {
	if !enabled {
		return &KV{enabled: false, log: log}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), kvOperationTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("kv: redis unreachable, running disabled")
		_ = client.Close()
		return &KV{enabled: false, log: log}
	}

	return &KV{client: client, enabled: true, log: log}
}

// Get unmarshals the stored value into dest and reports whether a value was
// found and decoded.
func (k *KV) Get(key string, dest interface{}) bool {
	if !k.enabled {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), kvOperationTimeout)
	defer cancel()

	val, err := k.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		k.log.WithError(err).WithField("key", key).Warn("kv: get failed")
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		k.log.WithError(err).WithField("key", key).Warn("kv: decode failed")
		return false
	}
	return true
}

func (k *KV) Set(key string, value interface{}, expiration time.Duration) {
	if !k.enabled {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), kvOperationTimeout)
	defer cancel()

	raw, err := json.Marshal(value)
	if err != nil {
		k.log.WithError(err).WithField("key", key).Warn("kv: encode failed")
		return
	}
	if err := k.client.Set(ctx, key, raw, expiration).Err(); err != nil {
		k.log.WithError(err).WithField("key", key).Warn("kv: set failed")
	}
}

func (k *KV) Remove(key string) {
	if !k.enabled {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), kvOperationTimeout)
	defer cancel()

	if err := k.client.Del(ctx, key).Err(); err != nil {
		k.log.WithError(err).WithField("key", key).Warn("kv: remove failed")
	}
}
