package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldData     = "data"
	fieldAbsolute = "absexp"
	fieldSliding  = "sldexp"

	defaultMaxRetries = 16
)

type redisSessionCache struct {
	client     *redis.Client
	maxRetries int
	now        func() time.Time
}

// NewSessionCache creates a Redis backed SessionStore. Each session is a hash
// holding the payload and its expiry policy so that every write can slide the
// TTL without passing the absolute deadline. Reads never touch the key: a TTL
// change would abort WATCHed updates in flight.
func NewSessionCache(client *redis.Client) SessionStore {
	return &redisSessionCache{
		client:     client,
		maxRetries: defaultMaxRetries,
		now:        time.Now,
	}
}

func (c *redisSessionCache) key(code string) string {
	return fmt.Sprintf("game:%s", code)
}

func (c *redisSessionCache) Get(ctx context.Context, code string) ([]byte, error) {
	data, _, err := c.read(ctx, c.client, c.key(code))
	if err != nil {
		return nil, unavailable("get", code, err)
	}
	return data, nil
}

func (c *redisSessionCache) Set(ctx context.Context, code string, data []byte, policy *TTLPolicy) error {
	key := c.key(code)
	meta := newEntryMeta(c.now(), policy)
	if policy == nil {
		// keep the policy the entry was created with
		_, existing, err := c.read(ctx, c.client, key)
		if err != nil {
			return unavailable("set", code, err)
		}
		meta = existing
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		c.write(ctx, pipe, key, data, meta)
		return nil
	})
	if err != nil {
		return unavailable("set", code, err)
	}
	return nil
}

func (c *redisSessionCache) Delete(ctx context.Context, code string) error {
	if err := c.client.Del(ctx, c.key(code)).Err(); err != nil {
		return unavailable("delete", code, err)
	}
	return nil
}

func (c *redisSessionCache) Exists(ctx context.Context, code string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(code)).Result()
	if err != nil {
		return false, unavailable("exists", code, err)
	}
	return n > 0, nil
}

func (c *redisSessionCache) Update(ctx context.Context, code string, fn MutateFunc) error {
	key := c.key(code)

	// fnErr separates errors raised by fn from Redis failures
	var fnErr error
	txf := func(tx *redis.Tx) error {
		current, meta, err := c.read(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			fnErr = err
			return err
		}
		if next == nil {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			c.write(ctx, pipe, key, next, meta)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		fnErr = nil
		err := c.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return nil
		case fnErr != nil:
			return fnErr
		case errors.Is(err, redis.TxFailedErr):
			continue
		default:
			return unavailable("update", code, err)
		}
	}
	return fmt.Errorf("%w: %s after %d attempts", ErrConflict, code, c.maxRetries)
}

func (c *redisSessionCache) read(ctx context.Context, cmd redis.Cmdable, key string) ([]byte, entryMeta, error) {
	var meta entryMeta
	vals, err := cmd.HMGet(ctx, key, fieldData, fieldAbsolute, fieldSliding).Result()
	if err != nil {
		return nil, meta, err
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, meta, nil
	}
	if s, ok := vals[1].(string); ok {
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
			meta.absoluteDeadline = time.UnixMilli(ms)
		}
	}
	if s, ok := vals[2].(string); ok {
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
			meta.sliding = time.Duration(ms) * time.Millisecond
		}
	}
	// past the absolute deadline by this process's clock
	if ttl, ok := meta.expiry(c.now()); ok && ttl <= 0 {
		return nil, entryMeta{}, nil
	}
	return []byte(raw), meta, nil
}

func (c *redisSessionCache) write(ctx context.Context, pipe redis.Pipeliner, key string, data []byte, meta entryMeta) {
	var absolute int64
	if !meta.absoluteDeadline.IsZero() {
		absolute = meta.absoluteDeadline.UnixMilli()
	}
	pipe.HSet(ctx, key,
		fieldData, data,
		fieldAbsolute, absolute,
		fieldSliding, meta.sliding.Milliseconds(),
	)
	c.expire(ctx, pipe, key, meta)
}

func (c *redisSessionCache) expire(ctx context.Context, cmd redis.Cmdable, key string, meta entryMeta) error {
	ttl, ok := meta.expiry(c.now())
	switch {
	case !ok:
		return cmd.Persist(ctx, key).Err()
	case ttl <= 0:
		return cmd.Del(ctx, key).Err()
	default:
		return cmd.PExpire(ctx, key, ttl).Err()
	}
}
