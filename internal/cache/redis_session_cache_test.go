package cache

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisSessionCache_SetAppliesPolicy(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewSessionCache(client)

	if err := store.Set(ctx, "ABCD1234", []byte(`{"gameCode":"ABCD1234"}`), sessionPolicy); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if !mr.Exists("game:ABCD1234") {
		t.Fatal("expected key game:ABCD1234")
	}
	ttl := mr.TTL("game:ABCD1234")
	if ttl <= 0 || ttl > 2*time.Minute {
		t.Errorf("TTL = %s, want (0, 2m]", ttl)
	}

	data, err := store.Get(ctx, "ABCD1234")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != `{"gameCode":"ABCD1234"}` {
		t.Errorf("Get = %q", data)
	}
}

func TestRedisSessionCache_GetMissing(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewSessionCache(client)

	data, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil, got %q", data)
	}
}

func TestRedisSessionCache_SlidingExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewSessionCache(client)

	if err := store.Set(ctx, "code", []byte("x"), sessionPolicy); err != nil {
		t.Fatalf("Set: %v", err)
	}

	mr.FastForward(90 * time.Second)
	if data, err := store.Get(ctx, "code"); err != nil || data == nil {
		t.Fatalf("entry gone before sliding window: data=%q err=%v", data, err)
	}
	if ttl := mr.TTL("game:code"); ttl > 30*time.Second {
		t.Errorf("Get must not touch the TTL, got %s", ttl)
	}

	err := store.Update(ctx, "code", func(cur []byte) ([]byte, error) {
		return append(cur, 'y'), nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if ttl := mr.TTL("game:code"); ttl < 110*time.Second {
		t.Errorf("Update should refresh TTL, got %s", ttl)
	}

	mr.FastForward(2*time.Minute + time.Second)
	if data, _ := store.Get(ctx, "code"); data != nil {
		t.Fatal("entry should expire after two minutes without writes")
	}
}

func TestRedisSessionCache_GetDoesNotAbortWatchedUpdate(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	store := NewSessionCache(client)

	if err := store.Set(ctx, "code", []byte("0"), sessionPolicy); err != nil {
		t.Fatalf("Set: %v", err)
	}

	attempts := 0
	err := store.Update(ctx, "code", func(cur []byte) ([]byte, error) {
		attempts++
		// a reader between WATCH and EXEC
		if _, err := store.Get(ctx, "code"); err != nil {
			return nil, err
		}
		return increment(cur)
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Update took %d attempts, a concurrent Get must not invalidate the WATCH", attempts)
	}
	if data, _ := store.Get(ctx, "code"); string(data) != "1" {
		t.Errorf("value = %q, want 1", data)
	}
}

func TestRedisSessionCache_GetPastAbsoluteDeadline(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	store := NewSessionCache(client).(*redisSessionCache)

	start := time.Now()
	now := start
	store.now = func() time.Time { return now }

	if err := store.Set(ctx, "code", []byte("x"), sessionPolicy); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// the key is still in Redis but this process sees the deadline as passed
	now = start.Add(30*time.Minute + time.Second)
	data, err := store.Get(ctx, "code")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil past the absolute deadline, got %q", data)
	}

	err = store.Update(ctx, "code", func(cur []byte) ([]byte, error) {
		if cur != nil {
			t.Errorf("Update saw an expired payload %q", cur)
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestRedisSessionCache_TTLCappedByAbsoluteDeadline(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	store := NewSessionCache(client).(*redisSessionCache)

	start := time.Now()
	now := start
	store.now = func() time.Time { return now }

	if err := store.Set(ctx, "code", []byte("x"), sessionPolicy); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// 29m30s into the session only 30s remain before the ceiling
	now = start.Add(29*time.Minute + 30*time.Second)
	err := store.Update(ctx, "code", func(cur []byte) ([]byte, error) {
		return append(cur, 'y'), nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	ttl, err := client.PTTL(ctx, "game:code").Result()
	if err != nil {
		t.Fatalf("PTTL: %v", err)
	}
	if ttl > 30*time.Second {
		t.Errorf("TTL = %s, must not pass the absolute deadline", ttl)
	}
}

func TestRedisSessionCache_SetWithoutPolicyKeepsExisting(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewSessionCache(client)

	if err := store.Set(ctx, "code", []byte("1"), sessionPolicy); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, "code", []byte("2"), nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := mr.TTL("game:code"); ttl <= 0 {
		t.Errorf("policy-less Set dropped the TTL")
	}

	if err := store.Set(ctx, "plain", []byte("p"), nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := mr.TTL("game:plain"); ttl != 0 {
		t.Errorf("entry without policy should not expire, TTL = %s", ttl)
	}
}

func TestRedisSessionCache_DeleteExists(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	store := NewSessionCache(client)

	_ = store.Set(ctx, "code", []byte("x"), sessionPolicy)
	if ok, err := store.Exists(ctx, "code"); err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	if err := store.Delete(ctx, "code"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := store.Exists(ctx, "code"); ok {
		t.Fatal("key still exists after Delete")
	}
}

func TestRedisSessionCache_Update(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	store := NewSessionCache(client)

	t.Run("absent key passes nil and skips write", func(t *testing.T) {
		called := false
		err := store.Update(ctx, "none", func(cur []byte) ([]byte, error) {
			called = true
			if cur != nil {
				t.Errorf("expected nil current, got %q", cur)
			}
			return nil, nil
		})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if !called {
			t.Fatal("fn not called")
		}
		if ok, _ := store.Exists(ctx, "none"); ok {
			t.Error("nil result must not create the key")
		}
	})

	t.Run("fn error returned unchanged", func(t *testing.T) {
		boom := errors.New("boom")
		_ = store.Set(ctx, "k", []byte("v"), sessionPolicy)
		err := store.Update(ctx, "k", func(cur []byte) ([]byte, error) {
			return nil, boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if errors.Is(err, ErrUnavailable) {
			t.Fatal("fn error must not be reported as store failure")
		}
	})

	t.Run("concurrent updates are not lost", func(t *testing.T) {
		_ = store.Set(ctx, "counter", []byte("0"), sessionPolicy)
		const workers = 8

		var g errgroup.Group
		for i := 0; i < workers; i++ {
			g.Go(func() error {
				return store.Update(ctx, "counter", increment)
			})
		}
		if err := g.Wait(); err != nil {
			t.Fatalf("Update: %v", err)
		}

		data, err := store.Get(ctx, "counter")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(data) != strconv.Itoa(workers) {
			t.Errorf("counter = %s, want %d", data, workers)
		}
	})
}

func TestRedisSessionCache_Unavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewSessionCache(client)
	mr.Close()

	ctx := context.Background()
	if _, err := store.Get(ctx, "x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Get: expected ErrUnavailable, got %v", err)
	}
	if err := store.Set(ctx, "x", []byte("1"), sessionPolicy); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Set: expected ErrUnavailable, got %v", err)
	}
	err := store.Update(ctx, "x", func(cur []byte) ([]byte, error) { return []byte("1"), nil })
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Update: expected ErrUnavailable, got %v", err)
	}
}
