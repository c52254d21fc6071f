package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	meta      entryMeta
	expiresAt time.Time // zero: never
}

// codeLock serializes writers of one game code
type codeLock struct {
	mu   sync.Mutex
	refs int
}

type memorySessionCache struct {
	mu      sync.Mutex // guards entries and locks
	entries map[string]*memoryEntry
	locks   map[string]*codeLock
	now     func() time.Time
}

// NewMemorySessionCache creates a process-local SessionStore with the same
// TTL semantics as the Redis one. Writers of the same code are serialized,
// writers of different codes run independently. Nothing is shared between
// processes, so it is meant for single-instance deployments and tests.
func NewMemorySessionCache() SessionStore {
	return NewMemorySessionCacheWithClock(time.Now)
}

// NewMemorySessionCacheWithClock is NewMemorySessionCache with an injectable clock
func NewMemorySessionCacheWithClock(now func() time.Time) SessionStore {
	return &memorySessionCache{
		entries: make(map[string]*memoryEntry),
		locks:   make(map[string]*codeLock),
		now:     now,
	}
}

func (c *memorySessionCache) Get(ctx context.Context, code string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("get", code, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.live(code)
	if e == nil {
		return nil, nil
	}
	return clone(e.data), nil
}

func (c *memorySessionCache) Set(ctx context.Context, code string, data []byte, policy *TTLPolicy) error {
	if err := ctx.Err(); err != nil {
		return unavailable("set", code, err)
	}
	unlock := c.lockCode(code)
	defer unlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	var meta entryMeta
	if policy != nil {
		meta = newEntryMeta(c.now(), policy)
	} else if e := c.live(code); e != nil {
		meta = e.meta
	}
	c.store(code, data, meta)
	return nil
}

func (c *memorySessionCache) Delete(ctx context.Context, code string) error {
	if err := ctx.Err(); err != nil {
		return unavailable("delete", code, err)
	}
	unlock := c.lockCode(code)
	defer unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, code)
	return nil
}

func (c *memorySessionCache) Exists(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, unavailable("exists", code, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live(code) != nil, nil
}

func (c *memorySessionCache) Update(ctx context.Context, code string, fn MutateFunc) error {
	if err := ctx.Err(); err != nil {
		return unavailable("update", code, err)
	}
	unlock := c.lockCode(code)
	defer unlock()

	var current []byte
	var meta entryMeta
	c.mu.Lock()
	if e := c.live(code); e != nil {
		current = clone(e.data)
		meta = e.meta
	}
	c.mu.Unlock()

	next, err := fn(current)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}

	c.mu.Lock()
	c.store(code, next, meta)
	c.mu.Unlock()
	return nil
}

// lockCode takes the writer lock for code and returns its release func.
// Lock entries are dropped once no writer holds or waits for them.
func (c *memorySessionCache) lockCode(code string) func() {
	c.mu.Lock()
	l, ok := c.locks[code]
	if !ok {
		l = &codeLock{}
		c.locks[code] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, code)
		}
		c.mu.Unlock()
	}
}

// live returns the entry for code, dropping it if it has expired.
// Callers hold c.mu.
func (c *memorySessionCache) live(code string) *memoryEntry {
	e, ok := c.entries[code]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.entries, code)
		return nil
	}
	return e
}

func (c *memorySessionCache) store(code string, data []byte, meta entryMeta) {
	e := &memoryEntry{data: clone(data), meta: meta}
	c.touch(e)
	c.entries[code] = e
}

func (c *memorySessionCache) touch(e *memoryEntry) {
	now := c.now()
	if ttl, ok := e.meta.expiry(now); ok {
		e.expiresAt = now.Add(ttl)
	} else {
		e.expiresAt = time.Time{}
	}
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
