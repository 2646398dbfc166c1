// Package cache implements the byte-budgeted, LRU-evicting, single-flight
// cache of crack results keyed by request fingerprint.
//
// No cache library in the retrieval pack fits this component: the only
// pack-adjacent option, ristretto (pulled in indirectly through badger),
// admits and evicts probabilistically via a TinyLFU sketch on a background
// goroutine — a cache built on it could not guarantee the budget is never
// exceeded immediately after an insertion, nor that a second identical
// in-flight request is coalesced rather than recomputed, both of which this
// package must guarantee exactly. It is built on container/list instead,
// which gives precise, synchronous LRU semantics.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/hashassin/hashassin/lib/hashassinerrors"
)

// Pair is one cracked hash/password result.
type Pair struct {
	Hash     []byte
	Password []byte
}

func (p Pair) size() int64 {
	return int64(len(p.Hash) + len(p.Password))
}

func sizeOf(pairs []Pair) int64 {
	var total int64
	for _, p := range pairs {
		total += p.size()
	}

	return total
}

// Fingerprint computes the cache key for a crack request's raw hashes-file
// payload.
func Fingerprint(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

type entry struct {
	key   string
	value []Pair
	size  int64
}

// Cache is a byte-budgeted LRU cache with single-flight coalescing of
// concurrent requests for the same key.
type Cache struct {
	mu       sync.Mutex
	budget   int64
	used     int64
	ll       *list.List
	items    map[string]*list.Element
	inflight map[string]*call
}

type call struct {
	done  chan struct{}
	value []Pair
	err   error
}

// New creates a Cache with the given byte budget. A budget of 0 disables
// retention: entries are never stored, though single-flight coalescing of
// concurrent identical requests still applies.
func New(budget int64) (*Cache, error) {
	if budget < 0 {
		return nil, fmt.Errorf("%w: cache size must not be negative", hashassinerrors.ErrArgument)
	}

	return &Cache{
		budget:   budget,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
		inflight: make(map[string]*call),
	}, nil
}

// Get returns the cached value for key, if present, marking it
// most-recently-used.
func (c *Cache) Get(key string) ([]Pair, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}

	c.ll.MoveToFront(el)

	return el.Value.(*entry).value, true
}

// Insert stores value under key, evicting least-recently-used entries until
// it fits. If value alone exceeds the cache's budget, it is not stored and
// ErrResourceExhausted is returned; this is non-fatal, callers proceed
// without caching the result.
func (c *Cache) Insert(key string, value []Pair) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.budget == 0 {
		return fmt.Errorf("%w: caching disabled", hashassinerrors.ErrResourceExhausted)
	}

	size := sizeOf(value)
	if size > c.budget {
		return fmt.Errorf("%w: entry of %d bytes exceeds budget of %d bytes", hashassinerrors.ErrResourceExhausted, size, c.budget)
	}

	if el, ok := c.items[key]; ok {
		old := el.Value.(*entry)
		c.used -= old.size
		c.ll.Remove(el)
		delete(c.items, key)
	}

	for c.used+size > c.budget && c.ll.Len() > 0 {
		c.evictOldest()
	}

	el := c.ll.PushFront(&entry{key: key, value: value, size: size})
	c.items[key] = el
	c.used += size

	return nil
}

func (c *Cache) evictOldest() {
	el := c.ll.Back()
	if el == nil {
		return
	}

	c.ll.Remove(el)

	e := el.Value.(*entry)
	delete(c.items, e.key)
	c.used -= e.size
}

// GetOrCompute returns the cached value for key if present. Otherwise it
// calls compute, caches a successful result — including an empty one, which
// still represents a definitive answer worth not recomputing — treating an
// Insert failure due to budget as non-fatal and ignoring it, and returns the
// result. Concurrent callers for the same key while a computation is in
// flight block on that single computation rather than each calling compute
// themselves.
func (c *Cache) GetOrCompute(key string, compute func() ([]Pair, error)) ([]Pair, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	c.mu.Lock()

	if existing, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-existing.done

		return existing.value, existing.err
	}

	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	value, err := compute()

	// Insert before retiring the in-flight call, so a caller arriving in
	// between finds either the call or the cached value, never neither.
	if err == nil {
		_ = c.Insert(key, value)
	}

	cl.value, cl.err = value, err

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()

	close(cl.done)

	return value, err
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ll.Len()
}

// UsedBytes returns the total size in bytes of all currently cached entries.
func (c *Cache) UsedBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.used
}
