package multiauth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// GroupFinder maps a userid to its group principals. Returning ok=false
// rejects the userid: MultiPolicy will not treat it as validated and no
// groups are added to the principal set.
type GroupFinder func(ctx context.Context, userid string) ([]Principal, bool)

type groupEntry struct {
	groups    []Principal
	ok        bool
	expiresAt time.Time
}

// CachedGroupFinder memoizes GroupFinder results with a TTL. Concurrent
// lookups for the same userid are collapsed into a single call of the
// underlying finder.
type CachedGroupFinder struct {
	finder GroupFinder
	ttl    time.Duration

	mu      sync.RWMutex
	entries map[string]groupEntry
	group   singleflight.Group
}

// NewCachedGroupFinder wraps finder with a TTL cache. A ttl of zero or less
// disables caching.
func NewCachedGroupFinder(finder GroupFinder, ttl time.Duration) *CachedGroupFinder {
	return &CachedGroupFinder{
		finder:  finder,
		ttl:     ttl,
		entries: make(map[string]groupEntry),
	}
}

// Find looks up the groups for a userid, consulting the cache first.
// It has the same shape as GroupFinder; use AsGroupFinder to pass it where
// a GroupFinder is expected.
func (c *CachedGroupFinder) Find(ctx context.Context, userid string) ([]Principal, bool) {
	if c.ttl <= 0 {
		return c.finder(ctx, userid)
	}

	c.mu.RLock()
	entry, found := c.entries[userid]
	c.mu.RUnlock()
	if found && time.Now().Before(entry.expiresAt) {
		return entry.groups, entry.ok
	}

	v, _, _ := c.group.Do(userid, func() (any, error) {
		groups, ok := c.finder(ctx, userid)
		e := groupEntry{groups: groups, ok: ok, expiresAt: time.Now().Add(c.ttl)}
		c.mu.Lock()
		c.entries[userid] = e
		c.mu.Unlock()
		return e, nil
	})
	entry = v.(groupEntry)
	return entry.groups, entry.ok
}

// Invalidate drops the cached entry for a userid. Idempotent.
func (c *CachedGroupFinder) Invalidate(userid string) {
	c.mu.Lock()
	delete(c.entries, userid)
	c.mu.Unlock()
}

// AsGroupFinder returns the cache as a plain GroupFinder.
func (c *CachedGroupFinder) AsGroupFinder() GroupFinder {
	return c.Find
}
