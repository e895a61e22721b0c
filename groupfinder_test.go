package multiauth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCachedGroupFinder_Caches(t *testing.T) {
	var calls atomic.Int64
	finder := func(_ context.Context, userid string) ([]Principal, bool) {
		calls.Add(1)
		return []Principal{"group:staff"}, true
	}
	cached := NewCachedGroupFinder(finder, time.Minute)

	for i := 0; i < 3; i++ {
		groups, ok := cached.Find(context.Background(), "alice")
		if !ok || len(groups) != 1 || groups[0] != "group:staff" {
			t.Fatalf("Find() = %v, %v", groups, ok)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("underlying finder called %d times, want 1", calls.Load())
	}
}

func TestCachedGroupFinder_CachesRejection(t *testing.T) {
	var calls atomic.Int64
	finder := func(_ context.Context, _ string) ([]Principal, bool) {
		calls.Add(1)
		return nil, false
	}
	cached := NewCachedGroupFinder(finder, time.Minute)

	for i := 0; i < 2; i++ {
		if _, ok := cached.Find(context.Background(), "mallory"); ok {
			t.Fatal("Find() accepted a rejected userid")
		}
	}
	if calls.Load() != 1 {
		t.Errorf("underlying finder called %d times, want 1", calls.Load())
	}
}

func TestCachedGroupFinder_Invalidate(t *testing.T) {
	var calls atomic.Int64
	finder := func(_ context.Context, _ string) ([]Principal, bool) {
		calls.Add(1)
		return nil, true
	}
	cached := NewCachedGroupFinder(finder, time.Minute)

	cached.Find(context.Background(), "alice")
	cached.Invalidate("alice")
	cached.Find(context.Background(), "alice")

	if calls.Load() != 2 {
		t.Errorf("underlying finder called %d times after invalidation, want 2", calls.Load())
	}
}

func TestCachedGroupFinder_ZeroTTLDisablesCaching(t *testing.T) {
	var calls atomic.Int64
	finder := func(_ context.Context, _ string) ([]Principal, bool) {
		calls.Add(1)
		return nil, true
	}
	cached := NewCachedGroupFinder(finder, 0)

	cached.Find(context.Background(), "alice")
	cached.Find(context.Background(), "alice")

	if calls.Load() != 2 {
		t.Errorf("underlying finder called %d times, want 2", calls.Load())
	}
}

func TestCachedGroupFinder_CollapsesConcurrentLookups(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	finder := func(_ context.Context, _ string) ([]Principal, bool) {
		calls.Add(1)
		<-release
		return []Principal{"group:staff"}, true
	}
	cached := NewCachedGroupFinder(finder, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cached.Find(context.Background(), "alice")
		}()
	}

	// Give the goroutines a moment to pile up on the same key, then let
	// the single underlying call finish.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("underlying finder called %d times, want 1", calls.Load())
	}
}

func TestCachedGroupFinder_AsGroupFinder(t *testing.T) {
	cached := NewCachedGroupFinder(func(_ context.Context, _ string) ([]Principal, bool) {
		return []Principal{"group:staff"}, true
	}, time.Minute)

	multi := NewMultiPolicy([]Policy{
		&mockPolicy{unauthenticated: "alice"},
	}, cached.AsGroupFinder())

	principals, err := multi.EffectivePrincipals(context.Background(), &Request{})
	if err != nil {
		t.Fatalf("EffectivePrincipals() error = %v", err)
	}
	if !principals.Has("group:staff") {
		t.Errorf("EffectivePrincipals() missing cached group: %v", principals.Slice())
	}
}
