package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meditrack/meditrack-backend/internal/cache"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()

	ctx := context.Background()
	if err := mem.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := mem.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()

	if _, err := mem.Get(context.Background(), "absent"); !errors.Is(err, cache.ErrCacheMiss) {
		t.Errorf("Get on absent key: err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()

	ctx := context.Background()
	if err := mem.Set(ctx, "k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := mem.Get(ctx, "k"); !errors.Is(err, cache.ErrCacheMiss) {
		t.Errorf("Get on expired key: err = %v, want ErrCacheMiss", err)
	}

	exists, err := mem.Exists(ctx, "k")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Exists reported an expired key as present")
	}
}

func TestMemoryCacheClearPattern(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()

	ctx := context.Background()
	mem.Set(ctx, "identity:aa", []byte("1"), time.Minute)
	mem.Set(ctx, "identity:bb", []byte("2"), time.Minute)
	mem.Set(ctx, "other:cc", []byte("3"), time.Minute)

	if err := mem.Clear(ctx, "identity:*"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, err := mem.Get(ctx, "identity:aa"); !errors.Is(err, cache.ErrCacheMiss) {
		t.Error("Clear left a matching key behind")
	}
	if _, err := mem.Get(ctx, "other:cc"); err != nil {
		t.Error("Clear removed a non-matching key")
	}
}
