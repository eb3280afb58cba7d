package cache

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if _, ok, err := m.Get(ctx, "abc"); ok || err != nil {
		t.Fatalf("Get on empty cache = %v, %v", ok, err)
	}
	want := Entry{Key: "invoices/x.pdf", URL: "https://cdn.example.com/invoices/x.pdf"}
	if err := m.Set(ctx, "abc", want, 0); err != nil {
		t.Fatal(err)
	}
	got, ok, err := m.Get(ctx, "abc")
	if !ok || err != nil {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entry (-want +got):\n%s", diff)
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	m.Set(ctx, "abc", Entry{Key: "k"}, time.Minute)
	now = now.Add(59 * time.Second)
	if _, ok, _ := m.Get(ctx, "abc"); !ok {
		t.Fatal("entry expired early")
	}
	now = now.Add(time.Second)
	if _, ok, _ := m.Get(ctx, "abc"); ok {
		t.Fatal("entry did not expire")
	}
	if len(m.items) != 0 {
		t.Error("expired entry kept")
	}
}

func TestMemoryBounded(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.max = 3
	m.now = func() time.Time { return now }

	m.Set(ctx, "a", Entry{Key: "a"}, time.Minute)
	now = now.Add(time.Second)
	m.Set(ctx, "b", Entry{Key: "b"}, 0)
	now = now.Add(time.Second)
	m.Set(ctx, "c", Entry{Key: "c"}, 0)

	// a has expired and is swept instead of evicting a live entry.
	now = now.Add(time.Minute)
	m.Set(ctx, "d", Entry{Key: "d"}, 0)
	if len(m.items) != 3 {
		t.Fatalf("len = %d, want 3", len(m.items))
	}
	for _, k := range []string{"b", "c", "d"} {
		if _, ok, _ := m.Get(ctx, k); !ok {
			t.Errorf("%s missing", k)
		}
	}

	// Full of live entries: the oldest goes.
	now = now.Add(time.Second)
	m.Set(ctx, "e", Entry{Key: "e"}, 0)
	if _, ok, _ := m.Get(ctx, "b"); ok {
		t.Error("oldest entry b kept")
	}
	if len(m.items) != 3 {
		t.Errorf("len = %d, want 3", len(m.items))
	}

	// Overwriting an existing key never evicts.
	m.Set(ctx, "c", Entry{Key: "c2"}, 0)
	if _, ok, _ := m.Get(ctx, "d"); !ok {
		t.Error("overwrite evicted d")
	}
}

func TestRedisUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c := NewRedis(RedisOptions{Addr: addr})
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err == nil {
		t.Fatal("Ping succeeded against a closed port")
	}
	if _, ok, err := c.Get(ctx, "abc"); ok || err == nil {
		t.Errorf("Get = %v, %v; want error", ok, err)
	}
}
