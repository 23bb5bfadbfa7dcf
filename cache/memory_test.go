package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	if err := c.Set(ctx, "how-old-is-elon-musk", []byte("<h1>Page</h1>"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := c.Get(ctx, "how-old-is-elon-musk")
	if !ok {
		t.Fatal("Get() ok = false, want hit")
	}
	if string(got) != "<h1>Page</h1>" {
		t.Errorf("Get() = %q, want %q", got, "<h1>Page</h1>")
	}
}

func TestMemoryMiss(t *testing.T) {
	c := NewMemory()
	if _, ok := c.Get(context.Background(), "missing"); ok {
		t.Error("Get(missing) ok = true, want miss")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	if err := c.Set(ctx, "slug", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get(ctx, "slug"); ok {
		t.Error("Get() ok = true after expiry, want miss")
	}
	if got := c.Len(); got != 0 {
		t.Errorf("Len() = %d after expired read, want 0", got)
	}
}

func TestMemoryZeroTTLNotCached(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	if err := c.Set(ctx, "slug", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := c.Get(ctx, "slug"); ok {
		t.Error("Get() ok = true for zero TTL, want miss")
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	if err := c.Set(ctx, "slug", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Delete(ctx, "slug"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := c.Get(ctx, "slug"); ok {
		t.Error("Get() ok = true after delete, want miss")
	}

	// Deleting again is fine.
	if err := c.Delete(ctx, "slug"); err != nil {
		t.Errorf("Delete(missing) error = %v, want nil", err)
	}
}

func TestMemorySweep(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	if err := c.Set(ctx, "stale", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Set(ctx, "fresh", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if removed := c.Sweep(); removed != 1 {
		t.Errorf("Sweep() = %d, want 1", removed)
	}
	if got := c.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = c.Set(ctx, "shared", []byte("v"), time.Minute)
				c.Get(ctx, "shared")
				_ = c.Delete(ctx, "shared")
			}
		}()
	}
	wg.Wait()
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"valid slug", "how-old-is-elon-musk", nil},
		{"empty", "", ErrInvalidKey},
		{"whitespace only", "   ", ErrInvalidKey},
		{"newline", "a\nb", ErrInvalidKey},
		{"too long", strings.Repeat("k", MaxKeyLength+1), ErrKeyTooLong},
		{"max length", strings.Repeat("k", MaxKeyLength), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateKey(%q) error = %v, want %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestMemorySetInvalidKey(t *testing.T) {
	c := NewMemory()
	if err := c.Set(context.Background(), "", []byte("v"), time.Minute); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Set(empty key) error = %v, want ErrInvalidKey", err)
	}
}
