package localstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
)

func openTestStore(t *testing.T, dir string) *SQLiteStore {
	t.Helper()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, t.TempDir())

	if _, ok, err := s.Get(ctx, "pendingBookings"); ok || err != nil {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := s.Put(ctx, "pendingBookings", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}
	if err := s.Put(ctx, "pendingBookings", []byte(`[{"id":"b"}]`)); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}
	got, ok, err := s.Get(ctx, "pendingBookings")
	if err != nil || !ok || string(got) != `[{"id":"b"}]` {
		t.Fatalf("unexpected get: %q ok=%v err=%v", got, ok, err)
	}
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := Open(dir)
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	if err := first.Put(ctx, "trackingProgress", []byte(`[]`)); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	second, err := OpenFile(filepath.Join(dir, DatabaseFile), 1)
	if err != nil {
		t.Fatalf("unexpected reopen error: %v", err)
	}
	defer second.Close()
	got, ok, err := second.Get(ctx, "trackingProgress")
	if err != nil || !ok || string(got) != `[]` {
		t.Fatalf("value lost across reopen: %q ok=%v err=%v", got, ok, err)
	}
}

func TestSQLiteStore_EmptyValueIsPresent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, t.TempDir())

	if err := s.Put(ctx, "serviceProgress", []byte{}); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}
	got, ok, err := s.Get(ctx, "serviceProgress")
	if err != nil || !ok || len(got) != 0 {
		t.Fatalf("expected present empty value, got %q ok=%v err=%v", got, ok, err)
	}
}

func TestSQLiteStore_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, t.TempDir())

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Put(ctx, fmt.Sprintf("key-%d", i), []byte(fmt.Sprintf("v%d", i))); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("unexpected put error: %v", err)
	}
	for i := 0; i < 16; i++ {
		got, ok, err := s.Get(ctx, fmt.Sprintf("key-%d", i))
		if err != nil || !ok || string(got) != fmt.Sprintf("v%d", i) {
			t.Fatalf("key-%d: got %q ok=%v err=%v", i, got, ok, err)
		}
	}
}

func TestSQLiteStore_RejectsMalformedKeys(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	for _, key := range []string{"", "../escape", "a b"} {
		if err := s.Put(context.Background(), key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("Put(%q): expected ErrInvalidKey, got %v", key, err)
		}
		if _, _, err := s.Get(context.Background(), key); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("Get(%q): expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	v := []byte("abc")
	_ = s.Put(ctx, "k", v)
	v[0] = 'z'
	got, _, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("store must not alias caller buffers, got %q", got)
	}
}
