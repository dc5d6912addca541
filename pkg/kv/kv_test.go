package kv

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Set("currentUser", `{"id":"u1"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, ok, err := s.Get("currentUser")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if val != `{"id":"u1"}` {
		t.Fatalf("unexpected value: %q", val)
	}
	if err := s.Remove("currentUser"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := s.Get("currentUser"); ok {
		t.Fatalf("expected key gone after remove")
	}
}

func TestMemoryStoreQuota(t *testing.T) {
	s := NewMemoryStoreWithQuota(32)
	if err := s.Set("a", strings.Repeat("x", 16)); err != nil {
		t.Fatalf("first set: %v", err)
	}
	err := s.Set("b", strings.Repeat("x", 32))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got: %v", err)
	}
	// Replacing an existing key frees its old bytes first.
	if err := s.Set("a", strings.Repeat("y", 20)); err != nil {
		t.Fatalf("replace within quota: %v", err)
	}
	if err := s.Remove("a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Set("b", strings.Repeat("x", 30)); err != nil {
		t.Fatalf("set after remove: %v", err)
	}
}

func TestFileStoreSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := s.Set("cart_u1", `[{"bookId":"b1"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("token", "tok-1"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := s.Remove("token"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	reloaded, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	val, ok, err := reloaded.Get("cart_u1")
	if err != nil || !ok {
		t.Fatalf("get after reload: ok=%v err=%v", ok, err)
	}
	if val != `[{"bookId":"b1"}]` {
		t.Fatalf("unexpected value after reload: %q", val)
	}
	if _, ok, _ := reloaded.Get("token"); ok {
		t.Fatalf("removed key resurrected by reload")
	}
}

func TestFileStoreQuota(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := NewFileStoreWithQuota(path, 16)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := s.Set("k", strings.Repeat("x", 64)); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got: %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Fatalf("rejected write must not be visible")
	}
}
