package store_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/etturpe/ettur/pkg/store"

	"github.com/google/go-cmp/cmp"
)

func newTestSQL(t *testing.T) *store.SQLStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "session.db")
	s, err := store.OpenSQL(dbPath)
	if err != nil {
		t.Fatalf("store_test: failed to open db: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			fmt.Printf("Error closing database: %v\n", err)
		}
	})

	return s
}

func runKVContract(t *testing.T, kv store.KV) {
	t.Helper()

	if _, err := kv.Get(store.KeyToken); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get on empty store = %v, want ErrNotFound", err)
	}

	if err := kv.Set(store.KeyToken, []byte("tok-1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := kv.Get(store.KeyToken)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff([]byte("tok-1"), got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}

	// Overwrite
	if err := kv.Set(store.KeyToken, []byte("tok-2")); err != nil {
		t.Fatalf("Set (overwrite): %v", err)
	}
	got, _ = kv.Get(store.KeyToken)
	if string(got) != "tok-2" {
		t.Errorf("Get after overwrite = %q, want tok-2", got)
	}

	// Remove, including an absent key
	if err := kv.Remove(store.KeyToken); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := kv.Remove("never-set"); err != nil {
		t.Errorf("Remove absent key = %v, want nil", err)
	}
	if _, err := kv.Get(store.KeyToken); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get after Remove = %v, want ErrNotFound", err)
	}

	// Clear
	for _, k := range []string{store.KeyToken, store.KeyUser, store.KeyPermisos} {
		if err := kv.Set(k, []byte("x")); err != nil {
			t.Fatalf("Set %q: %v", k, err)
		}
	}
	if err := kv.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{store.KeyToken, store.KeyUser, store.KeyPermisos} {
		if _, err := kv.Get(k); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get(%q) after Clear = %v, want ErrNotFound", k, err)
		}
	}
}

func TestSQLStoreContract(t *testing.T) {
	s := newTestSQL(t)
	runKVContract(t, s)
	if s.Fallback() {
		t.Error("primary store must not report fallback")
	}
}

func TestMemoryStoreContract(t *testing.T) {
	m := store.NewMemory(true)
	runKVContract(t, m)
	if !m.Fallback() {
		t.Error("fallback memory store must report fallback")
	}
	if store.NewMemory(false).Fallback() {
		t.Error("non-fallback memory store must not report fallback")
	}
}

func TestSQLStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "session.db")

	s1, err := store.OpenSQL(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s1.Set(store.KeyUser, []byte(`{"id":7}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := store.OpenSQL(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get(store.KeyUser)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != `{"id":7}` {
		t.Errorf("Get after reopen = %q", got)
	}
}

func TestOpenFallsBackToMemory(t *testing.T) {
	// A directory path cannot be opened as a database file.
	kv, err := store.Open(t.TempDir())
	if err == nil {
		t.Fatal("expected open error for directory path")
	}
	if kv == nil {
		t.Fatal("fallback store must still be usable")
	}
	if !kv.Fallback() {
		t.Error("degraded store must report fallback")
	}
	if err := kv.Set(store.KeyToken, []byte("t")); err != nil {
		t.Errorf("fallback Set: %v", err)
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	m := store.NewMemory(false)
	in := []byte("original")
	if err := m.Set("k", in); err != nil {
		t.Fatal(err)
	}
	in[0] = 'X'

	got, err := m.Get("k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "original" {
		t.Errorf("stored value aliased caller's slice: %q", got)
	}

	got[0] = 'Y'
	again, _ := m.Get("k")
	if string(again) != "original" {
		t.Errorf("returned value aliased stored slice: %q", again)
	}
}
