package session

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/studiowebux/fitadmin/internal/types"
)

func TestStoreLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".session.json")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatal("new store should not be authenticated")
	}

	user := &types.UserInfo{ID: "u1", Email: "admin@example.com"}
	if err := store.SetAuth(types.UserToken{AccessToken: "tok", RefreshToken: "ref"}, user); err != nil {
		t.Fatalf("SetAuth() error = %v", err)
	}
	if store.AccessToken() != "tok" || store.RefreshToken() != "ref" {
		t.Errorf("tokens = %q/%q", store.AccessToken(), store.RefreshToken())
	}

	// Mutating the caller's copy must not leak into the store
	user.Email = "changed@example.com"
	if got := store.User().Email; got != "admin@example.com" {
		t.Errorf("User().Email = %q, want stored copy", got)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("Open() reload error = %v", err)
	}
	if reloaded.AccessToken() != "tok" {
		t.Errorf("reloaded AccessToken() = %q, want tok", reloaded.AccessToken())
	}

	if err := reloaded.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if reloaded.IsAuthenticated() || reloaded.User() != nil {
		t.Error("Clear() should drop token and user")
	}

	again, err := Open(path)
	if err != nil {
		t.Fatalf("Open() after clear error = %v", err)
	}
	if again.IsAuthenticated() {
		t.Error("cleared session should persist as signed out")
	}
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("Open() expected parse error")
	}
}

func TestMemoryStoreWritesNothing(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SetAuth(types.UserToken{AccessToken: "mem"}, nil); err != nil {
		t.Fatalf("SetAuth() error = %v", err)
	}
	if store.Path() != "" {
		t.Error("memory store should have no path")
	}
	if store.AccessToken() != "mem" {
		t.Errorf("AccessToken() = %q", store.AccessToken())
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.SetAuth(types.UserToken{AccessToken: "t"}, nil)
		}()
		go func() {
			defer wg.Done()
			_ = store.AccessToken()
			_ = store.Snapshot()
		}()
	}
	wg.Wait()
}
