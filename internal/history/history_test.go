package history

import (
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/studiowebux/fitadmin/internal/migrations"
	"github.com/studiowebux/fitadmin/internal/types"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestRecordAndList(t *testing.T) {
	m := newTestManager(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	exchanges := []types.Exchange{
		{RequestID: "r1", Timestamp: base, Method: "GET", Path: "/exercise", Status: 200, Shape: "paginated", DurationMs: 12},
		{RequestID: "r2", Timestamp: base.Add(time.Second), Method: "POST", Path: "/uploads/image", Status: 500, DurationMs: 40, Error: "Internal server error"},
		{RequestID: "r3", Timestamp: base.Add(2 * time.Second), Method: "GET", Path: "/exercise/e1", Status: 200, Shape: "single", DurationMs: 8},
	}
	for _, ex := range exchanges {
		if err := m.Record(ex); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	all, err := m.List(Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List() = %d entries, want 3", len(all))
	}
	if all[0].RequestID != "r3" || all[2].RequestID != "r1" {
		t.Errorf("List() order = %s, %s, %s; want newest first", all[0].RequestID, all[1].RequestID, all[2].RequestID)
	}
	if !all[2].Timestamp.Equal(base) {
		t.Errorf("timestamp = %v, want %v", all[2].Timestamp, base)
	}
	if all[2].Shape != "paginated" || all[2].DurationMs != 12 {
		t.Errorf("entry = %+v", all[2])
	}

	limited, _ := m.List(Filter{Limit: 2})
	if len(limited) != 2 {
		t.Errorf("List(limit 2) = %d entries", len(limited))
	}

	failed, _ := m.List(Filter{FailedOnly: true})
	if len(failed) != 1 || failed[0].Error != "Internal server error" {
		t.Errorf("List(failed) = %+v", failed)
	}

	byPath, _ := m.List(Filter{Path: "exercise"})
	if len(byPath) != 2 {
		t.Errorf("List(path) = %d entries, want 2", len(byPath))
	}

	got, err := m.Get("r2")
	if err != nil || got.Status != 500 || got.Succeeded() {
		t.Errorf("Get(r2) = %+v, %v", got, err)
	}
	if _, err := m.Get("missing"); err == nil {
		t.Error("Get(missing) expected error")
	}
}

func TestDeleteAndClear(t *testing.T) {
	m := newTestManager(t)
	for i := 0; i < 3; i++ {
		m.Record(types.Exchange{RequestID: string(rune('a' + i)), Method: "GET", Path: "/x"})
	}

	entries, _ := m.List(Filter{})
	if err := m.Delete(entries[0].ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n, _ := m.GetCount(); n != 2 {
		t.Errorf("count after delete = %d, want 2", n)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n, _ := m.GetCount(); n != 0 {
		t.Errorf("count after clear = %d, want 0", n)
	}
}

func TestConcurrentRecord(t *testing.T) {
	m := newTestManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Record(types.Exchange{RequestID: "c", Method: "POST", Path: "/uploads/image", Status: 201}); err != nil {
				t.Errorf("Record() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if n, _ := m.GetCount(); n != 20 {
		t.Errorf("count = %d, want 20", n)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	m, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	m.Close()

	// reopening must not re-apply the ALTER TABLE migration
	m, err = NewManager(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer m.Close()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	version, err := migrations.GetCurrentVersion(db)
	if err != nil {
		t.Fatal(err)
	}
	if want := migrations.AllMigrations[len(migrations.AllMigrations)-1].Version; version != want {
		t.Errorf("version = %d, want %d", version, want)
	}
}
