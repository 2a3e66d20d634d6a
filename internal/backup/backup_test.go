package backup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitree/internal/models"
	"github.com/julianstephens/habitree/internal/storage/sqlite"
)

const testUser = "user-1"

// setupTestDB writes a habit database holding the given habit ids.
func setupTestDB(t *testing.T, ids ...string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitree.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	defer store.Close()

	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for _, id := range ids {
		h := models.Habit{
			ID:           id,
			Title:        "Habit " + id,
			TrackingType: models.TrackingCheck,
			TargetChecks: 1,
			CreatedAt:    created,
			UpdatedAt:    created,
			TreeNodes: []models.TreeNode{{
				ID:        "node-" + id,
				Date:      "2026-03-10",
				Checks:    []models.Check{},
				Status:    models.NodeActive,
				CreatedAt: created,
			}},
		}
		if err := store.SaveHabit(context.Background(), testUser, &h); err != nil {
			t.Fatalf("SaveHabit failed: %v", err)
		}
	}
	return dbPath
}

func habitIDs(t *testing.T, dbPath string) []string {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load %s: %v", dbPath, err)
	}
	defer store.Close()

	list, err := store.ListHabits(context.Background(), testUser)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	ids := make([]string, len(list))
	for i, h := range list {
		ids[i] = h.ID
	}
	return ids
}

// stepClock advances one second per call.
func stepClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t, "h1", "h2")
	mgr := NewManager(dbPath, WithClock(func() time.Time {
		return time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)
	}))

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if want := filepath.Join(mgr.Dir(), "habitree-20260310-123000.db"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
	if got := habitIDs(t, path); len(got) != 2 {
		t.Errorf("expected 2 habits in backup, got %v", got)
	}
}

func TestCreateSameSecond(t *testing.T) {
	dbPath := setupTestDB(t, "h1")
	fixed := time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)
	mgr := NewManager(dbPath, WithClock(func() time.Time { return fixed }))

	first, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct paths, both %s", first)
	}
	if !strings.HasSuffix(second, "-1.db") {
		t.Errorf("second path %s should carry a counter", second)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 2 || backups[0].Path != second {
		t.Errorf("expected the counter backup first, got %+v", backups)
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestListEmptyAndForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Fatalf("expected no backups, got %d", len(backups))
	}

	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "habitree-garbage.db", "other-20260310-123000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	backups, err = mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("foreign files should be ignored, got %+v", backups)
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t, "h1")
	mgr := NewManager(dbPath, WithClock(stepClock(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))))

	var newest string
	for i := 0; i < MaxBackups+3; i++ {
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		newest = path
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", MaxBackups, len(backups))
	}
	if backups[0].Path != newest {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, newest)
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at %d", i)
		}
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t, "h1")
	mgr := NewManager(dbPath, WithClock(stepClock(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))))

	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Replace the live database with a different set of habits.
	if err := os.Remove(dbPath); err != nil {
		t.Fatal(err)
	}
	other := setupTestDB(t, "h2", "h3")
	if err := copyFile(other, dbPath); err != nil {
		t.Fatal(err)
	}

	safety, err := mgr.Restore(snapshot)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := habitIDs(t, dbPath); len(got) != 1 || got[0] != "h1" {
		t.Errorf("restored habits = %v, want [h1]", got)
	}
	if safety == "" {
		t.Fatal("expected a safety backup of the replaced database")
	}
	if got := habitIDs(t, safety); len(got) != 2 {
		t.Errorf("safety backup habits = %v, want 2", got)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file left behind")
	}
}

func TestRestoreRejectsInvalidFile(t *testing.T) {
	dbPath := setupTestDB(t, "h1")
	mgr := NewManager(dbPath)

	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected error for missing backup")
	}

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(bogus); err == nil {
		t.Error("expected error for invalid backup")
	}
	if got := habitIDs(t, dbPath); len(got) != 1 {
		t.Errorf("live database changed after failed restore: %v", got)
	}
}
