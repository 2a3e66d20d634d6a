package migration

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitree/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func mapFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestVersionsFreshDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, mapFS(map[string]string{"001_test.sql": "CREATE TABLE t (id INTEGER);"}), SQLite)

	current, latest, err := runner.Versions()
	if err != nil {
		t.Fatalf("Versions failed: %v", err)
	}
	if current != 0 || latest != 1 {
		t.Errorf("Versions() = %d, %d; want 0, 1", current, latest)
	}
}

func TestMigrations(t *testing.T) {
	runner := NewRunner(nil, mapFS(map[string]string{
		"002_second.sql": "SELECT 2;",
		"001_first.sql":  "SELECT 1;",
		"README.md":      "ignored",
	}), SQLite)

	ms, err := runner.Migrations()
	if err != nil {
		t.Fatalf("Migrations failed: %v", err)
	}
	if len(ms) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(ms))
	}
	if ms[0].Version != 1 || ms[0].Name != "first" {
		t.Errorf("unexpected first migration: %+v", ms[0])
	}
	if ms[1].Version != 2 || ms[1].Name != "second" {
		t.Errorf("unexpected second migration: %+v", ms[1])
	}
}

func TestUpIncremental(t *testing.T) {
	db := setupTestDB(t)

	runner := NewRunner(db, mapFS(map[string]string{
		"001_first.sql": "CREATE TABLE a (id INTEGER);",
	}), SQLite)
	n, err := runner.Up(nil)
	if err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 migration applied, got %d", n)
	}

	runner = NewRunner(db, mapFS(map[string]string{
		"001_first.sql":  "CREATE TABLE a (id INTEGER);",
		"002_second.sql": "CREATE TABLE b (id INTEGER);",
	}), SQLite)

	var logs []string
	n, err = runner.Up(func(s string) { logs = append(logs, s) })
	if err != nil {
		t.Fatalf("second Up failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected only the new migration to apply, got %d", n)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	version, _, _ := runner.Versions()
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	n, err = runner.Up(nil)
	if err != nil || n != 0 {
		t.Errorf("expected no-op, got n=%d err=%v", n, err)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, mapFS(map[string]string{
		"001_good.sql": "CREATE TABLE good (id INTEGER);",
		"002_bad.sql":  "CREATE TABLE broken (id INTEGER;",
	}), SQLite)

	n, err := runner.Up(nil)
	if err == nil {
		t.Fatal("expected error from malformed migration")
	}
	if n != 1 {
		t.Errorf("expected 1 migration applied before failure, got %d", n)
	}

	version, _, _ := runner.Versions()
	if version != 1 {
		t.Errorf("expected version to stay at 1, got %d", version)
	}
}

func TestCheck(t *testing.T) {
	db := setupTestDB(t)
	files := map[string]string{"001_first.sql": "CREATE TABLE a (id INTEGER);"}
	runner := NewRunner(db, mapFS(files), SQLite)

	if err := runner.Check(); !errors.Is(err, ErrSchemaBehind) {
		t.Errorf("expected ErrSchemaBehind before migrating, got %v", err)
	}

	if _, err := runner.Up(nil); err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	if err := runner.Check(); err != nil {
		t.Errorf("expected valid version, got %v", err)
	}

	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("failed to bump version: %v", err)
	}
	if err := runner.Check(); !errors.Is(err, ErrSchemaNewer) {
		t.Errorf("expected ErrSchemaNewer, got %v", err)
	}
	if _, err := runner.Up(nil); !errors.Is(err, ErrSchemaNewer) {
		t.Errorf("Up on a newer schema should fail with ErrSchemaNewer, got %v", err)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		current, latest int
		want            error
	}{
		{2, 2, nil},
		{0, 0, nil},
		{1, 2, ErrSchemaBehind},
		{3, 2, ErrSchemaNewer},
	}
	for _, tt := range tests {
		err := Compare(tt.current, tt.latest)
		if tt.want == nil && err != nil {
			t.Errorf("Compare(%d, %d) = %v, want nil", tt.current, tt.latest, err)
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("Compare(%d, %d) = %v, want %v", tt.current, tt.latest, err, tt.want)
		}
	}
}

func TestFilenameValidation(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"missing underscore", map[string]string{"001.sql": "SELECT 1;"}},
		{"non numeric version", map[string]string{"abc_init.sql": "SELECT 1;"}},
		{"zero version", map[string]string{"000_init.sql": "SELECT 1;"}},
		{"duplicate version", map[string]string{"001_a.sql": "SELECT 1;", "001_b.sql": "SELECT 1;"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(nil, mapFS(tt.files), SQLite)
			if _, err := runner.Migrations(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEmbeddedSQLiteMigrationsApply(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, mustSub(t, "sqlite"), SQLite)

	if _, err := runner.Up(nil); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name='habits'").Scan(&count); err != nil {
		t.Fatalf("failed to query schema: %v", err)
	}
	if count != 1 {
		t.Error("habits table not created")
	}
}

func TestPlaceholder(t *testing.T) {
	if SQLite.placeholder(1) != "?" {
		t.Error("sqlite placeholder should be ?")
	}
	if Postgres.placeholder(2) != "$2" {
		t.Error("postgres placeholder should be $2")
	}
}

func mustSub(t *testing.T, dir string) fstest.MapFS {
	t.Helper()
	entries, err := migrations.FS.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read embedded %s migrations: %v", dir, err)
	}
	fsys := fstest.MapFS{}
	for _, e := range entries {
		data, err := migrations.FS.ReadFile(dir + "/" + e.Name())
		if err != nil {
			t.Fatalf("failed to read %s: %v", e.Name(), err)
		}
		fsys[e.Name()] = &fstest.MapFile{Data: data}
	}
	return fsys
}
