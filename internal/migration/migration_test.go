package migration

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/korastor/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mapFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

func TestReadMigrationFiles(t *testing.T) {
	runner := NewRunner(setupTestDB(t), mapFS(map[string]string{
		"003_another.sql": "CREATE TABLE test2 (id INTEGER);",
		"001_init.sql":    "CREATE TABLE test1 (id INTEGER);",
		"002_update.sql":  "ALTER TABLE test1 ADD COLUMN name TEXT;",
		"README.md":       "ignored",
	}), SQLite)

	got, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(got))
	}

	want := []struct {
		version int
		name    string
	}{{1, "init"}, {2, "update"}, {3, "another"}}
	for i, w := range want {
		if got[i].Version != w.version || got[i].Name != w.name {
			t.Errorf("migration %d = %d/%s, want %d/%s", i, got[i].Version, got[i].Name, w.version, w.name)
		}
	}
}

func TestReadMigrationFilesRejectsBadNames(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"no underscore", map[string]string{"001.sql": ""}, "invalid migration filename"},
		{"non numeric", map[string]string{"abc_init.sql": ""}, "invalid version number"},
		{"zero version", map[string]string{"000_init.sql": ""}, "at least 1"},
		{"duplicate", map[string]string{"001_a.sql": "", "1_b.sql": ""}, "duplicate migration version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(setupTestDB(t), mapFS(tt.files), SQLite)
			_, err := runner.ReadMigrationFiles()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ReadMigrationFiles() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestApplyFromScratch(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := NewRunner(db, mapFS(map[string]string{
		"001_init.sql":  "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);",
		"002_posts.sql": "CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER);",
	}), SQLite)

	var logged []string
	count, err := runner.Apply(ctx, func(s string) { logged = append(logged, s) })
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if len(logged) == 0 {
		t.Error("expected progress messages")
	}

	version, err := runner.CurrentVersion(ctx)
	if err != nil || version != 2 {
		t.Errorf("CurrentVersion() = %d, %v; want 2", version, err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='posts'").Scan(&n); err != nil || n != 1 {
		t.Error("posts table was not created")
	}

	again, err := runner.Apply(ctx, nil)
	if err != nil || again != 0 {
		t.Errorf("second Apply() = %d, %v; want 0, nil", again, err)
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(setupTestDB(t), mapFS(map[string]string{
		"001_init.sql":   "CREATE TABLE ok (id INTEGER);",
		"002_broken.sql": "CREATE TABLE nope (",
	}), SQLite)

	count, err := runner.Apply(ctx, nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if count != 1 {
		t.Errorf("applied = %d, want 1", count)
	}
	if v, _ := runner.CurrentVersion(ctx); v != 1 {
		t.Errorf("CurrentVersion() = %d, want 1", v)
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := NewRunner(db, mapFS(map[string]string{"001_init.sql": "CREATE TABLE t (id INTEGER);"}), SQLite)

	if _, err := runner.Apply(ctx, nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := runner.ValidateVersion(ctx); err != nil {
		t.Errorf("ValidateVersion() = %v, want nil", err)
	}

	if _, err := db.Exec("UPDATE schema_version SET version = 9"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	err := runner.ValidateVersion(ctx)
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("ValidateVersion() = %v, want newer-schema error", err)
	}
	if _, err := runner.Apply(ctx, nil); err == nil {
		t.Error("Apply() should refuse a newer database")
	}
}

func TestEmbeddedMigrationsApply(t *testing.T) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}
	db := setupTestDB(t)
	runner := NewRunner(db, sub, SQLite)
	if _, err := runner.Apply(context.Background(), nil); err != nil {
		t.Fatalf("embedded sqlite migrations failed: %v", err)
	}
	if _, err := db.Exec("INSERT INTO kv (key, value, updated_at) VALUES ('k', x'00', 1)"); err != nil {
		t.Errorf("kv table unusable: %v", err)
	}
}

func TestDialectBind(t *testing.T) {
	if SQLite.bind(1) != "?" || Postgres.bind(2) != "$2" {
		t.Errorf("bind() = %q / %q", SQLite.bind(1), Postgres.bind(2))
	}
}
