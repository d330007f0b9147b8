package db

import (
	"path/filepath"
	"testing"
)

func tableExists(t *testing.T, path, table string) bool {
	t.Helper()
	conn, err := NewSQLiteConnection(DefaultConnectionConfig(path))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	var n int
	err = conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return n == 1
}

func TestMigrateUpFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")

	version, _, err := MigrationVersionFromPath(path)
	if err != nil {
		t.Fatalf("MigrationVersionFromPath: %v", err)
	}
	if version != 0 {
		t.Errorf("version before migrating = %d, want 0", version)
	}

	if err := MigrateUpFromPath(path); err != nil {
		t.Fatalf("MigrateUpFromPath: %v", err)
	}
	if !tableExists(t, path, "summary_runs") {
		t.Fatal("summary_runs was not created")
	}

	version, dirty, err := MigrationVersionFromPath(path)
	if err != nil {
		t.Fatalf("MigrationVersionFromPath: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("version = %d dirty = %v, want 1 clean", version, dirty)
	}

	// Second run has nothing to apply.
	if err := MigrateUpFromPath(path); err != nil {
		t.Errorf("second MigrateUpFromPath: %v", err)
	}
}

func TestMigrateDown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "down.db")
	if err := MigrateUpFromPath(path); err != nil {
		t.Fatalf("MigrateUpFromPath: %v", err)
	}

	conn, err := NewSQLiteConnection(DefaultConnectionConfig(path))
	if err != nil {
		t.Fatal(err)
	}
	if err := MigrateDown(conn, -1); err != nil {
		t.Fatalf("MigrateDown: %v", err)
	}
	if tableExists(t, path, "summary_runs") {
		t.Error("summary_runs should be dropped")
	}
}

func TestMigrateUp_NilConnection(t *testing.T) {
	if err := MigrateUp(nil); err == nil {
		t.Error("MigrateUp(nil) should fail")
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var up, down int
	for _, e := range entries {
		switch filepath.Ext(e.Name()[:len(e.Name())-len(".sql")]) {
		case ".up":
			up++
		case ".down":
			down++
		}
	}
	if up == 0 || up != down {
		t.Errorf("migrations: %d up, %d down", up, down)
	}
}
