package db_test

import (
	"testing"
	"testing/fstest"

	"water-admin/internal/db"
	"water-admin/migrations"
)

func TestDiscoverMigrations_OrdersAndChecksums(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("SELECT 2;")},
		"001_first.sql":  {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("ignored")},
	}

	got, err := db.DiscoverMigrations(fsys)
	if err != nil {
		t.Fatalf("DiscoverMigrations failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(got))
	}
	if got[0].Version != "001" || got[1].Version != "002" {
		t.Errorf("unexpected order: %s, %s", got[0].Filename, got[1].Filename)
	}
	if got[0].Checksum == got[1].Checksum {
		t.Error("different files must have different checksums")
	}
}

func TestDiscoverMigrations_Rejects(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"duplicate version", fstest.MapFS{
			"001_a.sql": {Data: []byte("SELECT 1;")},
			"001_b.sql": {Data: []byte("SELECT 1;")},
		}},
		{"no version prefix", fstest.MapFS{
			"schema.sql": {Data: []byte("SELECT 1;")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := db.DiscoverMigrations(tt.fsys); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestEmbeddedMigrationsAreWellFormed(t *testing.T) {
	got, err := db.DiscoverMigrations(migrations.Files)
	if err != nil {
		t.Fatalf("embedded migrations invalid: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("no embedded migrations found")
	}
}
