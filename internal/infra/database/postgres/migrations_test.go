package postgres

import (
	"strings"
	"testing"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	b, err := EmbeddedMigrations.ReadFile("migrations/" + name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(b)
}

// У каждой up-миграции должна быть парная down: откат — часть контракта.
func TestMigrationsComeInPairs(t *testing.T) {
	entries, err := EmbeddedMigrations.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded migrations")
	}

	ups := make(map[string]bool)
	downs := make(map[string]bool)
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file %q", name)
		}
	}
	for base := range ups {
		if !downs[base] {
			t.Errorf("%s has no down migration", base)
		}
	}
	for base := range downs {
		if !ups[base] {
			t.Errorf("%s has no up migration", base)
		}
	}
}

func TestAssetFilesMigration(t *testing.T) {
	up := readMigration(t, "000002_asset_files.up.sql")
	down := readMigration(t, "000002_asset_files.down.sql")

	t.Run("up creates the table and backfills", func(t *testing.T) {
		for _, want := range []string{
			"CREATE TABLE media.asset_files",
			"UNIQUE (asset_id, type)",
			"ON DELETE CASCADE",
			"INSERT INTO media.asset_files",
			"'preview'",
			"'thumbnail'",
			"WHERE preview_path IS NOT NULL",
			"WHERE thumbnail_path IS NOT NULL",
		} {
			if !strings.Contains(up, want) {
				t.Errorf("up migration missing %q", want)
			}
		}
		// легаси-колонки уходят вместе с переносом данных
		if !strings.Contains(up, "DROP COLUMN preview_path") ||
			!strings.Contains(up, "DROP COLUMN thumbnail_path") {
			t.Error("up migration keeps the legacy path columns")
		}
	})

	t.Run("down restores the legacy columns", func(t *testing.T) {
		for _, want := range []string{
			"ADD COLUMN preview_path",
			"ADD COLUMN thumbnail_path",
			"UPDATE media.assets",
			"DROP TABLE media.asset_files",
		} {
			if !strings.Contains(down, want) {
				t.Errorf("down migration missing %q", want)
			}
		}
	})
}

func TestInitMigration(t *testing.T) {
	up := readMigration(t, "000001_init.up.sql")
	for _, want := range []string{
		"CREATE SCHEMA IF NOT EXISTS media",
		"CREATE EXTENSION IF NOT EXISTS vector",
		"CREATE TABLE media.assets",
		"CREATE TABLE media.exif",
		"CREATE TABLE media.asset_faces",
		"CREATE TABLE media.smart_search",
		"vector(512)",
		"CREATE TABLE media.albums_assets",
	} {
		if !strings.Contains(up, want) {
			t.Errorf("init migration missing %q", want)
		}
	}
}
