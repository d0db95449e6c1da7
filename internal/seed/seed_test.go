package seed

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/cabkit/internal/db"
	"github.com/Simplici0/cabkit/internal/migrations"
)

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	for i := 0; i < 10; i++ {
		stats, err := Run(database)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 2 {
				t.Fatalf("expected 2 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM presets WHERE name = ?`, CommonPresetName, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM design_state WHERE id = 1`, nil, 1)
}

func TestRunKeepsEditedPreset(t *testing.T) {
	t.Parallel()

	database, err := db.Open(filepath.Join(t.TempDir(), "seed-edit.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := database.Exec(`INSERT INTO presets (name, params_json) VALUES (?, ?)`, CommonPresetName, `{"width":900}`); err != nil {
		t.Fatalf("insert edited preset: %v", err)
	}

	stats, err := Run(database)
	if err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if stats.Inserts != 1 {
		t.Fatalf("expected only the design state insert, got %d", stats.Inserts)
	}

	var raw string
	if err := database.QueryRow(`SELECT params_json FROM presets WHERE name = ?`, CommonPresetName).Scan(&raw); err != nil {
		t.Fatalf("query preset: %v", err)
	}
	if raw != `{"width":900}` {
		t.Fatalf("seed overwrote edited preset: %s", raw)
	}
}

func TestCommonPreset(t *testing.T) {
	p := CommonPreset()
	if p.Width != 600 || p.Height != 720 || p.DoorCount != 2 || p.ShelfCount != 2 {
		t.Fatalf("unexpected common preset: %+v", p)
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
