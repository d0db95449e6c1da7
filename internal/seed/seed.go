package seed

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Simplici0/cabkit/internal/cabinet"
)

// CommonPresetName is the preset every installation starts with.
const CommonPresetName = "Standard 600x720 double"

// CommonPreset is the default cabinet with two shelves.
func CommonPreset() cabinet.Params {
	p := cabinet.Defaults()
	p.ShelfCount = 2
	return p
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensurePreset(tx, CommonPresetName, CommonPreset(), &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureDesignState(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensurePreset(tx *sql.Tx, name string, p cabinet.Params, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM presets WHERE name = ? LIMIT 1)`, name).Scan(&exists); err != nil {
		return fmt.Errorf("check preset existence: %w", err)
	}
	if exists {
		return nil
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preset %q: %w", name, err)
	}
	if _, err := tx.Exec(`INSERT INTO presets (name, params_json) VALUES (?, ?)`, name, string(raw)); err != nil {
		return fmt.Errorf("insert preset %q: %w", name, err)
	}
	stats.Inserts++
	return nil
}

func ensureDesignState(tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM design_state WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check design state existence: %w", err)
	}
	if exists {
		return nil
	}

	raw, err := json.Marshal(cabinet.Defaults())
	if err != nil {
		return fmt.Errorf("encode default params: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO design_state (id, params_json) VALUES (1, ?)`, string(raw)); err != nil {
		return fmt.Errorf("insert design state singleton: %w", err)
	}
	stats.Inserts++
	return nil
}
