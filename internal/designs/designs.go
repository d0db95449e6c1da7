// Package designs persists editor state, named presets and saved exports in
// SQLite.
package designs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Simplici0/cabkit/internal/cabinet"
)

var ErrNotFound = errors.New("not found")

// Repository is the SQLite-backed store. It satisfies configurator.Persister.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// LastParams returns the most recently saved editor parameters. ok is false
// when nothing was saved yet.
func (r *Repository) LastParams(ctx context.Context) (p cabinet.Params, ok bool, err error) {
	var raw string
	err = r.db.QueryRowContext(ctx, `SELECT params_json FROM design_state WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return cabinet.Params{}, false, nil
	}
	if err != nil {
		return cabinet.Params{}, false, fmt.Errorf("query last params: %w", err)
	}
	p, err = decodeParams(raw)
	if err != nil {
		return cabinet.Params{}, false, fmt.Errorf("decode last params: %w", err)
	}
	return p, true, nil
}

func (r *Repository) SaveLastParams(ctx context.Context, p cabinet.Params) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode last params: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO design_state (id, params_json, updated_at)
		VALUES (1, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT (id) DO UPDATE SET
			params_json = excluded.params_json,
			updated_at = excluded.updated_at
	`, string(raw)); err != nil {
		return fmt.Errorf("upsert last params: %w", err)
	}
	return nil
}

// Presets returns every named preset. Rows that fail to decode are skipped.
func (r *Repository) Presets(ctx context.Context) (map[string]cabinet.Params, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, params_json FROM presets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query presets: %w", err)
	}
	defer rows.Close()

	presets := make(map[string]cabinet.Params)
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		p, err := decodeParams(raw)
		if err != nil {
			continue
		}
		presets[name] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate presets: %w", err)
	}
	return presets, nil
}

// SavePreset inserts or replaces the preset called name.
func (r *Repository) SavePreset(ctx context.Context, name string, p cabinet.Params) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO presets (name, params_json)
		VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET
			params_json = excluded.params_json,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, name, string(raw)); err != nil {
		return fmt.Errorf("upsert preset %q: %w", name, err)
	}
	return nil
}

func (r *Repository) DeletePreset(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM presets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete preset %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete preset %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("preset %q: %w", name, ErrNotFound)
	}
	return nil
}

// decodeParams overlays stored JSON onto the defaults so rows written before
// a field existed still load.
func decodeParams(raw string) (cabinet.Params, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return cabinet.Params{}, err
	}
	return cabinet.ParseRaw(m), nil
}
