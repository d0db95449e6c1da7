package designs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Simplici0/cabkit/internal/sku"
)

// Fixed width so created_at sorts as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// QuoteSummary is one row of the saved-export listing.
type QuoteSummary struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku"`
	Currency  string    `json:"currency"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

// SaveQuote stores an export document.
func (r *Repository) SaveQuote(ctx context.Context, exp sku.Export) (QuoteSummary, error) {
	raw, err := json.Marshal(exp)
	if err != nil {
		return QuoteSummary{}, fmt.Errorf("encode export: %w", err)
	}
	created := exp.Timestamp.UTC()
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO quotes (id, sku, currency, total, export_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, exp.ID, exp.SKU, exp.Currency, exp.Price, string(raw), created.Format(createdAtLayout)); err != nil {
		return QuoteSummary{}, fmt.Errorf("insert quote: %w", err)
	}
	return QuoteSummary{
		ID:        exp.ID,
		SKU:       exp.SKU,
		Currency:  exp.Currency,
		Total:     exp.Price,
		CreatedAt: created,
	}, nil
}

// ListQuotes returns saved exports newest first. A non-empty query matches
// the SKU or id as a substring.
func (r *Repository) ListQuotes(ctx context.Context, query string) ([]QuoteSummary, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sku, currency, total, created_at
		FROM quotes
		WHERE (? = '' OR sku LIKE ? OR id LIKE ?)
		ORDER BY created_at DESC, rowid DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]QuoteSummary, 0)
	for rows.Next() {
		var (
			item      QuoteSummary
			createdAt string
		)
		if err := rows.Scan(&item.ID, &item.SKU, &item.Currency, &item.Total, &createdAt); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		item.CreatedAt, _ = time.Parse(createdAtLayout, createdAt)
		quotes = append(quotes, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}
	return quotes, nil
}

// GetQuote returns the stored export document as saved, without recomputing.
func (r *Repository) GetQuote(ctx context.Context, id string) (sku.Export, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT export_json FROM quotes WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return sku.Export{}, fmt.Errorf("quote %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return sku.Export{}, fmt.Errorf("query quote: %w", err)
	}

	var exp sku.Export
	if err := json.Unmarshal([]byte(raw), &exp); err != nil {
		return sku.Export{}, fmt.Errorf("decode quote %q: %w", id, err)
	}
	return exp, nil
}
