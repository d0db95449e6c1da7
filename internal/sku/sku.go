// Package sku builds the canonical product code of a cabinet and the export
// document that carries it.
package sku

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/cabkit/internal/bom"
	"github.com/Simplici0/cabkit/internal/cabinet"
	"github.com/Simplici0/cabkit/internal/pricing"
)

// ExportVersion is the schema version of Export documents.
const ExportVersion = 1

// Generate returns CAB-{w}x{h}x{d}-{material}-{handle}-D{doors}-S{shelves}-H{L|R}.
// p is expected to be normalized.
func Generate(p cabinet.Params) string {
	hinge := "L"
	if strings.HasPrefix(strings.ToUpper(string(p.HingeSide)), "R") {
		hinge = "R"
	}
	return fmt.Sprintf("CAB-%sx%sx%s-%s-%s-D%d-S%d-H%s",
		formatDim(p.Width), formatDim(p.Height), formatDim(p.Depth),
		p.Material, p.Handle, p.DoorCount, max(p.ShelfCount, 0), hinge)
}

func formatDim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Export is the JSON document handed to downstream systems.
type Export struct {
	ID        string            `json:"id"`
	Version   int               `json:"version"`
	SKU       string            `json:"sku"`
	Params    cabinet.Params    `json:"params"`
	Price     float64           `json:"price"`
	Currency  string            `json:"currency"`
	Breakdown pricing.Breakdown `json:"breakdown"`
	BOM       []bom.Row         `json:"bom"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewExport bundles a configuration into an Export stamped with now.
func NewExport(p cabinet.Params, price pricing.Result, rows []bom.Row, now time.Time) Export {
	return Export{
		ID:        uuid.NewString(),
		Version:   ExportVersion,
		SKU:       Generate(p),
		Params:    p,
		Price:     price.Totals.Total,
		Currency:  price.Currency,
		Breakdown: price.Breakdown,
		BOM:       rows,
		Timestamp: now.UTC(),
	}
}
