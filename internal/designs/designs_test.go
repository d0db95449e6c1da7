package designs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/cabkit/internal/bom"
	"github.com/Simplici0/cabkit/internal/cabinet"
	"github.com/Simplici0/cabkit/internal/db"
	"github.com/Simplici0/cabkit/internal/migrations"
	"github.com/Simplici0/cabkit/internal/pricing"
	"github.com/Simplici0/cabkit/internal/sku"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "designs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(database))
	return NewRepository(database)
}

func exportAt(t *testing.T, p cabinet.Params, at time.Time) sku.Export {
	t.Helper()
	price := pricing.Calculate(p, pricing.DefaultCatalog().Get(p.PricingPreset))
	return sku.NewExport(p, price, bom.Build(cabinet.Generate(p, 0), p), at)
}

func TestLastParams_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, ok, err := repo.LastParams(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	p := cabinet.Defaults()
	p.Width = 812.5
	require.NoError(t, repo.SaveLastParams(ctx, p))
	p.ShelfCount = 3
	require.NoError(t, repo.SaveLastParams(ctx, p))

	got, ok, err := repo.LastParams(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, p, got)
}

func TestPresets_UpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	wide := cabinet.Defaults()
	wide.Width = 1200
	require.NoError(t, repo.SavePreset(ctx, "wide", cabinet.Defaults()))
	require.NoError(t, repo.SavePreset(ctx, "wide", wide))
	require.NoError(t, repo.SavePreset(ctx, "base", cabinet.Defaults()))

	presets, err := repo.Presets(ctx)
	require.NoError(t, err)
	assert.Len(t, presets, 2)
	assert.Equal(t, 1200.0, presets["wide"].Width)

	require.NoError(t, repo.DeletePreset(ctx, "wide"))
	assert.ErrorIs(t, repo.DeletePreset(ctx, "wide"), ErrNotFound)

	presets, err = repo.Presets(ctx)
	require.NoError(t, err)
	assert.NotContains(t, presets, "wide")
}

func TestQuotes_NewestFirstWithSearch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	single := cabinet.Defaults()
	single.DoorCount = 1
	tall := cabinet.Defaults()
	tall.Height = 2000

	first, err := repo.SaveQuote(ctx, exportAt(t, cabinet.Defaults(), base))
	require.NoError(t, err)
	_, err = repo.SaveQuote(ctx, exportAt(t, tall, base.Add(2*time.Hour)))
	require.NoError(t, err)
	_, err = repo.SaveQuote(ctx, exportAt(t, single, base.Add(time.Hour)))
	require.NoError(t, err)

	all, err := repo.ListQuotes(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, sku.Generate(tall), all[0].SKU)
	assert.Equal(t, sku.Generate(single), all[1].SKU)
	assert.Equal(t, first.ID, all[2].ID)
	assert.True(t, all[2].CreatedAt.Equal(base))
	assert.Greater(t, all[0].Total, 0.0)

	byDoors, err := repo.ListQuotes(ctx, "-D1-")
	require.NoError(t, err)
	require.Len(t, byDoors, 1)
	assert.Equal(t, sku.Generate(single), byDoors[0].SKU)

	byID, err := repo.ListQuotes(ctx, first.ID[:8])
	require.NoError(t, err)
	require.Len(t, byID, 1)
}

func TestGetQuote_ReturnsStoredDocument(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	exp := exportAt(t, cabinet.Defaults(), time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC))
	_, err := repo.SaveQuote(ctx, exp)
	require.NoError(t, err)

	got, err := repo.GetQuote(ctx, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, exp.SKU, got.SKU)
	assert.Equal(t, exp.Price, got.Price)
	assert.Equal(t, exp.Breakdown, got.Breakdown)
	assert.Len(t, got.BOM, len(exp.BOM))

	_, err = repo.GetQuote(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
