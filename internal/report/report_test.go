package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squareone-research/cafeferry/internal/config"
	"github.com/squareone-research/cafeferry/internal/ferry"
	"github.com/squareone-research/cafeferry/internal/seed"
	"github.com/squareone-research/cafeferry/internal/store"
	"github.com/squareone-research/cafeferry/internal/testutil"
)

// buildDerivedStore seeds a raw store and ferries it into a derived store,
// returning the derived store config and the ferry parameters used.
func buildDerivedStore(t *testing.T) (config.StoreConfig, config.FerryConfig) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	rawCfg := config.StoreConfig{Adapter: "sqlite", Path: filepath.Join(dir, "raw.db")}
	derivedCfg := config.StoreConfig{Adapter: "sqlite", Path: filepath.Join(dir, "derived.db")}
	ferryCfg := config.Default().Ferry

	rows := seed.New(config.SeedConfig{Competitors: 24, Seed: 42}, nil).Generate()
	st, err := store.Open(ctx, rawCfg, nil)
	require.NoError(t, err)
	require.NoError(t, seed.WriteRaw(ctx, st, "cafes", rows))
	require.NoError(t, st.Close())

	_, err = ferry.New(ferry.Config{
		Raw:     config.RawConfig{StoreConfig: rawCfg, Table: "cafes"},
		Derived: derivedCfg,
		Ferry:   ferryCfg,
		Logger:  testutil.NewTestLogger(t),
	}).Run(ctx)
	require.NoError(t, err)

	return derivedCfg, ferryCfg
}

func testRunner(t *testing.T, outDir string) *Runner {
	t.Helper()
	derivedCfg, ferryCfg := buildDerivedStore(t)
	return New(Config{
		Derived: derivedCfg,
		Report:  config.ReportConfig{OutDir: outDir, DPI: 72},
		Ferry:   ferryCfg,
	})
}

// requirePNG fails unless path holds a non-trivial PNG file.
func requirePNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8, "%s is too small to be a PNG", path)
	magic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
	require.Equal(t, magic, data[:8], "%s is not a PNG", path)
}

func TestRunner_Market(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "reports")
	r := testRunner(t, outDir)

	res, err := r.Market(context.Background())
	require.NoError(t, err)

	assert.Equal(t, FamilyMarket, res.Family)
	want := []string{
		"g21_cafe_concentration.png",
		"g22_geographic_map.png",
		"g23_location_zones.png",
		"g31_price_distribution.png",
		"g32_price_categories.png",
		"g33_price_quality_map.png",
		"g41_cafe_type_distribution.png",
		"g42_ownership_structure.png",
		"g43_food_offerings.png",
	}
	require.Len(t, res.Artifacts, len(want))
	for i, a := range res.Artifacts {
		assert.Equal(t, want[i], a.Name)
		assert.Equal(t, filepath.Join(outDir, want[i]), a.Path)
		requirePNG(t, a.Path)
	}

	require.NotEmpty(t, res.Insights)
	assert.Contains(t, res.Insights[0], "30 total cafes analyzed")
	assert.Contains(t, res.Insights[1], "6 Square One Coffee locations")
	assert.Contains(t, res.Insights[2], "24 competitor cafes")
}

func TestRunner_Position(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "reports")
	r := testRunner(t, outDir)

	res, err := r.Position(context.Background())
	require.NoError(t, err)

	assert.Equal(t, FamilyPosition, res.Family)
	want := []string{
		"g51_metrics_comparison.png",
		"g52_positioning_matrix.png",
		"g53_market_share_zones.png",
		"g61_rating_distribution.png",
		"g62_quality_score.png",
		"g63_reputation_strength.png",
	}
	require.Len(t, res.Artifacts, len(want))
	for i, a := range res.Artifacts {
		assert.Equal(t, want[i], a.Name)
		requirePNG(t, a.Path)
	}

	require.Len(t, res.Insights, 5)
	assert.Contains(t, res.Insights[0], "SOC: 6 locations")
	assert.Contains(t, res.Insights[1], "Competitors: 24 cafes")
	assert.Contains(t, res.Insights[2], "Rating advantage:")
}

func TestRunner_All(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "reports")
	r := testRunner(t, outDir)

	results, err := r.All(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, FamilyMarket, results[0].Family)
	assert.Equal(t, FamilyPosition, results[1].Family)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 15)
}

func TestRunner_CreatesOutDir(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "nested", "deeper", "reports")
	r := testRunner(t, outDir)

	_, err := r.Market(context.Background())
	require.NoError(t, err)

	info, err := os.Stat(outDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRunner_EmptyStoreErrs(t *testing.T) {
	dir := t.TempDir()
	r := New(Config{
		Derived: config.StoreConfig{Adapter: "sqlite", Path: filepath.Join(dir, "empty.db")},
		Report:  config.ReportConfig{OutDir: filepath.Join(dir, "reports"), DPI: 72},
		Ferry:   config.Default().Ferry,
	})

	_, err := r.Market(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cafes_complete")
}

func TestRunner_MessyDataStillRenders(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	rawCfg := config.StoreConfig{Adapter: "sqlite", Path: filepath.Join(dir, "raw.db")}
	derivedCfg := config.StoreConfig{Adapter: "sqlite", Path: filepath.Join(dir, "derived.db")}
	ferryCfg := config.Default().Ferry

	rows := seed.New(config.SeedConfig{Competitors: 60, Seed: 7, Messy: true}, nil).Generate()
	st, err := store.Open(ctx, rawCfg, nil)
	require.NoError(t, err)
	require.NoError(t, seed.WriteRaw(ctx, st, "cafes", rows))
	require.NoError(t, st.Close())

	_, err = ferry.New(ferry.Config{
		Raw:     config.RawConfig{StoreConfig: rawCfg, Table: "cafes"},
		Derived: derivedCfg,
		Ferry:   ferryCfg,
		Logger:  testutil.NewTestLogger(t),
	}).Run(ctx)
	require.NoError(t, err)

	r := New(Config{
		Derived: derivedCfg,
		Report:  config.ReportConfig{OutDir: filepath.Join(dir, "reports"), DPI: 72},
		Ferry:   ferryCfg,
	})
	results, err := r.All(ctx)
	require.NoError(t, err)
	for _, res := range results {
		for _, a := range res.Artifacts {
			requirePNG(t, a.Path)
		}
	}
}
