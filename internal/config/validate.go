package config

import (
	"fmt"
	"sort"
	"strings"
)

// fileAdapters are the store adapters that read and write a local file and
// therefore require a path.
var fileAdapters = map[string]bool{
	"sqlite": true,
	"duckdb": true,
}

// Validate checks the loaded configuration for values a run cannot proceed
// with. It validates shape only; adapter availability is checked when the
// store registry is asked to open one.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}

	if err := validateStore("raw", c.Raw.StoreConfig); err != nil {
		return err
	}
	if err := validateStore("derived", c.Derived); err != nil {
		return err
	}
	if c.Raw.Table == "" {
		return fmt.Errorf("raw.table is required")
	}

	if err := c.Ferry.validate(); err != nil {
		return err
	}

	if c.Seed.Competitors < 0 {
		return fmt.Errorf("seed.competitors must not be negative, got %d", c.Seed.Competitors)
	}
	if c.Report.DPI <= 0 {
		return fmt.Errorf("report.dpi must be positive, got %d", c.Report.DPI)
	}
	return nil
}

func validateStore(name string, s StoreConfig) error {
	if s.Adapter == "" {
		return fmt.Errorf("%s.adapter is required", name)
	}
	if fileAdapters[s.Adapter] && s.Path == "" {
		return fmt.Errorf("%s.path is required for the %s adapter", name, s.Adapter)
	}
	if s.Adapter == "postgres" {
		if s.Host == "" {
			return fmt.Errorf("%s.host is required for the postgres adapter", name)
		}
		if s.Database == "" {
			return fmt.Errorf("%s.database is required for the postgres adapter", name)
		}
	}
	return nil
}

func (f FerryConfig) validate() error {
	if f.Bounds.LatMin >= f.Bounds.LatMax {
		return fmt.Errorf("ferry.bounds: lat_min %v must be below lat_max %v", f.Bounds.LatMin, f.Bounds.LatMax)
	}
	if f.Bounds.LngMin >= f.Bounds.LngMax {
		return fmt.Errorf("ferry.bounds: lng_min %v must be below lng_max %v", f.Bounds.LngMin, f.Bounds.LngMax)
	}
	if f.PriceRange.Min >= f.PriceRange.Max {
		return fmt.Errorf("ferry.price_range: min %v must be below max %v", f.PriceRange.Min, f.PriceRange.Max)
	}

	// Each categorical field has four labels, so exactly three upper edges.
	if len(f.PriceBins) != 3 {
		return fmt.Errorf("ferry.price_bins must have exactly 3 edges, got %d", len(f.PriceBins))
	}
	if len(f.ZoneBins) != 3 {
		return fmt.Errorf("ferry.zone_bins must have exactly 3 edges, got %d", len(f.ZoneBins))
	}
	if len(f.TierBins) != 3 {
		return fmt.Errorf("ferry.tier_bins must have exactly 3 edges, got %d", len(f.TierBins))
	}
	if !sort.Float64sAreSorted(f.PriceBins) || f.PriceBins[0] == f.PriceBins[1] || f.PriceBins[1] == f.PriceBins[2] {
		return fmt.Errorf("ferry.price_bins must be strictly ascending, got %v", f.PriceBins)
	}
	if !sort.Float64sAreSorted(f.ZoneBins) || f.ZoneBins[0] == f.ZoneBins[1] || f.ZoneBins[1] == f.ZoneBins[2] {
		return fmt.Errorf("ferry.zone_bins must be strictly ascending, got %v", f.ZoneBins)
	}
	if !sort.IntsAreSorted(f.TierBins) || f.TierBins[0] == f.TierBins[1] || f.TierBins[1] == f.TierBins[2] {
		return fmt.Errorf("ferry.tier_bins must be strictly ascending, got %v", f.TierBins)
	}
	return nil
}
