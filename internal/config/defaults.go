package config

// Default configuration values.
const (
	DefaultEnv         = "dev"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultRawAdapter  = "sqlite"
	DefaultRawPath     = "data/raw/edmonton_cafes.db"
	DefaultRawTable    = "cafes"
	DefaultDerivedPath = "data/derived/competition_intel.db"
	DefaultReportDir   = "reports"
	DefaultReportDPI   = 300
	DefaultCompetitors = 24
	DefaultSeed        = 42
)

// Default returns a Config populated with every default value. The loader
// layers file, environment, and flag values on top of this.
func Default() *Config {
	return &Config{
		Env: DefaultEnv,
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Raw: RawConfig{
			StoreConfig: StoreConfig{Adapter: DefaultRawAdapter, Path: DefaultRawPath},
			Table:       DefaultRawTable,
		},
		Derived: StoreConfig{Adapter: DefaultRawAdapter, Path: DefaultDerivedPath},
		Ferry: FerryConfig{
			Bounds:     Bounds{LatMin: 53.40, LatMax: 53.70, LngMin: -113.70, LngMax: -113.30},
			Downtown:   Point{Lat: 53.5444, Lng: -113.4909},
			PriceRange: Range{Min: 2.00, Max: 10.00},
			PriceBins:  []float64{3.50, 5.00, 6.50},
			ZoneBins:   []float64{2, 5, 10},
			TierBins:   []int{0, 1, 2},
		},
		Seed: SeedConfig{
			Competitors: DefaultCompetitors,
			Seed:        DefaultSeed,
		},
		Report: ReportConfig{
			OutDir: DefaultReportDir,
			DPI:    DefaultReportDPI,
		},
	}
}

// defaultMap renders Default() as dotted koanf keys.
func defaultMap() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"env":                   d.Env,
		"logging.level":         d.Logging.Level,
		"logging.format":        d.Logging.Format,
		"raw.adapter":           d.Raw.Adapter,
		"raw.path":              d.Raw.Path,
		"raw.table":             d.Raw.Table,
		"derived.adapter":       d.Derived.Adapter,
		"derived.path":          d.Derived.Path,
		"ferry.bounds.lat_min":  d.Ferry.Bounds.LatMin,
		"ferry.bounds.lat_max":  d.Ferry.Bounds.LatMax,
		"ferry.bounds.lng_min":  d.Ferry.Bounds.LngMin,
		"ferry.bounds.lng_max":  d.Ferry.Bounds.LngMax,
		"ferry.downtown.lat":    d.Ferry.Downtown.Lat,
		"ferry.downtown.lng":    d.Ferry.Downtown.Lng,
		"ferry.price_range.min": d.Ferry.PriceRange.Min,
		"ferry.price_range.max": d.Ferry.PriceRange.Max,
		"ferry.price_bins":      d.Ferry.PriceBins,
		"ferry.zone_bins":       d.Ferry.ZoneBins,
		"ferry.tier_bins":       d.Ferry.TierBins,
		"seed.competitors":      d.Seed.Competitors,
		"seed.seed":             d.Seed.Seed,
		"seed.messy":            d.Seed.Messy,
		"report.out_dir":        d.Report.OutDir,
		"report.dpi":            d.Report.DPI,
	}
}
