// Package config provides configuration management for the cafeferry CLI.
//
// Configuration is layered with koanf. Precedence, highest to lowest:
// CLI flags > environment variables (CAFEFERRY_ prefix) > config file
// (cafeferry.yaml) > built-in defaults. Every tunable the pipeline honors,
// including the geographic bounds and bin edges the ferry derives fields
// from, lives here so it stays externally adjustable without a rebuild.
package config

// Config holds all cafeferry configuration options.
type Config struct {
	Env     string        `koanf:"env"`
	Logging LoggingConfig `koanf:"logging"`
	Raw     RawConfig     `koanf:"raw"`
	Derived StoreConfig   `koanf:"derived"`
	Ferry   FerryConfig   `koanf:"ferry"`
	Seed    SeedConfig    `koanf:"seed"`
	Report  ReportConfig  `koanf:"report"`
}

// LoggingConfig controls the slog handler the CLI installs.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text, json
}

// StoreConfig describes one relational store. File adapters (sqlite, duckdb)
// use Path; the postgres adapter uses the connection fields.
type StoreConfig struct {
	Adapter  string `koanf:"adapter"`
	Path     string `koanf:"path"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"sslmode"`
}

// RawConfig is the raw store plus the table the ferry reads from it.
type RawConfig struct {
	StoreConfig `koanf:",squash"`
	Table       string `koanf:"table"`
}

// FerryConfig carries the transformation constants. The defaults reproduce
// the reference dataset; changing them changes derived output, not behavior.
type FerryConfig struct {
	Bounds     Bounds    `koanf:"bounds"`
	Downtown   Point     `koanf:"downtown"`
	PriceRange Range     `koanf:"price_range"`
	PriceBins  []float64 `koanf:"price_bins"` // upper edges, last bin open-ended
	ZoneBins   []float64 `koanf:"zone_bins"`
	TierBins   []int     `koanf:"tier_bins"`
}

// Bounds is a geographic bounding box.
type Bounds struct {
	LatMin float64 `koanf:"lat_min"`
	LatMax float64 `koanf:"lat_max"`
	LngMin float64 `koanf:"lng_min"`
	LngMax float64 `koanf:"lng_max"`
}

// Contains reports whether the coordinate pair falls inside the box,
// boundaries included.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lng >= b.LngMin && lng <= b.LngMax
}

// Point is a single geographic reference coordinate.
type Point struct {
	Lat float64 `koanf:"lat"`
	Lng float64 `koanf:"lng"`
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `koanf:"min"`
	Max float64 `koanf:"max"`
}

// Contains reports whether v falls inside the range, boundaries included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// SeedConfig controls the synthetic dataset generator.
type SeedConfig struct {
	Competitors int   `koanf:"competitors"`
	Seed        int64 `koanf:"seed"`
	Messy       bool  `koanf:"messy"`
}

// ReportConfig controls chart artifact output.
type ReportConfig struct {
	OutDir string `koanf:"out_dir"`
	DPI    int    `koanf:"dpi"`
}
