// Package seed generates the synthetic Edmonton cafe dataset: six fixed
// Square One Coffee locations plus a configurable number of competitors,
// written to the raw store. Output is deterministic for a given seed so
// runs are reproducible.
package seed

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/squareone-research/cafeferry/internal/cafe"
	"github.com/squareone-research/cafeferry/internal/config"
)

// The six Square One Coffee locations. These always appear, in this order,
// ahead of the generated competitors.
var socNames = []string{
	"Square One Coffee - Oliver",
	"Square One Coffee - Downtown",
	"Square One Coffee - Whyte Avenue",
	"Square One Coffee - Westmount",
	"Square One Coffee - 124 Street",
	"Square One Coffee - Ritchie",
}

// Neighborhoods are assigned round-robin so every area of the city gets
// coverage regardless of how many competitors are generated.
var neighborhoods = []string{
	"Downtown", "Oliver", "Garneau", "Whyte Avenue", "Bonnie Doon",
	"Westmount", "Old Strathcona", "Ritchie", "Highlands", "Jasper Avenue",
	"Alberta Avenue", "124 Street", "Capilano", "Belgravia", "Riverdale",
}

// Competitor name parts.
var (
	namePrefixes = []string{"The", "Cafe", "Coffee", "Brew", "Bean", "Roast", "Morning", "Daily"}
	nameMiddles  = []string{"Central", "House", "Bar", "Shop", "Co", "Collective", "Studio", "Lab"}
	nameSuffixes = []string{"Cafe", "Coffee", "Roasters", "Co.", "House", "Bar", "Kitchen"}
)

// Categorical vocabularies.
var (
	cafeTypes      = []string{"specialty_coffee", "espresso_bar", "full_service_cafe", "coffee_shop", "roastery_cafe"}
	ownerships     = []string{"independent", "small_chain", "regional_chain", "national_chain"}
	ambiances      = []string{"modern_minimalist", "cozy_traditional", "industrial_chic", "community_hub", "grab_and_go"}
	parkingOptions = []string{"street_only", "nearby_lot", "dedicated_parking", "no_parking"}
	foodOptions    = []string{"pastries_only", "sandwiches_pastries", "full_menu", "none"}
	wifiOptions    = []string{"yes", "no", "limited"}
	streetNames    = []string{"Jasper Ave", "Whyte Ave", "124 St", "104 St", "82 Ave", "Gateway Blvd", "Calgary Trail"}
)

// Coordinate box the generator draws from. Deliberately tighter than the
// validator's plausibility bounds so clean output never trips a warning.
const (
	latMin = 53.45
	latMax = 53.62
	lngMin = -113.65
	lngMax = -113.40
)

// Generator produces the synthetic raw dataset.
type Generator struct {
	cfg    config.SeedConfig
	logger *slog.Logger
	now    time.Time
}

// Option customizes a Generator.
type Option func(*Generator)

// WithNow pins the timestamp recorded in created_at and updated_at.
func WithNow(now time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a generator for the given settings.
func New(cfg config.SeedConfig, logger *slog.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	g := &Generator{cfg: cfg, logger: logger, now: time.Now()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the full dataset: the six SOC locations followed by
// cfg.Competitors generated competitors, ids assigned sequentially from 1.
// The same seed always produces the same rows.
func (g *Generator) Generate() []cafe.Raw {
	rng := rand.New(rand.NewSource(g.cfg.Seed))

	names := make([]string, 0, len(socNames)+g.cfg.Competitors)
	names = append(names, socNames...)
	for i := 0; i < g.cfg.Competitors; i++ {
		names = append(names, competitorName(rng))
	}

	rows := make([]cafe.Raw, 0, len(names))
	for i, name := range names {
		rows = append(rows, g.row(rng, int64(i+1), name, i))
	}

	if g.cfg.Messy {
		injectDefects(rng, rows)
	}

	g.logger.Debug("generated dataset",
		"total", len(rows), "soc", len(socNames), "competitors", g.cfg.Competitors,
		"seed", g.cfg.Seed, "messy", g.cfg.Messy)
	return rows
}

// competitorName builds a two or three part name from the fixed vocabulary.
func competitorName(rng *rand.Rand) string {
	prefix := choice(rng, namePrefixes)
	middle := choice(rng, nameMiddles)
	if rng.Float64() < 0.3 {
		return prefix + " " + middle
	}
	return prefix + " " + middle + " " + choice(rng, nameSuffixes)
}

func (g *Generator) row(rng *rand.Rand, id int64, name string, idx int) cafe.Raw {
	soc := strings.Contains(strings.ToLower(name), cafe.SOCMarker)

	r := cafe.Raw{
		CafeID:       ptr(id),
		Name:         ptr(name),
		Neighborhood: ptr(neighborhoods[idx%len(neighborhoods)]),
		Latitude:     ptr(round6(uniform(rng, latMin, latMax))),
		Longitude:    ptr(round6(uniform(rng, lngMin, lngMax))),
		Address:      ptr(fmt.Sprintf("%d %s, Edmonton, AB", intBetween(rng, 100, 9999), choice(rng, streetNames))),
		Phone:        ptr(fmt.Sprintf("780-%d-%d", intBetween(rng, 100, 999), intBetween(rng, 1000, 9999))),
	}

	if soc {
		r.CafeType = ptr("specialty_coffee")
		r.Ownership = ptr("independent")
		r.AvgBeveragePrice = ptr(round2(uniform(rng, 4.50, 6.00)))
		r.HasFood = ptr("sandwiches_pastries")
		r.HasWifi = ptr("yes")
		r.SeatingCapacity = ptr(int64(intBetween(rng, 20, 45)))
		r.Ambiance = ptr("modern_minimalist")
		r.GoogleRating = ptr(round1(uniform(rng, 4.3, 4.8)))
		r.ReviewCount = ptr(int64(intBetween(rng, 150, 500)))
	} else {
		r.CafeType = ptr(choice(rng, cafeTypes))
		r.Ownership = ptr(choice(rng, ownerships))
		r.AvgBeveragePrice = ptr(round2(uniform(rng, 3.00, 7.50)))
		r.HasFood = ptr(choice(rng, foodOptions))
		r.HasWifi = ptr(choice(rng, wifiOptions))
		r.SeatingCapacity = ptr(int64(intBetween(rng, 10, 60)))
		r.Ambiance = ptr(choice(rng, ambiances))
		r.GoogleRating = ptr(round1(uniform(rng, 3.5, 4.9)))
		r.ReviewCount = ptr(int64(intBetween(rng, 20, 400)))
	}

	// Roughly a third of cafes have no website and a fifth no Instagram.
	if rng.Float64() > 0.3 {
		r.Website = ptr("https://" + slug(name) + ".com")
	}
	if rng.Float64() > 0.2 {
		r.InstagramHandle = ptr("@" + slug(name))
	}

	if rng.Float64() > 0.3 {
		r.HoursWeekday = ptr("7:00 AM - 6:00 PM")
	} else {
		r.HoursWeekday = ptr("6:30 AM - 7:00 PM")
	}
	if rng.Float64() > 0.3 {
		r.HoursWeekend = ptr("8:00 AM - 5:00 PM")
	} else {
		r.HoursWeekend = ptr("8:00 AM - 6:00 PM")
	}

	r.DateOpened = ptr(fmt.Sprintf("%d-%02d-01", intBetween(rng, 2010, 2024), intBetween(rng, 1, 12)))

	ts := g.now.Format("2006-01-02T15:04:05")
	r.CreatedAt = ptr(ts)
	r.UpdatedAt = ptr(ts)
	return r
}

// slug flattens a cafe name into a short handle: lowercase, spaces and
// hyphens removed, capped at 20 characters.
func slug(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	if len(s) > 20 {
		s = s[:20]
	}
	return s
}

func choice(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

// intBetween returns a random int in [min, max].
func intBetween(rng *rand.Rand, min, max int) int {
	return min + rng.Intn(max-min+1)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

func ptr[T any](v T) *T { return &v }
