// Package transport resolves flat delivery fees by city and gates
// checkout on the service-area allow-list.
package transport

import (
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Config holds the resolver's fee table and service area. Keys of
// FeeTable and entries of Serviceable must already be normalized city
// names (trimmed, uppercased, accents stripped).
type Config struct {
	// FeeTable maps a normalized city name to its flat delivery fee.
	FeeTable map[string]decimal.Decimal

	// DefaultFee is charged when the city has no FeeTable entry.
	DefaultFee decimal.Decimal

	// Serviceable is the allow-list of cities orders may deliver to.
	Serviceable []string
}

// DefaultConfig returns the built-in service area and fee table.
func DefaultConfig() *Config {
	return &Config{
		FeeTable: map[string]decimal.Decimal{
			"BOGOTA":      decimal.NewFromInt(8000),
			"BOGOTA D.C.": decimal.NewFromInt(8000),
			"CHIA":        decimal.NewFromInt(5000),
			"CAJICA":      decimal.NewFromInt(8000),
			"SOPO":        decimal.NewFromInt(8000),
		},
		DefaultFee:  decimal.NewFromInt(20000),
		Serviceable: []string{"BOGOTA", "BOGOTA D.C.", "CHIA", "CAJICA", "SOPO"},
	}
}

// Resolver answers delivery-fee and serviceability questions for city
// names. It is read-only after construction.
type Resolver struct {
	feeTable    map[string]decimal.Decimal
	defaultFee  decimal.Decimal
	serviceable map[string]struct{}
	logger      zerolog.Logger
}

// NewResolver creates a resolver from the given configuration.
func NewResolver(cfg *Config, logger zerolog.Logger) *Resolver {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	logger = logger.With().Str("component", "transport-resolver").Logger()

	serviceable := make(map[string]struct{}, len(cfg.Serviceable))
	for _, city := range cfg.Serviceable {
		serviceable[Normalize(city)] = struct{}{}
	}

	feeTable := make(map[string]decimal.Decimal, len(cfg.FeeTable))
	for city, fee := range cfg.FeeTable {
		feeTable[Normalize(city)] = fee
	}

	logger.Info().
		Int("cities", len(feeTable)).
		Int("serviceable", len(serviceable)).
		Str("default_fee", cfg.DefaultFee.String()).
		Msg("transport resolver initialised")

	return &Resolver{
		feeTable:    feeTable,
		defaultFee:  cfg.DefaultFee,
		serviceable: serviceable,
		logger:      logger,
	}
}

// Resolve returns the flat delivery fee for a city. Unknown cities are
// priced at the default fee; Resolve never fails.
func (r *Resolver) Resolve(city string) decimal.Decimal {
	normalized := Normalize(city)

	if fee, ok := r.feeTable[normalized]; ok {
		return fee
	}

	r.logger.Debug().
		Str("city", normalized).
		Str("fee", r.defaultFee.String()).
		Msg("city not in fee table, using default fee")

	return r.defaultFee
}

// IsServiceable reports whether orders may deliver to the city. This
// is a hard gate applied before pricing, distinct from the fee lookup.
func (r *Resolver) IsServiceable(city string) bool {
	_, ok := r.serviceable[Normalize(city)]
	return ok
}

// stripAccents removes combining marks so "CHÍA" and "CHIA" compare
// equal. City names arrive in Spanish with inconsistent diacritics.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize trims surrounding whitespace, uppercases and strips
// diacritics from a city name.
func Normalize(city string) string {
	city = strings.ToUpper(strings.TrimSpace(city))
	if stripped, _, err := transform.String(stripAccents, city); err == nil {
		city = stripped
	}
	return city
}
