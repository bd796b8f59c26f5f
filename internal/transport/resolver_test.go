package transport

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testResolver() *Resolver {
	return NewResolver(DefaultConfig(), zerolog.Nop())
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Bogotá", "BOGOTA"},
		{"BOGOTÁ D.C.", "BOGOTA D.C."},
		{"  chía  ", "CHIA"},
		{"Cajicá", "CAJICA"},
		{"Sopó", "SOPO"},
		{"medellín", "MEDELLIN"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in), "Normalize(%q)", tc.in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, city := range []string{"Bogotá", "CHÍA", "  Sopó ", "Cali"} {
		once := Normalize(city)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestResolve_KnownCities(t *testing.T) {
	r := testResolver()

	cases := []struct {
		city string
		fee  int64
	}{
		{"Bogotá", 8000},
		{"BOGOTA D.C.", 8000},
		{"Chía", 5000},
		{"cajicá", 8000},
		{"Sopó", 8000},
	}

	for _, tc := range cases {
		fee := r.Resolve(tc.city)
		assert.True(t, fee.Equal(decimal.NewFromInt(tc.fee)),
			"Resolve(%q) = %s, want %d", tc.city, fee, tc.fee)
	}
}

func TestResolve_UnknownCityFallsBackToDefault(t *testing.T) {
	r := testResolver()

	for _, city := range []string{"Medellín", "Cali", "", "Nowhere"} {
		fee := r.Resolve(city)
		assert.True(t, fee.Equal(decimal.NewFromInt(20000)),
			"Resolve(%q) = %s, want default 20000", city, fee)
	}
}

func TestIsServiceable(t *testing.T) {
	r := testResolver()

	assert.True(t, r.IsServiceable("Bogotá"))
	assert.True(t, r.IsServiceable("BOGOTÁ D.C."))
	assert.True(t, r.IsServiceable("  chía "))
	assert.False(t, r.IsServiceable("Medellín"))
	assert.False(t, r.IsServiceable("Cali"))
	assert.False(t, r.IsServiceable(""))
}

func TestNewResolver_NormalizesConfigKeys(t *testing.T) {
	cfg := &Config{
		FeeTable: map[string]decimal.Decimal{
			"Tunja ": decimal.NewFromInt(12000),
		},
		DefaultFee:  decimal.NewFromInt(30000),
		Serviceable: []string{"tunjá"},
	}
	r := NewResolver(cfg, zerolog.Nop())

	assert.True(t, r.Resolve("TUNJA").Equal(decimal.NewFromInt(12000)))
	assert.True(t, r.IsServiceable("Tunja"))
}

func TestNewResolver_NilConfigUsesDefaults(t *testing.T) {
	r := NewResolver(nil, zerolog.Nop())

	assert.True(t, r.IsServiceable("Bogota"))
	assert.True(t, r.Resolve("chia").Equal(decimal.NewFromInt(5000)))
}
