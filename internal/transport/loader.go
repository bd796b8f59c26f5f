package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Loader reads a fee-table source into a resolver Config.
type Loader interface {
	// Load reads a fee table and returns the resolver configuration
	// it describes.
	Load(ctx context.Context, path string) (*Config, error)
}

// fileLoader implements Loader for local fee-table files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based fee-table loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "fee-table-loader").Logger(),
	}
}

// Load reads a fee-table file. Each line is "CITY,FEE"; the special
// city "DEFAULT" sets the fallback fee for unmapped cities. Every
// mapped city is part of the service area.
func (l *fileLoader) Load(ctx context.Context, path string) (*Config, error) {
	l.logger.Info().Str("file", path).Msg("loading transport fee table")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open fee table")
		return nil, fmt.Errorf("failed to open fee table %s: %w", path, err)
	}
	defer file.Close()

	cfg, err := parseFeeTable(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fee table %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("cities", len(cfg.FeeTable)).
		Msg("transport fee table loaded")

	return cfg, nil
}

// parseFeeTable reads "CITY,FEE" lines into a Config. Blank lines and
// lines starting with "#" are skipped.
func parseFeeTable(ctx context.Context, r io.Reader) (*Config, error) {
	cfg := &Config{
		FeeTable:   make(map[string]decimal.Decimal),
		DefaultFee: DefaultConfig().DefaultFee,
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		city, feeStr, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("line %d: expected CITY,FEE, got %q", lineNo, line)
		}

		fee, err := decimal.NewFromString(strings.TrimSpace(feeStr))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid fee %q: %w", lineNo, feeStr, err)
		}
		if fee.IsNegative() {
			return nil, fmt.Errorf("line %d: negative fee %s", lineNo, fee)
		}

		normalized := Normalize(city)
		if normalized == "DEFAULT" {
			cfg.DefaultFee = fee
			continue
		}

		cfg.FeeTable[normalized] = fee
		cfg.Serviceable = append(cfg.Serviceable, normalized)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading fee table: %w", err)
	}

	if len(cfg.FeeTable) == 0 {
		return nil, fmt.Errorf("fee table is empty")
	}

	return cfg, nil
}
