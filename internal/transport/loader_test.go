package transport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeeTable(t *testing.T) {
	input := `# delivery fees in COP
Bogotá,8000
BOGOTA D.C.,8000
Chía,5000

DEFAULT,20000
`
	cfg, err := parseFeeTable(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Len(t, cfg.FeeTable, 3)
	assert.True(t, cfg.FeeTable["BOGOTA"].Equal(decimal.NewFromInt(8000)))
	assert.True(t, cfg.FeeTable["CHIA"].Equal(decimal.NewFromInt(5000)))
	assert.True(t, cfg.DefaultFee.Equal(decimal.NewFromInt(20000)))
	assert.ElementsMatch(t, []string{"BOGOTA", "BOGOTA D.C.", "CHIA"}, cfg.Serviceable)
}

func TestParseFeeTable_MalformedLine(t *testing.T) {
	_, err := parseFeeTable(context.Background(), strings.NewReader("Bogotá;8000\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestParseFeeTable_InvalidFee(t *testing.T) {
	_, err := parseFeeTable(context.Background(), strings.NewReader("Bogotá,free\n"))
	assert.Error(t, err)
}

func TestParseFeeTable_NegativeFee(t *testing.T) {
	_, err := parseFeeTable(context.Background(), strings.NewReader("Bogotá,-5\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "negative fee")
}

func TestParseFeeTable_Empty(t *testing.T) {
	_, err := parseFeeTable(context.Background(), strings.NewReader("# nothing here\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty")

	// DEFAULT alone does not make a usable table either.
	_, err = parseFeeTable(context.Background(), strings.NewReader("DEFAULT,9000\n"))
	assert.Error(t, err)
}

func TestParseFeeTable_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := parseFeeTable(ctx, strings.NewReader("Bogotá,8000\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fees.csv")
	require.NoError(t, os.WriteFile(path, []byte("Chía,5000\nDEFAULT,15000\n"), 0o644))

	loader := NewFileLoader(zerolog.Nop())
	cfg, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	r := NewResolver(cfg, zerolog.Nop())
	assert.True(t, r.Resolve("chía").Equal(decimal.NewFromInt(5000)))
	assert.True(t, r.Resolve("Bogotá").Equal(decimal.NewFromInt(15000)))
	assert.True(t, r.IsServiceable("CHIA"))
	assert.False(t, r.IsServiceable("Bogotá"))
}

func TestFileLoader_Load_MissingFile(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
