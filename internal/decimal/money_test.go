package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-pdf/internal/decimal"
)

func TestFromString(t *testing.T) {
	d, err := decimal.FromString("123456.78")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.RequireFromString("123456.78")))

	_, err = decimal.FromString("not-a-number")
	require.Error(t, err)
}

func TestSum(t *testing.T) {
	values := []dec.Decimal{
		dec.NewFromInt(100),
		dec.RequireFromString("250.5"),
		dec.RequireFromString("49.5"),
	}
	result := decimal.Sum(values)
	assert.True(t, result.Equal(dec.NewFromInt(400)))
}

func TestSum_Empty(t *testing.T) {
	assert.True(t, decimal.Sum(nil).IsZero())
}

func TestFormatTotal(t *testing.T) {
	tests := []struct {
		name  string
		total dec.Decimal
		float bool
		want  string
	}{
		{"integral from ints", dec.NewFromInt(400), false, "400"},
		{"integral from floats", dec.NewFromInt(400), true, "400.0"},
		{"fractional", dec.RequireFromString("400.25"), true, "400.25"},
		{"fractional trims zeros", dec.RequireFromString("400.50"), true, "400.5"},
		{"zero", dec.Zero, false, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decimal.FormatTotal(tt.total, tt.float))
		})
	}
}
