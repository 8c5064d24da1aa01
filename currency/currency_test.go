package currency

import (
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	t.Run("USD at par", func(t *testing.T) {
		assert.Equal(t, int64(100_000_000), ToMinorUnits(10.00, "USD"))
	})

	t.Run("EUR applies rate", func(t *testing.T) {
		assert.Equal(t, int64(109_000_000), ToMinorUnits(10.00, "EUR"))
	})

	t.Run("MXN applies rate", func(t *testing.T) {
		assert.Equal(t, int64(5_100_000), ToMinorUnits(10.00, "MXN"))
	})

	t.Run("unknown code falls back to 1:1", func(t *testing.T) {
		assert.Equal(t, ToMinorUnits(42.50, "USD"), ToMinorUnits(42.50, "XYZ"))
	})

	t.Run("truncates sub-stroop remainders", func(t *testing.T) {
		// 0.00000015 USD is 1.5 stroops, floored to 1
		assert.Equal(t, int64(1), ToMinorUnits(0.00000015, "USD"))
	})
}

func TestToDisplayString(t *testing.T) {
	assert.Equal(t, "10.00", ToDisplayString(100_000_000))
	assert.Equal(t, "0.50", ToDisplayString(5_000_000))
	assert.Equal(t, "0.00", ToDisplayString(0))
}

// Converting to stroops and formatting back must land within one cent of the
// original amount for supported currencies at par; non-par rates round-trip
// through the rate instead, so compare against amount*rate.
func TestRoundTripWithinOneCent(t *testing.T) {
	for _, code := range []string{"USD", "EUR", "GBP", "MXN"} {
		t.Run(code, func(t *testing.T) {
			for _, amount := range []float64{0.01, 1.00, 9.99, 123.45, 10000.00} {
				minor := ToMinorUnits(amount, code)
				got, err := strconv.ParseFloat(ToDisplayString(minor), 64)
				assert.NoError(t, err)
				want := amount * rates[code]
				assert.LessOrEqual(t, math.Abs(got-want), 0.01,
					fmt.Sprintf("%s %.2f round-tripped to %.2f", code, amount, got))
			}
		})
	}
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "$", Symbol("USD"))
	assert.Equal(t, "€", Symbol("EUR"))
	assert.Equal(t, "£", Symbol("GBP"))
	assert.Equal(t, "MX$", Symbol("MXN"))
	assert.Equal(t, "JPY", Symbol("JPY"))
}
