package currency

import (
	"fmt"
	"math"
)

// MinorUnitsPerUSDC is the number of stroops in one USDC (7 decimal places).
const MinorUnitsPerUSDC = 10_000_000

// rates maps a display currency to its USD exchange rate. Codes not listed
// here convert at 1:1 — deliberate fallback, not an error.
var rates = map[string]float64{
	"USD": 1.0,
	"EUR": 1.09,
	"GBP": 1.27,
	"MXN": 0.051,
}

// symbols maps a display currency to its presentation symbol.
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"MXN": "MX$",
}

// ToMinorUnits converts a fiat display amount to USDC stroops (7 decimals),
// truncating any sub-stroop remainder.
func ToMinorUnits(amount float64, code string) int64 {
	rate, ok := rates[code]
	if !ok {
		rate = 1.0
	}
	return int64(math.Floor(amount * rate * MinorUnitsPerUSDC))
}

// ToDisplayString formats a stroop amount as a USDC decimal string with two
// decimal places.
func ToDisplayString(minorUnits int64) string {
	return fmt.Sprintf("%.2f", float64(minorUnits)/MinorUnitsPerUSDC)
}

// Symbol returns the presentation symbol for a currency code, falling back
// to the code itself.
func Symbol(code string) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	return code
}

// Supported reports whether the code has an explicit exchange rate.
func Supported(code string) bool {
	_, ok := rates[code]
	return ok
}
