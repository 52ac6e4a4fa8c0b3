// Package money holds the numeric coercion and currency formatting rules shared by
// the engine, the data loaders and every presentation surface.
package money

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Parse converts operator or sheet text into a decimal. Currency and percent signs,
// thousands separators and whitespace are ignored; anything else that is not a
// number yields zero.
func Parse(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FromAny converts a decoded sheet cell into a decimal, zero when non-numeric
func FromAny(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(n)
	case float32:
		return FromAny(float64(n))
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case json.Number:
		return Parse(n.String())
	case string:
		return Parse(n)
	}
	return decimal.Zero
}

// NonPositive returns -|d|; deductions are always stored this way
func NonPositive(d decimal.Decimal) decimal.Decimal {
	return d.Abs().Neg()
}

// Format renders an amount as "$1,234.50" or "-$12.00"
func Format(d decimal.Decimal) string {
	f := d.Round(2).InexactFloat64()
	if f < 0 {
		return "-$" + printer.Sprintf("%.2f", -f)
	}
	return "$" + printer.Sprintf("%.2f", f)
}

// FormatDeduction renders an amount as a deduction, always "-$x.xx"
func FormatDeduction(d decimal.Decimal) string {
	return "-$" + printer.Sprintf("%.2f", d.Abs().Round(2).InexactFloat64())
}

// FormatPercent renders a percentage value such as 25 as "25.00%"
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

// FormatBoxes renders a box count without rounding; fractional boxes are valid
func FormatBoxes(d decimal.Decimal) string {
	return d.String()
}
