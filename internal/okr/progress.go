package okr

import (
	"strconv"
	"strings"
)

// DefaultCurrencySymbol is used for currency formatting when a key result
// does not carry its own symbol in the unit field.
const DefaultCurrencySymbol = "£"

// ComputeProgress returns the key result's completion percentage in [0, 100].
// A degenerate range (target == start) is defined as already met and returns
// exactly 100 regardless of the current value.
func ComputeProgress(kr KeyResult) float64 {
	span := kr.TargetValue - kr.StartValue
	if span == 0 {
		return 100
	}
	pct := (kr.CurrentValue - kr.StartValue) / span * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// FormatValue renders a raw value as a display string for the given metric
// type. The unit is the key result's free-text unit label; for currency it
// may carry the symbol, otherwise DefaultCurrencySymbol is used.
func FormatValue(metricType MetricType, value float64, unit string) string {
	switch metricType {
	case MetricPercentage:
		return formatNumber(value) + "%"
	case MetricCurrency:
		symbol := unit
		if symbol == "" {
			symbol = DefaultCurrencySymbol
		}
		if value < 0 {
			return "-" + symbol + groupThousands(-value)
		}
		return symbol + groupThousands(value)
	case MetricBoolean:
		if value > 0 {
			return "Yes"
		}
		return "No"
	default:
		if unit == "" {
			return formatNumber(value)
		}
		return formatNumber(value) + " " + unit
	}
}

// formatNumber renders a float without trailing zeros (20 -> "20", 20.5 -> "20.5").
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// groupThousands renders a non-negative value with comma-grouped integer
// digits, keeping the fractional part as-is (1234.5 -> "1,234.5").
func groupThousands(v float64) string {
	s := formatNumber(v)
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	n := len(intPart)
	if n > 3 {
		var b strings.Builder
		rem := n % 3
		if rem > 0 {
			b.WriteString(intPart[:rem])
		}
		for i := rem; i < n; i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}

	if hasFrac {
		return intPart + "." + fracPart
	}
	return intPart
}
