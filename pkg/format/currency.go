// Package format renders monetary amounts for display.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/credit-simulator/pkg/constants"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	return CurrencyWithPlaces(amount, constants.MoneyDecimalPlaces)
}

// CurrencyWithPlaces is Currency with an explicit number of decimals.
func CurrencyWithPlaces(amount float64, places int) string {
	formatted := formatPositive(math.Abs(amount), places)
	if amount < 0 && formatted != zeroString(places) {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64, places int) string {
	formatted := formatPositive(math.Abs(amount), places)
	if amount < 0 && formatted != zeroString(places) {
		return "-" + formatted
	}
	return formatted
}

func formatPositive(value float64, places int) string {
	if places < 0 {
		places = 0
	}
	formatted := strconv.FormatFloat(value, 'f', places, 64)
	intPart, decPart, hasDecimals := strings.Cut(formatted, ".")

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	if !hasDecimals {
		return intPart
	}
	return intPart + "." + decPart
}

func zeroString(places int) string {
	return formatPositive(0, places)
}
