// Package rates converts quoted interest rates into per-period rates.
package rates

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/credit-simulator/pkg/constants"
)

// RateType identifies how a quoted rate is expressed.
type RateType string

const (
	NominalAnnual    RateType = "NOMINAL_ANNUAL"
	NominalMonthly   RateType = "NOMINAL_MONTHLY"
	EffectiveAnnual  RateType = "EFFECTIVE_ANNUAL"
	EffectiveMonthly RateType = "EFFECTIVE_MONTHLY"
	MonthlyFlat      RateType = "MONTHLY_FLAT"
)

// RateTypes lists every supported rate type.
var RateTypes = []RateType{NominalAnnual, NominalMonthly, EffectiveAnnual, EffectiveMonthly, MonthlyFlat}

// ParseRateType maps a case-insensitive name to a RateType. An empty value
// selects NominalAnnual.
func ParseRateType(value string) (RateType, error) {
	normalized := RateType(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return NominalAnnual, nil
	}
	for _, rt := range RateTypes {
		if rt == normalized {
			return rt, nil
		}
	}
	return "", fmt.Errorf("unsupported interest rate type %q, expected one of %v", value, RateTypes)
}

// DayCountConvention selects the year basis used to turn days into a year fraction.
type DayCountConvention string

const (
	Thirty360    DayCountConvention = "30_360"
	Actual360    DayCountConvention = "ACTUAL_360"
	Actual365    DayCountConvention = "ACTUAL_365"
	ActualActual DayCountConvention = "ACTUAL_ACTUAL"
)

// DayCountConventions lists every supported day-count convention.
var DayCountConventions = []DayCountConvention{Thirty360, Actual360, Actual365, ActualActual}

// ParseDayCountConvention maps a case-insensitive name to a convention. An
// empty value selects Thirty360.
func ParseDayCountConvention(value string) (DayCountConvention, error) {
	normalized := DayCountConvention(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return Thirty360, nil
	}
	for _, dc := range DayCountConventions {
		if dc == normalized {
			return dc, nil
		}
	}
	return "", fmt.Errorf("unsupported day count convention %q, expected one of %v", value, DayCountConventions)
}

// BaseDays returns the number of days in a year under the convention.
func BaseDays(convention DayCountConvention) float64 {
	switch convention {
	case Actual365:
		return constants.DaysPerYear365
	case ActualActual:
		return constants.DaysPerYearActual
	default: // Thirty360, Actual360
		return constants.DaysPerYear360
	}
}

// PeriodRate converts an annual percentage into the decimal rate that applies
// to a period of the given length in days.
func PeriodRate(annualRatePercent float64, days int, rateType RateType, convention DayCountConvention) float64 {
	if annualRatePercent == 0 {
		return 0
	}

	rateDecimal := annualRatePercent / constants.PercentageMultiplier
	monthFraction := float64(days) / constants.DaysPerMonth
	yearFraction := float64(days) / BaseDays(convention)

	switch rateType {
	case EffectiveAnnual:
		return math.Pow(1+rateDecimal, yearFraction) - 1
	case EffectiveMonthly:
		return math.Pow(1+rateDecimal, monthFraction) - 1
	case NominalMonthly, MonthlyFlat:
		return rateDecimal * monthFraction
	default: // NominalAnnual
		return rateDecimal * yearFraction
	}
}
