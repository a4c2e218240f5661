package insurance

import (
	"fmt"
	"strings"
)

// Metric names the loan attribute used to pick a rate range.
type Metric string

const (
	// MetricTerm selects by installment count.
	MetricTerm Metric = "TERM"
	// MetricAmount selects by principal.
	MetricAmount Metric = "AMOUNT"
)

// Metrics lists every supported range metric.
var Metrics = []Metric{MetricTerm, MetricAmount}

// ParseMetric maps a case-insensitive name to a Metric. An empty value
// selects MetricTerm.
func ParseMetric(value string) (Metric, error) {
	normalized := Metric(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return MetricTerm, nil
	}
	for _, m := range Metrics {
		if m == normalized {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported insurance range metric %q, expected one of %v", value, Metrics)
}

// RateRange is one row of an insurer's rate table. Bounds are inclusive and a
// zero MaxValue leaves the range open above.
type RateRange struct {
	MinValue      float64
	MaxValue      float64
	RatePercent   float64
	FixedAmount   float64
	MinimumAmount float64
}

// Contains reports whether value falls inside the range.
func (r RateRange) Contains(value float64) bool {
	if value < r.MinValue {
		return false
	}
	return r.MaxValue == 0 || value <= r.MaxValue
}

// SelectRange returns the first range containing value.
func SelectRange(ranges []RateRange, value float64) (RateRange, bool) {
	for _, r := range ranges {
		if r.Contains(value) {
			return r, true
		}
	}
	return RateRange{}, false
}

// MetricValue returns the loan attribute a metric selects on.
func MetricValue(metric Metric, principal float64, installments int) float64 {
	switch metric {
	case MetricAmount:
		return principal
	default: // MetricTerm
		return float64(installments)
	}
}

// Resolve picks the range matching the loan and turns it into Terms. A
// non-zero fixed amount takes precedence over the percentage. When no range
// matches, the returned terms carry no charge.
func Resolve(method AccrualMethod, metric Metric, ranges []RateRange, principal float64, installments int) (Terms, bool) {
	selected, ok := SelectRange(ranges, MetricValue(metric, principal, installments))
	if !ok {
		return Terms{AccrualMethod: method}, false
	}

	terms := Terms{
		AccrualMethod: method,
		RatePercent:   selected.RatePercent,
		FixedAmount:   selected.FixedAmount,
		MinimumAmount: selected.MinimumAmount,
	}
	if terms.FixedAmount != 0 {
		terms.RatePercent = 0
	}
	return terms, true
}
