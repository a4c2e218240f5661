// Package insurance computes the credit insurance charged on each installment
// and resolves insurance terms from rate ranges.
package insurance

import (
	"fmt"
	"strings"

	"github.com/iwvelando/credit-simulator/pkg/mathutil"
)

// AccrualMethod controls whether insurance is charged once or on every installment.
type AccrualMethod string

const (
	OneTime        AccrualMethod = "ONE_TIME"
	PerInstallment AccrualMethod = "PER_INSTALLMENT"
)

// AccrualMethods lists every supported accrual method.
var AccrualMethods = []AccrualMethod{OneTime, PerInstallment}

// ParseAccrualMethod maps a case-insensitive name to an AccrualMethod. An
// empty value selects PerInstallment.
func ParseAccrualMethod(value string) (AccrualMethod, error) {
	normalized := AccrualMethod(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return PerInstallment, nil
	}
	for _, m := range AccrualMethods {
		if m == normalized {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported insurance accrual method %q, expected one of %v", value, AccrualMethods)
}

// Terms holds resolved insurance parameters for one simulation.
type Terms struct {
	AccrualMethod AccrualMethod
	RatePercent   float64
	FixedAmount   float64
	MinimumAmount float64
}

// Charge returns the insurance amount for the installment with the given
// 1-based index, rounded to places decimals.
//
// One-time insurance is charged on the first installment only and is based
// on the original principal; per-installment insurance is based on the
// installment's opening balance. A positive fixed amount replaces the
// percentage and a positive minimum lifts any non-zero charge.
func Charge(index int, openingBalance, principal float64, terms Terms, places int) float64 {
	var base float64
	switch terms.AccrualMethod {
	case OneTime:
		if index > 1 {
			return 0
		}
		base = principal
	default: // PerInstallment
		base = openingBalance
	}

	charge := mathutil.ApplyPercentage(base, terms.RatePercent)
	if terms.FixedAmount > 0 {
		charge = terms.FixedAmount
	}
	if terms.MinimumAmount > 0 && charge > 0 {
		charge = mathutil.Max(charge, terms.MinimumAmount)
	}
	return mathutil.RoundTo(charge, places)
}
