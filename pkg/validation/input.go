package validation

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/iwvelando/credit-simulator/pkg/constants"
	"github.com/iwvelando/credit-simulator/pkg/datetime"
	"github.com/iwvelando/credit-simulator/pkg/insurance"
	"github.com/iwvelando/credit-simulator/pkg/loans"
	"github.com/iwvelando/credit-simulator/pkg/rates"
	"github.com/iwvelando/credit-simulator/pkg/schedule"
)

// ValidateSimulationInput enforces the preconditions the engine relies on.
// All problems found are returned together.
func ValidateSimulationInput(in loans.SimulationInput) error {
	return ValidateSimulationInputAt(in, time.Now())
}

// ValidateSimulationInputAt validates like ValidateSimulationInput. An input
// without a disbursement date is checked against the calendar date of now,
// which is what the engine disburses on when given the same clock.
func ValidateSimulationInputAt(in loans.SimulationInput, now time.Time) error {
	var errs []error
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if !slices.Contains(loans.FinancingTypes, in.FinancingType) {
		add("unsupported financing type %q", in.FinancingType)
	}
	if !isFinite(in.Principal) || in.Principal <= 0 {
		add("principal must be a positive amount, got %v", in.Principal)
	}
	if !isFinite(in.AnnualRatePercent) || in.AnnualRatePercent < 0 {
		add("annual rate must be zero or positive, got %v", in.AnnualRatePercent)
	}
	if in.Installments <= 0 || in.Installments > constants.MaxInstallments {
		add("installments must be between 1 and %d, got %d", constants.MaxInstallments, in.Installments)
	}

	disbursement := in.DisbursementDate
	if disbursement.IsZero() {
		disbursement = datetime.TruncateToDate(now)
	}
	if in.FirstPaymentDate.IsZero() {
		add("first payment date is required")
	} else if datetime.DaysBetween(disbursement, in.FirstPaymentDate) < 0 {
		add("first payment date %s precedes disbursement date %s",
			datetime.FormatDate(in.FirstPaymentDate), datetime.FormatDate(disbursement))
	}

	switch in.PaymentScheduleMode {
	case schedule.IntervalDays:
		if in.DaysInterval <= 0 {
			add("days interval must be positive for %s, got %d", schedule.IntervalDays, in.DaysInterval)
		}
	case schedule.MonthlyCalendar:
	case schedule.SemiMonthly:
		if !validDayOfMonth(in.SemiMonthDay1) || !validDayOfMonth(in.SemiMonthDay2) {
			add("semi-monthly days must be between 1 and 31, got %d and %d", in.SemiMonthDay1, in.SemiMonthDay2)
		} else if in.SemiMonthDay1 == in.SemiMonthDay2 {
			add("semi-monthly days must differ, got %d twice", in.SemiMonthDay1)
		}
	default:
		add("unsupported payment schedule mode %q", in.PaymentScheduleMode)
	}
	if in.DayOfMonth != 0 && !validDayOfMonth(in.DayOfMonth) {
		add("day of month must be between 1 and 31, got %d", in.DayOfMonth)
	}

	if !slices.Contains(rates.RateTypes, in.InterestRateType) {
		add("unsupported interest rate type %q", in.InterestRateType)
	}
	if !slices.Contains(rates.DayCountConventions, in.InterestDayCountConvention) {
		add("unsupported day count convention %q", in.InterestDayCountConvention)
	}
	if !slices.Contains(insurance.AccrualMethods, in.InsuranceAccrualMethod) {
		add("unsupported insurance accrual method %q", in.InsuranceAccrualMethod)
	}
	for name, v := range map[string]float64{
		"insurance rate":           in.InsuranceRatePercent,
		"insurance fixed amount":   in.InsuranceFixedAmount,
		"insurance minimum amount": in.InsuranceMinimumAmount,
	} {
		if !isFinite(v) || v < 0 {
			add("%s must be zero or positive, got %v", name, v)
		}
	}

	return errors.Join(errs...)
}

// SimulationWarnings lists settings that are accepted but have no or
// surprising effect.
func SimulationWarnings(in loans.SimulationInput) []string {
	var warnings []string

	if !in.UseEndOfMonthFallback && in.PaymentScheduleMode != schedule.IntervalDays {
		warnings = append(warnings, "useEndOfMonthFallback=false has no effect: due dates past month end always move to the last day of the month")
	}
	if in.PaymentScheduleMode == schedule.MonthlyCalendar && in.DayOfMonth != 0 &&
		!in.FirstPaymentDate.IsZero() && in.DayOfMonth != in.FirstPaymentDate.Day() {
		warnings = append(warnings, fmt.Sprintf(
			"dayOfMonth %d differs from the first payment date %s; monthly due dates follow the first payment date",
			in.DayOfMonth, datetime.FormatDate(in.FirstPaymentDate)))
	}
	if in.InsuranceFixedAmount > 0 && in.InsuranceRatePercent > 0 {
		warnings = append(warnings, "insurance fixed amount is set, the insurance rate percentage is ignored")
	}
	return warnings
}

func validDayOfMonth(day int) bool {
	return day >= 1 && day <= 31
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
