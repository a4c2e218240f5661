package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/credit-simulator/pkg/datetime"
	"github.com/iwvelando/credit-simulator/pkg/insurance"
	"github.com/iwvelando/credit-simulator/pkg/loans"
	"github.com/iwvelando/credit-simulator/pkg/rates"
	"github.com/iwvelando/credit-simulator/pkg/schedule"
)

// ToSimulationInput converts the configuration into an engine input. A
// missing disbursement date becomes the calendar date of now, so the input
// handed to validation and the engine always carries one. Insurance terms
// given directly take precedence over the range table.
func (c *Configuration) ToSimulationInput(now time.Time) (loans.SimulationInput, error) {
	sim := c.Simulation
	var errs []error

	financingType, err := loans.ParseFinancingType(sim.FinancingType)
	errs = append(errs, err)
	mode, err := schedule.ParseMode(sim.PaymentScheduleMode)
	errs = append(errs, err)
	rateType, err := rates.ParseRateType(sim.InterestRateType)
	errs = append(errs, err)
	convention, err := rates.ParseDayCountConvention(sim.InterestDayCountConvention)
	errs = append(errs, err)
	accrual, err := insurance.ParseAccrualMethod(c.Insurance.AccrualMethod)
	errs = append(errs, err)

	disbursement, err := datetime.ParseDate(sim.DisbursementDate)
	if err != nil {
		errs = append(errs, fmt.Errorf("disbursementDate: %w", err))
	}
	firstPayment, err := datetime.ParseDate(sim.FirstPaymentDate)
	if err != nil {
		errs = append(errs, fmt.Errorf("firstPaymentDate: %w", err))
	}

	terms, _, err := c.Insurance.Terms(accrual, sim.Principal, sim.Installments)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return loans.SimulationInput{}, err
	}

	if disbursement.IsZero() {
		disbursement = datetime.TruncateToDate(now)
	}

	fallback := sim.FallbackOrDefault()
	if firstPayment.IsZero() && sim.DayOfMonth > 0 {
		firstPayment = schedule.FirstPaymentDateFor(disbursement, sim.DayOfMonth, fallback)
	}

	return loans.SimulationInput{
		FinancingType:              financingType,
		Principal:                  sim.Principal,
		AnnualRatePercent:          sim.AnnualRatePercent,
		Installments:               sim.Installments,
		FirstPaymentDate:           firstPayment,
		DisbursementDate:           disbursement,
		PaymentScheduleMode:        mode,
		DaysInterval:               sim.DaysInterval,
		DayOfMonth:                 sim.DayOfMonth,
		SemiMonthDay1:              sim.SemiMonthDay1,
		SemiMonthDay2:              sim.SemiMonthDay2,
		UseEndOfMonthFallback:      fallback,
		InterestRateType:           rateType,
		InterestDayCountConvention: convention,
		InsuranceAccrualMethod:     terms.AccrualMethod,
		InsuranceRatePercent:       terms.RatePercent,
		InsuranceFixedAmount:       terms.FixedAmount,
		InsuranceMinimumAmount:     terms.MinimumAmount,
	}, nil
}

// HasDirectTerms reports whether a rate or fixed amount was given directly.
func (ic InsuranceConfig) HasDirectTerms() bool {
	return ic.RatePercent != 0 || ic.FixedAmount != 0
}

// Terms resolves the insurance terms for a loan. The boolean reports whether
// a range was selected from the table.
func (ic InsuranceConfig) Terms(method insurance.AccrualMethod, principal float64, installments int) (insurance.Terms, bool, error) {
	if ic.HasDirectTerms() || len(ic.Ranges) == 0 {
		return insurance.Terms{
			AccrualMethod: method,
			RatePercent:   ic.RatePercent,
			FixedAmount:   ic.FixedAmount,
			MinimumAmount: ic.MinimumAmount,
		}, false, nil
	}

	metric, err := insurance.ParseMetric(ic.Metric)
	if err != nil {
		return insurance.Terms{}, false, err
	}
	terms, ok := insurance.Resolve(method, metric, ic.RateRanges(), principal, installments)
	if ok && terms.MinimumAmount == 0 {
		terms.MinimumAmount = ic.MinimumAmount
	}
	return terms, ok, nil
}

// RateRanges converts the configured table into insurance.RateRange values.
func (ic InsuranceConfig) RateRanges() []insurance.RateRange {
	ranges := make([]insurance.RateRange, len(ic.Ranges))
	for i, r := range ic.Ranges {
		ranges[i] = insurance.RateRange{
			MinValue:      r.MinValue,
			MaxValue:      r.MaxValue,
			RatePercent:   r.RatePercent,
			FixedAmount:   r.FixedAmount,
			MinimumAmount: r.MinimumAmount,
		}
	}
	return ranges
}
