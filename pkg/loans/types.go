// Package loans simulates credit amortization schedules.
package loans

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/credit-simulator/pkg/insurance"
	"github.com/iwvelando/credit-simulator/pkg/rates"
	"github.com/iwvelando/credit-simulator/pkg/schedule"
)

// FinancingType selects how the principal is repaid.
type FinancingType string

const (
	// FixedAmount charges a constant payment per installment, solved so that
	// the balance reaches zero on the last installment. Interest accrues on
	// the opening balance.
	FixedAmount FinancingType = "FIXED_AMOUNT"
	// DecliningBalance repays equal principal portions with interest on the
	// opening balance, so payments decrease over time.
	DecliningBalance FinancingType = "DECLINING_BALANCE"
	// FlatInterest repays equal principal portions with interest on the
	// original principal.
	FlatInterest FinancingType = "FLAT_INTEREST"
)

// FinancingTypes lists every supported financing type.
var FinancingTypes = []FinancingType{FixedAmount, DecliningBalance, FlatInterest}

// ParseFinancingType maps a case-insensitive name to a FinancingType. An
// empty value selects FixedAmount.
func ParseFinancingType(value string) (FinancingType, error) {
	normalized := FinancingType(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return FixedAmount, nil
	}
	for _, ft := range FinancingTypes {
		if ft == normalized {
			return ft, nil
		}
	}
	return "", fmt.Errorf("unsupported financing type %q, expected one of %v", value, FinancingTypes)
}

// SimulationInput holds fully resolved financing parameters. Insurance rate
// and fixed amount are expected to be resolved by the caller already.
type SimulationInput struct {
	FinancingType     FinancingType
	Principal         float64
	AnnualRatePercent float64
	Installments      int

	FirstPaymentDate time.Time
	// DisbursementDate defaults to the engine clock when zero.
	DisbursementDate time.Time

	PaymentScheduleMode   schedule.Mode
	DaysInterval          int
	DayOfMonth            int
	SemiMonthDay1         int
	SemiMonthDay2         int
	UseEndOfMonthFallback bool

	InterestRateType           rates.RateType
	InterestDayCountConvention rates.DayCountConvention

	InsuranceAccrualMethod insurance.AccrualMethod
	InsuranceRatePercent   float64
	InsuranceFixedAmount   float64
	InsuranceMinimumAmount float64
}

// ScheduleParams extracts the due date layout from the input.
func (in SimulationInput) ScheduleParams() schedule.Params {
	return schedule.Params{
		FirstPaymentDate:      in.FirstPaymentDate,
		Installments:          in.Installments,
		Mode:                  in.PaymentScheduleMode,
		DaysInterval:          in.DaysInterval,
		DayOfMonth:            in.DayOfMonth,
		SemiMonthDay1:         in.SemiMonthDay1,
		SemiMonthDay2:         in.SemiMonthDay2,
		UseEndOfMonthFallback: in.UseEndOfMonthFallback,
	}
}

// InsuranceTerms extracts the resolved insurance parameters from the input.
func (in SimulationInput) InsuranceTerms() insurance.Terms {
	return insurance.Terms{
		AccrualMethod: in.InsuranceAccrualMethod,
		RatePercent:   in.InsuranceRatePercent,
		FixedAmount:   in.InsuranceFixedAmount,
		MinimumAmount: in.InsuranceMinimumAmount,
	}
}

// SimulationInstallment is one row of the schedule.
type SimulationInstallment struct {
	InstallmentNumber int       `json:"installmentNumber"`
	DueDate           time.Time `json:"dueDate"`
	Days              int       `json:"days"`
	OpeningBalance    float64   `json:"openingBalance"`
	Principal         float64   `json:"principal"`
	Interest          float64   `json:"interest"`
	Insurance         float64   `json:"insurance"`
	Payment           float64   `json:"payment"`
	ClosingBalance    float64   `json:"closingBalance"`
}

// SimulationSummary aggregates the schedule.
type SimulationSummary struct {
	TotalPrincipal          float64 `json:"totalPrincipal"`
	TotalInterest           float64 `json:"totalInterest"`
	TotalInsurance          float64 `json:"totalInsurance"`
	TotalPayment            float64 `json:"totalPayment"`
	FirstInstallmentPayment float64 `json:"firstInstallmentPayment"`
	MaxInstallmentPayment   float64 `json:"maxInstallmentPayment"`
	MinInstallmentPayment   float64 `json:"minInstallmentPayment"`
}

// SimulationResult is everything a simulation produces.
type SimulationResult struct {
	Summary      SimulationSummary       `json:"summary"`
	Installments []SimulationInstallment `json:"installments"`
	// Precision is the number of decimals amounts were rounded to.
	Precision int `json:"precision"`
	// Solver is set only when a level payment was searched for.
	Solver *SolverReport `json:"solver,omitempty"`
}

// Converged reports whether the schedule's payment amount was found to fully
// amortize the loan. Simulations that did not need a search always converge.
func (r SimulationResult) Converged() bool {
	return r.Solver == nil || r.Solver.Converged
}
