package loans

import (
	"math"

	"github.com/iwvelando/credit-simulator/pkg/constants"
	"github.com/iwvelando/credit-simulator/pkg/insurance"
	"github.com/iwvelando/credit-simulator/pkg/mathutil"
)

// SolverParams holds what the level payment search needs to replay a schedule.
type SolverParams struct {
	Principal   float64
	PeriodRates []float64
	Insurance   insurance.Terms
	Places      int
}

// SolverReport describes the outcome of a level payment search.
type SolverReport struct {
	// Payment is the rounded level payment.
	Payment float64 `json:"payment"`
	// Converged is false when no payment below the search cap amortized the
	// loan; Payment is then the cap-bound best effort and the last
	// installment absorbs the shortfall.
	Converged       bool    `json:"converged"`
	Expansions      int     `json:"expansions"`
	Iterations      int     `json:"iterations"`
	TerminalBalance float64 `json:"terminalBalance"`
}

// RemainingBalance replays the schedule with a constant payment and returns
// the balance left after the last installment. Each principal portion is the
// payment less interest and insurance, kept between zero and the opening
// balance, so the result is never negative.
func RemainingBalance(p SolverParams, payment float64) float64 {
	balance := p.Principal
	for i, rate := range p.PeriodRates {
		opening := balance
		interest := mathutil.RoundTo(opening*rate, p.Places)
		charge := insurance.Charge(i+1, opening, p.Principal, p.Insurance, p.Places)
		principal := mathutil.Clamp(payment-interest-charge, 0, opening)
		balance = mathutil.RoundTo(opening-principal, p.Places)
	}
	return balance
}

func amortizes(remaining float64) bool {
	return mathutil.IsFinite(remaining) && remaining <= 0
}

// SolveLevelPayment searches for the smallest constant payment that brings
// the balance to zero by the last installment.
//
// The upper bound starts at one installment's share of the principal and
// grows by SolverExpansionFactor until it amortizes or reaches
// SolverUpperBoundMultiple times the principal. A fixed number of bisection
// steps then narrows the bracket, so the work done depends only on the
// installment count.
func SolveLevelPayment(p SolverParams) SolverReport {
	n := len(p.PeriodRates)
	if n == 0 {
		return SolverReport{Converged: true}
	}

	low := 0.0
	high := math.Max(1, p.Principal/float64(n))
	limit := p.Principal * constants.SolverUpperBoundMultiple

	report := SolverReport{}
	bracketed := false
	for high < limit {
		if amortizes(RemainingBalance(p, high)) {
			bracketed = true
			break
		}
		high *= constants.SolverExpansionFactor
		report.Expansions++
	}
	if !bracketed {
		bracketed = amortizes(RemainingBalance(p, high))
	}

	for i := 0; i < constants.SolverBisectionIterations; i++ {
		mid := (low + high) / 2
		if amortizes(RemainingBalance(p, mid)) {
			high = mid
		} else {
			low = mid
		}
		report.Iterations++
	}

	report.Payment = mathutil.RoundTo(high, p.Places)
	report.Converged = bracketed
	report.TerminalBalance = RemainingBalance(p, report.Payment)
	return report
}
