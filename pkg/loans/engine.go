package loans

import (
	"time"

	"github.com/iwvelando/credit-simulator/pkg/constants"
	"github.com/iwvelando/credit-simulator/pkg/datetime"
	"github.com/iwvelando/credit-simulator/pkg/insurance"
	"github.com/iwvelando/credit-simulator/pkg/mathutil"
	"github.com/iwvelando/credit-simulator/pkg/rates"
	"github.com/iwvelando/credit-simulator/pkg/schedule"
	"go.uber.org/zap"
)

// Engine runs amortization simulations. It holds no per-simulation state and
// is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
	now    func() time.Time
	places int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used when an input has no disbursement date.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithPrecision sets the number of decimals monetary amounts are rounded to.
func WithPrecision(places int) Option {
	return func(e *Engine) {
		if places >= 0 {
			e.places = places
		}
	}
}

// NewEngine creates a new engine instance
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger: logger,
		now:    time.Now,
		places: constants.MoneyDecimalPlaces,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Simulate produces the installment table and summary for a loan. The input
// must satisfy the boundary validation (positive principal and installment
// count, first payment date set); it is neither modified nor retained.
func (e *Engine) Simulate(input SimulationInput) SimulationResult {
	disbursement := input.DisbursementDate
	if disbursement.IsZero() {
		disbursement = e.now()
	}

	dueDates := schedule.BuildDueDates(input.ScheduleParams())
	days := ElapsedDays(disbursement, dueDates)
	periodRates := make([]float64, len(days))
	for i, d := range days {
		periodRates[i] = rates.PeriodRate(input.AnnualRatePercent, d, input.InterestRateType, input.InterestDayCountConvention)
	}

	// The schedule is built on the amount financed at the output precision.
	amount := mathutil.RoundTo(input.Principal, e.places)
	terms := input.InsuranceTerms()
	result := SimulationResult{Precision: e.places}

	var levelPayment float64
	if input.FinancingType == FixedAmount && input.Installments > 1 {
		report := SolveLevelPayment(SolverParams{
			Principal:   amount,
			PeriodRates: periodRates,
			Insurance:   terms,
			Places:      e.places,
		})
		levelPayment = report.Payment
		result.Solver = &report

		if !report.Converged {
			e.logger.Warn("level payment search did not amortize the loan within its bound",
				zap.String("op", "loans.Simulate"),
				zap.Float64("principal", amount),
				zap.Int("installments", input.Installments),
				zap.Float64("payment", report.Payment),
				zap.Float64("terminalBalance", report.TerminalBalance),
			)
		}
	}

	equalPrincipal := mathutil.RoundTo(amount/float64(max(input.Installments, 1)), e.places)

	installments := make([]SimulationInstallment, 0, len(dueDates))
	balance := amount
	last := len(dueDates) - 1

	for i, due := range dueDates {
		opening := balance

		interestBase := opening
		if input.FinancingType == FlatInterest {
			interestBase = amount
		}
		interest := mathutil.RoundTo(interestBase*periodRates[i], e.places)
		charge := insurance.Charge(i+1, opening, amount, terms, e.places)

		var principal float64
		switch {
		case i == last:
			principal = opening
		case input.FinancingType == FixedAmount:
			principal = mathutil.Clamp(levelPayment-interest-charge, 0, opening)
		default: // DecliningBalance, FlatInterest
			principal = mathutil.Clamp(equalPrincipal, 0, opening)
		}
		principal = mathutil.RoundTo(principal, e.places)

		closing := mathutil.RoundTo(opening-principal, e.places)
		if i == last {
			closing = 0
		}

		inst := SimulationInstallment{
			InstallmentNumber: i + 1,
			DueDate:           due,
			Days:              days[i],
			OpeningBalance:    opening,
			Principal:         principal,
			Interest:          interest,
			Insurance:         charge,
			Payment:           mathutil.RoundTo(principal+interest+charge, e.places),
			ClosingBalance:    closing,
		}
		installments = append(installments, inst)
		balance = closing
	}

	result.Installments = installments
	result.Summary = Summarize(installments, e.places)

	if !mathutil.WithinTolerance(result.Summary.TotalPrincipal, amount, constants.CurrencyTolerance) {
		e.logger.Warn("repaid principal does not match the amount financed",
			zap.String("op", "loans.Simulate"),
			zap.Float64("principal", amount),
			zap.Float64("totalPrincipal", result.Summary.TotalPrincipal),
		)
	}

	e.logger.Debug("simulated credit schedule",
		zap.String("op", "loans.Simulate"),
		zap.String("financingType", string(input.FinancingType)),
		zap.String("scheduleMode", string(input.PaymentScheduleMode)),
		zap.Int("installments", len(installments)),
		zap.Float64("totalInterest", result.Summary.TotalInterest),
		zap.Float64("totalPayment", result.Summary.TotalPayment),
		zap.Bool("converged", result.Converged()),
	)

	return result
}

// ElapsedDays returns, for each due date, the days since the previous due
// date, counting the first period from disbursement.
func ElapsedDays(disbursement time.Time, dueDates []time.Time) []int {
	days := make([]int, len(dueDates))
	prev := disbursement
	for i, due := range dueDates {
		days[i] = datetime.DaysBetween(prev, due)
		prev = due
	}
	return days
}
