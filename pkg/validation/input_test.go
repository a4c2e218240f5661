package validation

import (
	"math"
	"testing"
	"time"

	"github.com/iwvelando/credit-simulator/pkg/datetime"
	"github.com/iwvelando/credit-simulator/pkg/insurance"
	"github.com/iwvelando/credit-simulator/pkg/loans"
	"github.com/iwvelando/credit-simulator/pkg/rates"
	"github.com/iwvelando/credit-simulator/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() loans.SimulationInput {
	return loans.SimulationInput{
		FinancingType:              loans.FixedAmount,
		Principal:                  10000,
		AnnualRatePercent:          12,
		Installments:               12,
		FirstPaymentDate:           datetime.Date(2024, 2, 15),
		DisbursementDate:           datetime.Date(2024, 1, 15),
		PaymentScheduleMode:        schedule.MonthlyCalendar,
		DaysInterval:               30,
		SemiMonthDay1:              15,
		SemiMonthDay2:              30,
		UseEndOfMonthFallback:      true,
		InterestRateType:           rates.NominalAnnual,
		InterestDayCountConvention: rates.Thirty360,
		InsuranceAccrualMethod:     insurance.PerInstallment,
	}
}

func TestValidateSimulationInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*loans.SimulationInput)
		wantErr string
	}{
		{name: "valid input", mutate: func(*loans.SimulationInput) {}},
		{name: "zero principal", mutate: func(in *loans.SimulationInput) { in.Principal = 0 }, wantErr: "principal"},
		{name: "NaN principal", mutate: func(in *loans.SimulationInput) { in.Principal = math.NaN() }, wantErr: "principal"},
		{name: "negative rate", mutate: func(in *loans.SimulationInput) { in.AnnualRatePercent = -1 }, wantErr: "annual rate"},
		{name: "zero rate is allowed", mutate: func(in *loans.SimulationInput) { in.AnnualRatePercent = 0 }},
		{name: "no installments", mutate: func(in *loans.SimulationInput) { in.Installments = 0 }, wantErr: "installments"},
		{name: "too many installments", mutate: func(in *loans.SimulationInput) { in.Installments = 5000 }, wantErr: "installments"},
		{name: "missing first payment", mutate: func(in *loans.SimulationInput) { in.FirstPaymentDate = time.Time{} }, wantErr: "first payment date is required"},
		{name: "first payment before disbursement", mutate: func(in *loans.SimulationInput) { in.DisbursementDate = datetime.Date(2024, 3, 1) }, wantErr: "precedes disbursement"},
		{name: "same day disbursement", mutate: func(in *loans.SimulationInput) { in.DisbursementDate = in.FirstPaymentDate }},
		{name: "interval needs days", mutate: func(in *loans.SimulationInput) {
			in.PaymentScheduleMode = schedule.IntervalDays
			in.DaysInterval = 0
		}, wantErr: "days interval"},
		{name: "semi-monthly day out of range", mutate: func(in *loans.SimulationInput) {
			in.PaymentScheduleMode = schedule.SemiMonthly
			in.SemiMonthDay2 = 32
		}, wantErr: "semi-monthly days must be between"},
		{name: "semi-monthly days equal", mutate: func(in *loans.SimulationInput) {
			in.PaymentScheduleMode = schedule.SemiMonthly
			in.SemiMonthDay2 = 15
		}, wantErr: "must differ"},
		{name: "unknown mode", mutate: func(in *loans.SimulationInput) { in.PaymentScheduleMode = "WEEKLY" }, wantErr: "payment schedule mode"},
		{name: "day of month out of range", mutate: func(in *loans.SimulationInput) { in.DayOfMonth = 40 }, wantErr: "day of month"},
		{name: "unknown financing type", mutate: func(in *loans.SimulationInput) { in.FinancingType = "BALLOON" }, wantErr: "financing type"},
		{name: "unknown rate type", mutate: func(in *loans.SimulationInput) { in.InterestRateType = "DAILY" }, wantErr: "interest rate type"},
		{name: "unknown day count", mutate: func(in *loans.SimulationInput) { in.InterestDayCountConvention = "30E_360" }, wantErr: "day count"},
		{name: "unknown accrual", mutate: func(in *loans.SimulationInput) { in.InsuranceAccrualMethod = "YEARLY" }, wantErr: "accrual method"},
		{name: "negative insurance minimum", mutate: func(in *loans.SimulationInput) { in.InsuranceMinimumAmount = -5 }, wantErr: "insurance minimum amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := ValidateSimulationInput(in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateSimulationInputAtUsesClockWithoutDisbursement(t *testing.T) {
	in := validInput()
	in.DisbursementDate = time.Time{}

	later := time.Date(2026, time.October, 15, 11, 0, 0, 0, time.UTC)
	err := ValidateSimulationInputAt(in, later)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precedes disbursement date 2026-10-15")

	earlier := time.Date(2024, time.January, 10, 23, 0, 0, 0, time.UTC)
	assert.NoError(t, ValidateSimulationInputAt(in, earlier))
	assert.NoError(t, ValidateSimulationInputAt(in, datetime.Date(2024, 2, 15)), "same day as the first payment")
}

func TestValidateSimulationInputReportsAllProblems(t *testing.T) {
	in := validInput()
	in.Principal = -1
	in.Installments = 0
	in.InsuranceRatePercent = -2

	err := ValidateSimulationInput(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "principal")
	assert.Contains(t, err.Error(), "installments")
	assert.Contains(t, err.Error(), "insurance rate")
}

func TestSimulationWarnings(t *testing.T) {
	in := validInput()
	assert.Empty(t, SimulationWarnings(in))

	in.UseEndOfMonthFallback = false
	in.DayOfMonth = 20
	in.InsuranceFixedAmount = 5
	in.InsuranceRatePercent = 0.1

	warnings := SimulationWarnings(in)
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "useEndOfMonthFallback")
	assert.Contains(t, warnings[1], "dayOfMonth 20")
	assert.Contains(t, warnings[2], "fixed amount")
}

func TestSimulationWarningsIntervalIgnoresFallback(t *testing.T) {
	in := validInput()
	in.PaymentScheduleMode = schedule.IntervalDays
	in.UseEndOfMonthFallback = false
	assert.Empty(t, SimulationWarnings(in))
}
