package loans

import (
	"testing"
	"time"

	"github.com/iwvelando/credit-simulator/pkg/datetime"
	"github.com/iwvelando/credit-simulator/pkg/insurance"
	"github.com/iwvelando/credit-simulator/pkg/rates"
	"github.com/iwvelando/credit-simulator/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference cases agreed with the credit operations team.

func TestReferenceZeroRateTwelveInstallments(t *testing.T) {
	input := SimulationInput{
		FinancingType:              FixedAmount,
		Principal:                  1200000,
		AnnualRatePercent:          0,
		Installments:               12,
		DisbursementDate:           datetime.Date(2025, time.March, 1),
		FirstPaymentDate:           datetime.Date(2025, time.March, 31),
		PaymentScheduleMode:        schedule.IntervalDays,
		DaysInterval:               30,
		InterestRateType:           rates.NominalAnnual,
		InterestDayCountConvention: rates.Thirty360,
		InsuranceAccrualMethod:     insurance.PerInstallment,
	}
	result := simulate(t, input)
	assertScheduleInvariants(t, input, result)

	for _, inst := range result.Installments {
		assert.InDelta(t, 100000, inst.Principal, 0.01)
	}
	assert.Equal(t, 0.0, result.Summary.TotalInterest)
	assert.Equal(t, 1200000.0, result.Summary.TotalPayment)
}

func TestReferenceSingleInstallmentNominalAnnual(t *testing.T) {
	input := SimulationInput{
		FinancingType:              FixedAmount,
		Principal:                  1000000,
		AnnualRatePercent:          24,
		Installments:               1,
		DisbursementDate:           datetime.Date(2025, time.April, 1),
		FirstPaymentDate:           datetime.Date(2025, time.May, 1),
		PaymentScheduleMode:        schedule.IntervalDays,
		DaysInterval:               30,
		InterestRateType:           rates.NominalAnnual,
		InterestDayCountConvention: rates.Thirty360,
	}
	result := simulate(t, input)

	inst := result.Installments[0]
	assert.Equal(t, 30, inst.Days)
	assert.Equal(t, 20000.0, inst.Interest)
	assert.Equal(t, 1020000.0, inst.Payment)
	assert.Equal(t, 0.0, inst.ClosingBalance)
	assert.Equal(t, 1020000.0, result.Summary.TotalPayment)
}

func TestReferenceSemiMonthlySecondDate(t *testing.T) {
	input := SimulationInput{
		FinancingType:              FixedAmount,
		Principal:                  500000,
		AnnualRatePercent:          18,
		Installments:               4,
		DisbursementDate:           datetime.Date(2025, time.June, 1),
		FirstPaymentDate:           datetime.Date(2025, time.June, 10),
		PaymentScheduleMode:        schedule.SemiMonthly,
		SemiMonthDay1:              15,
		SemiMonthDay2:              30,
		InterestRateType:           rates.NominalAnnual,
		InterestDayCountConvention: rates.Actual360,
	}
	result := simulate(t, input)
	assertScheduleInvariants(t, input, result)

	assert.Equal(t, datetime.Date(2025, time.June, 15), result.Installments[1].DueDate)
	assert.Equal(t, datetime.Date(2025, time.June, 30), result.Installments[2].DueDate)
	assert.Equal(t, datetime.Date(2025, time.July, 15), result.Installments[3].DueDate)
}

func TestReferenceMonthlyCalendarEndOfMonth(t *testing.T) {
	for _, year := range []int{2025, 2028} {
		input := SimulationInput{
			FinancingType:              DecliningBalance,
			Principal:                  300000,
			AnnualRatePercent:          12,
			Installments:               4,
			DisbursementDate:           datetime.Date(year, time.January, 1),
			FirstPaymentDate:           datetime.Date(year, time.January, 31),
			PaymentScheduleMode:        schedule.MonthlyCalendar,
			UseEndOfMonthFallback:      true,
			InterestRateType:           rates.EffectiveAnnual,
			InterestDayCountConvention: rates.ActualActual,
		}
		result := simulate(t, input)
		assertScheduleInvariants(t, input, result)

		insts := result.Installments
		require.Len(t, insts, 4)
		assert.Equal(t, datetime.Date(year, time.February, datetime.DaysInMonth(year, time.February)), insts[1].DueDate)
		assert.Equal(t, datetime.Date(year, time.March, 31), insts[2].DueDate)
		assert.Equal(t, datetime.Date(year, time.April, 30), insts[3].DueDate)
	}
}

func TestReferenceOneTimeInsurance(t *testing.T) {
	input := SimulationInput{
		FinancingType:              FixedAmount,
		Principal:                  2000000,
		AnnualRatePercent:          2,
		Installments:               6,
		DisbursementDate:           datetime.Date(2025, time.January, 15),
		FirstPaymentDate:           datetime.Date(2025, time.February, 15),
		PaymentScheduleMode:        schedule.MonthlyCalendar,
		InterestRateType:           rates.NominalMonthly,
		InterestDayCountConvention: rates.Thirty360,
		InsuranceAccrualMethod:     insurance.OneTime,
		InsuranceRatePercent:       0.8,
	}
	result := simulate(t, input)
	assertScheduleInvariants(t, input, result)

	assert.Equal(t, 16000.0, result.Installments[0].Insurance)
	for _, inst := range result.Installments[1:] {
		assert.Equal(t, 0.0, inst.Insurance)
	}
}
