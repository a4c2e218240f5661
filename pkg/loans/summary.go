package loans

import (
	"github.com/shopspring/decimal"
)

// summaryAccumulator totals installment amounts in exact decimal arithmetic
// so that sums of rounded amounts do not drift.
type summaryAccumulator struct {
	principal decimal.Decimal
	interest  decimal.Decimal
	insurance decimal.Decimal
	payment   decimal.Decimal

	count int
	first float64
	max   float64
	min   float64
}

func (a *summaryAccumulator) add(inst SimulationInstallment) {
	a.principal = a.principal.Add(decimal.NewFromFloat(inst.Principal))
	a.interest = a.interest.Add(decimal.NewFromFloat(inst.Interest))
	a.insurance = a.insurance.Add(decimal.NewFromFloat(inst.Insurance))
	a.payment = a.payment.Add(decimal.NewFromFloat(inst.Payment))

	if a.count == 0 {
		a.first = inst.Payment
		a.max = inst.Payment
		a.min = inst.Payment
	} else {
		if inst.Payment > a.max {
			a.max = inst.Payment
		}
		if inst.Payment < a.min {
			a.min = inst.Payment
		}
	}
	a.count++
}

func (a *summaryAccumulator) summary(places int) SimulationSummary {
	round := func(d decimal.Decimal) float64 {
		return d.Round(int32(places)).InexactFloat64()
	}
	return SimulationSummary{
		TotalPrincipal:          round(a.principal),
		TotalInterest:           round(a.interest),
		TotalInsurance:          round(a.insurance),
		TotalPayment:            round(a.payment),
		FirstInstallmentPayment: a.first,
		MaxInstallmentPayment:   a.max,
		MinInstallmentPayment:   a.min,
	}
}

// Summarize aggregates an installment table.
func Summarize(installments []SimulationInstallment, places int) SimulationSummary {
	var acc summaryAccumulator
	for _, inst := range installments {
		acc.add(inst)
	}
	return acc.summary(places)
}
