// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/credit-simulator/pkg/datetime"
	"github.com/iwvelando/credit-simulator/pkg/loans"
)

// FindInstallment finds an installment by its 1-based number.
// Returns a pointer to the installment if found, nil otherwise.
func FindInstallment(result loans.SimulationResult, number int) *loans.SimulationInstallment {
	for i := range result.Installments {
		if result.Installments[i].InstallmentNumber == number {
			return &result.Installments[i]
		}
	}
	return nil
}

// SampleResult builds a small two-installment result with a converged search.
func SampleResult() loans.SimulationResult {
	return loans.SimulationResult{
		Precision: 2,
		Installments: []loans.SimulationInstallment{
			{
				InstallmentNumber: 1,
				DueDate:           datetime.Date(2024, 2, 15),
				Days:              30,
				OpeningBalance:    1000,
				Principal:         497.51,
				Interest:          10,
				Payment:           507.51,
				ClosingBalance:    502.49,
			},
			{
				InstallmentNumber: 2,
				DueDate:           datetime.Date(2024, 3, 15),
				Days:              30,
				OpeningBalance:    502.49,
				Principal:         502.49,
				Interest:          5.02,
				Payment:           507.51,
				ClosingBalance:    0,
			},
		},
		Summary: loans.SimulationSummary{
			TotalPrincipal:          1000,
			TotalInterest:           15.02,
			TotalPayment:            1015.02,
			FirstInstallmentPayment: 507.51,
			MaxInstallmentPayment:   507.51,
			MinInstallmentPayment:   507.51,
		},
		Solver: &loans.SolverReport{Payment: 507.51, Converged: true, Iterations: 80},
	}
}
