// Package output provides utilities for formatting and displaying simulation results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/credit-simulator/pkg/datetime"
	"github.com/iwvelando/credit-simulator/pkg/format"
	"github.com/iwvelando/credit-simulator/pkg/loans"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CsvHeader is the column layout written by CsvFormat.
var CsvHeader = []string{
	"installment", "due_date", "days", "opening_balance", "principal",
	"interest", "insurance", "payment", "closing_balance",
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, result loans.SimulationResult) error {
	p := message.NewPrinter(language.English)
	places := result.Precision
	money := func(v float64) string { return format.CurrencyWithPlaces(v, places) }

	if _, err := p.Fprintf(w, "%-4s | %-10s | %5s | %16s | %14s | %12s | %12s | %14s | %16s\n",
		"#", "Due date", "Days", "Opening", "Principal", "Interest", "Insurance", "Payment", "Closing"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("_", 130)); err != nil {
		return err
	}
	for _, inst := range result.Installments {
		_, err := p.Fprintf(w, "%-4d | %-10s | %5d | %16s | %14s | %12s | %12s | %14s | %16s\n",
			inst.InstallmentNumber,
			datetime.FormatDate(inst.DueDate),
			inst.Days,
			money(inst.OpeningBalance),
			money(inst.Principal),
			money(inst.Interest),
			money(inst.Insurance),
			money(inst.Payment),
			money(inst.ClosingBalance),
		)
		if err != nil {
			return err
		}
	}

	s := result.Summary
	lines := []struct {
		label string
		value float64
	}{
		{"Total principal", s.TotalPrincipal},
		{"Total interest", s.TotalInterest},
		{"Total insurance", s.TotalInsurance},
		{"Total payment", s.TotalPayment},
		{"First installment", s.FirstInstallmentPayment},
		{"Max installment", s.MaxInstallmentPayment},
		{"Min installment", s.MinInstallmentPayment},
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := p.Fprintf(w, "%-18s %s\n", line.label+":", money(line.value)); err != nil {
			return err
		}
	}

	if !result.Converged() {
		_, err := p.Fprintf(w, "\nWARNING: level payment search did not converge, %s remains after the last installment at %s per installment\n",
			money(result.Solver.TerminalBalance), money(result.Solver.Payment))
		return err
	}
	return nil
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, result loans.SimulationResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CsvHeader); err != nil {
		return err
	}
	amount := func(v float64) string {
		return strconv.FormatFloat(v, 'f', max(result.Precision, 0), 64)
	}
	for _, inst := range result.Installments {
		record := []string{
			strconv.Itoa(inst.InstallmentNumber),
			datetime.FormatDate(inst.DueDate),
			strconv.Itoa(inst.Days),
			amount(inst.OpeningBalance),
			amount(inst.Principal),
			amount(inst.Interest),
			amount(inst.Insurance),
			amount(inst.Payment),
			amount(inst.ClosingBalance),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString renders the CSV table into a string.
func CsvString(result loans.SimulationResult) (string, error) {
	var b strings.Builder
	if err := CsvFormat(&b, result); err != nil {
		return "", err
	}
	return b.String(), nil
}
