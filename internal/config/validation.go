package config

import (
	"fmt"

	"github.com/iwvelando/credit-simulator/pkg/insurance"
	"github.com/iwvelando/credit-simulator/pkg/schedule"
)

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	sim := c.Simulation
	mode, err := schedule.ParseMode(sim.PaymentScheduleMode)
	if err == nil && mode != schedule.MonthlyCalendar && sim.FirstPaymentDate != "" && sim.DayOfMonth > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"dayOfMonth %d is only used to derive a missing firstPaymentDate", sim.DayOfMonth))
	}
	if sim.DisbursementDate == "" {
		warnings = append(warnings, "disbursementDate not set, the current date is used")
	}

	ins := c.Insurance
	if len(ins.Ranges) > 0 {
		if ins.HasDirectTerms() {
			warnings = append(warnings, "insurance ratePercent/fixedAmount are set, the range table is ignored")
		} else if metric, err := insurance.ParseMetric(ins.Metric); err == nil {
			value := insurance.MetricValue(metric, sim.Principal, sim.Installments)
			if _, ok := insurance.SelectRange(ins.RateRanges(), value); !ok {
				warnings = append(warnings, fmt.Sprintf(
					"no insurance range matches %s %v, no insurance is charged", metric, value))
			}
		}
	}
	for i, r := range ins.Ranges {
		if r.MaxValue != 0 && r.MaxValue < r.MinValue {
			warnings = append(warnings, fmt.Sprintf(
				"insurance range %d has maxValue %v below minValue %v and never matches", i+1, r.MaxValue, r.MinValue))
		}
	}

	return warnings
}
