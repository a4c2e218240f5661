// Package config defines the data structures related to configuration and
// includes functions for loading the config and turning it into a
// simulation input.
package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/credit-simulator/pkg/constants"
	"github.com/spf13/viper"
)

// EnvPrefix scopes environment overrides, e.g. CREDIT_SIMULATOR_SIMULATION_PRINCIPAL.
const EnvPrefix = "CREDIT_SIMULATOR"

// Configuration holds all configuration for credit-simulator.
type Configuration struct {
	Simulation SimulationConfig `mapstructure:"simulation" json:"simulation" yaml:"simulation"`
	Insurance  InsuranceConfig  `mapstructure:"insurance" json:"insurance" yaml:"insurance,omitempty"`
	Logging    LoggingConfig    `mapstructure:"logging" json:"logging" yaml:"logging,omitempty"`
	Output     OutputConfig     `mapstructure:"output" json:"output" yaml:"output,omitempty"`
}

// SimulationConfig holds the financing parameters of one loan. Enumerations
// are kept as strings here and parsed during conversion.
type SimulationConfig struct {
	FinancingType     string  `mapstructure:"financingType" json:"financingType" yaml:"financingType,omitempty"`
	Principal         float64 `mapstructure:"principal" json:"principal" yaml:"principal"`
	AnnualRatePercent float64 `mapstructure:"annualRatePercent" json:"annualRatePercent" yaml:"annualRatePercent"`
	Installments      int     `mapstructure:"installments" json:"installments" yaml:"installments"`

	FirstPaymentDate string `mapstructure:"firstPaymentDate" json:"firstPaymentDate" yaml:"firstPaymentDate,omitempty"`
	DisbursementDate string `mapstructure:"disbursementDate" json:"disbursementDate" yaml:"disbursementDate,omitempty"`

	PaymentScheduleMode   string `mapstructure:"paymentScheduleMode" json:"paymentScheduleMode" yaml:"paymentScheduleMode,omitempty"`
	DaysInterval          int    `mapstructure:"daysInterval" json:"daysInterval" yaml:"daysInterval,omitempty"`
	DayOfMonth            int    `mapstructure:"dayOfMonth" json:"dayOfMonth" yaml:"dayOfMonth,omitempty"`
	SemiMonthDay1         int    `mapstructure:"semiMonthDay1" json:"semiMonthDay1" yaml:"semiMonthDay1,omitempty"`
	SemiMonthDay2         int    `mapstructure:"semiMonthDay2" json:"semiMonthDay2" yaml:"semiMonthDay2,omitempty"`
	UseEndOfMonthFallback *bool  `mapstructure:"useEndOfMonthFallback" json:"useEndOfMonthFallback" yaml:"useEndOfMonthFallback,omitempty"`

	InterestRateType           string `mapstructure:"interestRateType" json:"interestRateType" yaml:"interestRateType,omitempty"`
	InterestDayCountConvention string `mapstructure:"interestDayCountConvention" json:"interestDayCountConvention" yaml:"interestDayCountConvention,omitempty"`

	// Precision is the number of decimals amounts are rounded to.
	Precision *int `mapstructure:"precision" json:"precision" yaml:"precision,omitempty"`
}

// InsuranceConfig holds either direct insurance terms or a table of ranges
// the terms are picked from.
type InsuranceConfig struct {
	AccrualMethod string  `mapstructure:"accrualMethod" json:"accrualMethod" yaml:"accrualMethod,omitempty"`
	RatePercent   float64 `mapstructure:"ratePercent" json:"ratePercent" yaml:"ratePercent,omitempty"`
	FixedAmount   float64 `mapstructure:"fixedAmount" json:"fixedAmount" yaml:"fixedAmount,omitempty"`
	MinimumAmount float64 `mapstructure:"minimumAmount" json:"minimumAmount" yaml:"minimumAmount,omitempty"`

	Metric string               `mapstructure:"metric" json:"metric" yaml:"metric,omitempty"` // TERM, AMOUNT
	Ranges []InsuranceRangeConf `mapstructure:"ranges" json:"ranges" yaml:"ranges,omitempty"`
}

// InsuranceRangeConf is one row of the insurance rate table. A zero
// MaxValue leaves the range open-ended.
type InsuranceRangeConf struct {
	MinValue      float64 `mapstructure:"minValue" json:"minValue" yaml:"minValue"`
	MaxValue      float64 `mapstructure:"maxValue" json:"maxValue" yaml:"maxValue,omitempty"`
	RatePercent   float64 `mapstructure:"ratePercent" json:"ratePercent" yaml:"ratePercent,omitempty"`
	FixedAmount   float64 `mapstructure:"fixedAmount" json:"fixedAmount" yaml:"fixedAmount,omitempty"`
	MinimumAmount float64 `mapstructure:"minimumAmount" json:"minimumAmount" yaml:"minimumAmount,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" json:"level" yaml:"level,omitempty"`                // debug, info, warn, error
	Format     string `mapstructure:"format" json:"format" yaml:"format,omitempty"`             // json, console
	OutputFile string `mapstructure:"outputFile" json:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" json:"format" yaml:"format,omitempty"` // pretty, csv
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with EnvPrefix
// override file values.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &configuration, nil
}

// PrecisionOrDefault returns the configured rounding precision.
func (s SimulationConfig) PrecisionOrDefault() int {
	if s.Precision == nil || *s.Precision < 0 {
		return constants.MoneyDecimalPlaces
	}
	return *s.Precision
}

// FallbackOrDefault returns useEndOfMonthFallback, which defaults to true.
func (s SimulationConfig) FallbackOrDefault() bool {
	if s.UseEndOfMonthFallback == nil {
		return true
	}
	return *s.UseEndOfMonthFallback
}
