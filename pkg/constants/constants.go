// Package constants provides shared constants for the credit-simulator application.
package constants

// DateLayout is the calendar date format expected in config files and
// request payloads and is also the output date format.
const DateLayout = "2006-01-02"

// Monetary rounding
const (
	// MoneyDecimalPlaces is the default number of decimals kept for monetary amounts
	MoneyDecimalPlaces = 2

	// RoundingEpsilon is added before rounding so that values sitting on a
	// binary approximation of a half cent round up.
	RoundingEpsilon = 1e-9

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Rate conversion
const (
	// DaysPerMonth is the month length used to express a period as a fraction of a month
	DaysPerMonth = 30.0

	// DaysPerYear360 is the year basis for 30/360 and actual/360
	DaysPerYear360 = 360.0

	// DaysPerYear365 is the year basis for actual/365
	DaysPerYear365 = 365.0

	// DaysPerYearActual is the year basis for actual/actual
	DaysPerYearActual = 365.25
)

// Level payment search
const (
	// SolverBisectionIterations is the fixed number of bisection steps
	SolverBisectionIterations = 80

	// SolverExpansionFactor grows the upper bound while it fails to amortize
	SolverExpansionFactor = 1.5

	// SolverUpperBoundMultiple caps the upper bound at this multiple of the principal
	SolverUpperBoundMultiple = 10.0

	// MaxInstallments bounds the schedule length accepted at the boundary
	MaxInstallments = 1200
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultRequestTimeout is the outer timeout applied to every HTTP request
	DefaultRequestTimeout = "30s"
)
