package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iwvelando/credit-simulator/internal/config"
	"github.com/iwvelando/credit-simulator/internal/logging"
	"github.com/iwvelando/credit-simulator/pkg/constants"
	"github.com/iwvelando/credit-simulator/pkg/loans"
	"github.com/iwvelando/credit-simulator/pkg/output"
	"github.com/iwvelando/credit-simulator/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	now := time.Now()
	input, err := conf.ToSimulationInput(now)
	if err != nil {
		logger.Fatal("failed to convert configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	if err := validation.ValidateSimulationInputAt(input, now); err != nil {
		logger.Fatal("invalid simulation input",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	for _, warning := range validation.SimulationWarnings(input) {
		logger.Warn("Simulation warning: "+warning,
			zap.String("op", "main"),
		)
	}

	engine := loans.NewEngine(logger,
		loans.WithPrecision(conf.Simulation.PrecisionOrDefault()),
		loans.WithClock(func() time.Time { return now }),
	)
	result := engine.Simulate(input)

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, result)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, result)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
