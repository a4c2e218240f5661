package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/credit-simulator/internal/config"
	"github.com/iwvelando/credit-simulator/internal/observability/metrics"
	"github.com/iwvelando/credit-simulator/pkg/constants"
	"github.com/iwvelando/credit-simulator/pkg/datetime"
	"github.com/iwvelando/credit-simulator/pkg/loans"
	"github.com/iwvelando/credit-simulator/pkg/output"
	"github.com/iwvelando/credit-simulator/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	now           func() time.Time
}

// NewHandler constructs the HTTP handler that serves the simulation API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion, now: time.Now}
	return h.routes()
}

func (h *handler) routes() http.Handler {
	metrics.Init()

	mux := http.NewServeMux()

	// Simulation API endpoint (JSON body)
	mux.HandleFunc("/api/simulate", h.handleSimulate)

	// Simulation API endpoint (YAML file upload)
	mux.HandleFunc("/api/simulate/upload", h.handleSimulateUpload)

	// Config serialization endpoint for downloads
	mux.HandleFunc("/api/config/export", h.handleConfigExport)

	mux.HandleFunc("/api/version", h.handleVersion)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}

type simulateRequest struct {
	Simulation         config.SimulationConfig `json:"simulation"`
	Insurance          config.InsuranceConfig  `json:"insurance"`
	RejectNonConverged bool                    `json:"rejectNonConverged"`
}

type simulateResponse struct {
	SimulationID string                  `json:"simulationId"`
	Summary      loans.SimulationSummary `json:"summary"`
	Installments []installmentRow        `json:"installments"`
	Solver       *loans.SolverReport     `json:"solver,omitempty"`
	Precision    int                     `json:"precision"`
	Warnings     []string                `json:"warnings,omitempty"`
	CSV          string                  `json:"csv"`
	Duration     string                  `json:"duration"`
}

type installmentRow struct {
	InstallmentNumber int     `json:"installmentNumber"`
	DueDate           string  `json:"dueDate"`
	Days              int     `json:"days"`
	OpeningBalance    float64 `json:"openingBalance"`
	Principal         float64 `json:"principal"`
	Interest          float64 `json:"interest"`
	Insurance         float64 `json:"insurance"`
	Payment           float64 `json:"payment"`
	ClosingBalance    float64 `json:"closingBalance"`
}

type nonConvergedResponse struct {
	Error        string              `json:"error"`
	SimulationID string              `json:"simulationId"`
	Solver       *loans.SolverReport `json:"solver"`
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSimulate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	var req simulateRequest
	if err := decoder.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondInvalid(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondInvalid(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	conf := config.Configuration{Simulation: req.Simulation, Insurance: req.Insurance}
	h.runSimulation(w, conf, req.RejectNonConverged, start, op)
}

func (h *handler) handleSimulateUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSimulateUpload"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondInvalid(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondInvalid(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondInvalid(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	var conf config.Configuration
	if err := yaml.Unmarshal(buf.Bytes(), &conf); err != nil {
		h.respondInvalid(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	reject, err := parseFormBool(r.FormValue("rejectNonConverged"))
	if err != nil {
		h.respondInvalid(w, http.StatusBadRequest, fmt.Sprintf("invalid rejectNonConverged: %v", err), op)
		return
	}

	h.runSimulation(w, conf, reject, start, op)
}

func (h *handler) runSimulation(w http.ResponseWriter, conf config.Configuration, rejectNonConverged bool, start time.Time, op string) {
	warnings := conf.ValidateConfiguration()

	now := h.now()
	input, err := conf.ToSimulationInput(now)
	if err != nil {
		h.respondInvalid(w, http.StatusBadRequest, fmt.Sprintf("invalid configuration: %v", err), op)
		return
	}
	if err := validation.ValidateSimulationInputAt(input, now); err != nil {
		h.respondInvalid(w, http.StatusBadRequest, fmt.Sprintf("invalid simulation input: %v", err), op)
		return
	}
	warnings = append(warnings, validation.SimulationWarnings(input)...)

	engine := loans.NewEngine(h.logger,
		loans.WithPrecision(conf.Simulation.PrecisionOrDefault()),
		loans.WithClock(h.now),
	)
	result := engine.Simulate(input)
	simulationID := uuid.NewString()

	outcome := metrics.ResultSuccess
	if !result.Converged() {
		outcome = metrics.ResultNonConverged
	}
	metrics.ObserveSimulation(outcome, len(result.Installments), time.Since(start))

	if !result.Converged() && rejectNonConverged {
		h.logger.Warn("rejecting non-converged simulation",
			zap.String("op", op),
			zap.String("simulationId", simulationID),
			zap.Float64("terminalBalance", result.Solver.TerminalBalance),
		)
		h.writeJSON(w, http.StatusUnprocessableEntity, nonConvergedResponse{
			Error:        "level payment search did not amortize the loan",
			SimulationID: simulationID,
			Solver:       result.Solver,
		})
		return
	}

	csvData, err := output.CsvString(result)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	resp := simulateResponse{
		SimulationID: simulationID,
		Summary:      result.Summary,
		Installments: buildRows(result.Installments),
		Solver:       result.Solver,
		Precision:    result.Precision,
		Warnings:     warnings,
		CSV:          csvData,
		Duration:     time.Since(start).String(),
	}

	h.logger.Info("simulation completed",
		zap.String("op", op),
		zap.String("simulationId", simulationID),
		zap.Int("installments", len(resp.Installments)),
		zap.Bool("converged", result.Converged()),
		zap.Duration("duration", time.Since(start)),
	)

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// handleConfigExport turns a JSON configuration into the YAML file the CLI reads.
func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	var conf config.Configuration
	if err := json.NewDecoder(r.Body).Decode(&conf); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return
	}

	yamlBytes, err := yaml.Marshal(conf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) respondInvalid(w http.ResponseWriter, status int, msg string, op string) {
	metrics.IncInvalid()
	h.respondErrorWithOp(w, status, msg, op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("simulation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}

func buildRows(installments []loans.SimulationInstallment) []installmentRow {
	rows := make([]installmentRow, 0, len(installments))
	for _, inst := range installments {
		rows = append(rows, installmentRow{
			InstallmentNumber: inst.InstallmentNumber,
			DueDate:           datetime.FormatDate(inst.DueDate),
			Days:              inst.Days,
			OpeningBalance:    inst.OpeningBalance,
			Principal:         inst.Principal,
			Interest:          inst.Interest,
			Insurance:         inst.Insurance,
			Payment:           inst.Payment,
			ClosingBalance:    inst.ClosingBalance,
		})
	}
	return rows
}

func parseFormBool(value string) (bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false, nil
	}
	return strconv.ParseBool(trimmed)
}
