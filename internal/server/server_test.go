package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/credit-simulator/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler() http.Handler {
	h := &handler{
		logger:        zap.NewNop(),
		maxUploadSize: constants.DefaultMaxUploadSizeBytes,
		version:       "test",
		now:           func() time.Time { return time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC) },
	}
	return h.routes()
}

func postJSON(t *testing.T, handler http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func levelPaymentRequest() map[string]interface{} {
	return map[string]interface{}{
		"simulation": map[string]interface{}{
			"principal":                  10000,
			"annualRatePercent":          12,
			"installments":               12,
			"firstPaymentDate":           "2024-01-31",
			"disbursementDate":           "2024-01-01",
			"paymentScheduleMode":        "INTERVAL_DAYS",
			"daysInterval":               30,
			"interestDayCountConvention": "30_360",
		},
	}
}

func TestHandleSimulateLevelPayment(t *testing.T) {
	rr := postJSON(t, newTestHandler(), "/api/simulate", levelPaymentRequest())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp simulateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	_, err := uuid.Parse(resp.SimulationID)
	assert.NoError(t, err)
	require.Len(t, resp.Installments, 12)
	require.NotNil(t, resp.Solver)
	assert.True(t, resp.Solver.Converged)
	assert.InDelta(t, 888.49, resp.Solver.Payment, 0.01)
	assert.Equal(t, "2024-01-31", resp.Installments[0].DueDate)
	assert.Equal(t, 0.0, resp.Installments[11].ClosingBalance)
	assert.InDelta(t, 10000, resp.Summary.TotalPrincipal, 0.01)
	assert.Equal(t, 2, resp.Precision)
	assert.True(t, strings.HasPrefix(resp.CSV, "installment,due_date"))
	assert.NotEmpty(t, resp.Duration)
}

func TestHandleSimulateSingleInstallment(t *testing.T) {
	payload := map[string]interface{}{
		"simulation": map[string]interface{}{
			"principal":         1000000,
			"annualRatePercent": 24,
			"installments":      1,
			"firstPaymentDate":  "2024-01-31",
			"disbursementDate":  "2024-01-01",
			"daysInterval":      30,
		},
	}

	rr := postJSON(t, newTestHandler(), "/api/simulate", payload)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp simulateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Installments, 1)
	assert.Nil(t, resp.Solver)
	assert.Equal(t, 20000.0, resp.Installments[0].Interest)
	assert.Equal(t, 1020000.0, resp.Installments[0].Payment)
}

func TestHandleSimulateInsuranceRanges(t *testing.T) {
	payload := levelPaymentRequest()
	payload["insurance"] = map[string]interface{}{
		"metric": "TERM",
		"ranges": []interface{}{
			map[string]interface{}{"minValue": 1, "maxValue": 6, "ratePercent": 1},
			map[string]interface{}{"minValue": 7, "maxValue": 24, "fixedAmount": 15},
		},
	}

	rr := postJSON(t, newTestHandler(), "/api/simulate", payload)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp simulateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	for _, inst := range resp.Installments {
		assert.Equal(t, 15.0, inst.Insurance)
	}
	assert.InDelta(t, 180, resp.Summary.TotalInsurance, 0.001)
}

func TestHandleSimulateNonConverged(t *testing.T) {
	payload := levelPaymentRequest()
	sim := payload["simulation"].(map[string]interface{})
	sim["principal"] = 1000
	sim["installments"] = 3
	sim["annualRatePercent"] = 100000

	t.Run("reported", func(t *testing.T) {
		rr := postJSON(t, newTestHandler(), "/api/simulate", payload)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp simulateResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.NotNil(t, resp.Solver)
		assert.False(t, resp.Solver.Converged)
		assert.Equal(t, 0.0, resp.Installments[2].ClosingBalance)
	})

	t.Run("rejected", func(t *testing.T) {
		payload["rejectNonConverged"] = true
		rr := postJSON(t, newTestHandler(), "/api/simulate", payload)
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())

		var resp nonConvergedResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "did not amortize")
		require.NotNil(t, resp.Solver)
		assert.Greater(t, resp.Solver.TerminalBalance, 0.0)
	})
}

func TestHandleSimulateBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "malformed JSON", body: `{"simulation":`, wantErr: "failed to decode request"},
		{name: "unknown field", body: `{"simulation":{"amount":5}}`, wantErr: "unknown field"},
		{name: "bad enum", body: `{"simulation":{"principal":100,"installments":2,"firstPaymentDate":"2024-02-01","financingType":"BALLOON"}}`, wantErr: "BALLOON"},
		{name: "bad date", body: `{"simulation":{"principal":100,"installments":2,"firstPaymentDate":"02/01/2024"}}`, wantErr: "firstPaymentDate"},
		{name: "non-positive principal", body: `{"simulation":{"principal":0,"installments":2,"firstPaymentDate":"2024-02-01","daysInterval":30}}`, wantErr: "principal must be a positive amount"},
		{name: "missing first payment", body: `{"simulation":{"principal":100,"installments":2,"daysInterval":30}}`, wantErr: "first payment date is required"},
		{name: "first payment before today without disbursement", body: `{"simulation":{"principal":100,"installments":2,"firstPaymentDate":"2023-06-01","daysInterval":30}}`, wantErr: "precedes disbursement date 2024-01-01"},
	}

	handler := newTestHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/simulate", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			var resp map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Contains(t, resp["error"], tt.wantErr)
		})
	}
}

func TestHandleSimulateBodyTooLarge(t *testing.T) {
	h := &handler{logger: zap.NewNop(), maxUploadSize: 32, version: "test", now: time.Now}
	rr := postJSON(t, h.routes(), "/api/simulate", levelPaymentRequest())
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestHandleSimulateUpload(t *testing.T) {
	configYAML := `simulation:
  financingType: DECLINING_BALANCE
  principal: 1200
  annualRatePercent: 0
  installments: 12
  firstPaymentDate: "2024-02-15"
  disbursementDate: "2024-01-15"
  paymentScheduleMode: MONTHLY_CALENDAR
  precision: 0
`
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "config.yaml")
	require.NoError(t, err)
	_, err = part.Write([]byte(configYAML))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("rejectNonConverged", "true"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/simulate/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp simulateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Installments, 12)
	assert.Equal(t, 0, resp.Precision)
	assert.Equal(t, "2024-03-15", resp.Installments[1].DueDate)
	for _, inst := range resp.Installments {
		assert.Equal(t, 100.0, inst.Principal)
		assert.Equal(t, 0.0, inst.Interest)
	}
}

func TestHandleSimulateUploadMissingFile(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("rejectNonConverged", "false"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/simulate/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "missing configuration file")
}

func TestHandleConfigExport(t *testing.T) {
	rr := postJSON(t, newTestHandler(), "/api/config/export", map[string]interface{}{
		"simulation": map[string]interface{}{"principal": 5000, "installments": 6},
		"output":     map[string]interface{}{"format": "csv"},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	yamlStr := resp["configYaml"]
	assert.True(t, strings.HasPrefix(yamlStr, "simulation:"), yamlStr)
	assert.Contains(t, yamlStr, "principal: 5000")
	assert.Contains(t, yamlStr, "installments: 6")
	assert.Contains(t, yamlStr, "format: csv")
}

func TestHandleVersion(t *testing.T) {
	handler := NewHandler(nil, 0, "  ")
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "dev", resp["version"])
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestHandler()
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/simulate"},
		{http.MethodGet, "/api/simulate/upload"},
		{http.MethodGet, "/api/config/export"},
		{http.MethodPost, "/api/version"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, "%s %s", tc.method, tc.path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestHandler()
	postJSON(t, handler, "/api/simulate", levelPaymentRequest())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `credit_simulations_total{result="success"}`)
}
