package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/nettorechner/nettorechner/internal/auth"
	"github.com/nettorechner/nettorechner/internal/calculator"
	"github.com/nettorechner/nettorechner/internal/rates"
	"github.com/nettorechner/nettorechner/pkg/constants"
	"go.uber.org/zap"
)

// RatesService is the part of rates.Service the handlers use.
type RatesService interface {
	Snapshot(ctx context.Context) (rates.Snapshot, error)
	Configuration(ctx context.Context) (rates.Configuration, error)
	Replace(ctx context.Context, key string, raw []byte) (json.RawMessage, error)
}

// Options configures NewHandler.
type Options struct {
	Logger      *zap.Logger
	Rates       RatesService
	Gate        *auth.Gate
	MaxBodySize int64
	Version     string
}

type handler struct {
	logger      *zap.Logger
	rates       RatesService
	gate        *auth.Gate
	maxBodySize int64
	version     string
}

type requestIDKey struct{}

// NewHandler constructs the HTTP handler that serves the calculator and
// administration API.
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	gate := opts.Gate
	if gate == nil {
		gate = auth.NewGate("")
	}

	h := &handler{
		logger:      logger,
		rates:       opts.Rates,
		gate:        gate,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	mux := http.NewServeMux()

	// Salary calculation
	mux.HandleFunc("/api/calculate", h.handleCalculate)

	// Resolved rates for the calculator form
	mux.HandleFunc("/api/config", h.handlePublicConfig)

	// Administration
	mux.HandleFunc("/api/admin/config", h.handleAdminConfig)
	mux.HandleFunc("/api/admin/login", h.handleLogin)
	mux.HandleFunc("/api/admin/logout", h.handleLogout)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return h.withRequestID(mux)
}

func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := strings.TrimSpace(r.Header.Get(constants.RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(constants.RequestIDHeader, id)

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))

		h.logger.Debug("request handled",
			zap.String("op", "server.withRequestID"),
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"

	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if !h.decodeBody(w, r, &payload, op) {
		return
	}

	input, err := parseCalculationRequest(payload)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	cfg, err := h.rates.Configuration(r.Context())
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to load configuration: %v", err), op)
		return
	}

	result, err := calculator.Calculate(input, cfg)
	if err != nil {
		var validationErr *calculator.ValidationError
		if errors.As(err, &validationErr) {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("calculation failed: %v", err), op)
		return
	}

	h.logger.Info("salary calculated",
		zap.String("op", op),
		zap.String("request_id", requestID(r.Context())),
		zap.String("state", input.StateKey),
		zap.String("tax_class", input.TaxClassKey),
		zap.String("tax_zone", result.Details.TaxZone),
	)

	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handlePublicConfig(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePublicConfig"

	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	cfg, err := h.rates.Configuration(r.Context())
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to load configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"config": cfg})
}

type replaceRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func (h *handler) handleAdminConfig(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAdminConfig"

	if r.Method != http.MethodGet && r.Method != http.MethodPut {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if !h.gate.Authorized(r) {
		h.respondErrorWithOp(w, r, http.StatusUnauthorized, "unauthorized", op)
		return
	}

	if r.Method == http.MethodGet {
		snap, err := h.rates.Snapshot(r.Context())
		if err != nil {
			h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to load configuration: %v", err), op)
			return
		}
		h.writeJSON(w, http.StatusOK, snap)
		return
	}

	var req replaceRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	if strings.TrimSpace(req.Key) == "" || len(req.Value) == 0 {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "key and value are required", op)
		return
	}

	stored, err := h.rates.Replace(r.Context(), req.Key, req.Value)
	if err != nil {
		var invalid *rates.InvalidSectionError
		switch {
		case errors.Is(err, rates.ErrUnknownSection), errors.As(err, &invalid):
			h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		default:
			h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to save configuration: %v", err), op)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, replaceRequest{Key: req.Key, Value: stored})
}

func (h *handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLogin"

	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if !h.gate.Configured() {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, auth.ErrNotConfigured.Error(), op)
		return
	}

	var payload map[string]interface{}
	if !h.decodeBody(w, r, &payload, op) {
		return
	}
	pin, _ := payload["pin"].(string)

	if err := h.gate.CheckPIN(pin); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidPIN):
			h.respondErrorWithOp(w, r, http.StatusUnauthorized, err.Error(), op)
		default:
			h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
		}
		return
	}

	h.gate.SetSession(w)
	h.logger.Info("admin session opened",
		zap.String("op", op),
		zap.String("request_id", requestID(r.Context())),
	)
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.gate.ClearSession(w)
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
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

// decodeBody reads a size-limited JSON body into dst and reports whether the
// handler should continue.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return false
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(dst); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("request_id", requestID(r.Context())),
		zap.Int("status", status),
		zap.String("error", msg),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Warn("request rejected", fields...)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}

// Request field names. The German names are those of the calculator form;
// the English aliases are accepted as well.
var (
	grossFields        = []string{"bruttoGehalt", "grossSalary"}
	stateFields        = []string{"bundesland", "state"}
	taxClassFields     = []string{"steuerklasse", "taxClass"}
	churchFields       = []string{"kirchensteuerpflicht", "churchTaxLiable"}
	childFields        = []string{"kinderfreibetrag", "childAllowances"}
	healthFields       = []string{"krankenversicherung", "healthInsurance"}
	pensionFields      = []string{"rentenversicherung", "pensionInsurance"}
	unemploymentFields = []string{"arbeitslosenversicherung", "unemploymentInsurance"}
	careFields         = []string{"pflegeversicherung", "careInsurance"}
	hoursFields        = []string{"wochenstunden", "weeklyHours"}
)

func lookup(payload map[string]interface{}, names []string) (interface{}, bool) {
	for _, name := range names {
		if v, ok := payload[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func parseCalculationRequest(payload map[string]interface{}) (calculator.Input, error) {
	var in calculator.Input

	rawGross, ok := lookup(payload, grossFields)
	if !ok {
		return in, &calculator.ValidationError{Field: "gross salary", Reason: "is required"}
	}
	gross, err := coerceGross(rawGross)
	if err != nil {
		return in, err
	}
	in.GrossMonthlySalary = gross

	if v, ok := lookup(payload, stateFields); ok {
		in.StateKey = coerceString(v)
	}
	if v, ok := lookup(payload, taxClassFields); ok {
		in.TaxClassKey = coerceString(v)
	}
	if v, ok := lookup(payload, churchFields); ok {
		in.ChurchTaxLiable = coerceBool(v)
	}
	if v, ok := lookup(payload, healthFields); ok {
		in.Health = coerceBool(v)
	}
	if v, ok := lookup(payload, pensionFields); ok {
		in.Pension = coerceBool(v)
	}
	if v, ok := lookup(payload, unemploymentFields); ok {
		in.Unemployment = coerceBool(v)
	}
	if v, ok := lookup(payload, careFields); ok {
		in.Care = coerceBool(v)
	}

	if v, ok := lookup(payload, childFields); ok {
		n, err := coerceNumber(v)
		if err != nil {
			return in, &calculator.ValidationError{Field: "child allowance count", Reason: err.Error()}
		}
		in.ChildAllowanceCount = n
	}
	if v, ok := lookup(payload, hoursFields); ok {
		n, err := coerceInt(v)
		if err != nil {
			return in, &calculator.ValidationError{Field: "weekly hours", Reason: err.Error()}
		}
		in.WeeklyHours = n
	}

	return in, nil
}

func coerceGross(value interface{}) (float64, error) {
	switch v := value.(type) {
	case string:
		return calculator.ParseGross(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, &calculator.ValidationError{Field: "gross salary", Reason: "is not a number"}
		}
		return f, nil
	case float64:
		return v, nil
	}
	return 0, &calculator.ValidationError{Field: "gross salary", Reason: "must be a number or numeric string"}
}

func coerceString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func coerceNumber(value interface{}) (float64, error) {
	switch v := value.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", v.String())
		}
		return parsed, nil
	case float64:
		return v, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, nil
		}
		parsed, err := strconv.ParseFloat(strings.Replace(trimmed, ",", ".", 1), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", v)
		}
		return parsed, nil
	}
	return 0, errors.New("must be a number")
}

func coerceInt(value interface{}) (int, error) {
	f, err := coerceNumber(value)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errors.New("must be a whole number")
	}
	return int(f), nil
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false
		}
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case json.Number:
		if parsed, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return parsed != 0
		}
	}
	return false
}
