/*
handlers.go - HTTP API handlers for the pay scheme comparison

PURPOSE:
  Exposes the comparison engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the factory and payscheme packages.

ENDPOINTS:
  Calculator:
    GET    /api/defaults                Default scenario (every field set)
    POST   /api/compare                 Ad-hoc comparison {scenario, horizon}

  Presets:
    GET    /api/presets                 Historical variants of the old scheme
    POST   /api/presets/{name}/load     Save a preset as a scenario

  Scenarios:
    GET    /api/scenarios               List saved scenarios
    POST   /api/scenarios               Save a scenario
    GET    /api/scenarios/{id}          Get a saved scenario
    DELETE /api/scenarios/{id}          Delete a scenario and its runs
    POST   /api/scenarios/{id}/compare  Run a saved scenario, log the run
    GET    /api/scenarios/{id}/runs     Run log, oldest first

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Saved scenarios and run log
  - Factory: JSON to Configuration conversion over the server's base config
  - Engine: Bounded-parallel comparison engine
  - Logger: Structured logger for failures

ERROR HANDLING:
  Errors are returned as JSON ErrorResponse with a Code:
  - 400 INVALID_CONFIGURATION: A parameter violates its constraints
  - 400 INVALID_INPUT: Malformed JSON or missing required fields
  - 404 NOT_FOUND: Unknown scenario or preset
  - 409 CONFLICT: Duplicate run id
  - 500 INTERNAL_ERROR: Everything else (logged)

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/pay-compare/factory"
	"github.com/warp/pay-compare/generic"
	"github.com/warp/pay-compare/payscheme"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   generic.Store
	Factory *factory.ScenarioFactory
	Engine  *payscheme.Engine
	Logger  *zap.Logger

	newID func() string
}

// NewHandler creates a handler. A nil engine uses default parallelism and a
// nil logger discards output.
func NewHandler(store generic.Store, base payscheme.Configuration, engine *payscheme.Engine, logger *zap.Logger) *Handler {
	if engine == nil {
		engine = payscheme.NewEngine(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:   store,
		Factory: factory.NewScenarioFactory(base),
		Engine:  engine,
		Logger:  logger,
		newID:   uuid.NewString,
	}
}

// =============================================================================
// CALCULATOR HANDLERS
// =============================================================================

// GetDefaults returns the base configuration with every field set.
func (h *Handler) GetDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, factory.ToJSON(h.Factory.Base))
}

// Compare runs an ad-hoc comparison. Nothing is stored.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}

	cfg, err := h.Factory.FromJSON(req.Scenario)
	if err != nil {
		h.fail(w, r, "Invalid scenario", err)
		return
	}
	horizon, err := factory.ParseHorizon(req.Horizon)
	if err != nil {
		h.fail(w, r, "Invalid horizon", err)
		return
	}

	res, err := h.Engine.Run(r.Context(), cfg, horizon)
	if err != nil {
		h.fail(w, r, "Comparison failed", err)
		return
	}

	writeJSON(w, http.StatusOK, NewCompareResponse(res))
}

// =============================================================================
// PRESET HANDLERS
// =============================================================================

// ListPresets returns every preset.
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, factory.Presets())
}

// LoadPreset saves a preset as a scenario. The scenario ID and name default
// to the preset name, so loading twice bumps the version.
func (h *Handler) LoadPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	preset, ok := factory.LookupPreset(name)
	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "Preset not found", fmt.Sprintf("unknown preset %q", name))
		return
	}

	var req LoadPresetRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		req.ID = preset.Name
	}
	if req.Name == "" {
		req.Name = preset.Name
	}

	configJSON, err := preset.Scenario.Marshal()
	if err != nil {
		h.fail(w, r, "Failed to encode preset", err)
		return
	}

	saved, err := h.Store.SaveScenario(r.Context(), generic.Scenario{
		ID:          generic.ScenarioID(req.ID),
		Name:        req.Name,
		Description: preset.Description,
		ConfigJSON:  configJSON,
	})
	if err != nil {
		h.fail(w, r, "Failed to save scenario", err)
		return
	}

	writeJSON(w, http.StatusCreated, toScenarioDTO(saved))
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns all saved scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.Store.ListScenarios(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list scenarios", err)
		return
	}

	dtos := make([]ScenarioDTO, len(scenarios))
	for i, sc := range scenarios {
		dtos[i] = toScenarioDTO(sc)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateScenario validates and saves a scenario.
func (h *Handler) CreateScenario(w http.ResponseWriter, r *http.Request) {
	var req CreateScenarioRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidInput, "name is required", nil)
		return
	}

	// Reject now rather than at the first run.
	if _, err := h.Factory.FromJSON(req.Scenario); err != nil {
		h.fail(w, r, "Invalid scenario", err)
		return
	}

	configJSON, err := req.Scenario.Marshal()
	if err != nil {
		h.fail(w, r, "Failed to encode scenario", err)
		return
	}
	if req.ID == "" {
		req.ID = h.newID()
	}

	saved, err := h.Store.SaveScenario(r.Context(), generic.Scenario{
		ID:          generic.ScenarioID(req.ID),
		Name:        req.Name,
		Description: req.Description,
		ConfigJSON:  configJSON,
	})
	if err != nil {
		h.fail(w, r, "Failed to save scenario", err)
		return
	}

	writeJSON(w, http.StatusCreated, toScenarioDTO(saved))
}

// GetScenario returns a single saved scenario.
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := h.Store.GetScenario(r.Context(), generic.ScenarioID(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, r, "Failed to get scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, toScenarioDTO(sc))
}

// DeleteScenario removes a scenario and its run log.
func (h *Handler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteScenario(r.Context(), generic.ScenarioID(chi.URLParam(r, "id"))); err != nil {
		h.fail(w, r, "Failed to delete scenario", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunScenario compares a saved scenario over the requested horizon and
// appends the totals to the run log.
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sc, err := h.Store.GetScenario(ctx, generic.ScenarioID(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, r, "Failed to get scenario", err)
		return
	}

	var req RunScenarioRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}

	cfg, err := h.Factory.ParseScenario(sc.ConfigJSON)
	if err != nil {
		h.fail(w, r, "Stored scenario is invalid", err)
		return
	}
	horizon, err := factory.ParseHorizon(req.Horizon)
	if err != nil {
		h.fail(w, r, "Invalid horizon", err)
		return
	}

	res, err := h.Engine.Run(ctx, cfg, horizon)
	if err != nil {
		h.fail(w, r, "Comparison failed", err)
		return
	}

	resp := NewCompareResponse(res)
	horizonJSON, err := json.Marshal(resp.Horizon)
	if err != nil {
		h.fail(w, r, "Failed to encode horizon", err)
		return
	}
	run := generic.Run{
		ID:          generic.RunID(h.newID()),
		ScenarioID:  sc.ID,
		Version:     sc.Version,
		Granularity: res.Summary.Granularity,
		Periods:     res.Summary.Periods,
		HorizonJSON: string(horizonJSON),
		TotalNew:    res.Summary.TotalNew,
		TotalOld:    res.Summary.TotalOld,
		Difference:  res.Summary.Difference,
		Winner:      string(res.Summary.Winner),
	}
	if err := h.Store.AppendRun(ctx, run); err != nil {
		h.fail(w, r, "Failed to record run", err)
		return
	}

	h.Logger.Info("scenario run recorded",
		zap.String("scenario_id", string(sc.ID)),
		zap.String("run_id", string(run.ID)),
		zap.Int("periods", run.Periods),
		zap.String("winner", run.Winner),
	)

	resp.RunID = string(run.ID)
	writeJSON(w, http.StatusOK, resp)
}

// ListRuns returns the run log of a scenario.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := generic.ScenarioID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetScenario(ctx, id); err != nil {
		h.fail(w, r, "Failed to get scenario", err)
		return
	}

	runs, err := h.Store.ListRuns(ctx, id)
	if err != nil {
		h.fail(w, r, "Failed to list runs", err)
		return
	}

	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// decodeBody decodes a JSON body, rejecting unknown fields. An empty body
// leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %w", generic.ErrInvalidInput, err)
	}
	if err := decodeStrict(body, v); err != nil {
		return fmt.Errorf("%w: %v", generic.ErrInvalidInput, err)
	}
	return nil
}

func decodeStrict(b []byte, v any) error {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// fail maps an error to its status and code. Unexpected errors are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	var cfgErr *generic.InvalidConfigurationError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, CodeInvalidInput, message, fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit))
	case errors.As(err, &cfgErr):
		writeError(w, http.StatusBadRequest, CodeInvalidConfiguration, message, map[string]string{
			"field":  cfgErr.Field,
			"value":  cfgErr.Value,
			"reason": cfgErr.Reason,
		})
	case errors.Is(err, generic.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, CodeInvalidInput, message, err.Error())
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, CodeNotFound, message, err.Error())
	case errors.Is(err, generic.ErrDuplicateRun):
		writeError(w, http.StatusConflict, CodeConflict, message, err.Error())
	default:
		h.Logger.Error(message,
			zap.Error(err),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		writeError(w, http.StatusInternalServerError, CodeInternal, message, nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code, Details: details})
}
