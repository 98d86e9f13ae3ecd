/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's decimal model from the external API contract: amounts leave
  the API as float64 rounded to cents.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Compare:
    CompareRequest, CompareResponse, PeriodDTO, BreakdownDTO, PointDTO, SummaryDTO

  Scenarios:
    ScenarioDTO, CreateScenarioRequest, RunDTO, RunScenarioRequest

SEE ALSO:
  - handlers.go: Uses these types
  - factory/scenario.go: ScenarioJSON and HorizonJSON
*/
package api

import (
	"time"

	"github.com/warp/pay-compare/factory"
	"github.com/warp/pay-compare/generic"
	"github.com/warp/pay-compare/payscheme"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CompareRequest runs an ad-hoc comparison. Absent scenario fields use the
// server's defaults; an absent horizon means DefaultWeeks weeks.
type CompareRequest struct {
	Scenario factory.ScenarioJSON `json:"scenario"`
	Horizon  factory.HorizonJSON  `json:"horizon"`
}

// RunScenarioRequest runs a saved scenario.
type RunScenarioRequest struct {
	Horizon factory.HorizonJSON `json:"horizon"`
}

// CompareResponse is the full result of one run.
type CompareResponse struct {
	RunID    string               `json:"run_id,omitempty"`
	Scenario factory.ScenarioJSON `json:"scenario"` // effective configuration
	Horizon  factory.HorizonJSON  `json:"horizon"`
	Periods  []PeriodDTO          `json:"periods"`
	Series   []PointDTO           `json:"series"`
	Summary  SummaryDTO           `json:"summary"`
}

// BreakdownDTO is the per-category net pay of one scheme.
type BreakdownDTO struct {
	Regular         float64 `json:"regular"`
	Overtime        float64 `json:"overtime"`
	SaturdayPremium float64 `json:"saturday_premium"`
	SundayRate      float64 `json:"sunday_rate"`
	Allowance       float64 `json:"allowance"`
	Total           float64 `json:"total"`
}

// PeriodDTO is one elementary period.
type PeriodDTO struct {
	Index       int          `json:"index"`
	Granularity string       `json:"granularity"`
	Start       string       `json:"start,omitempty"`
	End         string       `json:"end,omitempty"`
	DayType     string       `json:"day_type,omitempty"`
	New         BreakdownDTO `json:"new"`
	Old         BreakdownDTO `json:"old"`
	Difference  float64      `json:"difference"` // old - new
}

// PointDTO is one cumulative point; index 0 is the zero point.
type PointDTO struct {
	Index      int     `json:"index"`
	New        float64 `json:"new"`
	Old        float64 `json:"old"`
	Difference float64 `json:"difference"`
}

// SummaryDTO is the final comparison.
type SummaryDTO struct {
	Granularity string  `json:"granularity"`
	Periods     int     `json:"periods"`
	Unit        string  `json:"unit"`
	TotalNew    float64 `json:"total_new"`
	TotalOld    float64 `json:"total_old"`
	Difference  float64 `json:"difference"`
	AverageNew  float64 `json:"average_new"`
	AverageOld  float64 `json:"average_old"`
	Winner      string  `json:"winner"`
	BreakEven   *int    `json:"break_even,omitempty"`
}

// ScenarioDTO represents a saved scenario.
type ScenarioDTO struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Scenario    factory.ScenarioJSON `json:"scenario"`
	Version     int                  `json:"version"`
	CreatedAt   string               `json:"created_at,omitempty"`
	UpdatedAt   string               `json:"updated_at,omitempty"`
}

// CreateScenarioRequest saves a scenario. An empty ID creates a new one.
type CreateScenarioRequest struct {
	ID          string               `json:"id,omitempty"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Scenario    factory.ScenarioJSON `json:"scenario"`
}

// LoadPresetRequest optionally renames the scenario a preset is saved as.
type LoadPresetRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// RunDTO is one run log entry.
type RunDTO struct {
	ID          string              `json:"id"`
	ScenarioID  string              `json:"scenario_id"`
	Version     int                 `json:"version"`
	Granularity string              `json:"granularity"`
	Periods     int                 `json:"periods"`
	Horizon     factory.HorizonJSON `json:"horizon"`
	TotalNew    float64             `json:"total_new"`
	TotalOld    float64             `json:"total_old"`
	Difference  float64             `json:"difference"`
	Winner      string              `json:"winner"`
	CreatedAt   string              `json:"created_at"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Error codes carried in ErrorResponse.Code.
const (
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeNotFound             = "NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodeInternal             = "INTERNAL_ERROR"
)

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func money(a generic.Amount) float64 {
	f, _ := a.Round().Value.Float64()
	return f
}

func toBreakdownDTO(b payscheme.Breakdown) BreakdownDTO {
	return BreakdownDTO{
		Regular:         money(b.Regular),
		Overtime:        money(b.Overtime),
		SaturdayPremium: money(b.SaturdayPremium),
		SundayRate:      money(b.SundayRate),
		Allowance:       money(b.Allowance),
		Total:           money(b.Total),
	}
}

// NewCompareResponse converts an engine result into its JSON form.
func NewCompareResponse(res *payscheme.Result) CompareResponse {
	periods := make([]PeriodDTO, len(res.Records))
	for i, rec := range res.Records {
		periods[i] = PeriodDTO{
			Index:       rec.Index(),
			Granularity: string(rec.Granularity()),
			Start:       rec.Slot.Period.Start.String(),
			End:         rec.Slot.Period.End.String(),
			DayType:     string(rec.DayType()),
			New:         toBreakdownDTO(rec.New),
			Old:         toBreakdownDTO(rec.Old),
			Difference:  money(rec.Difference()),
		}
	}

	series := make([]PointDTO, len(res.Series.Points))
	for i, p := range res.Series.Points {
		series[i] = PointDTO{
			Index:      p.Index,
			New:        money(p.New),
			Old:        money(p.Old),
			Difference: money(p.Difference),
		}
	}

	return CompareResponse{
		Scenario: factory.ToJSON(res.Config),
		Horizon:  factory.HorizonToJSON(res.Horizon),
		Periods:  periods,
		Series:   series,
		Summary:  toSummaryDTO(res.Summary),
	}
}

func toSummaryDTO(s payscheme.Summary) SummaryDTO {
	return SummaryDTO{
		Granularity: string(s.Granularity),
		Periods:     s.Periods,
		Unit:        string(s.TotalNew.Unit),
		TotalNew:    money(s.TotalNew),
		TotalOld:    money(s.TotalOld),
		Difference:  money(s.Difference),
		AverageNew:  money(s.AverageNew),
		AverageOld:  money(s.AverageOld),
		Winner:      string(s.Winner),
		BreakEven:   s.BreakEven,
	}
}

func toScenarioDTO(sc generic.Scenario) ScenarioDTO {
	sj, _ := factory.DecodeScenario([]byte(sc.ConfigJSON))
	return ScenarioDTO{
		ID:          string(sc.ID),
		Name:        sc.Name,
		Description: sc.Description,
		Scenario:    sj,
		Version:     sc.Version,
		CreatedAt:   formatTime(sc.CreatedAt),
		UpdatedAt:   formatTime(sc.UpdatedAt),
	}
}

func toRunDTO(r generic.Run) RunDTO {
	var hj factory.HorizonJSON
	_ = decodeStrict([]byte(r.HorizonJSON), &hj)
	return RunDTO{
		ID:          string(r.ID),
		ScenarioID:  string(r.ScenarioID),
		Version:     r.Version,
		Granularity: string(r.Granularity),
		Periods:     r.Periods,
		Horizon:     hj,
		TotalNew:    money(r.TotalNew),
		TotalOld:    money(r.TotalOld),
		Difference:  money(r.Difference),
		Winner:      r.Winner,
		CreatedAt:   formatTime(r.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
