/*
store.go - Persistence interface for saved scenarios and the run log

PURPOSE:
  The engine itself is stateless. Persistence only exists for the callers:
  a user can save a parameter set as a named scenario and every comparison
  run against a saved scenario is appended to a run log.

KEY INTERFACES:
  ScenarioStore: Named parameter sets (versioned on update)
  RunLog:        Append-only history of comparison runs
  Store:         Both, as implemented by sqlite and memory stores

APPEND-ONLY CONTRACT:
  The RunLog has no Update() or Delete(). A run ID can only be appended once;
  a second append returns ErrDuplicateRun.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite with goose migrations
  - generic/store/memory.go: In-memory for tests and ephemeral servers

SEE ALSO:
  - factory/scenario.go: Parses Scenario.ConfigJSON into a configuration
  - api/handlers.go: Scenario endpoints
*/
package generic

import (
	"context"
	"time"
)

// =============================================================================
// RECORDS
// =============================================================================

type ScenarioID string
type RunID string

// Scenario is a saved parameter set. ConfigJSON holds a factory.ScenarioJSON
// document so the store stays independent of configuration fields.
type Scenario struct {
	ID          ScenarioID
	Name        string
	Description string
	ConfigJSON  string
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Run is one comparison executed against a saved scenario.
type Run struct {
	ID          RunID
	ScenarioID  ScenarioID
	Version     int // Scenario version the run used
	Granularity Granularity
	Periods     int
	HorizonJSON string
	TotalNew    Amount
	TotalOld    Amount
	Difference  Amount // old - new
	Winner      string
	CreatedAt   time.Time
}

// =============================================================================
// STORE INTERFACES
// =============================================================================

// ScenarioStore persists named parameter sets.
type ScenarioStore interface {
	// SaveScenario inserts or updates a scenario. Updates bump Version.
	// The stored record (with Version and timestamps) is returned.
	SaveScenario(ctx context.Context, s Scenario) (Scenario, error)

	// GetScenario returns ErrScenarioNotFound when id is unknown.
	GetScenario(ctx context.Context, id ScenarioID) (Scenario, error)

	// ListScenarios returns all scenarios ordered by name.
	ListScenarios(ctx context.Context) ([]Scenario, error)

	// DeleteScenario removes a scenario and its runs.
	// Returns ErrScenarioNotFound when id is unknown.
	DeleteScenario(ctx context.Context, id ScenarioID) error
}

// RunLog records comparison runs. Append-only.
type RunLog interface {
	AppendRun(ctx context.Context, run Run) error

	// ListRuns returns runs for a scenario, oldest first.
	ListRuns(ctx context.Context, id ScenarioID) ([]Run, error)
}

// Store is the full persistence surface used by the API.
type Store interface {
	ScenarioStore
	RunLog
}
