/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements generic.Store (saved scenarios and the run log) on SQLite so
  that the HTTP server keeps scenarios across restarts.

APPEND-ONLY ENFORCEMENT:
  The run log has no UPDATE statements. Runs disappear only together with
  their scenario (ON DELETE CASCADE).

KEY TABLES:
  scenarios: Named parameter sets (config_json, versioned)
  runs:      Comparison totals per run, ordered by insertion (seq)

MIGRATION:
  The schema lives in migrations/*.sql, embedded into the binary and applied
  with goose on New().

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.
  An in-memory database is pinned to a single connection, since every
  new connection to ":memory:" would see an empty database.

WAL MODE:
  File databases are opened with WAL (Write-Ahead Logging) so readers
  don't block the single writer.

USAGE:
  store, err := sqlite.New("./data/paycompare.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/warp/pay-compare/generic"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	dialect       = "sqlite3"
	migrationsDir = "migrations"
	timeLayout    = time.RFC3339Nano
)

// Store implements generic.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ generic.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open(dialect, dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies the embedded goose migrations.
func (s *Store) migrate() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(s.db, migrationsDir); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}
	return nil
}

// =============================================================================
// SCENARIO STORE (generic.ScenarioStore interface)
// =============================================================================

// SaveScenario inserts a scenario or updates it, bumping its version.
func (s *Store) SaveScenario(ctx context.Context, sc generic.Scenario) (generic.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO scenarios (id, name, description, config_json, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			config_json = excluded.config_json,
			version = scenarios.version + 1,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(timeLayout)
	if _, err := s.db.ExecContext(ctx, query,
		sc.ID, sc.Name, sc.Description, sc.ConfigJSON, now, now,
	); err != nil {
		return generic.Scenario{}, fmt.Errorf("failed to save scenario: %w", err)
	}

	return s.getScenario(ctx, sc.ID)
}

// GetScenario retrieves a scenario by ID.
func (s *Store) GetScenario(ctx context.Context, id generic.ScenarioID) (generic.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getScenario(ctx, id)
}

func (s *Store) getScenario(ctx context.Context, id generic.ScenarioID) (generic.Scenario, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, config_json, version, created_at, updated_at FROM scenarios WHERE id = ?",
		id,
	)
	sc, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return generic.Scenario{}, generic.ErrScenarioNotFound
	}
	return sc, err
}

// ListScenarios returns all scenarios ordered by name.
func (s *Store) ListScenarios(ctx context.Context) ([]generic.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, config_json, version, created_at, updated_at FROM scenarios ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scenarios := []generic.Scenario{}
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, rows.Err()
}

// DeleteScenario removes a scenario; its runs cascade.
func (s *Store) DeleteScenario(ctx context.Context, id generic.ScenarioID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return generic.ErrScenarioNotFound
	}
	return nil
}

// =============================================================================
// RUN LOG (generic.RunLog interface)
// =============================================================================

// AppendRun adds a run to the log. Append-only.
func (s *Store) AppendRun(ctx context.Context, run generic.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scenarios WHERE id = ?", run.ScenarioID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return generic.ErrScenarioNotFound
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO runs
		(id, scenario_id, scenario_version, granularity, periods, horizon_json,
		 total_new, total_old, difference, unit, winner, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		run.ID,
		run.ScenarioID,
		run.Version,
		run.Granularity,
		run.Periods,
		run.HorizonJSON,
		run.TotalNew.Value.String(),
		run.TotalOld.Value.String(),
		run.Difference.Value.String(),
		run.TotalNew.Unit,
		run.Winner,
		createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return generic.ErrDuplicateRun
		}
		return fmt.Errorf("failed to append run: %w", err)
	}
	return nil
}

// ListRuns returns the runs of a scenario, oldest first.
func (s *Store) ListRuns(ctx context.Context, id generic.ScenarioID) ([]generic.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario_id, scenario_version, granularity, periods, horizon_json,
		       total_new, total_old, difference, unit, winner, created_at
		FROM runs WHERE scenario_id = ? ORDER BY seq`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []generic.Run{}
	for rows.Next() {
		var r generic.Run
		var totalNew, totalOld, diff, unit, createdAt string
		if err := rows.Scan(&r.ID, &r.ScenarioID, &r.Version, &r.Granularity, &r.Periods, &r.HorizonJSON,
			&totalNew, &totalOld, &diff, &unit, &r.Winner, &createdAt); err != nil {
			return nil, err
		}
		u := generic.Unit(unit)
		var err error
		if r.TotalNew, err = generic.ParseAmount(totalNew, u); err != nil {
			return nil, fmt.Errorf("run %s: total_new: %w", r.ID, err)
		}
		if r.TotalOld, err = generic.ParseAmount(totalOld, u); err != nil {
			return nil, fmt.Errorf("run %s: total_old: %w", r.ID, err)
		}
		if r.Difference, err = generic.ParseAmount(diff, u); err != nil {
			return nil, fmt.Errorf("run %s: difference: %w", r.ID, err)
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Reset deletes every scenario and run.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM runs; DELETE FROM scenarios;")
	return err
}

// Helper functions

type scanner interface {
	Scan(dest ...any) error
}

func scanScenario(row scanner) (generic.Scenario, error) {
	var sc generic.Scenario
	var createdAt, updatedAt string
	if err := row.Scan(&sc.ID, &sc.Name, &sc.Description, &sc.ConfigJSON, &sc.Version, &createdAt, &updatedAt); err != nil {
		return generic.Scenario{}, err
	}
	var err error
	if sc.CreatedAt, err = parseTime(createdAt); err != nil {
		return generic.Scenario{}, fmt.Errorf("scenario %s: %w", sc.ID, err)
	}
	if sc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return generic.Scenario{}, fmt.Errorf("scenario %s: %w", sc.ID, err)
	}
	return sc, nil
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return t, nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
