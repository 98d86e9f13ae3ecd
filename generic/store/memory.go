// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/pay-compare/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	scenarios map[generic.ScenarioID]generic.Scenario
	runs      map[generic.ScenarioID][]generic.Run
	runIDs    map[generic.RunID]bool
	now       func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		scenarios: make(map[generic.ScenarioID]generic.Scenario),
		runs:      make(map[generic.ScenarioID][]generic.Run),
		runIDs:    make(map[generic.RunID]bool),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var _ generic.Store = (*Memory)(nil)

func (m *Memory) SaveScenario(_ context.Context, s generic.Scenario) (generic.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if existing, ok := m.scenarios[s.ID]; ok {
		s.Version = existing.Version + 1
		s.CreatedAt = existing.CreatedAt
	} else {
		s.Version = 1
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	m.scenarios[s.ID] = s
	return s, nil
}

func (m *Memory) GetScenario(_ context.Context, id generic.ScenarioID) (generic.Scenario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.scenarios[id]
	if !ok {
		return generic.Scenario{}, generic.ErrScenarioNotFound
	}
	return s, nil
}

func (m *Memory) ListScenarios(_ context.Context) ([]generic.Scenario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]generic.Scenario, 0, len(m.scenarios))
	for _, s := range m.scenarios {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name == result[j].Name {
			return result[i].ID < result[j].ID
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *Memory) DeleteScenario(_ context.Context, id generic.ScenarioID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.scenarios[id]; !ok {
		return generic.ErrScenarioNotFound
	}
	delete(m.scenarios, id)
	for _, r := range m.runs[id] {
		delete(m.runIDs, r.ID)
	}
	delete(m.runs, id)
	return nil
}

// AppendRun adds a run to the log. Append-only.
func (m *Memory) AppendRun(_ context.Context, run generic.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.scenarios[run.ScenarioID]; !ok {
		return generic.ErrScenarioNotFound
	}
	if m.runIDs[run.ID] {
		return generic.ErrDuplicateRun
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = m.now()
	}
	m.runs[run.ScenarioID] = append(m.runs[run.ScenarioID], run)
	m.runIDs[run.ID] = true
	return nil
}

func (m *Memory) ListRuns(_ context.Context, id generic.ScenarioID) ([]generic.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]generic.Run, len(m.runs[id]))
	copy(result, m.runs[id])
	return result, nil
}
