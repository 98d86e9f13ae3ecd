package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pay-compare/generic"
	"github.com/warp/pay-compare/generic/store"
)

func TestMemory_SaveScenario_BumpsVersion(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	first, err := m.SaveScenario(ctx, generic.Scenario{ID: "s1", Name: "Defaults", ConfigJSON: `{}`})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := m.SaveScenario(ctx, generic.Scenario{ID: "s1", Name: "Defaults v2", ConfigJSON: `{"hourly_wage":25}`})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	got, err := m.GetScenario(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Defaults v2", got.Name)
}

func TestMemory_ListScenarios_OrderedByName(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	for _, s := range []generic.Scenario{{ID: "b", Name: "Zeta"}, {ID: "a", Name: "Alpha"}, {ID: "c", Name: "Mid"}} {
		_, err := m.SaveScenario(ctx, s)
		require.NoError(t, err)
	}

	list, err := m.ListScenarios(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "Mid", list[1].Name)
	assert.Equal(t, "Zeta", list[2].Name)
}

func TestMemory_NotFound(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	_, err := m.GetScenario(ctx, "missing")
	assert.ErrorIs(t, err, generic.ErrScenarioNotFound)
	assert.ErrorIs(t, m.DeleteScenario(ctx, "missing"), generic.ErrScenarioNotFound)
	assert.ErrorIs(t, m.AppendRun(ctx, generic.Run{ID: "r1", ScenarioID: "missing"}), generic.ErrScenarioNotFound)
}

func TestMemory_RunLog_AppendOnly(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	_, err := m.SaveScenario(ctx, generic.Scenario{ID: "s1", Name: "Defaults"})
	require.NoError(t, err)

	require.NoError(t, m.AppendRun(ctx, generic.Run{ID: "r1", ScenarioID: "s1", Periods: 12}))
	require.NoError(t, m.AppendRun(ctx, generic.Run{ID: "r2", ScenarioID: "s1", Periods: 4}))
	assert.ErrorIs(t, m.AppendRun(ctx, generic.Run{ID: "r1", ScenarioID: "s1"}), generic.ErrDuplicateRun)

	runs, err := m.ListRuns(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, generic.RunID("r1"), runs[0].ID)
	assert.False(t, runs[0].CreatedAt.IsZero())

	require.NoError(t, m.DeleteScenario(ctx, "s1"))
	runs, err = m.ListRuns(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, runs)
}
