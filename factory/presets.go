package factory

import "sort"

// =============================================================================
// PRESETS - Historical variants of the old scheme
// =============================================================================

// Preset is a named scenario overlay. Presets only carry the fields they
// change; everything else comes from the factory's base configuration.
type Preset struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Scenario    ScenarioJSON `json:"scenario"`
}

const (
	PresetDefault             = "default"
	PresetSaturdayPremium     = "saturday-premium-2.11"
	PresetBaseWhenNotWorking  = "base-when-not-working"
	PresetWorkedDaysAllowance = "worked-days-allowance"
)

var presets = map[string]Preset{
	PresetDefault: {
		Name:        PresetDefault,
		Description: "Base Saturday pay at the Sunday multiplier when Saturday is worked; old allowance every day",
	},
	PresetSaturdayPremium: {
		Name:        PresetSaturdayPremium,
		Description: "Old base Saturday pay at the Saturday multiplier (2.11) instead of 0.75",
		Scenario:    ScenarioJSON{OldSaturdayBaseMultiplier: Float(2.11)},
	},
	PresetBaseWhenNotWorking: {
		Name:        PresetBaseWhenNotWorking,
		Description: "Old base Saturday pay only in weeks where Saturday is not worked",
		Scenario:    ScenarioJSON{OldSaturdayBaseRule: String("not_worked")},
	},
	PresetWorkedDaysAllowance: {
		Name:        PresetWorkedDaysAllowance,
		Description: "Old gross allowance only on worked days",
		Scenario:    ScenarioJSON{AllowanceAppliesAllDays: Bool(false)},
	},
}

// Presets returns all presets ordered by name, default first.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == PresetDefault || out[j].Name == PresetDefault {
			return out[i].Name == PresetDefault
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// LookupPreset returns the preset with the given name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}
