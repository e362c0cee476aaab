package correction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

const sampleRules = `
fix_objects:
  - split:
      type: sun_protection
      first_address_suffix: ":Pulse"
      directions: [Montee, Descente]
      datapoint: "1.001"
  - objects:
      type: sun_protection
      fields:
        travelling_time_down: 30
        invert_position: true
  - addresses:
      address_contains: /9/
      set_datapoint: ""
  - orphans:
      mode: by_prefix
      room: Cellar
      prefixes:
        - prefix: "Pump "
          property: address
          domain: switch
  - names:
      F-2: Garden blind
`

func TestParse(t *testing.T) {
	b := newModel(t).
		ga("GA-1", "Volet Montee:Pulse", "2/2/1", "1.008").
		ga("GA-2", "Volet Descente:Pulse", "2/2/2", "1.008").
		ga("GA-3", "Store M/D", "2/3/1", "1.008").
		ga("GA-4", "Scene", "2/9/1", "17.001").
		ga("GA-5", "Pump well", "4/1/1", "1.001").
		obj("F-1", "Volet", project.FunctionSunProtection, "GA-1", "GA-2").
		obj("F-2", "Store", project.FunctionSunProtection, "GA-3", "GA-4")

	fixer, steps, err := Parse([]byte(sampleRules), &recordingLogger{})
	require.NoError(t, err)
	assert.Equal(t, 5, steps)
	require.NoError(t, fixer.Fix(b.m))

	up, err := b.m.Object("F-1_Montee")
	require.NoError(t, err)
	assert.Equal(t, "switch", up.Ext.Domain, "split domain defaults to switch")

	store, err := b.m.Object("F-2")
	require.NoError(t, err)
	assert.Equal(t, "Garden blind", store.Ext.Name)
	assert.Equal(t, []project.Field{
		{Key: "travelling_time_down", Value: 30},
		{Key: "invert_position", Value: true},
	}, store.Ext.Fields, "fields keep file order")

	scene, err := b.m.GroupAddress("GA-4")
	require.NoError(t, err)
	assert.Empty(t, scene.Datapoint)

	pump, err := b.m.Object("well")
	require.NoError(t, err)
	assert.Equal(t, "Cellar", pump.Room)
	assert.Equal(t, "unknown floor", pump.Floor)
	assert.Equal(t, "switch", pump.Ext.Domain)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"not yaml", "fix_objects: [", ErrInvalidRules},
		{"no entry point", "fixes: []\n", ErrNoEntryPoint},
		{"entry point not a list", "fix_objects: 3\n", ErrInvalidRules},
		{"two kinds in a step", "fix_objects:\n  - names: {F-1: A}\n    orphans: {mode: per_address}\n", ErrInvalidRules},
		{"empty step", "fix_objects:\n  - {}\n", ErrInvalidRules},
		{"unknown orphan mode", "fix_objects:\n  - orphans: {mode: everything}\n", ErrInvalidRules},
		{"unknown function type", "fix_objects:\n  - objects: {type: blind, domain: cover}\n", ErrInvalidRules},
		{"split without directions", "fix_objects:\n  - split: {type: sun_protection}\n", ErrInvalidRules},
		{"objects without effect", "fix_objects:\n  - objects: {type: custom}\n", ErrInvalidRules},
		{"fields not a mapping", "fix_objects:\n  - objects: {fields: [1, 2]}\n", ErrInvalidRules},
		{"addresses without criteria", "fix_objects:\n  - addresses: {property: address}\n", ErrInvalidRules},
		{"addresses without effect", "fix_objects:\n  - addresses: {address_contains: /1/}\n", ErrInvalidRules},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.doc), &recordingLogger{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseEmptyList(t *testing.T) {
	fixer, steps, err := Parse([]byte("fix_objects: []\n"), &recordingLogger{})
	require.NoError(t, err)
	assert.Zero(t, steps)
	assert.NoError(t, fixer.Fix(project.NewModel(project.Info{})))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yml")
	require.NoError(t, os.WriteFile(path, []byte("fix_objects:\n  - orphans: {mode: per_address}\n"), 0o600))

	log := &recordingLogger{}
	fixer, err := Load(path, log)
	require.NoError(t, err)
	assert.True(t, log.has("INFO", "correction file loaded"))

	b := newModel(t).ga("GA-1", "Bell", "1/1/1", "1.001")
	require.NoError(t, fixer.Fix(b.m))
	assert.True(t, b.m.HasObject("orphan-0001"))
}
