package correction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

func TestPulseBlinds(t *testing.T) {
	b := newModel(t).
		ga("GA-1", "Volet Montee:Pulse", "2/2/1", "1.008").
		ga("GA-2", "Volet Descente:Pulse", "2/2/2", "1.008").
		ga("GA-3", "Store M/D", "2/3/1", "1.008").
		ga("GA-4", "Store stop", "2/3/2", "1.010").
		ga("GA-5", "Etat lampe", "3/1/5", "1.011").
		ga("GA-6", "Etat variation", "3/4/5", "5.001").
		obj("F-1", "Volet", project.FunctionSunProtection, "GA-1", "GA-2").
		obj("F-2", "Store", project.FunctionSunProtection, "GA-3", "GA-4").
		obj("F-3", "Spare", project.FunctionCustom, "GA-5", "GA-6")

	require.NoError(t, PulseBlinds(&recordingLogger{}).Fix(b.m))

	assert.False(t, b.m.HasObject("F-1"), "split object is removed")

	up, err := b.m.Object("F-1_Montee")
	require.NoError(t, err)
	assert.Equal(t, "Volet Montee", up.Name)
	assert.Equal(t, project.FunctionCustom, up.Type)
	assert.Equal(t, "switch", up.Ext.Domain)
	assert.Equal(t, "Living", up.Room)
	assert.Equal(t, []string{"GA-1"}, b.m.ObjectGroupAddresses("F-1_Montee"))

	down, err := b.m.Object("F-1_Descente")
	require.NoError(t, err)
	assert.Equal(t, "Volet Descente", down.Name)
	assert.Equal(t, []string{"GA-2"}, b.m.ObjectGroupAddresses("F-1_Descente"))

	for _, id := range []string{"GA-1", "GA-2"} {
		ga, err := b.m.GroupAddress(id)
		require.NoError(t, err)
		assert.Equal(t, "1.001", ga.Datapoint, id)
	}

	store, err := b.m.Object("F-2")
	require.NoError(t, err)
	assert.Equal(t, []project.Field{
		{Key: "travelling_time_down", Value: 59},
		{Key: "travelling_time_up", Value: 59},
	}, store.Ext.Fields)
	ga3, err := b.m.GroupAddress("GA-3")
	require.NoError(t, err)
	assert.Equal(t, "1.008", ga3.Datapoint, "unsplit covers keep their datapoints")

	spare, err := b.m.Object("F-3")
	require.NoError(t, err)
	assert.Equal(t, "switch", spare.Ext.Domain)

	state, err := b.m.GroupAddress("GA-5")
	require.NoError(t, err)
	assert.Equal(t, "state_address", state.Ext.Property)

	brightness, err := b.m.GroupAddress("GA-6")
	require.NoError(t, err)
	assert.Equal(t, "brightness_state_address", brightness.Ext.Property)
}

func TestSplitObjectsUnknownDirection(t *testing.T) {
	b := newModel(t).
		ga("GA-1", "Volet Montee:Pulse", "2/2/1", "1.008").
		ga("GA-2", "Volet sideways", "2/2/2", "1.008").
		obj("F-1", "Volet", project.FunctionSunProtection, "GA-1", "GA-2")

	rule := SplitRule{
		Type:               project.FunctionSunProtection,
		FirstAddressSuffix: ":Pulse",
		Directions:         []string{"Montee", "Descente"},
		Domain:             "switch",
	}
	err := SplitObjects(rule, &recordingLogger{}).Fix(b.m)
	assert.ErrorIs(t, err, ErrSplitDirection)
	assert.True(t, b.m.HasObject("F-1"), "model is untouched on error")
}

func TestFindDirectionOrder(t *testing.T) {
	d, ok := findDirection("Up then Down", []string{"Down", "Up"})
	require.True(t, ok)
	assert.Equal(t, "Down", d)

	_, ok = findDirection("Stop", []string{"Up", "Down"})
	assert.False(t, ok)
}
