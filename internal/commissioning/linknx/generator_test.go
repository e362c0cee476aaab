package linknx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

type warnCounter struct{ n int }

func (w *warnCounter) Warn(string, ...any) { w.n++ }

func testModel(t *testing.T) *project.Model {
	t.Helper()
	m := project.NewModel(project.Info{Name: "Test"})
	for _, ga := range []project.GroupAddress{
		{ID: "GA-3", Name: "Blind position", Address: "2/1/3", Raw: 4355, Datapoint: "5.001"},
		{ID: "GA-1", Name: "Kitchen switch", Address: "1/1/1", Raw: 2305, Datapoint: "1.001"},
		{ID: "GA-2", Name: "Heat & cool", Address: "1/1/2", Raw: 2306, Datapoint: "9.001"},
		{ID: "GA-0", Name: "Same address", Address: "1/1/1", Raw: 2305, Datapoint: "5.010"},
	} {
		require.NoError(t, m.AddGroupAddress(ga))
	}
	return m
}

func TestGenerate(t *testing.T) {
	m := testModel(t)

	out, err := Generate(m, &warnCounter{})
	require.NoError(t, err)

	want := strings.Join([]string{
		`        <object type="5.xxx" id="id_1_1_1" gad="1/1/1" init="request">Same address</object>`,
		`        <object type="1.001" id="id_1_1_1" gad="1/1/1" init="request">Kitchen switch</object>`,
		`        <object type="9.001" id="id_1_1_2" gad="1/1/2" init="request">Heat &amp; cool</object>`,
		`        <object type="5.xxx" id="id_2_1_3" gad="2/1/3" init="request">Blind position</object>`,
	}, "\n") + "\n"
	assert.Equal(t, want, string(out))
}

func TestObjectsDisplayNameOverride(t *testing.T) {
	m := testModel(t)
	require.NoError(t, m.SetGroupAddressExt("GA-1", project.GroupAddressExt{DisplayName: "cuisine"}))

	objects := Objects(m, &warnCounter{})
	require.Len(t, objects, 4)
	assert.Equal(t, "cuisine", objects[1].Name)
}

func TestObjectsIncludesOrphansAndSkipsErasedDatapoints(t *testing.T) {
	m := testModel(t)
	require.NoError(t, m.SetDatapoint("GA-2", ""))

	warn := &warnCounter{}
	objects := Objects(m, warn)

	assert.Len(t, objects, 3, "unassociated addresses are still listed")
	assert.Equal(t, 1, warn.n)
	for _, o := range objects {
		assert.NotEqual(t, "1/1/2", o.GAD)
	}
}

func TestObjectsFreeStyleSortsNumerically(t *testing.T) {
	m := project.NewModel(project.Info{})
	require.NoError(t, m.AddGroupAddress(project.GroupAddress{ID: "a", Address: "100", Raw: 100, Datapoint: "1.001"}))
	require.NoError(t, m.AddGroupAddress(project.GroupAddress{ID: "b", Address: "9", Raw: 9, Datapoint: "1.001"}))

	objects := Objects(m, &warnCounter{})
	require.Len(t, objects, 2)
	assert.Equal(t, "9", objects[0].GAD)
	assert.Equal(t, "id_9", objects[0].ID)
	assert.Equal(t, "100", objects[1].GAD)
}

func TestGenerateEmpty(t *testing.T) {
	out, err := Generate(project.NewModel(project.Info{}), &warnCounter{})
	require.NoError(t, err)
	assert.Empty(t, out)
}
