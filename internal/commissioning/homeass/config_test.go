package homeass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

func TestRenderLayout(t *testing.T) {
	cfg := &Config{
		Categories: []Category{
			{Domain: "cover", Devices: []Device{{
				Name: "Blind",
				Fields: []project.Field{
					{Key: "travelling_time_down", Value: 59},
					{Key: "move_long_address", Value: "2/1/1"},
				},
			}}},
			{Domain: "light", Devices: []Device{
				{Name: "Ceiling", Fields: []project.Field{{Key: "address", Value: "1/1/1"}}},
				{Name: "true", Fields: []project.Field{{Key: "address", Value: "2305"}}},
			}},
		},
	}

	out, err := cfg.Render()
	require.NoError(t, err)

	want := `cover:
  - name: Blind
    travelling_time_down: 59
    move_long_address: 2/1/1
light:
  - name: Ceiling
    address: 1/1/1
  - name: "true"
    address: "2305"
`
	assert.Equal(t, want, string(out))
}

func TestRenderWrapped(t *testing.T) {
	cfg := &Config{
		Wrap:       true,
		Categories: []Category{{Domain: "switch", Devices: []Device{{Name: "Fan"}}}},
	}

	out, err := cfg.Render()
	require.NoError(t, err)
	assert.Equal(t, "knx:\n  switch:\n    - name: Fan\n", string(out))
}

func TestRenderEmpty(t *testing.T) {
	out, err := (&Config{}).Render()
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(out))
}

func TestConfigAccessors(t *testing.T) {
	cfg := &Config{Categories: []Category{
		{Domain: "cover", Devices: []Device{{Name: "a"}}},
		{Domain: "light", Devices: []Device{{Name: "b"}, {Name: "c"}}},
	}}

	assert.Equal(t, 3, cfg.NumDevices())
	assert.Len(t, cfg.Category("light"), 2)
	assert.Nil(t, cfg.Category("climate"))

	d := Device{Fields: []project.Field{{Key: "address", Value: "1/1/1"}}}
	v, ok := d.Field("address")
	assert.True(t, ok)
	assert.Equal(t, "1/1/1", v)
	_, ok = d.Field("state_address")
	assert.False(t, ok)
}

func TestDeviceMarshalYAML(t *testing.T) {
	d := &Device{Name: "Fan", Fields: []project.Field{
		{Key: "address", Value: "1/1/1"},
		{Key: "travelling_time_down", Value: 59},
	}}

	out, err := yaml.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "name: Fan\naddress: 1/1/1\ntravelling_time_down: 59\n", string(out))
}
