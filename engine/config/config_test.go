package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/phoenix-go/engine/camera"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `
elementId: atlas
defaultView: [100, 50, 300, 0, 0, 10]
darkTheme: true
presetViews:
  - name: Left
    cameraPos: [0, 0, -1200]
    icon: left-cube
  - name: Center
    cameraPos: [-500, 12, 0]
    cameraTarget: [0, 0, 50]
window:
  width: 800
  height: 600
`

const tomlConfig = `
defaultView = [0, 0, 400]
autoRotate = true
selecting = true

[[presetViews]]
name = "Right"
cameraPos = [0, 0, 1200]

[defaultEventFile]
path = "events/atlas.json"
type = "json"
`

func TestDefaults(t *testing.T) {
	c := NewConfiguration()
	assert.Equal(t, DefaultElementID, c.ElementID)
	assert.Equal(t, DefaultEventDataLoader, c.EventDataLoader)
	assert.Equal(t, mgl32.Vec3{0, 0, 200}, c.DefaultPosition())
	assert.Equal(t, mgl32.Vec3{}, c.DefaultTarget())
	assert.NoError(t, c.Validate())
}

func TestDecodeYAML(t *testing.T) {
	c, err := Decode(strings.NewReader(yamlConfig), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "atlas", c.ElementID)
	assert.Equal(t, DefaultEventDataLoader, c.EventDataLoader)
	assert.True(t, c.DarkTheme)
	assert.Equal(t, mgl32.Vec3{100, 50, 300}, c.DefaultPosition())
	assert.Equal(t, mgl32.Vec3{0, 0, 10}, c.DefaultTarget())
	assert.Equal(t, 800, c.Window.Width)

	require.Len(t, c.PresetViews, 2)
	left, ok := c.Preset("Left")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 0, -1200}, left.Position())
	assert.Equal(t, mgl32.Vec3{}, left.Target())
	assert.Equal(t, "left-cube", left.Icon)

	center, _ := c.Preset("Center")
	assert.Equal(t, mgl32.Vec3{0, 0, 50}, center.Target())

	_, ok = c.Preset("Top")
	assert.False(t, ok)
}

func TestDecodeTOML(t *testing.T) {
	c, err := Decode(strings.NewReader(tomlConfig), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, DefaultElementID, c.ElementID)
	assert.True(t, c.AutoRotate)
	assert.True(t, c.Selecting)
	assert.Equal(t, mgl32.Vec3{0, 0, 400}, c.DefaultPosition())
	require.NotNil(t, c.DefaultEventFile)
	assert.Equal(t, "events/atlas.json", c.DefaultEventFile.Path)
	require.Len(t, c.PresetViews, 1)
	assert.Equal(t, "Right", c.PresetViews[0].Name)
}

func TestDecodeEmptyYAMLKeepsDefaults(t *testing.T) {
	c, err := Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, NewConfiguration(), c)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"short default view": "defaultView: [1, 2]\n",
		"four value view":    "defaultView: [1, 2, 3, 4]\n",
		"unnamed preset":     "presetViews:\n  - cameraPos: [1, 2, 3]\n",
		"duplicate preset":   "presetViews:\n  - {name: a, cameraPos: [1, 2, 3]}\n  - {name: a, cameraPos: [1, 2, 3]}\n",
		"short preset pos":   "presetViews:\n  - {name: a, cameraPos: [1, 2]}\n",
		"short preset aim":   "presetViews:\n  - {name: a, cameraPos: [1, 2, 3], cameraTarget: [1]}\n",
		"negative window":    "window: {width: -1}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc), FormatYAML)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("display.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatOf("display.toml")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)

	_, err = FormatOf("display.json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = Load("display.ini")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestEncodeRoundTripsThroughBothFormats(t *testing.T) {
	c := NewConfiguration(
		WithElementID("cms"),
		WithDefaultView(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{4, 5, 6}),
		WithPresetView("Top", mgl32.Vec3{0, 900, 0}, mgl32.Vec3{}, ""),
		WithDarkTheme(true),
		WithWindow("CMS", 1024, 768),
	)
	for _, format := range []Format{FormatYAML, FormatTOML} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, c.Encode(&buf, format))
			back, err := Decode(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, c.ElementID, back.ElementID)
			assert.Equal(t, c.DefaultTarget(), back.DefaultTarget())
			assert.Equal(t, c.PresetViews[0].Position(), back.PresetViews[0].Position())
			assert.Equal(t, c.Window, back.Window)
			assert.True(t, back.DarkTheme)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "display.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlConfig), 0o644))
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "atlas", c.ElementID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCaptureStateWithoutClipping(t *testing.T) {
	controls := camera.NewControls()
	scenes := scene.NewManager()
	controls.SetView(mgl32.Vec3{10, 20, 30}, mgl32.Vec3{})

	s := CaptureState(controls, scenes)
	require.NotNil(t, s.EventDisplay)
	assert.Equal(t, []float32{10, 20, 30}, s.EventDisplay.CameraPosition)
	assert.Nil(t, s.EventDisplay.ClippingAngle)

	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf, FormatYAML))
	assert.Contains(t, buf.String(), "clippingAngle: null")
}

func TestStateRestoresCameraAndClipping(t *testing.T) {
	src := scene.NewManager()
	srcControls := camera.NewControls()
	srcControls.SetView(mgl32.Vec3{0, 300, 0}, mgl32.Vec3{})
	src.SetClippingEnabled(true)
	src.SetClippingAngle(30, 120)

	for _, format := range []Format{FormatYAML, FormatTOML} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, CaptureState(srcControls, src).Encode(&buf, format))
			s, err := DecodeState(&buf, format)
			require.NoError(t, err)

			dst := scene.NewManager()
			dstControls := camera.NewControls()
			s.Apply(dstControls, dst)

			pos := dstControls.Active().Position()
			assert.InDeltaSlice(t, []float32{0, 300, 0}, pos[:], 1e-4)
			assert.True(t, dst.ClippingEnabled())
			start, opening := dst.ClippingAngle()
			assert.Equal(t, float32(30), start)
			assert.Equal(t, float32(120), opening)
		})
	}
}

func TestEmptyStateChangesNothing(t *testing.T) {
	controls := camera.NewControls()
	scenes := scene.NewManager()
	before := controls.Active().Position()

	s, err := DecodeState(strings.NewReader("{}"), FormatYAML)
	require.NoError(t, err)
	s.Apply(controls, scenes)

	assert.Equal(t, before, controls.Active().Position())
	assert.False(t, scenes.ClippingEnabled())
}

func TestSaveAndLoadStateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	angle := float32(90)
	want := State{EventDisplay: &DisplayState{CameraPosition: []float32{1, 2, 3}, ClippingAngle: &angle}}
	require.NoError(t, SaveState(path, want))

	got, err := LoadState(path)
	require.NoError(t, err)
	require.NotNil(t, got.EventDisplay)
	assert.Equal(t, want.EventDisplay.CameraPosition, got.EventDisplay.CameraPosition)
	require.NotNil(t, got.EventDisplay.ClippingAngle)
	assert.Equal(t, angle, *got.EventDisplay.ClippingAngle)

	assert.ErrorIs(t, SaveState("state.txt", want), ErrUnknownFormat)
}
