package config

import (
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/phoenix-go/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraRig is the part of the camera controls a State reads and restores.
type CameraRig interface {
	Active() camera.Camera
	SetView(position, target mgl32.Vec3)
}

// Clipper is the part of the scene a State reads and restores.
type Clipper interface {
	ClippingEnabled() bool
	ClippingAngle() (float32, float32)
	SetClippingEnabled(enabled bool)
	SetClippingAngle(startDeg, openingDeg float32)
}

// DisplayState is the saved camera and clipping of a display.
type DisplayState struct {
	CameraPosition []float32 `yaml:"cameraPosition" toml:"cameraPosition"`
	// ClippingAngle is the opening angle, nil when clipping was off.
	ClippingAngle *float32 `yaml:"clippingAngle" toml:"clippingAngle,omitempty"`
	ClippingStart float32  `yaml:"clippingStart,omitempty" toml:"clippingStart,omitempty"`
}

// State is a saved display state document.
type State struct {
	EventDisplay *DisplayState `yaml:"eventDisplay,omitempty" toml:"eventDisplay,omitempty"`
}

// CaptureState snapshots the active camera position and the clipping wedge.
//
// Parameters:
//   - rig: the camera controls
//   - clip: the scene clipping
//
// Returns:
//   - State: the snapshot
func CaptureState(rig CameraRig, clip Clipper) State {
	pos := rig.Active().Position()
	ds := &DisplayState{CameraPosition: []float32{pos[0], pos[1], pos[2]}}
	if clip.ClippingEnabled() {
		start, opening := clip.ClippingAngle()
		ds.ClippingAngle = &opening
		ds.ClippingStart = start
	}
	return State{EventDisplay: ds}
}

// Apply restores the camera position, keeping the current orbit target, and turns
// clipping on at the saved angle when one is present. A state without a display
// section changes nothing.
//
// Parameters:
//   - rig: the camera controls
//   - clip: the scene clipping
func (s State) Apply(rig CameraRig, clip Clipper) {
	if s.EventDisplay == nil {
		return
	}
	if len(s.EventDisplay.CameraPosition) >= 3 {
		target := rig.Active().Controller().Target()
		rig.SetView(vec3(s.EventDisplay.CameraPosition, mgl32.Vec3{}), target)
	}
	if s.EventDisplay.ClippingAngle != nil {
		clip.SetClippingEnabled(true)
		clip.SetClippingAngle(s.EventDisplay.ClippingStart, *s.EventDisplay.ClippingAngle)
	}
}

// Encode writes the state.
func (s State) Encode(w io.Writer, format Format) error {
	return encode(w, format, s)
}

// DecodeState reads a state document.
//
// Parameters:
//   - r: the source
//   - format: the encoding
//
// Returns:
//   - State: the state
//   - error: decode failure
func DecodeState(r io.Reader, format Format) (State, error) {
	var s State
	if err := decode(r, format, &s); err != nil {
		return State{}, fmt.Errorf("failed to decode state: %w", err)
	}
	return s, nil
}

// SaveState writes the state to path, picking the encoding from its extension.
func SaveState(path string, s State) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create state file: %w", err)
	}
	if err := s.Encode(f, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	return f.Close()
}

// LoadState reads a state file, picking the encoding from its extension.
func LoadState(path string) (State, error) {
	format, err := FormatOf(path)
	if err != nil {
		return State{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return State{}, fmt.Errorf("failed to open state file: %w", err)
	}
	defer f.Close()
	return DecodeState(f, format)
}
