// Package config holds the display configuration and the saved display state, both
// readable and writable as YAML or TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format selects the document encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

const (
	// DefaultElementID names the display when no id is configured.
	DefaultElementID = "eventDisplay"

	// DefaultEventDataLoader is the event data format read when none is configured.
	DefaultEventDataLoader = "phoenix"
)

var (
	// ErrUnknownFormat is returned for file extensions that are neither YAML nor TOML.
	ErrUnknownFormat = errors.New("unknown configuration format")

	// ErrInvalidConfiguration wraps every validation failure.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// PresetView is a named camera framing selectable at runtime.
type PresetView struct {
	Name         string    `yaml:"name" toml:"name"`
	CameraPos    []float32 `yaml:"cameraPos" toml:"cameraPos"`
	CameraTarget []float32 `yaml:"cameraTarget,omitempty" toml:"cameraTarget,omitempty"`
	Icon         string    `yaml:"icon,omitempty" toml:"icon,omitempty"`

	// Clipping forces clipping on or off when the preset is shown, nil leaves it alone.
	Clipping        *bool   `yaml:"clipping,omitempty" toml:"clipping,omitempty"`
	ClippingStart   float32 `yaml:"clippingStartAngle,omitempty" toml:"clippingStartAngle,omitempty"`
	ClippingOpening float32 `yaml:"clippingOpeningAngle,omitempty" toml:"clippingOpeningAngle,omitempty"`
}

// Position returns the preset camera position.
func (p PresetView) Position() mgl32.Vec3 {
	return vec3(p.CameraPos, mgl32.Vec3{})
}

// Target returns the preset orbit target, the origin when none is set.
func (p PresetView) Target() mgl32.Vec3 {
	return vec3(p.CameraTarget, mgl32.Vec3{})
}

// EventFile names an event file loaded on startup. Event picks one event of a file keyed
// by event name; empty means the file holds a single event.
type EventFile struct {
	Path  string `yaml:"path" toml:"path"`
	Type  string `yaml:"type" toml:"type"`
	Event string `yaml:"event,omitempty" toml:"event,omitempty"`
}

// WindowConfig sizes the display window.
type WindowConfig struct {
	Title  string `yaml:"title,omitempty" toml:"title,omitempty"`
	Width  int    `yaml:"width,omitempty" toml:"width,omitempty"`
	Height int    `yaml:"height,omitempty" toml:"height,omitempty"`
}

// Configuration describes how a display starts.
type Configuration struct {
	ElementID        string       `yaml:"elementId" toml:"elementId"`
	DefaultView      []float32    `yaml:"defaultView" toml:"defaultView"`
	PresetViews      []PresetView `yaml:"presetViews,omitempty" toml:"presetViews,omitempty"`
	EventDataLoader  string       `yaml:"eventDataLoader" toml:"eventDataLoader"`
	DefaultEventFile *EventFile   `yaml:"defaultEventFile,omitempty" toml:"defaultEventFile,omitempty"`
	DarkTheme        bool         `yaml:"darkTheme" toml:"darkTheme"`
	CameraLight      bool         `yaml:"cameraFollowingLight" toml:"cameraFollowingLight"`
	AutoRotate       bool         `yaml:"autoRotate" toml:"autoRotate"`
	Selecting        bool         `yaml:"selecting" toml:"selecting"`
	Window           WindowConfig `yaml:"window" toml:"window"`
	Verbose          bool         `yaml:"verbose" toml:"verbose"`
}

// DefaultPosition returns the first three DefaultView values.
func (c *Configuration) DefaultPosition() mgl32.Vec3 {
	return vec3(c.DefaultView, mgl32.Vec3{0, 0, 200})
}

// DefaultTarget returns values three to five of DefaultView, the origin when fewer than six are set.
func (c *Configuration) DefaultTarget() mgl32.Vec3 {
	if len(c.DefaultView) < 6 {
		return mgl32.Vec3{}
	}
	return vec3(c.DefaultView[3:], mgl32.Vec3{})
}

// Validate reports the first structural problem in the configuration.
//
// Returns:
//   - error: wraps ErrInvalidConfiguration, nil when valid
func (c *Configuration) Validate() error {
	if n := len(c.DefaultView); n != 3 && n < 6 {
		return fmt.Errorf("%w: defaultView needs 3 or 6 values, got %d", ErrInvalidConfiguration, n)
	}
	seen := make(map[string]struct{}, len(c.PresetViews))
	for i, p := range c.PresetViews {
		if p.Name == "" {
			return fmt.Errorf("%w: preset view %d has no name", ErrInvalidConfiguration, i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: duplicate preset view %q", ErrInvalidConfiguration, p.Name)
		}
		seen[p.Name] = struct{}{}
		if len(p.CameraPos) != 3 {
			return fmt.Errorf("%w: preset view %q needs a 3 value cameraPos", ErrInvalidConfiguration, p.Name)
		}
		if len(p.CameraTarget) != 0 && len(p.CameraTarget) != 3 {
			return fmt.Errorf("%w: preset view %q needs a 3 value cameraTarget", ErrInvalidConfiguration, p.Name)
		}
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("%w: negative window size", ErrInvalidConfiguration)
	}
	return nil
}

// Preset returns the preset view with the given name.
func (c *Configuration) Preset(name string) (PresetView, bool) {
	for _, p := range c.PresetViews {
		if p.Name == name {
			return p, true
		}
	}
	return PresetView{}, false
}

// NewConfiguration returns the default configuration with options applied.
//
// Parameters:
//   - options: variadic list of ConfigurationBuilderOption functions
//
// Returns:
//   - *Configuration: the configuration
func NewConfiguration(options ...ConfigurationBuilderOption) *Configuration {
	c := &Configuration{
		ElementID:       DefaultElementID,
		DefaultView:     []float32{0, 0, 200},
		EventDataLoader: DefaultEventDataLoader,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// FormatOf picks the encoding from a file extension.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Format: the encoding
//   - error: wraps ErrUnknownFormat for other extensions
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Decode reads a configuration over the defaults and validates it.
//
// Parameters:
//   - r: the source
//   - format: the encoding
//
// Returns:
//   - *Configuration: the configuration
//   - error: decode or validation failure
func Decode(r io.Reader, format Format) (*Configuration, error) {
	c := NewConfiguration()
	if err := decode(r, format, c); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if c.ElementID == "" {
		c.ElementID = DefaultElementID
	}
	if c.EventDataLoader == "" {
		c.EventDataLoader = DefaultEventDataLoader
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads a configuration file, picking the encoding from its extension.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - *Configuration: the configuration
//   - error: read, decode or validation failure
func Load(path string) (*Configuration, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration: %w", err)
	}
	defer f.Close()
	return Decode(f, format)
}

// Encode writes the configuration.
//
// Parameters:
//   - w: the destination
//   - format: the encoding
//
// Returns:
//   - error: encode failure
func (c *Configuration) Encode(w io.Writer, format Format) error {
	return encode(w, format, c)
}

func decode(r io.Reader, format Format, v any) error {
	switch format {
	case FormatYAML:
		err := yaml.NewDecoder(r).Decode(v)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	case FormatTOML:
		return toml.NewDecoder(r).Decode(v)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	case FormatTOML:
		return toml.NewEncoder(w).Encode(v)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func vec3(values []float32, fallback mgl32.Vec3) mgl32.Vec3 {
	if len(values) < 3 {
		return fallback
	}
	return mgl32.Vec3{values[0], values[1], values[2]}
}
