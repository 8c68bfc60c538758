package config

import "github.com/go-gl/mathgl/mgl32"

// ConfigurationBuilderOption is a functional option for NewConfiguration.
type ConfigurationBuilderOption func(*Configuration)

// WithDefaultView sets the startup camera position and target.
//
// Parameters:
//   - position: the camera position
//   - target: the orbit target
//
// Returns:
//   - ConfigurationBuilderOption: option function to apply
func WithDefaultView(position, target mgl32.Vec3) ConfigurationBuilderOption {
	return func(c *Configuration) {
		c.DefaultView = []float32{position[0], position[1], position[2], target[0], target[1], target[2]}
	}
}

// WithPresetView appends a preset view.
//
// Parameters:
//   - name: the preset name
//   - position: the camera position
//   - target: the orbit target
//   - icon: optional icon reference
//
// Returns:
//   - ConfigurationBuilderOption: option function to apply
func WithPresetView(name string, position, target mgl32.Vec3, icon string) ConfigurationBuilderOption {
	return func(c *Configuration) {
		c.PresetViews = append(c.PresetViews, PresetView{
			Name:         name,
			CameraPos:    position[:],
			CameraTarget: target[:],
			Icon:         icon,
		})
	}
}

// WithElementID names the display.
func WithElementID(id string) ConfigurationBuilderOption {
	return func(c *Configuration) {
		c.ElementID = id
	}
}

// WithDefaultEventFile loads an event from path on startup. An empty event key reads
// the file as a single event.
func WithDefaultEventFile(path, eventType, event string) ConfigurationBuilderOption {
	return func(c *Configuration) {
		c.DefaultEventFile = &EventFile{Path: path, Type: eventType, Event: event}
	}
}

// WithDarkTheme starts with the dark background.
func WithDarkTheme(dark bool) ConfigurationBuilderOption {
	return func(c *Configuration) {
		c.DarkTheme = dark
	}
}

// WithCameraLight makes the directional light follow the camera.
func WithCameraLight(follow bool) ConfigurationBuilderOption {
	return func(c *Configuration) {
		c.CameraLight = follow
	}
}

// WithAutoRotate starts with auto-rotation on.
func WithAutoRotate(on bool) ConfigurationBuilderOption {
	return func(c *Configuration) {
		c.AutoRotate = on
	}
}

// WithSelecting starts with hover highlighting and click selection enabled.
func WithSelecting(enabled bool) ConfigurationBuilderOption {
	return func(c *Configuration) {
		c.Selecting = enabled
	}
}

// WithWindow sets the window title and size.
func WithWindow(title string, width, height int) ConfigurationBuilderOption {
	return func(c *Configuration) {
		c.Window = WindowConfig{Title: title, Width: width, Height: height}
	}
}

// WithVerbose enables diagnostic logging across the display.
func WithVerbose(verbose bool) ConfigurationBuilderOption {
	return func(c *Configuration) {
		c.Verbose = verbose
	}
}
