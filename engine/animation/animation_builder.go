package animation

import (
	"github.com/Carmen-Shannon/phoenix-go/common"
)

// ManagerBuilderOption is a functional option for configuring the animation Manager.
type ManagerBuilderOption func(*manager)

// WithClippingConstant sets the final radius of the clipping reveal volume.
//
// Parameters:
//   - constant: distance of every clipping plane from the origin at the end of the reveal
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithClippingConstant(constant float32) ManagerBuilderOption {
	return func(m *manager) {
		m.clipConstant = constant
	}
}

// WithVerbose enables debug logging.
func WithVerbose(verbose bool) ManagerBuilderOption {
	return func(m *manager) {
		m.verbose = verbose
	}
}

type collisionConfig struct {
	size     float32
	distance float32
	color    common.Color
}

// CollisionOption configures CollideParticles.
type CollisionOption func(*collisionConfig)

// WithParticleSize sets the marker radius. Defaults to 10.
func WithParticleSize(size float32) CollisionOption {
	return func(c *collisionConfig) {
		c.size = size
	}
}

// WithParticleDistance sets the start distance of each marker from the origin along z.
// Defaults to 5000.
func WithParticleDistance(distance float32) CollisionOption {
	return func(c *collisionConfig) {
		c.distance = distance
	}
}

// WithParticleColor sets the marker color. Defaults to white.
func WithParticleColor(color common.Color) CollisionOption {
	return func(c *collisionConfig) {
		c.color = color
	}
}
