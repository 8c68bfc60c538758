// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// Color is a 24-bit RGB color stored as 0xRRGGBB.
type Color uint32

// Well-known colors used as defaults across the display.
const (
	ColorWhite        Color = 0xffffff
	ColorBlack        Color = 0x000000
	ColorOBJDefault   Color = 0x41a6f4
	ColorGeometry     Color = 0x2fd691
	ColorTrack        Color = 0xff0000
	ColorJet          Color = 0x2194ce
	ColorHit          Color = 0xffff00
	ColorCluster      Color = 0xffd166
	ColorVertex       Color = 0xffffff
	ColorBackground   Color = 0xffffff
	ColorBackgroundDk Color = 0x000000
)

// ParseColor parses a color from "#rrggbb", "rrggbb" or "0xrrggbb".
//
// Parameters:
//   - s: the color string
//
// Returns:
//   - Color: the parsed color
//   - error: error if the string is not a valid hex color
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return ColorFromRGB(float32(c.R), float32(c.G), float32(c.B)), nil
}

// ColorFromRGB builds a Color from normalized float components.
func ColorFromRGB(r, g, b float32) Color {
	c := colorful.Color{R: float64(r), G: float64(g), B: float64(b)}.Clamped()
	r8, g8, b8 := c.RGB255()
	return Color(uint32(r8)<<16 | uint32(g8)<<8 | uint32(b8))
}

// RGB returns the normalized red, green and blue components.
func (c Color) RGB() (float32, float32, float32) {
	return float32((c>>16)&0xff) / 255, float32((c>>8)&0xff) / 255, float32(c&0xff) / 255
}

// Vec4 returns the color as an RGBA vector with the given alpha.
func (c Color) Vec4(alpha float32) mgl32.Vec4 {
	r, g, b := c.RGB()
	return mgl32.Vec4{r, g, b, alpha}
}

// Hex returns the color formatted as "#rrggbb".
func (c Color) Hex() string {
	r, g, b := c.RGB()
	return colorful.Color{R: float64(r), G: float64(g), B: float64(b)}.Hex()
}

// Blend mixes c towards other by t in RGB space.
func (c Color) Blend(other Color, t float32) Color {
	r1, g1, b1 := c.RGB()
	r2, g2, b2 := other.RGB()
	mixed := colorful.Color{R: float64(r1), G: float64(g1), B: float64(b1)}.
		BlendRgb(colorful.Color{R: float64(r2), G: float64(g2), B: float64(b2)}, float64(t))
	return ColorFromRGB(float32(mixed.R), float32(mixed.G), float32(mixed.B))
}

// String returns the color as "0xrrggbb".
func (c Color) String() string {
	return "0x" + strconv.FormatUint(uint64(c)|0x1000000, 16)[1:]
}

// Box3 is an axis aligned bounding box.
type Box3 struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBox3 returns a box that contains nothing and expands correctly on the first point.
func EmptyBox3() Box3 {
	inf := float32(math.Inf(1))
	return Box3{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box has no volume.
func (b Box3) IsEmpty() bool {
	return b.Max.X() < b.Min.X() || b.Max.Y() < b.Min.Y() || b.Max.Z() < b.Min.Z()
}

// ExpandByPoint grows the box to include p.
func (b *Box3) ExpandByPoint(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

// Union grows the box to include other.
func (b *Box3) Union(other Box3) {
	if other.IsEmpty() {
		return
	}
	b.ExpandByPoint(other.Min)
	b.ExpandByPoint(other.Max)
}

// Size returns the box extent on each axis, or zero for empty boxes.
func (b Box3) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Box3) Center() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// Transform returns the axis aligned box enclosing this box after applying m.
func (b Box3) Transform(m mgl32.Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox3()
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{b.Min.X(), b.Min.Y(), b.Min.Z()}
		if i&1 != 0 {
			corner[0] = b.Max.X()
		}
		if i&2 != 0 {
			corner[1] = b.Max.Y()
		}
		if i&4 != 0 {
			corner[2] = b.Max.Z()
		}
		out.ExpandByPoint(TransformPoint(m, corner))
	}
	return out
}

// Sphere is a bounding sphere used for reveal animations.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// ContainsPoint reports whether p lies within the sphere.
func (s Sphere) ContainsPoint(p mgl32.Vec3) bool {
	return p.Sub(s.Center).Len() <= s.Radius
}

// Viewport is a pixel rectangle on the render surface. Origin is the top-left corner.
type Viewport struct {
	X, Y          int
	Width, Height int
}

// Aspect returns width / height, or 1 for degenerate viewports.
func (v Viewport) Aspect() float32 {
	if v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}
