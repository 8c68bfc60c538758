package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ff0000", 0xff0000},
		{"0x41a6f4", 0x41a6f4},
		{"2fd691", 0x2fd691},
	}
	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, c, tt.in)
	}

	_, err := ParseColor("nope")
	assert.Error(t, err)
}

func TestColorFormatting(t *testing.T) {
	assert.Equal(t, "#ff0000", Color(0xff0000).Hex())
	assert.Equal(t, "0x00ff00", Color(0x00ff00).String())
	assert.Equal(t, Color(0x000000), Color(0xffffff).Blend(0x000000, 1))
}

func TestRayIntersectBox(t *testing.T) {
	box := Box3{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	r := NewRay(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1})

	d, ok := r.IntersectBox(box)
	require.True(t, ok)
	assert.InDelta(t, 9, d, 1e-5)

	miss := NewRay(mgl32.Vec3{5, 0, 10}, mgl32.Vec3{0, 0, -1})
	_, ok = miss.IntersectBox(box)
	assert.False(t, ok)

	_, ok = r.IntersectBox(EmptyBox3())
	assert.False(t, ok)
}

func TestRayIntersectTriangle(t *testing.T) {
	r := NewRay(mgl32.Vec3{0.2, 0.2, 5}, mgl32.Vec3{0, 0, -1})
	d, ok := r.IntersectTriangle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	require.True(t, ok)
	assert.InDelta(t, 5, d, 1e-5)

	behind := NewRay(mgl32.Vec3{0.2, 0.2, -5}, mgl32.Vec3{0, 0, -1})
	_, ok = behind.IntersectTriangle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	assert.False(t, ok)
}

func TestRayDistanceToSegment(t *testing.T) {
	r := NewRay(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1})
	distSq, along := r.DistanceSqToSegment(mgl32.Vec3{-5, 1, 0}, mgl32.Vec3{5, 1, 0})
	assert.InDelta(t, 1, distSq, 1e-4)
	assert.InDelta(t, 10, along, 1e-4)
}

func TestFrustumCullsBoxesBehindCamera(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(75), 1, 1, 1000)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	f := ExtractFrustumFromMatrix(proj.Mul4(view))

	inFront := Box3{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	behind := Box3{Min: mgl32.Vec3{-1, -1, 20}, Max: mgl32.Vec3{1, 1, 22}}
	assert.True(t, f.IntersectsBox(inFront))
	assert.False(t, f.IntersectsBox(behind))
	assert.True(t, f.IntersectsBox(EmptyBox3()))
}

func TestRotateAboutAxisFullTurn(t *testing.T) {
	v := mgl32.Vec3{0, 1, 0}
	out := v
	const steps = 36
	for i := 0; i < steps; i++ {
		out = RotateAboutAxis(out, mgl32.Vec3{0, 0, 1}, 2*math.Pi/steps)
	}
	assert.True(t, ApproxEqualVec3(v, out, Epsilon), "got %v", out)
}

func TestApproxEqualVec3(t *testing.T) {
	tests := []struct {
		name string
		a, b mgl32.Vec3
		want bool
	}{
		{"exact", mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 2, 3}, true},
		{"noise around zero", mgl32.Vec3{-4.307367e-07, 1, 0}, mgl32.Vec3{0, 1, 0}, true},
		{"within tolerance", mgl32.Vec3{0, 0, 1000.00005}, mgl32.Vec3{0, 0, 1000}, true},
		{"outside tolerance", mgl32.Vec3{0, 0.001, 0}, mgl32.Vec3{0, 0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApproxEqualVec3(tt.a, tt.b, Epsilon))
		})
	}
}

func TestEtaThetaRoundTrip(t *testing.T) {
	for _, eta := range []float64{-2.5, 0, 0.7, 3} {
		assert.InDelta(t, eta, ThetaToEta(EtaToTheta(eta)), 1e-9)
	}
}
