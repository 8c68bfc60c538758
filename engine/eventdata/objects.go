package eventdata

import (
	"maps"
	"math"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/material"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Default colors of the physics objects.
const (
	TrackColor   common.Color = 0xff0000
	JetColor     common.Color = 0x2194ce
	HitColor     common.Color = 0xff0000
	ClusterColor common.Color = 0xffd166
	VertexColor  common.Color = 0xffff00
)

// Object names the display looks for when animating and filtering event data.
const (
	TrackName   = "Track"
	JetName     = scene.JetName
	HitName     = "Hit"
	ClusterName = "Cluster"
	VertexName  = "Vertex"
	MuonName    = "Muon"
)

const (
	trackRadius       float32 = 2
	trackLinePoints           = 50
	jetMaxLength              = 3000
	jetOpacity        float32 = 0.5
	clusterWidth      float32 = 30
	clusterDistance           = 4000.0
	clusterMaxR               = 1100.0
	clusterMaxZ               = 3200.0
	vertexRadius      float32 = 3
	jetRadialSegments         = 50
)

// objectBuilder turns the parameters of one event object into a scene node, or nil when
// the object cannot be drawn.
type objectBuilder func(params any) *scene.Object

// newTrack draws a track as a tube along a Catmull-Rom curve through its positions with
// a line along the same curve, so it stays visible when zoomed out. Tracks with fewer
// than three positions or a momentum below minMomentum are skipped.
func newTrack(params any, minMomentum float64) *scene.Object {
	p, ok := params.(map[string]any)
	if !ok {
		return nil
	}
	points, ok := vec3List(p["pos"])
	if !ok || len(points) < 3 {
		return nil
	}
	if mom, ok := vec3(p["mom"]); ok && float64(mom.LenSqr()) < minMomentum*minMomentum {
		return nil
	}
	color := paramColor(p, TrackColor)

	tube := scene.NewObject(scene.TypeMesh,
		scene.WithName(TrackName),
		scene.WithGeometry(model.NewTubeGeometry(
			model.CatmullRomPoints(points, model.DefaultTubeTubularSegments),
			trackRadius,
			model.DefaultTubeTubularSegments,
			model.DefaultTubeRadialSegments,
		)),
		scene.WithMaterial(material.NewMaterial(material.WithColor(color))),
	)
	tube.UserData = userData(p, tube.ID)

	line := scene.NewObject(scene.TypeLine,
		scene.WithName(TrackName),
		scene.WithGeometry(model.NewGeometry(model.WithPositions(model.CatmullRomPoints(points, trackLinePoints)))),
		scene.WithMaterial(material.NewMaterial(material.WithColor(color))),
	)

	track := scene.NewObject(scene.TypeObject, scene.WithChildren(tube, line))
	track.UserData = userData(p, tube.ID)
	return track
}

// newJet draws a jet as a cone from the origin along (eta, phi), its length proportional
// to the energy and capped at 3000.
func newJet(params any) *scene.Object {
	p, ok := params.(map[string]any)
	if !ok {
		return nil
	}
	eta, _ := common.ToFloat(p["eta"])
	phi, _ := common.ToFloat(p["phi"])
	theta, ok := common.ToFloat(p["theta"])
	if !ok || theta == 0 {
		theta = 2 * math.Atan(math.Exp(eta))
	}
	energy, ok := common.ToFloat(p["energy"])
	if !ok || energy == 0 {
		energy, _ = common.ToFloat(p["et"])
	}
	length := min(energy*0.2, jetMaxLength)
	if length <= 0 {
		return nil
	}
	width := length * 0.1

	sinPhi, cosPhi := math.Sincos(phi)
	sinTheta, cosTheta := math.Sincos(theta)
	dir := mgl32.Vec3{float32(cosPhi * sinTheta), float32(sinPhi * sinTheta), float32(cosTheta)}

	jet := scene.NewObject(scene.TypeMesh,
		scene.WithName(JetName),
		scene.WithGeometry(model.NewConeGeometry(float32(width), 1, float32(length), jetRadialSegments, 1)),
		scene.WithMaterial(material.NewMaterial(
			material.WithColor(paramColor(p, JetColor)),
			material.WithOpacity(jetOpacity),
			material.WithTransparent(true),
		)),
		scene.WithPosition(dir.Mul(float32(length/2))),
	)
	jet.Rotation = mgl32.QuatBetweenVectors(mgl32.Vec3{0, 1, 0}, dir)
	jet.UserData = userData(p, jet.ID)
	return jet
}

// newHits draws hits as one point cloud. Accepted parameters are an object with "pos",
// a single [x, y, z] position or a list of positions.
func newHits(params any) *scene.Object {
	var positions []mgl32.Vec3
	var data map[string]any
	switch p := params.(type) {
	case map[string]any:
		pos, ok := vec3(p["pos"])
		if !ok {
			return nil
		}
		positions = []mgl32.Vec3{pos}
		data = p
	case []any:
		if pos, ok := vec3(p); ok {
			positions = []mgl32.Vec3{pos}
		} else if list, ok := vec3List(p); ok {
			positions = list
		} else {
			return nil
		}
		data = map[string]any{"pos": p}
	default:
		return nil
	}
	if len(positions) == 0 {
		return nil
	}

	hits := scene.NewObject(scene.TypePoints,
		scene.WithName(HitName),
		scene.WithGeometry(model.NewGeometry(model.WithPositions(positions))),
		scene.WithMaterial(material.NewMaterial(material.WithColor(paramColor(data, HitColor)))),
	)
	hits.UserData = userData(data, hits.ID)
	return hits
}

// newCluster draws a calorimeter cluster as a box 4000 units out along (eta, phi), kept
// inside a cylinder of radius 1100 and half length 3200 and facing the origin. The box
// depth is proportional to the energy.
func newCluster(params any) *scene.Object {
	p, ok := params.(map[string]any)
	if !ok {
		return nil
	}
	energy, _ := common.ToFloat(p["energy"])
	eta, _ := common.ToFloat(p["eta"])
	phi, _ := common.ToFloat(p["phi"])

	theta := 2 * math.Atan(math.Exp(eta))
	sinPhi, cosPhi := math.Sincos(phi)
	sinTheta, cosTheta := math.Sincos(theta)
	x := clusterDistance * cosPhi * sinTheta
	y := clusterDistance * sinPhi * sinTheta
	z := clusterDistance * cosTheta
	if x*x+y*y > clusterMaxR*clusterMaxR {
		x = clusterMaxR * cosPhi
		y = clusterMaxR * sinPhi
	}
	z = max(min(z, clusterMaxZ), -clusterMaxZ)
	position := mgl32.Vec3{float32(x), float32(y), float32(z)}

	cluster := scene.NewObject(scene.TypeMesh,
		scene.WithName(ClusterName),
		scene.WithGeometry(model.NewBoxGeometry(clusterWidth, clusterWidth, float32(energy*0.003))),
		scene.WithMaterial(material.NewMaterial(material.WithColor(paramColor(p, ClusterColor)))),
		scene.WithPosition(position),
	)
	if position.Len() > 0 {
		cluster.Rotation = mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, 1}, position.Mul(-1).Normalize())
	}
	cluster.UserData = userData(p, cluster.ID)
	return cluster
}

// newVertex draws a vertex as a small sphere at "pos" or at x, y, z.
func newVertex(params any) *scene.Object {
	p, ok := params.(map[string]any)
	if !ok {
		return nil
	}
	position, ok := vec3(p["pos"])
	if !ok {
		x, okX := common.ToFloat(p["x"])
		y, okY := common.ToFloat(p["y"])
		z, okZ := common.ToFloat(p["z"])
		if !okX || !okY || !okZ {
			return nil
		}
		position = mgl32.Vec3{float32(x), float32(y), float32(z)}
	}

	vertex := scene.NewObject(scene.TypeMesh,
		scene.WithName(VertexName),
		scene.WithGeometry(model.NewSphereGeometry(vertexRadius, 16, 8)),
		scene.WithMaterial(material.NewMaterial(material.WithColor(paramColor(p, VertexColor)))),
		scene.WithPosition(position),
	)
	vertex.UserData = userData(p, vertex.ID)
	return vertex
}

// userData copies the object parameters for display, adds the identity token and records
// the token on the source parameters so collection listings can select the object.
func userData(params map[string]any, id string) map[string]any {
	params["uuid"] = id
	return maps.Clone(params)
}

// paramColor reads "color" as a hex string or a number.
func paramColor(params map[string]any, fallback common.Color) common.Color {
	switch c := params["color"].(type) {
	case string:
		if parsed, err := common.ParseColor(c); err == nil {
			return parsed
		}
	case float64:
		return common.Color(uint32(c))
	}
	return fallback
}

func vec3(v any) (mgl32.Vec3, bool) {
	values, ok := v.([]any)
	if !ok || len(values) < 3 {
		return mgl32.Vec3{}, false
	}
	floats := make([]float64, 3)
	for i := range floats {
		f, ok := common.ToFloat(values[i])
		if !ok {
			return mgl32.Vec3{}, false
		}
		floats[i] = f
	}
	return common.Vec3FromSlice(floats)
}

func vec3List(v any) ([]mgl32.Vec3, bool) {
	values, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]mgl32.Vec3, 0, len(values))
	for _, value := range values {
		p, ok := vec3(value)
		if !ok {
			return nil, false
		}
		out = append(out, p)
	}
	return out, true
}
