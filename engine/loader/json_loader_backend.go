package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/material"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// objectNode is one node of the JSON object graph format.
type objectNode struct {
	Type     string         `json:"type"`
	Name     string         `json:"name,omitempty"`
	Visible  *bool          `json:"visible,omitempty"`
	Position []float64      `json:"position,omitempty"`
	Rotation []float64      `json:"rotation,omitempty"`
	Scale    []float64      `json:"scale,omitempty"`
	UserData map[string]any `json:"userData,omitempty"`
	Geometry *geometryNode  `json:"geometry,omitempty"`
	Material *materialNode  `json:"material,omitempty"`
	Children []objectNode   `json:"children,omitempty"`
}

// geometryNode holds flat xyz positions and optional indices.
type geometryNode struct {
	Positions []float32 `json:"positions"`
	Indices   []uint32  `json:"indices,omitempty"`
}

// materialNode accepts the color either as a number (0xRRGGBB) or a hex string.
type materialNode struct {
	Color       any      `json:"color,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty"`
	Transparent bool     `json:"transparent,omitempty"`
	DoubleSided bool     `json:"doubleSided,omitempty"`
}

// objectDocument is the optional wrapper around the root node.
type objectDocument struct {
	Object *objectNode `json:"object"`
}

// jsonLoaderBackendImpl is the implementation of jsonLoaderBackend.
type jsonLoaderBackendImpl struct{}

// jsonLoaderBackend is a loaderBackend for the JSON object graph format. The document is
// either a bare node or {"object": node}.
type jsonLoaderBackend interface {
	loaderBackend
}

var _ jsonLoaderBackend = &jsonLoaderBackendImpl{}

func newJSONLoaderBackend() jsonLoaderBackend {
	return &jsonLoaderBackendImpl{}
}

func (b *jsonLoaderBackendImpl) DecodeFile(path string) ([]decodedScene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return b.Decode(data)
}

func (b *jsonLoaderBackendImpl) Decode(data []byte) ([]decodedScene, error) {
	var doc objectDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrMalformedInput, err)
	}
	node := doc.Object
	if node == nil {
		node = &objectNode{}
		if err := json.Unmarshal(data, node); err != nil {
			return nil, fmt.Errorf("%w: json: %v", ErrMalformedInput, err)
		}
	}
	root, err := buildObjectNode(node)
	if err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrMalformedInput, err)
	}
	return []decodedScene{{Root: root, Name: node.Name, Visible: node.Visible}}, nil
}

func buildObjectNode(node *objectNode) (*scene.Object, error) {
	t := scene.ObjectType(node.Type)
	switch {
	case node.Type == "":
		return nil, fmt.Errorf("node %q has no type", node.Name)
	case t.Renderable():
		if node.Geometry == nil {
			return nil, fmt.Errorf("%s %q has no geometry", t, node.Name)
		}
	case t != scene.TypeGroup && t != scene.TypeScene && t != scene.TypeObject:
		return nil, fmt.Errorf("unsupported node type %q", node.Type)
	}

	obj := scene.NewObject(t, scene.WithName(node.Name))
	if node.Visible != nil {
		obj.Visible = *node.Visible
	}
	if p, ok := common.Vec3FromSlice(node.Position); ok {
		obj.Position = p
	}
	if len(node.Rotation) == 4 {
		r := node.Rotation
		obj.Rotation = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	}
	if s, ok := common.Vec3FromSlice(node.Scale); ok {
		obj.Scale = s
	}
	if node.UserData != nil {
		obj.UserData = node.UserData
	}

	if node.Geometry != nil {
		g, err := buildGeometryNode(node.Geometry)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", node.Name, err)
		}
		obj.Geometry = g
	}
	if node.Material != nil {
		m, err := buildMaterialNode(node.Material)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", node.Name, err)
		}
		obj.Material = m
	}

	for i := range node.Children {
		child, err := buildObjectNode(&node.Children[i])
		if err != nil {
			return nil, err
		}
		obj.Add(child)
	}
	return obj, nil
}

func buildGeometryNode(g *geometryNode) (*model.Geometry, error) {
	if len(g.Positions)%3 != 0 {
		return nil, fmt.Errorf("position buffer length %d is not a multiple of 3", len(g.Positions))
	}
	count := uint32(len(g.Positions) / 3)
	for _, idx := range g.Indices {
		if idx >= count {
			return nil, fmt.Errorf("%w: %d >= %d", errIndexOutOfBounds, idx, count)
		}
	}
	opts := []model.GeometryBuilderOption{model.WithFlatPositions(g.Positions)}
	if len(g.Indices) > 0 {
		opts = append(opts, model.WithIndices(g.Indices))
	}
	return model.NewGeometry(opts...), nil
}

func buildMaterialNode(m *materialNode) (material.Material, error) {
	var opts []material.MaterialBuilderOption
	switch c := m.Color.(type) {
	case nil:
	case float64:
		opts = append(opts, material.WithColor(common.Color(uint32(c))))
	case string:
		parsed, err := common.ParseColor(c)
		if err != nil {
			return nil, err
		}
		opts = append(opts, material.WithColor(parsed))
	default:
		return nil, fmt.Errorf("unsupported color value %v", c)
	}
	if m.Opacity != nil {
		opts = append(opts, material.WithOpacity(float32(*m.Opacity)))
	}
	if m.Transparent {
		opts = append(opts, material.WithTransparent(true))
	}
	if m.DoubleSided {
		opts = append(opts, material.WithSide(material.DoubleSide))
	}
	return material.NewMaterial(opts...), nil
}

// encodeObjectNode converts a subtree into the JSON object graph form.
func encodeObjectNode(obj *scene.Object) objectNode {
	visible := obj.Visible
	node := objectNode{
		Type:     string(obj.Type),
		Name:     obj.Name,
		Visible:  &visible,
		Position: common.Vec3ToSlice(obj.Position),
		Rotation: []float64{float64(obj.Rotation.V.X()), float64(obj.Rotation.V.Y()), float64(obj.Rotation.V.Z()), float64(obj.Rotation.W)},
		Scale:    common.Vec3ToSlice(obj.Scale),
	}
	if len(obj.UserData) > 0 {
		node.UserData = obj.UserData
	}
	if obj.Type.Renderable() && obj.Geometry != nil {
		positions := obj.Geometry.Positions()
		flat := make([]float32, 0, len(positions)*3)
		for _, p := range positions {
			flat = append(flat, p[0], p[1], p[2])
		}
		node.Geometry = &geometryNode{Positions: flat, Indices: obj.Geometry.Indices()}
	}
	if m := obj.Material; m != nil {
		opacity := float64(m.Opacity())
		node.Material = &materialNode{
			Color:       m.Color().Hex(),
			Opacity:     &opacity,
			Transparent: m.Transparent(),
			DoubleSided: m.Side() == material.DoubleSide,
		}
	}
	for _, c := range obj.Children() {
		node.Children = append(node.Children, encodeObjectNode(c))
	}
	return node
}
