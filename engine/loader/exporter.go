package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/material"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ExportOBJ writes every drawn object of the subtree as Wavefront OBJ text in world
// space. Meshes become faces, lines become "l" statements and point clouds "p".
// Callers pass a clean scene so lights and helpers are not exported.
//
// Parameters:
//   - root: the subtree to export
//
// Returns:
//   - string: the OBJ text
func ExportOBJ(root *scene.Object) string {
	var sb strings.Builder
	offset := 1
	root.Traverse(func(obj *scene.Object) {
		g := obj.Geometry
		if !obj.Type.Renderable() || obj.Type == scene.TypeAxesHelper || g == nil || g.VertexCount() == 0 {
			return
		}
		world := obj.WorldMatrix()
		positions := g.Positions()

		sb.WriteString("o ")
		sb.WriteString(objName(obj))
		sb.WriteByte('\n')
		for _, p := range positions {
			w := common.TransformPoint(world, p)
			sb.WriteString("v ")
			sb.WriteString(formatFloat(w.X()))
			sb.WriteByte(' ')
			sb.WriteString(formatFloat(w.Y()))
			sb.WriteByte(' ')
			sb.WriteString(formatFloat(w.Z()))
			sb.WriteByte('\n')
		}

		refs := g.Indices()
		if len(refs) == 0 {
			refs = make([]uint32, len(positions))
			for i := range refs {
				refs[i] = uint32(i)
			}
		}
		switch obj.Type {
		case scene.TypeMesh:
			for i := 0; i+2 < len(refs); i += 3 {
				writeElement(&sb, "f", offset, refs[i], refs[i+1], refs[i+2])
			}
		case scene.TypeLineSegments:
			for i := 0; i+1 < len(refs); i += 2 {
				writeElement(&sb, "l", offset, refs[i], refs[i+1])
			}
		case scene.TypeLine:
			if len(refs) > 1 {
				writeElement(&sb, "l", offset, refs...)
			}
		case scene.TypePoints:
			writeElement(&sb, "p", offset, refs...)
		}
		offset += len(positions)
	})
	return sb.String()
}

func objName(obj *scene.Object) string {
	if obj.Name == "" {
		return obj.ID
	}
	return strings.ReplaceAll(obj.Name, " ", "_")
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func writeElement(sb *strings.Builder, kind string, offset int, refs ...uint32) {
	sb.WriteString(kind)
	for _, r := range refs {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(int(r) + offset))
	}
	sb.WriteByte('\n')
}

// ExportJSON writes the subtree in the JSON object graph format read by LoadJSON.
//
// Parameters:
//   - root: the subtree to export
//
// Returns:
//   - []byte: the JSON document
//   - error: error if a userData value cannot be encoded
func ExportJSON(root *scene.Object) ([]byte, error) {
	node := encodeObjectNode(root)
	return json.MarshalIndent(objectDocument{Object: &node}, "", "  ")
}

// ExportGLB writes the subtree as a binary glTF container.
//
// Parameters:
//   - root: the subtree to export, stored as the document's only scene
//
// Returns:
//   - []byte: the GLB bytes
//   - error: error if encoding fails
func ExportGLB(root *scene.Object) ([]byte, error) {
	return encodeGLTF(root, true)
}

// ExportArchive writes a .phnx archive: the configuration next to the scene stored as
// an embedded glTF JSON document. Names, visibility, transforms, userData, colors and
// opacities survive a LoadArchive round trip.
//
// Parameters:
//   - root: the clean scene to store
//   - config: the scene configuration
//
// Returns:
//   - []byte: the archive JSON
//   - error: error if encoding fails
func ExportArchive(root *scene.Object, config SceneConfiguration) ([]byte, error) {
	doc, err := encodeGLTF(root, false)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(archiveEnvelope{SceneConfiguration: &config, Scene: doc}, "", "  ")
}

// encodeGLTF converts a subtree into a glTF document. With asBinary false the buffer is
// embedded as a base64 data URI so the document is self contained.
func encodeGLTF(root *scene.Object, asBinary bool) ([]byte, error) {
	e := &gltfSceneEncoder{doc: gltf.NewDocument(), materials: make(map[material.Material]int)}
	sc := e.doc.Scenes[0]
	sc.Name = root.Name
	visible := root.Visible
	sc.Extras = nodeExtras{Visible: &visible, UserData: root.UserData}
	for _, child := range root.Children() {
		sc.Nodes = append(sc.Nodes, e.addNode(child))
	}

	if !asBinary {
		for _, b := range e.doc.Buffers {
			b.URI = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b.Data)
		}
	}

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = asBinary
	if err := enc.Encode(e.doc); err != nil {
		return nil, fmt.Errorf("failed to encode glTF: %w", err)
	}
	return buf.Bytes(), nil
}

// gltfSceneEncoder accumulates nodes, meshes and materials into one document.
type gltfSceneEncoder struct {
	doc       *gltf.Document
	materials map[material.Material]int
}

func (e *gltfSceneEncoder) addNode(obj *scene.Object) int {
	visible := obj.Visible
	node := &gltf.Node{
		Name:        obj.Name,
		Translation: [3]float64{float64(obj.Position.X()), float64(obj.Position.Y()), float64(obj.Position.Z())},
		Rotation:    [4]float64{float64(obj.Rotation.V.X()), float64(obj.Rotation.V.Y()), float64(obj.Rotation.V.Z()), float64(obj.Rotation.W)},
		Scale:       [3]float64{float64(obj.Scale.X()), float64(obj.Scale.Y()), float64(obj.Scale.Z())},
		Extras:      nodeExtras{Visible: &visible, Type: string(obj.Type), UserData: obj.UserData},
	}
	if mesh, ok := e.addMesh(obj); ok {
		node.Mesh = gltf.Index(mesh)
	}
	index := len(e.doc.Nodes)
	e.doc.Nodes = append(e.doc.Nodes, node)
	for _, child := range obj.Children() {
		childIndex := e.addNode(child)
		node.Children = append(node.Children, childIndex)
	}
	return index
}

func (e *gltfSceneEncoder) addMesh(obj *scene.Object) (int, bool) {
	g := obj.Geometry
	if !obj.Type.Renderable() || obj.Type == scene.TypeAxesHelper || g == nil || g.VertexCount() == 0 {
		return 0, false
	}
	positions := g.Positions()
	raw := make([][3]float32, len(positions))
	for i, p := range positions {
		raw[i] = p
	}

	prim := &gltf.Primitive{
		Attributes: map[string]int{"POSITION": modeler.WritePosition(e.doc, raw)},
		Mode:       primitiveMode(obj.Type),
	}
	if indices := g.Indices(); len(indices) > 0 {
		prim.Indices = gltf.Index(modeler.WriteIndices(e.doc, indices))
	}
	if obj.Material != nil {
		prim.Material = gltf.Index(e.addMaterial(obj.Material))
	}

	e.doc.Meshes = append(e.doc.Meshes, &gltf.Mesh{Name: obj.Name, Primitives: []*gltf.Primitive{prim}})
	return len(e.doc.Meshes) - 1, true
}

func (e *gltfSceneEncoder) addMaterial(m material.Material) int {
	if index, ok := e.materials[m]; ok {
		return index
	}
	r, g, b := m.Color().RGB()
	out := &gltf.Material{
		Name:        m.Name(),
		DoubleSided: m.Side() == material.DoubleSide,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{float64(r), float64(g), float64(b), float64(m.Opacity())},
		},
	}
	if m.Transparent() || m.Opacity() < 1 {
		out.AlphaMode = gltf.AlphaBlend
	}
	index := len(e.doc.Materials)
	e.doc.Materials = append(e.doc.Materials, out)
	e.materials[m] = index
	return index
}

func primitiveMode(t scene.ObjectType) gltf.PrimitiveMode {
	switch t {
	case scene.TypeLine:
		return gltf.PrimitiveLineStrip
	case scene.TypeLineSegments:
		return gltf.PrimitiveLines
	case scene.TypePoints:
		return gltf.PrimitivePoints
	}
	return gltf.PrimitiveTriangles
}
