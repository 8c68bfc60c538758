package loader

import (
	"encoding/json"
	"fmt"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/material"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct {
	decoder Decoder
}

// gltfImporter orchestrates a glTF/GLB import: it parses the document, extracts meshes on
// the decode pool and rebuilds every glTF scene as a detached object tree.
type gltfImporter interface {
	// Import loads a glTF/GLB file from disk.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - []decodedScene: one entry per glTF scene
	//   - error: error if import fails
	Import(path string) ([]decodedScene, error)

	// ImportBytes loads a glTF document held in memory.
	//
	// Parameters:
	//   - data: glTF JSON or GLB, optionally gzip-compressed
	//
	// Returns:
	//   - []decodedScene: one entry per glTF scene
	//   - error: error if import fails
	ImportBytes(data []byte) ([]decodedScene, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer backed by the shared decoder.
//
// Parameters:
//   - decoder: the decode pool owner
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter(decoder Decoder) gltfImporter {
	return &gltfImporterImpl{decoder: decoder}
}

func (imp *gltfImporterImpl) Import(path string) ([]decodedScene, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return imp.importFromParser(parser)
}

func (imp *gltfImporterImpl) ImportBytes(data []byte) ([]decodedScene, error) {
	parser := newGLTFParser()
	if err := parser.ParseBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse glTF data: %w", err)
	}
	return imp.importFromParser(parser)
}

// importFromParser builds object trees from a parser that has already loaded a document.
func (imp *gltfImporterImpl) importFromParser(parser gltfParser) ([]decodedScene, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}

	handle := imp.decoder.Acquire()
	defer handle.Release()

	meshes, err := newGLTFMeshExtractor(parser, handle).ExtractAllMeshes()
	if err != nil {
		return nil, fmt.Errorf("%w: mesh extraction failed: %v", ErrMalformedInput, err)
	}

	b := &gltfSceneBuilder{doc: doc, meshes: meshes, materials: make(map[int]material.Material)}

	scenes := doc.Scenes
	if len(scenes) == 0 && len(doc.Nodes) > 0 {
		scenes = []*gltf.Scene{{Nodes: rootNodes(doc)}}
	}

	result := make([]decodedScene, 0, len(scenes))
	for i, sc := range scenes {
		root := scene.NewObject(scene.TypeScene, scene.WithName(sc.Name))
		extras := decodeExtras(sc.Extras)
		if extras.UserData != nil {
			root.UserData = extras.UserData
		}
		for _, nodeIdx := range sc.Nodes {
			child, err := b.buildNode(nodeIdx, map[int]bool{})
			if err != nil {
				return nil, fmt.Errorf("%w: scene %d: %v", ErrMalformedInput, i, err)
			}
			root.Add(child)
		}
		result = append(result, decodedScene{Root: root, Name: sc.Name, Visible: extras.Visible})
	}
	return result, nil
}

// rootNodes returns every node that is not the child of another node.
func rootNodes(doc *gltf.Document) []int {
	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i, child := range isChild {
		if !child {
			roots = append(roots, i)
		}
	}
	return roots
}

// gltfSceneBuilder turns glTF nodes into scene objects. Materials are shared per glTF
// material index.
type gltfSceneBuilder struct {
	doc       *gltf.Document
	meshes    [][]extractedPrimitive
	materials map[int]material.Material
}

func (b *gltfSceneBuilder) buildNode(index int, path map[int]bool) (*scene.Object, error) {
	if index < 0 || index >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("%w: %d", errNodeIndexRange, index)
	}
	if path[index] {
		return nil, fmt.Errorf("%w at node %d", errNodeCycle, index)
	}
	path[index] = true
	defer delete(path, index)

	node := b.doc.Nodes[index]
	extras := decodeExtras(node.Extras)

	var obj *scene.Object
	if node.Mesh != nil {
		if *node.Mesh < 0 || *node.Mesh >= len(b.meshes) {
			return nil, fmt.Errorf("%w: %d", errMeshIndexRange, *node.Mesh)
		}
		obj = b.meshObject(node.Name, b.meshes[*node.Mesh], extras.Type)
	} else {
		obj = scene.NewGroup(node.Name)
	}

	position, rotation, scale := nodeTransform(node)
	obj.Position = position
	obj.Rotation = rotation
	obj.Scale = scale
	if extras.Visible != nil {
		obj.Visible = *extras.Visible
	}
	if extras.UserData != nil {
		obj.UserData = extras.UserData
	}

	for _, c := range node.Children {
		child, err := b.buildNode(c, path)
		if err != nil {
			return nil, err
		}
		obj.Add(child)
	}
	return obj, nil
}

// meshObject returns the renderable itself for single-primitive meshes so the node name
// stays on the drawn object, and a group of renderables otherwise.
func (b *gltfSceneBuilder) meshObject(name string, prims []extractedPrimitive, typeHint string) *scene.Object {
	build := func(p extractedPrimitive) *scene.Object {
		t := p.Type
		if hinted := scene.ObjectType(typeHint); hinted.Renderable() && hinted != scene.TypeAxesHelper {
			t = hinted
		}
		opts := []scene.ObjectBuilderOption{scene.WithName(name), scene.WithGeometry(p.Geometry)}
		if p.Material >= 0 {
			opts = append(opts, scene.WithMaterial(b.material(p.Material)))
		}
		return scene.NewObject(t, opts...)
	}
	if len(prims) == 1 {
		return build(prims[0])
	}
	group := scene.NewGroup(name)
	for _, p := range prims {
		group.Add(build(p))
	}
	return group
}

func (b *gltfSceneBuilder) material(index int) material.Material {
	if m, ok := b.materials[index]; ok {
		return m
	}
	src := b.doc.Materials[index]
	opts := []material.MaterialBuilderOption{material.WithName(src.Name)}
	if pbr := src.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		f := pbr.BaseColorFactor
		opts = append(opts,
			material.WithColor(common.ColorFromRGB(float32(f[0]), float32(f[1]), float32(f[2]))),
			material.WithOpacity(float32(f[3])),
		)
	}
	if src.AlphaMode == gltf.AlphaBlend {
		opts = append(opts, material.WithTransparent(true))
	}
	if src.DoubleSided {
		opts = append(opts, material.WithSide(material.DoubleSide))
	}
	m := material.NewMaterial(opts...)
	b.materials[index] = m
	return m
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// nodeTransform resolves a node's TRS, decomposing the matrix form when present.
func nodeTransform(node *gltf.Node) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	if node.Matrix != [16]float64{} && node.Matrix != identityMatrix {
		var m mgl32.Mat4
		for i, v := range node.Matrix {
			m[i] = float32(v)
		}
		return decomposeMatrix(m)
	}
	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()
	return mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
		mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}},
		mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
}

// decomposeMatrix splits a column-major affine matrix into translation, rotation and scale.
func decomposeMatrix(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	translation := m.Col(3).Vec3()
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	if m.Det() < 0 {
		sx = -sx
	}
	rot := mgl32.Ident3()
	if sx != 0 && sy != 0 && sz != 0 {
		rot.SetCol(0, m.Col(0).Vec3().Mul(1/sx))
		rot.SetCol(1, m.Col(1).Vec3().Mul(1/sy))
		rot.SetCol(2, m.Col(2).Vec3().Mul(1/sz))
	}
	return translation, mgl32.Mat4ToQuat(rot.Mat4()), mgl32.Vec3{sx, sy, sz}
}

// nodeExtras is the application data stored on exported nodes and scenes.
type nodeExtras struct {
	Visible  *bool          `json:"visible,omitempty"`
	Type     string         `json:"type,omitempty"`
	UserData map[string]any `json:"userData,omitempty"`
}

// decodeExtras reads extras regardless of whether the decoder kept them as raw JSON or
// as a generic map. Unknown layouts yield empty extras.
func decodeExtras(raw any) nodeExtras {
	var out nodeExtras
	if raw == nil {
		return out
	}
	var data []byte
	switch v := raw.(type) {
	case json.RawMessage:
		data = v
	case []byte:
		data = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return out
		}
		data = encoded
	}
	_ = json.Unmarshal(data, &out)
	return out
}
