package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

// extractedPrimitive is the engine-side form of one glTF primitive.
type extractedPrimitive struct {
	Type     scene.ObjectType
	Geometry *model.Geometry

	// Material is the glTF material index, or -1.
	Material int
}

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
	handle DecoderHandle
}

// gltfMeshExtractor converts glTF accessor data into geometry buffers.
type gltfMeshExtractor interface {
	// ExtractMesh extracts a single mesh by index, one entry per primitive.
	//
	// Parameters:
	//   - meshIndex: the index of the mesh to extract
	//
	// Returns:
	//   - []extractedPrimitive: one entry per primitive
	//   - error: error if extraction fails
	ExtractMesh(meshIndex int) ([]extractedPrimitive, error)

	// ExtractAllMeshes extracts every mesh of the document on the decode pool.
	//
	// Returns:
	//   - [][]extractedPrimitive: primitives indexed by mesh
	//   - error: error if any mesh fails
	ExtractAllMeshes() ([][]extractedPrimitive, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//   - handle: the decode pool handle used to extract meshes in parallel
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(parser gltfParser, handle DecoderHandle) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser, handle: handle}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) ([]extractedPrimitive, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("%w: %d", errMeshIndexRange, meshIndex)
	}

	mesh := doc.Meshes[meshIndex]
	result := make([]extractedPrimitive, 0, len(mesh.Primitives))
	for primIdx, prim := range mesh.Primitives {
		extracted, err := e.extractPrimitive(doc, prim)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}
		result = append(result, extracted)
	}
	return result, nil
}

func (e *gltfMeshExtractorImpl) ExtractAllMeshes() ([][]extractedPrimitive, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}

	meshes := make([][]extractedPrimitive, len(doc.Meshes))
	tasks := make([]func() error, len(doc.Meshes))
	for i := range doc.Meshes {
		tasks[i] = func() error {
			prims, err := e.ExtractMesh(i)
			meshes[i] = prims
			return err
		}
	}
	if err := e.handle.Run(tasks); err != nil {
		return nil, err
	}
	return meshes, nil
}

func (e *gltfMeshExtractorImpl) extractPrimitive(doc *gltf.Document, prim *gltf.Primitive) (extractedPrimitive, error) {
	out := extractedPrimitive{Material: -1}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return out, errMissingPosition
	}
	raw, err := e.parser.ReadPositions(posIdx)
	if err != nil {
		return out, fmt.Errorf("positions: %w", err)
	}
	positions := make([]mgl32.Vec3, len(raw))
	for i, p := range raw {
		positions[i] = mgl32.Vec3(p)
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = e.parser.ReadIndices(*prim.Indices)
		if err != nil {
			return out, fmt.Errorf("indices: %w", err)
		}
		for _, idx := range indices {
			if int(idx) >= len(positions) {
				return out, fmt.Errorf("%w: %d >= %d", errIndexOutOfBounds, idx, len(positions))
			}
		}
	}

	if prim.Material != nil {
		if *prim.Material < 0 || *prim.Material >= len(doc.Materials) {
			return out, fmt.Errorf("%w: %d", errMaterialIndexRange, *prim.Material)
		}
		out.Material = *prim.Material
	}

	switch prim.Mode {
	case gltf.PrimitivePoints:
		out.Type = scene.TypePoints
	case gltf.PrimitiveLines:
		out.Type = scene.TypeLineSegments
	case gltf.PrimitiveLineStrip:
		out.Type = scene.TypeLine
	case gltf.PrimitiveLineLoop:
		out.Type = scene.TypeLine
		indices = closeLoop(indices, len(positions))
	case gltf.PrimitiveTriangleStrip:
		out.Type = scene.TypeMesh
		indices = stripToTriangles(indices, len(positions))
	case gltf.PrimitiveTriangleFan:
		out.Type = scene.TypeMesh
		indices = fanToTriangles(indices, len(positions))
	default:
		out.Type = scene.TypeMesh
	}

	options := []model.GeometryBuilderOption{model.WithPositions(positions)}
	if len(indices) > 0 {
		options = append(options, model.WithIndices(indices))
	}
	out.Geometry = model.NewGeometry(options...)
	return out, nil
}

// sequence returns indices unchanged, or 0..count-1 when the primitive is not indexed.
func sequence(indices []uint32, count int) []uint32 {
	if len(indices) > 0 {
		return indices
	}
	seq := make([]uint32, count)
	for i := range seq {
		seq[i] = uint32(i)
	}
	return seq
}

func closeLoop(indices []uint32, count int) []uint32 {
	seq := sequence(indices, count)
	if len(seq) < 2 {
		return seq
	}
	return append(append([]uint32(nil), seq...), seq[0])
}

func stripToTriangles(indices []uint32, count int) []uint32 {
	seq := sequence(indices, count)
	var out []uint32
	for i := 0; i+2 < len(seq); i++ {
		if i%2 == 0 {
			out = append(out, seq[i], seq[i+1], seq[i+2])
		} else {
			out = append(out, seq[i+1], seq[i], seq[i+2])
		}
	}
	return out
}

func fanToTriangles(indices []uint32, count int) []uint32 {
	seq := sequence(indices, count)
	var out []uint32
	for i := 1; i+1 < len(seq); i++ {
		out = append(out, seq[0], seq[i], seq[i+1])
	}
	return out
}
