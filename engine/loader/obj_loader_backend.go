package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// objLoaderBackendImpl is the implementation of objLoaderBackend.
type objLoaderBackendImpl struct{}

// objLoaderBackend is a loaderBackend for Wavefront OBJ text. Every "o" or "g" statement
// starts a new object; faces become one Mesh and "l" statements one LineSegments node
// per object. Materials, normals and texture coordinates are ignored.
type objLoaderBackend interface {
	loaderBackend
}

var _ objLoaderBackend = &objLoaderBackendImpl{}

func newOBJLoaderBackend() objLoaderBackend {
	return &objLoaderBackendImpl{}
}

func (b *objLoaderBackendImpl) DecodeFile(path string) ([]decodedScene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return b.Decode(data)
}

func (b *objLoaderBackendImpl) Decode(data []byte) ([]decodedScene, error) {
	p := &objParser{}
	if err := p.parse(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	root := scene.NewGroup("")
	for _, ob := range p.objects {
		for _, node := range ob.build(p.vertices) {
			root.Add(node)
		}
	}
	return []decodedScene{{Root: root}}, nil
}

// objObject collects the faces and lines of one named OBJ object.
type objObject struct {
	name      string
	triangles []int
	segments  []int
}

// build converts the collected elements into scene nodes with compacted vertex buffers.
func (ob *objObject) build(vertices []mgl32.Vec3) []*scene.Object {
	var nodes []*scene.Object
	if len(ob.triangles) > 0 {
		positions, indices := compactVertices(vertices, ob.triangles)
		g := model.NewGeometry(model.WithPositions(positions), model.WithIndices(indices))
		nodes = append(nodes, scene.NewObject(scene.TypeMesh, scene.WithName(ob.name), scene.WithGeometry(g)))
	}
	if len(ob.segments) > 0 {
		positions, indices := compactVertices(vertices, ob.segments)
		g := model.NewGeometry(model.WithPositions(positions), model.WithIndices(indices))
		nodes = append(nodes, scene.NewObject(scene.TypeLineSegments, scene.WithName(ob.name), scene.WithGeometry(g)))
	}
	return nodes
}

// compactVertices copies only the referenced vertices and rewrites refs against the copy.
func compactVertices(vertices []mgl32.Vec3, refs []int) ([]mgl32.Vec3, []uint32) {
	remap := make(map[int]uint32, len(refs))
	positions := make([]mgl32.Vec3, 0, len(refs))
	indices := make([]uint32, len(refs))
	for i, ref := range refs {
		idx, ok := remap[ref]
		if !ok {
			idx = uint32(len(positions))
			remap[ref] = idx
			positions = append(positions, vertices[ref])
		}
		indices[i] = idx
	}
	return positions, indices
}

// objParser holds the state of a single parse.
type objParser struct {
	line     int
	vertices []mgl32.Vec3
	objects  []*objObject
	current  *objObject
}

func (p *objParser) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: obj: %v", ErrMalformedInput, err)
	}
	return nil
}

func (p *objParser) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	switch fields[0] {
	case "v":
		return p.parseVertex(fields[1:])
	case "o", "g":
		name := ""
		if len(fields) > 1 {
			name = strings.Join(fields[1:], " ")
		}
		p.startObject(name)
	case "f":
		return p.parseFace(fields[1:])
	case "l":
		return p.parseLineStrip(fields[1:])
	}
	return nil
}

func (p *objParser) startObject(name string) {
	p.current = &objObject{name: name}
	p.objects = append(p.objects, p.current)
}

func (p *objParser) object() *objObject {
	if p.current == nil {
		p.startObject("")
	}
	return p.current
}

func (p *objParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: obj line %d: %s", ErrMalformedInput, p.line, fmt.Sprintf(format, args...))
}

// parseVertex parses "v x y z [w]".
func (p *objParser) parseVertex(fields []string) error {
	if len(fields) < 3 {
		return p.errorf("vertex with %d components", len(fields))
	}
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return p.errorf("invalid vertex component %q", fields[i])
		}
		v[i] = float32(f)
	}
	p.vertices = append(p.vertices, v)
	return nil
}

// vertexRef resolves the position part of "v", "v/vt", "v//vn" or "v/vt/vn".
// Negative references count back from the last parsed vertex.
func (p *objParser) vertexRef(field string) (int, error) {
	head, _, _ := strings.Cut(field, "/")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0, p.errorf("invalid vertex reference %q", field)
	}
	var idx int
	switch {
	case n > 0:
		idx = n - 1
	case n < 0:
		idx = len(p.vertices) + n
	default:
		return 0, p.errorf("vertex reference 0")
	}
	if idx < 0 || idx >= len(p.vertices) {
		return 0, p.errorf("vertex reference %d out of range", n)
	}
	return idx, nil
}

// parseFace triangulates "f a b c ..." as a fan around the first vertex.
func (p *objParser) parseFace(fields []string) error {
	if len(fields) < 3 {
		return p.errorf("face with %d vertices", len(fields))
	}
	refs := make([]int, len(fields))
	for i, f := range fields {
		idx, err := p.vertexRef(f)
		if err != nil {
			return err
		}
		refs[i] = idx
	}
	ob := p.object()
	for i := 1; i+1 < len(refs); i++ {
		ob.triangles = append(ob.triangles, refs[0], refs[i], refs[i+1])
	}
	return nil
}

// parseLineStrip splits "l a b c ..." into consecutive segments.
func (p *objParser) parseLineStrip(fields []string) error {
	if len(fields) < 2 {
		return p.errorf("line with %d vertices", len(fields))
	}
	refs := make([]int, len(fields))
	for i, f := range fields {
		idx, err := p.vertexRef(f)
		if err != nil {
			return err
		}
		refs[i] = idx
	}
	ob := p.object()
	for i := 0; i+1 < len(refs); i++ {
		ob.segments = append(ob.segments, refs[i], refs[i+1])
	}
	return nil
}
