package loader

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/h2non/filetype"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Common errors returned by the parser
var (
	errNoDocument         = errors.New("no glTF document loaded")
	errAccessorRange      = errors.New("accessor index out of range")
	errMissingPosition    = errors.New("primitive has no POSITION attribute")
	errIndexOutOfBounds   = errors.New("index refers past the end of the vertex buffer")
	errNodeCycle          = errors.New("node hierarchy contains a cycle")
	errNodeIndexRange     = errors.New("node index out of range")
	errMeshIndexRange     = errors.New("mesh index out of range")
	errMaterialIndexRange = errors.New("material index out of range")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	document *gltf.Document
}

// gltfParser loads glTF JSON or GLB documents, optionally gzip-wrapped, and performs
// typed accessor reads. This is internal to the loader package.
type gltfParser interface {
	// Parse loads and parses a glTF/GLB file from the given path. External buffers are
	// resolved relative to the file.
	//
	// Parameters:
	//   - path: path to the glTF or GLB file
	//
	// Returns:
	//   - error: error if parsing fails
	Parse(path string) error

	// ParseBytes parses a complete document held in memory. The binary container is
	// detected from its magic; gzip-wrapped input is inflated first.
	//
	// Parameters:
	//   - data: glTF JSON, GLB, or either one gzip-compressed
	//
	// Returns:
	//   - error: error wrapping ErrMalformedInput if parsing fails
	ParseBytes(data []byte) error

	// Document returns the parsed glTF document.
	// Returns nil if no parse has succeeded.
	//
	// Returns:
	//   - *gltf.Document: the parsed document or nil
	Document() *gltf.Document

	// ReadPositions reads a VEC3 float accessor.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][3]float32: the positions
	//   - error: error if the accessor is missing or has the wrong layout
	ReadPositions(accessorIndex int) ([][3]float32, error)

	// ReadIndices reads a scalar integer accessor widened to uint32.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []uint32: the indices
	//   - error: error if the accessor is missing or has the wrong layout
	ReadIndices(accessorIndex int) ([]uint32, error)
}

var _ gltfParser = &gltfParserImpl{}

func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Document() *gltf.Document {
	return p.document
}

func (p *gltfParserImpl) Parse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isGzip(data) {
		return p.ParseBytes(data)
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	p.document = doc
	return nil
}

func (p *gltfParserImpl) ParseBytes(data []byte) error {
	data, err := inflate(data)
	if err != nil {
		return err
	}
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	p.document = doc
	return nil
}

func (p *gltfParserImpl) accessor(accessorIndex int) (*gltf.Accessor, error) {
	if p.document == nil {
		return nil, errNoDocument
	}
	if accessorIndex < 0 || accessorIndex >= len(p.document.Accessors) {
		return nil, fmt.Errorf("%w: %d", errAccessorRange, accessorIndex)
	}
	return p.document.Accessors[accessorIndex], nil
}

func (p *gltfParserImpl) ReadPositions(accessorIndex int) ([][3]float32, error) {
	acr, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	return modeler.ReadPosition(p.document, acr, nil)
}

func (p *gltfParserImpl) ReadIndices(accessorIndex int) ([]uint32, error) {
	acr, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	return modeler.ReadIndices(p.document, acr, nil)
}

// isGzip reports whether data starts with a gzip header.
func isGzip(data []byte) bool {
	return filetype.Is(data, "gz")
}

// inflate returns data unchanged unless it is gzip-compressed.
func inflate(data []byte) ([]byte, error) {
	if !isGzip(data) {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", ErrMalformedInput, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", ErrMalformedInput, err)
	}
	return out, nil
}
