package loader

import (
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
)

// decodedScene is one top-level entry produced by a backend, before post-processing.
type decodedScene struct {
	// Root is the detached subtree. Backends never attach it anywhere.
	Root *scene.Object

	// Name is the name stored in the file, or empty.
	Name string

	// Visible is the visibility stored in the file, or nil when the file does not say.
	Visible *bool
}

// loaderBackend defines the generic interface for decoding one file format into
// detached scene subtrees. Concrete implementations (objLoaderBackend,
// gltfLoaderBackend, jsonLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Decode parses a complete file held in memory.
	// On error no partial subtree is returned.
	//
	// Parameters:
	//   - data: the raw file contents
	//
	// Returns:
	//   - []decodedScene: one entry per scene in the file
	//   - error: error wrapping ErrMalformedInput if the data cannot be parsed
	Decode(data []byte) ([]decodedScene, error)

	// DecodeFile parses a file from disk. Formats with external resources resolve them
	// relative to path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - []decodedScene: one entry per scene in the file
	//   - error: error if reading or parsing fails
	DecodeFile(path string) ([]decodedScene, error)
}
