package loader

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct {
	importer gltfImporter
}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
// It delegates to the gltfImporter for parsing and extraction.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Parameters:
//   - decoder: the shared decode pool owner
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend(decoder Decoder) gltfLoaderBackend {
	return &gltfLoaderBackendImpl{
		importer: newGLTFImporter(decoder),
	}
}

func (b *gltfLoaderBackendImpl) Decode(data []byte) ([]decodedScene, error) {
	return b.importer.ImportBytes(data)
}

func (b *gltfLoaderBackendImpl) DecodeFile(path string) ([]decodedScene, error) {
	return b.importer.Import(path)
}
