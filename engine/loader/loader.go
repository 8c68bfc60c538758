// Package loader imports detector geometry and saved scenes into detached scene subtrees
// and exports scenes back out. Supported inputs are Wavefront OBJ, glTF/GLB (optionally
// gzip-compressed), the JSON object graph format and the .phnx scene archive.
package loader

import (
	"errors"
	"fmt"
	"log"
	"maps"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/loading"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/material"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/fsnotify/fsnotify"
)

var (
	// ErrMalformedInput is wrapped by every error caused by the content of a file.
	ErrMalformedInput = errors.New("malformed input")

	// ErrUnsupportedFormat is returned for file types no backend handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// menuSeparator splits glTF scene names into menu path segments.
const menuSeparator = "_>_"

// Format identifies the file format backend to use.
type Format int

const (
	// FormatOBJ selects the Wavefront OBJ backend.
	FormatOBJ Format = iota

	// FormatGLTF selects the glTF/GLB backend.
	FormatGLTF

	// FormatJSON selects the JSON object graph backend.
	FormatJSON

	// FormatArchive is the .phnx scene archive.
	FormatArchive
)

func (f Format) String() string {
	switch f {
	case FormatOBJ:
		return "obj"
	case FormatGLTF:
		return "gltf"
	case FormatJSON:
		return "json"
	case FormatArchive:
		return "phnx"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// FormatFromPath selects a format by file extension. A trailing ".gz" is looked through.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Format: the matching format
//   - error: ErrUnsupportedFormat for unknown extensions
func FormatFromPath(path string) (Format, error) {
	lower := strings.ToLower(path)
	lower = strings.TrimSuffix(lower, ".gz")
	switch ext := filepath.Ext(lower); ext {
	case ".obj":
		return FormatOBJ, nil
	case ".gltf", ".glb":
		return FormatGLTF, nil
	case ".json":
		return FormatJSON, nil
	case ".phnx":
		return FormatArchive, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Imported is one post-processed top-level object ready to be attached to the scene.
type Imported struct {
	// Object is the detached subtree.
	Object *scene.Object

	// Name is the resolved display name.
	Name string

	// MenuName is the menu path the geometry belongs under, segments joined by " > ".
	MenuName string
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu *sync.RWMutex

	scenes      scene.Manager
	coordinator loading.Coordinator
	dispatch    func(func())

	decoder  Decoder
	backends map[Format]loaderBackend

	asyncWorkers int
	pool         worker.DynamicWorkerPool
	taskID       int

	cache    map[string][]decodedScene
	watchers []*fsnotify.Watcher

	verbose bool
}

// Loader is the asset import pipeline of a display. Every load returns detached,
// post-processed subtrees; on malformed input it returns an error and nothing else.
//
// Post-processing gives every drawn object a geometry material bound to the scene
// manager's clipping planes (clip intersection on, shininess 0), the resolved name, and
// userData "name" and "size" (bounding box extents).
type Loader interface {
	// LoadOBJ imports Wavefront OBJ text. All meshes share one material using the
	// configured color, 0x41a6f4 by default, with flat shading unless disabled.
	//
	// Parameters:
	//   - data: the OBJ text
	//   - name: the name given to the root and every mesh
	//   - options: variadic list of ImportOption functions
	//
	// Returns:
	//   - Imported: the imported geometry
	//   - error: error wrapping ErrMalformedInput on bad input
	LoadOBJ(data []byte, name string, options ...ImportOption) (Imported, error)

	// LoadGLTF imports a glTF JSON or GLB document, optionally gzip-compressed. Each glTF
	// scene becomes one Imported. Scene names of the form "a_>_b" resolve to the name
	// "a > b" and the menu name "a". A non-empty name overrides the scene name when the
	// document holds a single scene.
	//
	// Parameters:
	//   - data: the document bytes
	//   - name: optional name override
	//   - options: variadic list of ImportOption functions
	//
	// Returns:
	//   - []Imported: one entry per glTF scene
	//   - error: error wrapping ErrMalformedInput on bad input
	LoadGLTF(data []byte, name string, options ...ImportOption) ([]Imported, error)

	// LoadJSON imports the JSON object graph format.
	//
	// Parameters:
	//   - data: the JSON document
	//   - name: the name given to the root and every drawn object
	//   - options: variadic list of ImportOption functions
	//
	// Returns:
	//   - Imported: the imported geometry
	//   - error: error wrapping ErrMalformedInput on bad input
	LoadJSON(data []byte, name string, options ...ImportOption) (Imported, error)

	// LoadArchive imports a .phnx scene archive. The embedded scene keeps its stored
	// materials; it is not post-processed.
	//
	// Parameters:
	//   - data: the archive bytes
	//
	// Returns:
	//   - *Archive: the configuration and decoded scene
	//   - error: error wrapping ErrMalformedInput on bad input
	LoadArchive(data []byte) (*Archive, error)

	// Load imports a geometry file from disk, selecting the backend by extension.
	// Decoded files are cached by path; every call returns a fresh instance.
	//
	// Parameters:
	//   - path: the file path
	//   - name: the name override, see the per-format methods
	//   - options: variadic list of ImportOption functions
	//
	// Returns:
	//   - []Imported: the imported geometries
	//   - error: error if reading, decoding or format selection fails
	Load(path string, name string, options ...ImportOption) ([]Imported, error)

	// LoadAsync decodes on a worker goroutine and delivers the result through the
	// dispatcher so done runs on the display thread. The load is registered with the
	// loading coordinator and completed after done returns, also on error.
	//
	// Parameters:
	//   - format: the input format; FormatArchive is not accepted
	//   - name: the name override, also used as the load item id
	//   - data: the file contents
	//   - done: receives the result on the display thread
	//   - options: variadic list of ImportOption functions
	LoadAsync(format Format, name string, data []byte, done func([]Imported, error), options ...ImportOption)

	// Watch reloads a geometry file whenever it is written and delivers each reload
	// through the dispatcher.
	//
	// Parameters:
	//   - path: the file to watch
	//   - name: the name override passed to each reload
	//   - onChange: receives every reload result on the display thread
	//   - options: variadic list of ImportOption functions applied to each reload
	//
	// Returns:
	//   - func() error: stops watching
	//   - error: error if the watcher cannot be created
	Watch(path string, name string, onChange func([]Imported, error), options ...ImportOption) (func() error, error)

	// Cached reports whether a decoded copy of path is held.
	//
	// Parameters:
	//   - path: the file path
	//
	// Returns:
	//   - bool: true when cached
	Cached(path string) bool

	// Evict drops the cached copy of path.
	//
	// Parameters:
	//   - path: the file path
	Evict(path string)

	// Decoder returns the shared decode resource.
	//
	// Returns:
	//   - Decoder: the decoder
	Decoder() Decoder

	// Dispose stops every watcher, clears the cache and disposes the decoder.
	Dispose()
}

var _ Loader = &loader{}

// NewLoader creates a Loader that post-processes imports against the given scene manager.
//
// Parameters:
//   - scenes: the scene manager owning the clipping planes
//   - options: a variadic list of LoaderBuilderOption functions
//
// Returns:
//   - Loader: the loader
func NewLoader(scenes scene.Manager, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:           &sync.RWMutex{},
		scenes:       scenes,
		dispatch:     func(fn func()) { fn() },
		asyncWorkers: 2,
		cache:        make(map[string][]decodedScene),
	}
	for _, option := range options {
		option(l)
	}
	if l.decoder == nil {
		l.decoder = NewDecoder(DefaultDecoderWorkers, l.verbose)
	}
	l.backends = map[Format]loaderBackend{
		FormatOBJ:  newOBJLoaderBackend(),
		FormatGLTF: newGLTFLoaderBackend(l.decoder),
		FormatJSON: newJSONLoaderBackend(),
	}
	return l
}

func (l *loader) LoadOBJ(data []byte, name string, options ...ImportOption) (Imported, error) {
	decoded, err := l.backends[FormatOBJ].Decode(data)
	if err != nil {
		return Imported{}, fmt.Errorf("failed to load OBJ %q: %w", name, err)
	}
	return l.processOBJ(decoded[0].Root, name, newImportSettings(options)), nil
}

func (l *loader) LoadGLTF(data []byte, name string, options ...ImportOption) ([]Imported, error) {
	decoded, err := l.backends[FormatGLTF].Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load glTF %q: %w", name, err)
	}
	return l.processGLTF(decoded, name, newImportSettings(options)), nil
}

func (l *loader) LoadJSON(data []byte, name string, options ...ImportOption) (Imported, error) {
	decoded, err := l.backends[FormatJSON].Decode(data)
	if err != nil {
		return Imported{}, fmt.Errorf("failed to load JSON %q: %w", name, err)
	}
	return l.processJSON(decoded[0], name, newImportSettings(options)), nil
}

func (l *loader) Load(path string, name string, options ...ImportOption) ([]Imported, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	if format == FormatArchive {
		return nil, fmt.Errorf("%w: archives load through LoadArchive", ErrUnsupportedFormat)
	}

	l.mu.RLock()
	decoded, ok := l.cache[path]
	l.mu.RUnlock()

	if !ok {
		decoded, err = l.backends[format].DecodeFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		l.mu.Lock()
		l.cache[path] = decoded
		l.mu.Unlock()
		l.debugf("decoded %s", path)
	}

	if name == "" && format != FormatGLTF {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return l.process(format, instantiate(decoded), name, newImportSettings(options)), nil
}

func (l *loader) LoadAsync(format Format, name string, data []byte, done func([]Imported, error), options ...ImportOption) {
	id := format.String() + ":" + name
	if l.coordinator != nil {
		l.coordinator.Register(id)
	}
	finish := func(result []Imported, err error) {
		l.dispatch(func() {
			if l.coordinator != nil {
				defer l.coordinator.Complete(id)
			}
			if done != nil {
				done(result, err)
			}
		})
	}

	backend, ok := l.backends[format]
	if !ok {
		finish(nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format))
		return
	}

	l.mu.Lock()
	if l.pool == nil {
		l.pool = worker.NewDynamicWorkerPool(l.asyncWorkers, 64, 1*time.Second)
	}
	pool := l.pool
	l.taskID++
	taskID := l.taskID
	l.mu.Unlock()

	settings := newImportSettings(options)
	pool.SubmitTask(worker.Task{
		ID: taskID,
		Do: func() (any, error) {
			decoded, err := backend.Decode(data)
			if err != nil {
				err = fmt.Errorf("failed to load %s %q: %w", format, name, err)
				finish(nil, err)
				return nil, err
			}
			result := l.process(format, decoded, name, settings)
			finish(result, nil)
			return result, nil
		},
	})
}

func (l *loader) Watch(path string, name string, onChange func([]Imported, error), options ...ImportOption) (func() error, error) {
	if _, err := FormatFromPath(path); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}

	l.mu.Lock()
	l.watchers = append(l.watchers, w)
	l.mu.Unlock()

	target := filepath.Clean(path)
	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				l.Evict(path)
				result, err := l.Load(path, name, options...)
				l.debugf("reloaded %s", path)
				l.dispatch(func() { onChange(result, err) })
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("loader: watch %s: %v", path, err)
			}
		}
	}()

	stop := func() error {
		l.mu.Lock()
		for i, other := range l.watchers {
			if other == w {
				l.watchers = append(l.watchers[:i], l.watchers[i+1:]...)
				break
			}
		}
		l.mu.Unlock()
		return w.Close()
	}
	return stop, nil
}

func (l *loader) Cached(path string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.cache[path]
	return ok
}

func (l *loader) Evict(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, path)
}

func (l *loader) Decoder() Decoder {
	return l.decoder
}

func (l *loader) Dispose() {
	l.mu.Lock()
	watchers := l.watchers
	l.watchers = nil
	l.cache = make(map[string][]decodedScene)
	l.pool = nil
	l.mu.Unlock()

	for _, w := range watchers {
		w.Close()
	}
	l.decoder.Dispose()
}

// instantiate copies cached decode output so post-processing never touches the cache.
func instantiate(decoded []decodedScene) []decodedScene {
	out := make([]decodedScene, len(decoded))
	for i, d := range decoded {
		out[i] = decodedScene{Root: d.Root.Instantiate(), Name: d.Name, Visible: d.Visible}
	}
	return out
}

func (l *loader) process(format Format, decoded []decodedScene, name string, settings *importSettings) []Imported {
	switch format {
	case FormatOBJ:
		return []Imported{l.processOBJ(decoded[0].Root, name, settings)}
	case FormatJSON:
		return []Imported{l.processJSON(decoded[0], name, settings)}
	default:
		return l.processGLTF(decoded, name, settings)
	}
}

// processOBJ names the root and gives every mesh and line one shared material.
func (l *loader) processOBJ(root *scene.Object, name string, settings *importSettings) Imported {
	root.Name = name
	root.UserData = map[string]any{"name": name}
	if settings.scale > 0 {
		root.Scale = root.Scale.Mul(settings.scale)
	}
	if settings.visible != nil {
		root.Visible = *settings.visible
	}

	side := material.FrontSide
	if settings.doubleSided {
		side = material.DoubleSide
	}
	color := common.ColorOBJDefault
	if settings.hasColor {
		color = settings.color
	}
	shared := l.geometryMaterial(
		material.WithColor(color),
		material.WithSide(side),
		material.WithFlatShading(settings.flat),
	)

	root.Traverse(func(child *scene.Object) {
		if child == root || !child.Type.Renderable() {
			return
		}
		child.Name = name
		child.UserData = maps.Clone(root.UserData)
		child.UserData["size"] = objectSize(child)
		child.Material = shared
	})
	return Imported{Object: root, Name: name, MenuName: settings.menuNode}
}

// processJSON applies the generic geometry post-processing to a JSON object graph.
func (l *loader) processJSON(decoded decodedScene, name string, settings *importSettings) Imported {
	if name == "" {
		name = decoded.Name
	}
	if settings.visible != nil {
		decoded.Root.Visible = *settings.visible
	}
	l.processGeometry(decoded.Root, name, settings)
	return Imported{Object: decoded.Root, Name: name, MenuName: settings.menuNode}
}

// processGLTF resolves names and visibility per glTF scene and post-processes each one.
func (l *loader) processGLTF(decoded []decodedScene, name string, settings *importSettings) []Imported {
	result := make([]Imported, 0, len(decoded))
	for _, d := range decoded {
		fullName, menuName := splitMenuName(d.Name, settings.menuNode)
		resolved := fullName
		if name != "" && len(decoded) == 1 {
			resolved = name
		}
		if settings.menuNode != "" {
			menuName = settings.menuNode
		}

		switch {
		case d.Visible != nil:
			d.Root.Visible = *d.Visible
		case settings.visible != nil:
			d.Root.Visible = *settings.visible
		}
		l.processGeometry(d.Root, resolved, settings)
		result = append(result, Imported{Object: d.Root, Name: resolved, MenuName: menuName})
	}
	return result
}

// processGeometry names every drawn object and rebuilds its material around the
// clipping planes. An "opacity" entry in the root userData makes every material
// transparent with that opacity.
func (l *loader) processGeometry(root *scene.Object, name string, settings *importSettings) {
	root.Name = name
	if settings.scale > 0 {
		root.Scale = root.Scale.Mul(settings.scale)
	}
	opacity, hasOpacity := common.ToFloat(root.UserData["opacity"])

	root.Traverse(func(child *scene.Object) {
		if !child.Type.Renderable() || child.Geometry == nil {
			return
		}
		child.Name = name
		child.UserData["name"] = name
		child.UserData["size"] = objectSize(child)

		color := common.ColorGeometry
		side := material.FrontSide
		if child.Material != nil {
			color = child.Material.Color()
			side = child.Material.Side()
		}
		if settings.hasColor {
			color = settings.color
		}
		if settings.doubleSided {
			side = material.DoubleSide
		}
		opts := []material.MaterialBuilderOption{
			material.WithColor(color),
			material.WithSide(side),
			material.WithOpacity(1),
		}
		if hasOpacity && opacity > 0 {
			opts = append(opts, material.WithTransparent(true), material.WithOpacity(float32(opacity)))
		}
		child.Material = l.geometryMaterial(opts...)
	})
}

// geometryMaterial builds a material sharing the scene's clipping planes.
func (l *loader) geometryMaterial(options ...material.MaterialBuilderOption) material.Material {
	opts := append([]material.MaterialBuilderOption{material.WithShininess(0)}, options...)
	if l.scenes == nil {
		return material.NewMaterial(append(opts, material.WithClippingPlanes(nil, true))...)
	}
	opts = append(opts, material.WithClippingPlanes(l.scenes.ClippingPlanes(), true))
	return l.scenes.NewGeometryMaterial(opts...)
}

// objectSize returns the extents of the object's own geometry.
func objectSize(obj *scene.Object) []float64 {
	if obj.Geometry == nil {
		return []float64{0, 0, 0}
	}
	return common.Vec3ToSlice(obj.Geometry.BoundingBox().Size())
}

// splitMenuName turns "a_>_b_>_c" into the display name "a > b > c" and the menu
// path "a > b", optionally prefixed by menuNode.
func splitMenuName(sceneName, menuNode string) (string, string) {
	if sceneName == "" {
		return "", menuNode
	}
	nodes := strings.Split(sceneName, menuSeparator)
	if menuNode != "" {
		nodes = append([]string{menuNode}, nodes...)
	}
	full := strings.Join(nodes, " > ")
	menu := strings.Join(nodes[:len(nodes)-1], " > ")
	return full, menu
}

func (l *loader) debugf(format string, args ...any) {
	if l.verbose {
		log.Printf("loader: "+format, args...)
	}
}
