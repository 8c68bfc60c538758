// Package eventdata turns Phoenix format collision events into scene objects: tracks,
// jets, hits, calorimeter clusters, vertices and muons, grouped by object type and
// collection under the scene's event data group.
package eventdata

import (
	"errors"
	"log"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
)

// Object types understood by the loader, in build order.
const (
	TypeTracks       = "Tracks"
	TypeJets         = "Jets"
	TypeHits         = "Hits"
	TypeCaloClusters = "CaloClusters"
	TypeMuons        = "Muons"
	TypeVertices     = "Vertices"
)

var objectTypes = []string{TypeTracks, TypeJets, TypeHits, TypeCaloClusters, TypeMuons, TypeVertices}

// DefaultMinTrackMomentum drops tracks below 0.5 GeV.
const DefaultMinTrackMomentum = 0.5

var errNoEvent = errors.New("no event to build")

// Metadata is one line of event information such as "Run / Event" and "1 / 42".
type Metadata struct {
	Label string
	Value string
}

// metadataGroups lists which attributes are combined into one metadata line. The first
// present key of each entry is used.
var metadataGroups = [][]struct {
	keys  []string
	label string
}{
	{
		{keys: []string{"runNumber", "run number"}, label: "Run"},
		{keys: []string{"eventNumber", "event number"}, label: "Event"},
		{keys: []string{"ls"}, label: "LS"},
		{keys: []string{"lumiBlock"}, label: "LumiBlock"},
	},
	{
		{keys: []string{"time"}, label: "Data recorded"},
	},
}

// loader is the implementation of the Loader interface for the Phoenix event format.
type loader struct {
	mu *sync.Mutex

	event *Event
	cuts  map[string][]*scene.Cut

	minTrackMomentum float64
	verbose          bool
}

// Loader builds one event into the scene and answers questions about it.
type Loader interface {
	// BuildEventData adds every known object type of the event under the scene's event
	// data group: one group per type holding one group per collection. Objects that
	// cannot be drawn are skipped. The event data group is not cleared first.
	//
	// Parameters:
	//   - event: the event to build
	//   - scenes: the scene manager to add the objects to
	//
	// Returns:
	//   - error: error if event is nil
	BuildEventData(event *Event, scenes scene.Manager) error

	// Collections lists the collection names of the current event, ordered by object type
	// and then by name.
	//
	// Returns:
	//   - []string: the names, nil before an event was built
	Collections() []string

	// Collection returns the raw objects of a collection. Built objects carry their
	// identity token under "uuid".
	//
	// Parameters:
	//   - name: the collection name
	//
	// Returns:
	//   - []any: the objects, nil when no collection has that name
	Collection(name string) []any

	// CollectionCuts returns the cuts offered for a collection. Only cuts on attributes
	// present on the first object of the collection are kept.
	//
	// Parameters:
	//   - name: the collection name
	//
	// Returns:
	//   - []*scene.Cut: the cuts, for use with scene.Manager.CollectionFilter
	CollectionCuts(name string) []*scene.Cut

	// EventMetadata describes the current event (run, event number, time).
	//
	// Returns:
	//   - []Metadata: the metadata lines, empty when the event has none
	EventMetadata() []Metadata
}

var _ Loader = &loader{}

// NewLoader creates a Phoenix format event loader.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions
//
// Returns:
//   - Loader: the loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:               &sync.Mutex{},
		cuts:             make(map[string][]*scene.Cut),
		minTrackMomentum: DefaultMinTrackMomentum,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) BuildEventData(event *Event, scenes scene.Manager) error {
	if event == nil {
		return errNoEvent
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.event = event
	l.cuts = make(map[string][]*scene.Cut)

	for _, objectType := range objectTypes {
		collections, ok := event.Types[objectType]
		if !ok {
			continue
		}
		l.addObjectType(scenes, objectType, collections, l.builder(objectType))
	}
	for objectType := range event.Types {
		if !slices.Contains(objectTypes, objectType) {
			l.debugf("skipping unknown object type %q", objectType)
		}
	}
	return nil
}

func (l *loader) builder(objectType string) objectBuilder {
	switch objectType {
	case TypeTracks:
		return func(params any) *scene.Object { return newTrack(params, l.minTrackMomentum) }
	case TypeJets:
		return newJet
	case TypeHits:
		return newHits
	case TypeCaloClusters:
		return newCluster
	case TypeMuons:
		return l.newMuon
	default:
		return newVertex
	}
}

// addObjectType adds one group per collection under the type group and records the cuts
// offered for each collection.
func (l *loader) addObjectType(scenes scene.Manager, objectType string, collections map[string][]any, build objectBuilder) {
	typeGroup := scenes.AddEventDataTypeGroup(objectType)
	for _, name := range slices.Sorted(maps.Keys(collections)) {
		objects := collections[name]
		group := scene.NewGroup(name)
		skipped := 0
		for _, params := range objects {
			if obj := build(params); obj != nil {
				group.Add(obj)
			} else {
				skipped++
			}
		}
		typeGroup.Add(group)
		if skipped > 0 {
			l.debugf("%s/%s: skipped %d of %d objects", objectType, name, skipped, len(objects))
		}

		var cuts []*scene.Cut
		for _, cut := range defaultCuts(objectType) {
			if len(objects) > 0 && hasValue(objects[0], cut.Field) {
				cuts = append(cuts, cut)
			}
		}
		l.cuts[name] = cuts
	}
}

// newMuon groups the clusters and tracks a muon links to by "collection:index".
func (l *loader) newMuon(params any) *scene.Object {
	p, ok := params.(map[string]any)
	if !ok {
		return nil
	}
	muon := scene.NewGroup(MuonName)
	for _, id := range stringList(p["LinkedClusters"]) {
		if linked := l.linkedObject(TypeCaloClusters, id); linked != nil {
			if cluster := newCluster(linked); cluster != nil {
				muon.Add(cluster)
			}
		}
	}
	for _, id := range stringList(p["LinkedTracks"]) {
		if linked := l.linkedObject(TypeTracks, id); linked != nil {
			if track := newTrack(linked, l.minTrackMomentum); track != nil {
				muon.Add(track)
			}
		}
	}
	muon.UserData = userData(p, muon.ID)
	return muon
}

func (l *loader) linkedObject(objectType, id string) any {
	collection, indexText, ok := strings.Cut(id, ":")
	if !ok || collection == "" || indexText == "" {
		return nil
	}
	index, err := strconv.Atoi(indexText)
	if err != nil {
		return nil
	}
	objects := l.event.Types[objectType][collection]
	if index < 0 || index >= len(objects) {
		return nil
	}
	if m, ok := objects[index].(map[string]any); ok {
		return maps.Clone(m)
	}
	return objects[index]
}

func (l *loader) Collections() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.event == nil {
		return nil
	}
	collections := []string{}
	for _, objectType := range slices.Sorted(maps.Keys(l.event.Types)) {
		collections = append(collections, slices.Sorted(maps.Keys(l.event.Types[objectType]))...)
	}
	return collections
}

func (l *loader) Collection(name string) []any {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.event == nil {
		return nil
	}
	for _, objectType := range slices.Sorted(maps.Keys(l.event.Types)) {
		if objects, ok := l.event.Types[objectType][name]; ok {
			return objects
		}
	}
	return nil
}

func (l *loader) CollectionCuts(name string) []*scene.Cut {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cuts[name]
}

func (l *loader) EventMetadata() []Metadata {
	l.mu.Lock()
	defer l.mu.Unlock()
	metadata := []Metadata{}
	if l.event == nil {
		return metadata
	}
	for _, group := range metadataGroups {
		var labels, values []string
		for _, prop := range group {
			for _, key := range prop.keys {
				if value, ok := l.event.Attributes[key]; ok && truthy(value) {
					labels = append(labels, prop.label)
					values = append(values, formatValue(value))
					break
				}
			}
		}
		if len(labels) > 0 {
			metadata = append(metadata, Metadata{Label: strings.Join(labels, " / "), Value: strings.Join(values, " / ")})
		}
	}
	return metadata
}

// defaultCuts returns fresh cuts for the attributes usually present on objects of the
// type.
func defaultCuts(objectType string) []*scene.Cut {
	switch objectType {
	case TypeTracks:
		return []*scene.Cut{
			scene.NewCut("chi2", 0, 50, 1),
			scene.NewCut("dof", 0, 100, 1),
			scene.NewCut("mom", 0, 500, 1),
		}
	case TypeJets, TypeCaloClusters:
		return []*scene.Cut{
			scene.NewCut("phi", -math.Pi, math.Pi, 0.01),
			scene.NewCut("eta", 0, 100, 1),
			scene.NewCut("energy", 2000, 10000, 1),
		}
	case TypeMuons:
		return []*scene.Cut{
			scene.NewCut("phi", -math.Pi, math.Pi, 0.01),
			scene.NewCut("eta", -100, 100, 1),
			scene.NewCut("energy", 0, 10000, 1),
			scene.NewCut("pT", 0, 50, 1),
		}
	case TypeVertices:
		return []*scene.Cut{scene.NewCut("vertexType", 0, 5, 1)}
	}
	return nil
}

func hasValue(object any, field string) bool {
	p, ok := object.(map[string]any)
	if !ok {
		return false
	}
	value, ok := p[field]
	return ok && truthy(value)
}

func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case float64:
		return value != 0 && !math.IsNaN(value)
	case string:
		return value != ""
	}
	return true
}

func formatValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	}
	return ""
}

func stringList(v any) []string {
	values, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if s, ok := value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (l *loader) debugf(format string, args ...any) {
	if l.verbose {
		log.Printf("eventdata: "+format, args...)
	}
}
