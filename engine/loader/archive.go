package loader

import (
	"encoding/json"
	"fmt"

	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
)

// SceneConfiguration lists what a saved scene contains, so menus can be rebuilt before
// the scene itself is attached.
type SceneConfiguration struct {
	// EventData maps each event data type to its collection names.
	EventData map[string][]string `json:"eventData"`

	// Geometries lists the names of the loaded geometries.
	Geometries []string `json:"geometries"`
}

// NewSceneConfiguration describes the current event data and geometry groups. Unnamed
// nodes are skipped, and a group named EventData inside the geometries is not listed.
//
// Parameters:
//   - eventData: the event data group (types, then collections)
//   - geometries: the geometries group
//
// Returns:
//   - SceneConfiguration: the configuration
func NewSceneConfiguration(eventData, geometries *scene.Object) SceneConfiguration {
	cfg := SceneConfiguration{EventData: map[string][]string{}, Geometries: []string{}}
	if eventData != nil {
		for _, typeGroup := range eventData.Children() {
			if typeGroup.Name == "" {
				continue
			}
			collections := []string{}
			for _, c := range typeGroup.Children() {
				if c.Name != "" {
					collections = append(collections, c.Name)
				}
			}
			cfg.EventData[typeGroup.Name] = collections
		}
	}
	if geometries != nil {
		for _, g := range geometries.Children() {
			if g.Name != "" && g.Name != scene.EventDataID {
				cfg.Geometries = append(cfg.Geometries, g.Name)
			}
		}
	}
	return cfg
}

// Archive is a decoded .phnx scene.
type Archive struct {
	Config SceneConfiguration

	// Scene is the root of the stored scene.
	Scene *scene.Object

	// EventData and Geometries are the well-known groups found in Scene, or nil.
	EventData  *scene.Object
	Geometries *scene.Object
}

// archiveEnvelope is the on-disk layout: the configuration next to a glTF JSON document.
type archiveEnvelope struct {
	SceneConfiguration *SceneConfiguration `json:"sceneConfiguration"`
	Scene              json.RawMessage     `json:"scene"`
}

func (l *loader) LoadArchive(data []byte) (*Archive, error) {
	data, err := inflate(data)
	if err != nil {
		return nil, err
	}
	var env archiveEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: archive: %v", ErrMalformedInput, err)
	}
	if env.SceneConfiguration == nil || len(env.Scene) == 0 {
		return nil, fmt.Errorf("%w: archive needs sceneConfiguration and scene", ErrMalformedInput)
	}

	decoded, err := l.backends[FormatGLTF].Decode(env.Scene)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive scene: %w", err)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("%w: archive scene is empty", ErrMalformedInput)
	}

	root := decoded[0].Root
	if decoded[0].Visible != nil {
		root.Visible = *decoded[0].Visible
	}
	return &Archive{
		Config:     *env.SceneConfiguration,
		Scene:      root,
		EventData:  root.FindByName(scene.EventDataID),
		Geometries: root.FindByName(scene.GeometriesID),
	}, nil
}
