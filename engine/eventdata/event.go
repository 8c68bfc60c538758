package eventdata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrMalformedEvent is wrapped by every error caused by the content of an event file.
var ErrMalformedEvent = errors.New("malformed event")

// Event is one collision event in the Phoenix format: object types (Tracks, Jets, ...)
// each holding named collections of objects, plus scalar attributes such as run and
// event numbers.
type Event struct {
	// Types maps an object type to its collections by name.
	Types map[string]map[string][]any

	// Attributes holds every top-level value that is not an object type.
	Attributes map[string]any
}

// UnmarshalJSON splits the top-level keys into object types and attributes. A value is an
// object type when it is an object whose members are all arrays; null collections are
// dropped.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Types = make(map[string]map[string][]any)
	e.Attributes = make(map[string]any)
	for key, value := range raw {
		if isNull(value) {
			continue
		}
		var collections map[string][]any
		if err := json.Unmarshal(value, &collections); err == nil {
			for name, c := range collections {
				if c == nil {
					delete(collections, name)
				}
			}
			e.Types[key] = collections
			continue
		}
		var attr any
		if err := json.Unmarshal(value, &attr); err != nil {
			return err
		}
		e.Attributes[key] = attr
	}
	return nil
}

// MarshalJSON writes the event back in the Phoenix format.
func (e Event) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Types)+len(e.Attributes))
	maps.Copy(out, e.Attributes)
	for key, collections := range e.Types {
		out[key] = collections
	}
	return json.Marshal(out)
}

// ParseEvent decodes a single event.
//
// Parameters:
//   - data: the event JSON
//
// Returns:
//   - *Event: the event
//   - error: error wrapping ErrMalformedEvent on bad input
func ParseEvent(data []byte) (*Event, error) {
	if isNull(data) {
		return nil, fmt.Errorf("%w: empty event", ErrMalformedEvent)
	}
	e := &Event{}
	if err := json.Unmarshal(data, e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return e, nil
}

// ParseEvents decodes a file holding several events keyed by name. Null events are
// skipped.
//
// Parameters:
//   - data: the events JSON
//
// Returns:
//   - map[string]*Event: the events by name
//   - error: error wrapping ErrMalformedEvent on bad input
func ParseEvents(data []byte) (map[string]*Event, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	events := make(map[string]*Event, len(raw))
	for name, value := range raw {
		if isNull(value) {
			continue
		}
		e, err := ParseEvent(value)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", name, err)
		}
		events[name] = e
	}
	return events, nil
}

// EventsList returns the sorted names of the events.
func EventsList(events map[string]*Event) []string {
	return slices.Sorted(maps.Keys(events))
}

func isNull(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
