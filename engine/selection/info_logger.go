package selection

import (
	"sync"
)

// DefaultInfoLoggerSize is the number of entries kept by NewInfoLogger.
const DefaultInfoLoggerSize = 10

// infoLogger is the implementation of the InfoLogger interface.
type infoLogger struct {
	mu *sync.Mutex

	entries []string
	size    int
}

// InfoLogger records short user-facing messages such as selection changes.
type InfoLogger interface {
	// Add records data under label as "label: data".
	//
	// Parameters:
	//   - data: the message
	//   - label: the message category
	Add(data, label string)

	// Entries returns the recorded messages, newest first.
	//
	// Returns:
	//   - []string: a copy of the entries
	Entries() []string
}

var _ InfoLogger = &infoLogger{}

// NewInfoLogger creates an InfoLogger that keeps the most recent size entries.
// Non-positive sizes use DefaultInfoLoggerSize.
func NewInfoLogger(size int) InfoLogger {
	if size <= 0 {
		size = DefaultInfoLoggerSize
	}
	return &infoLogger{
		mu:   &sync.Mutex{},
		size: size,
	}
}

func (l *infoLogger) Add(data, label string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := data
	if label != "" {
		entry = label + ": " + data
	}
	l.entries = append([]string{entry}, l.entries...)
	if len(l.entries) > l.size {
		l.entries = l.entries[:l.size]
	}
}

func (l *infoLogger) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}
