// Package console holds the human-readable log events shown in the
// developer console and the bounded buffer that keeps them.
package console

import (
	"sync"
	"time"
)

const (
	// MaxEntries is the number of entries a [Buffer] keeps before trimming.
	MaxEntries = 1000

	// trimBatch is how many of the oldest entries are dropped once the
	// buffer grows past MaxEntries.
	trimBatch = 100
)

// Level classifies a log [Entry].
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the label shown in the console's level column.
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// MarshalText lets levels serialize as their label.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Entry is a single discrete log event.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
}

// NewEntry creates an [Entry] stamped with the current UTC time.
func NewEntry(level Level, message string) Entry {
	return Entry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
	}
}

// Buffer is a bounded, concurrency-safe list of entries.
//
// When a push takes the buffer past [MaxEntries], the oldest 100 entries are
// dropped in one batch.
type Buffer struct {
	mu      sync.Mutex
	entries []Entry
}

// NewBuffer creates an empty [Buffer].
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Add records a new entry with the current time.
func (b *Buffer) Add(level Level, message string) {
	b.Push(NewEntry(level, message))
}

// Push appends an existing entry, trimming if the buffer is over capacity.
func (b *Buffer) Push(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, e)
	if len(b.entries) > MaxEntries {
		b.entries = append(b.entries[:0:0], b.entries[trimBatch:]...)
	}
}

// Entries returns a copy of the buffered entries, oldest first.
func (b *Buffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of buffered entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Clear removes all entries.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
}
