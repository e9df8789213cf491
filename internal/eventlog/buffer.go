// Package eventlog holds the demo event log shown in the dashboard's debug
// panel. It is an observability sink only; nothing reads it back to make a
// decision.
package eventlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level classifies an entry for display.
type Level string

const (
	LevelInfo       Level = "info"
	LevelSuccess    Level = "success"
	LevelError      Level = "error"
	LevelStripe     Level = "stripe"
	LevelSimulation Level = "simulation"
)

// DefaultCapacity is the number of entries kept when none is configured.
const DefaultCapacity = 50

// ParseLevel validates a level received from a caller.
func ParseLevel(s string) (Level, error) {
	switch l := Level(s); l {
	case LevelInfo, LevelSuccess, LevelError, LevelStripe, LevelSimulation:
		return l, nil
	default:
		return "", fmt.Errorf("eventlog: unknown level %q", s)
	}
}

// Entry is one line of the demo log.
type Entry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// Buffer is a bounded FIFO of entries. The oldest entry is evicted once the
// capacity is exceeded. It is safe for concurrent use.
type Buffer struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	now      func() time.Time
}

// NewBuffer returns an empty buffer. A non-positive capacity selects
// DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Append records an entry and returns it.
func (b *Buffer) Append(level Level, message string, data map[string]any) Entry {
	entry := Entry{
		ID:        "log_" + uuid.NewString(),
		Timestamp: b.now().UTC(),
		Level:     level,
		Message:   message,
		Data:      data,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, entry)
	if over := len(b.entries) - b.capacity; over > 0 {
		// Copy down instead of reslicing so the backing array does not grow forever.
		n := copy(b.entries, b.entries[over:])
		clear(b.entries[n:])
		b.entries = b.entries[:n]
	}
	return entry
}

// List returns a snapshot of the entries, oldest first.
func (b *Buffer) List() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Count returns the number of entries currently held.
func (b *Buffer) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Clear drops every entry.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(b.entries)
	b.entries = b.entries[:0]
}
