// internal/state/logbuffer.go
package state

import "roommon/internal/model"

// LogBuffer is a fixed-capacity FIFO of log lines. Appending beyond
// capacity evicts the oldest entry. Capacity is set once at startup.
type LogBuffer struct {
	entries []model.LogEntry
	start   int // index of the oldest entry
	count   int
	total   uint64 // entries ever appended, including evicted ones
}

// NewLogBuffer allocates a buffer holding at most capacity lines.
// Capacity must be positive; config validation guarantees that.
func NewLogBuffer(capacity int) *LogBuffer {
	return &LogBuffer{
		entries: make([]model.LogEntry, capacity),
	}
}

// Append adds an entry, evicting the oldest one when full
func (b *LogBuffer) Append(entry model.LogEntry) {
	idx := (b.start + b.count) % len(b.entries)
	b.entries[idx] = entry
	if b.count < len(b.entries) {
		b.count++
	} else {
		b.start = (b.start + 1) % len(b.entries)
	}
	b.total++
}

// Lines returns the buffered entries oldest-first
func (b *LogBuffer) Lines() []model.LogEntry {
	out := make([]model.LogEntry, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.entries[(b.start+i)%len(b.entries)]
	}
	return out
}

// Len returns the number of buffered entries
func (b *LogBuffer) Len() int {
	return b.count
}

// Cap returns the fixed capacity
func (b *LogBuffer) Cap() int {
	return len(b.entries)
}

// Total returns how many entries were ever appended
func (b *LogBuffer) Total() uint64 {
	return b.total
}

// Clear drops all buffered entries but keeps the capacity
func (b *LogBuffer) Clear() {
	b.start = 0
	b.count = 0
}
