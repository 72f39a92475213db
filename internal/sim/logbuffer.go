// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

// =============================================================================
// ROLLING LOG BUFFER
// =============================================================================

// LogBuffer is a fixed-capacity rolling line buffer. Appending beyond
// capacity drops the oldest line. Implemented as a ring so long runs never
// reallocate.
type LogBuffer struct {
	lines []string
	head  int // index of the oldest line
	count int
}

// NewLogBuffer creates a buffer holding at most capacity lines.
func NewLogBuffer(capacity int) *LogBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &LogBuffer{lines: make([]string, capacity)}
}

// Append adds a line, evicting the oldest when full.
func (b *LogBuffer) Append(line string) {
	if b.count < len(b.lines) {
		b.lines[(b.head+b.count)%len(b.lines)] = line
		b.count++
		return
	}
	b.lines[b.head] = line
	b.head = (b.head + 1) % len(b.lines)
}

// Lines returns the buffered lines, oldest first.
func (b *LogBuffer) Lines() []string {
	out := make([]string, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.lines[(b.head+i)%len(b.lines)]
	}
	return out
}

// Len returns the number of buffered lines.
func (b *LogBuffer) Len() int { return b.count }

// Cap returns the buffer capacity.
func (b *LogBuffer) Cap() int { return len(b.lines) }

// Clear empties the buffer.
func (b *LogBuffer) Clear() {
	b.head = 0
	b.count = 0
}
