package headers

import (
	"bytes"
)

// DefaultMaxLines is the number of header lines kept per request
const DefaultMaxLines = 8

// Headers is an ordered, bounded list of raw "Name: value" lines. Lines
// are stored as they were read and only split when looked up. Lines past
// the cap are counted and dropped.
type Headers struct {
	lines   [][]byte
	max     int
	dropped int
}

// NewHeaders creates a header list holding at most max lines.
// A max <= 0 falls back to DefaultMaxLines.
func NewHeaders(max int) *Headers {
	if max <= 0 {
		max = DefaultMaxLines
	}
	return &Headers{
		lines: make([][]byte, 0, max),
		max:   max,
	}
}

// Add appends a raw header line. It returns false when the list is full,
// in which case the line is dropped.
func (h *Headers) Add(line []byte) bool {
	if len(h.lines) >= h.max {
		h.dropped++
		return false
	}
	h.lines = append(h.lines, line)
	return true
}

// Get returns the value of the first header whose name matches key,
// ignoring case
func (h *Headers) Get(key string) (string, bool) {
	v, ok := h.GetBytes(key)
	if !ok {
		return "", false
	}
	return string(v), true
}

// GetBytes is Get without the copy; the result aliases the stored line.
func (h *Headers) GetBytes(key string) ([]byte, bool) {
	for _, line := range h.lines {
		name, value, ok := Split(line)
		if !ok {
			continue
		}
		if equalFold(name, key) {
			return value, true
		}
	}
	return nil, false
}

// Lines returns the retained raw lines in arrival order
func (h *Headers) Lines() [][]byte {
	return h.lines
}

// Len returns the number of retained lines
func (h *Headers) Len() int {
	return len(h.lines)
}

// Dropped returns how many lines were discarded because the list was full
func (h *Headers) Dropped() int {
	return h.dropped
}

// Split splits a header line at the first colon. Leading spaces are
// trimmed from the value; the name is returned as is.
func Split(line []byte) (name, value []byte, ok bool) {
	colonIdx := bytes.IndexByte(line, ':')
	if colonIdx == -1 {
		return nil, nil, false
	}

	name = line[:colonIdx]
	value = line[colonIdx+1:]
	for len(value) > 0 && value[0] == ' ' {
		value = value[1:]
	}
	return name, value, true
}

func equalFold(name []byte, key string) bool {
	if len(name) != len(key) {
		return false
	}
	for i := 0; i < len(name); i++ {
		if lower(name[i]) != lower(key[i]) {
			return false
		}
	}
	return true
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
