package headers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderGet(t *testing.T) {
	// Test: Valid single header
	h := NewHeaders(0)
	require.True(t, h.Add([]byte("Host: localhost:4221")))
	val, ok := h.Get("host")
	assert.True(t, ok)
	assert.Equal(t, "localhost:4221", val)

	// Test: Only leading spaces are trimmed from the value
	h = NewHeaders(0)
	h.Add([]byte("Host:   localhost:4221  "))
	val, ok = h.Get("Host")
	assert.True(t, ok)
	assert.Equal(t, "localhost:4221  ", val)

	// Test: Case insensitive lookup
	h = NewHeaders(0)
	h.Add([]byte("USER-AGENT: X"))
	val, ok = h.Get("User-Agent")
	assert.True(t, ok)
	assert.Equal(t, "X", val)
	val, ok = h.Get("user-agent")
	assert.True(t, ok)
	assert.Equal(t, "X", val)

	// Test: First match wins for duplicates
	h = NewHeaders(0)
	h.Add([]byte("Accept: a"))
	h.Add([]byte("accept: b"))
	val, _ = h.Get("ACCEPT")
	assert.Equal(t, "a", val)

	// Test: Value split at the first colon only
	h = NewHeaders(0)
	h.Add([]byte("Referer: http://example.com:8080/x"))
	val, _ = h.Get("referer")
	assert.Equal(t, "http://example.com:8080/x", val)

	// Test: Get on non-existent header
	h = NewHeaders(0)
	val, ok = h.Get("non-existent")
	assert.False(t, ok)
	assert.Equal(t, "", val)

	// Test: Line without colon is kept but never matches
	h = NewHeaders(0)
	h.Add([]byte("InvalidHeader"))
	assert.Equal(t, 1, h.Len())
	_, ok = h.Get("InvalidHeader")
	assert.False(t, ok)

	// Test: Prefix of a name does not match
	h = NewHeaders(0)
	h.Add([]byte("User-Agent-Extra: y"))
	_, ok = h.Get("User-Agent")
	assert.False(t, ok)

	// Test: Empty header value (allowed)
	h = NewHeaders(0)
	h.Add([]byte("X-Empty:"))
	val, ok = h.Get("x-empty")
	assert.True(t, ok)
	assert.Equal(t, "", val)
}

func TestHeaderCap(t *testing.T) {
	h := NewHeaders(3)
	for i := 0; i < 5; i++ {
		h.Add([]byte(fmt.Sprintf("X-H%d: %d", i, i)))
	}

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 2, h.Dropped())

	val, ok := h.Get("x-h2")
	assert.True(t, ok)
	assert.Equal(t, "2", val)

	_, ok = h.Get("x-h3")
	assert.False(t, ok)

	assert.Equal(t, "X-H0: 0", string(h.Lines()[0]))
}

func TestSplit(t *testing.T) {
	tests := []struct {
		line  string
		name  string
		value string
		ok    bool
	}{
		{"Host: a", "Host", "a", true},
		{"Host:a", "Host", "a", true},
		{"Host:", "Host", "", true},
		{": v", "", "v", true},
		{"nocolon", "", "", false},
	}

	for _, tt := range tests {
		name, value, ok := Split([]byte(tt.line))
		assert.Equal(t, tt.ok, ok, tt.line)
		if tt.ok {
			assert.Equal(t, tt.name, string(name), tt.line)
			assert.Equal(t, tt.value, string(value), tt.line)
		}
	}
}
