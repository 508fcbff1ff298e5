package server

import (
	"bytes"
	"log"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := &DefaultLogger{logger: log.New(&buf, "", 0)}

	l.Info("accepting connections", Field{"addr", ":4221"}, Field{"workers", 10})

	line := buf.String()
	assert.Contains(t, line, "INFO: accepting connections | addr=:4221 workers=10")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestDefaultLoggerDebugNeedsVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := &DefaultLogger{logger: log.New(&buf, "", 0)}

	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.Verbose = true
	l.Debug("shown")
	assert.Contains(t, buf.String(), "DEBUG: shown")
}

func TestSanitizeValue(t *testing.T) {
	long := strings.Repeat("a", 150)

	got := sanitizeValue(long).(string)
	assert.Equal(t, strings.Repeat("a", 100)+"...[truncated]", got)
	assert.Equal(t, "short", sanitizeValue("short"))
	assert.Equal(t, 42, sanitizeValue(42))
}

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	l := SlogLogger{L: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	l.Warn("slow worker", Field{"worker", 3})
	l.Debug("header lines dropped", Field{"dropped", 2})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="slow worker" worker=3`)
	assert.Contains(t, out, "dropped=2")
}

func TestBufferPool(t *testing.T) {
	p := newBufferPool(128)

	buf := p.get()
	assert.Len(t, buf, 128)

	// a resliced buffer comes back at full length
	p.put(buf[:10])
	assert.Len(t, p.get(), 128)

	// foreign buffers are not pooled
	p.put(make([]byte, 64))
	for i := 0; i < 4; i++ {
		assert.Len(t, p.get(), 128)
	}
}

func TestDefaultLoggerZeroValue(t *testing.T) {
	l := &DefaultLogger{}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotPanics(t, func() { l.Info("zero value logger", Field{"ok", true}) })
		}()
	}
	wg.Wait()
	assert.NotNil(t, l.logger)
}
