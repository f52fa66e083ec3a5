package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecorder_CollectsAndForwards(t *testing.T) {
	inner := NewRecorder(nil)
	r := NewRecorder(inner)

	r.Debug("starting", nil)
	r.Warn("integer overflow", Fields{"value": "18446744073709551615"})
	r.Warn("Unknown option ignored", Fields{"option": "colour"})
	r.Error("boom", nil)

	assert.Equal(t, []string{"integer overflow", "Unknown option ignored"}, r.Warnings())
	assert.Len(t, r.Entries(), 4)
	assert.Equal(t, r.Entries(), inner.Entries())
	assert.Equal(t, "colour", r.Entries()[2].Fields["option"])
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, Nop{}, OrNop(nil))

	r := NewRecorder(nil)
	assert.Same(t, r, OrNop(r))
}

func TestZap_WritesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewZap(zap.New(core))

	l.Warn("unknown option ignored", Fields{"option": "colour"})
	l.Debug("quiet", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "unknown option ignored", entries[0].Message)
	assert.Equal(t, "colour", entries[0].ContextMap()["option"])
	assert.Empty(t, entries[1].ContextMap())
}

func TestLogrus_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogrus(NewLogrusEntry(&buf, false))

	l.Info("hidden", nil)
	l.Warn("shown", Fields{"column": "a"})

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "column=a")
}
