package codegen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationStats(t *testing.T) {
	f := loadFixture(t, "commands.txtar")

	stats := NewGenerationStats()
	for _, fn := range f.functions {
		stats.Record(fn, &CustomSources{})
	}

	assert.Equal(t, 9, stats.Functions)
	assert.Equal(t, 3, stats.ImmediateVariants)
	// glBindBuffer, glClearColor and glFinish need no pointer handling
	assert.Equal(t, 3, stats.AutoGenerated)
	assert.Equal(t, 3, stats.NonAutoGenerated)
	assert.Equal(t, 3, stats.Synchronous)
	assert.Equal(t, 6, stats.Asynchronous)
	assert.Equal(t, 1, stats.CustomEntryPoints)

	assert.Contains(t, stats.String(), "  Immediate variants:  3\n")
	assert.True(t, strings.HasPrefix(stats.Summary(), "Generated 9 commands (3 immediate, 3 sync, 6 async)"))

	var buf bytes.Buffer
	stats.WriteNonAutoGenerated(&buf)
	out := buf.String()
	assert.Contains(t, out, "FUNCTION")
	for _, name := range []string{"glBindAttribLocation", "glGetIntegerv", "glBufferData"} {
		assert.Contains(t, out, name)
	}
	assert.NotContains(t, out, "glClearColor")

	other := NewGenerationStats()
	other.Errors = 2
	other.FilesWritten = 4
	stats.Merge(other)
	stats.Merge(nil)
	assert.Equal(t, 2, stats.Errors)
	assert.Equal(t, 4, stats.FilesWritten)
	assert.Equal(t, "No commands generated", NewGenerationStats().Summary())
}
