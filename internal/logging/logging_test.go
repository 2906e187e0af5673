package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("warn", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "frames", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "frames=3")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty", &bytes.Buffer{})
	assert.Error(t, err)
}
