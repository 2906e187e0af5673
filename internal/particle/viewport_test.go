package particle_test

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/plexus/internal/particle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViewport(t *testing.T) {
	tests := []struct {
		name         string
		w, h, dpr    float64
		wantDPR      float64
		wantW, wantH uint32
	}{
		{"unit", 800, 600, 1, 1, 800, 600},
		{"retina", 800, 600, 2, 2, 1600, 1200},
		{"fractional", 333, 101, 1.5, 1.5, 499, 151},
		{"clamped high", 100, 100, 3, 2, 200, 200},
		{"clamped low", 100, 100, 0.5, 1, 100, 100},
		{"empty", 0, 0, 1, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp, err := particle.NewViewport(tt.w, tt.h, tt.dpr)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDPR, vp.DPR)
			assert.Equal(t, tt.wantW, vp.BufferWidth)
			assert.Equal(t, tt.wantH, vp.BufferHeight)
		})
	}
}

func TestNewViewportRejects(t *testing.T) {
	tests := []struct {
		name      string
		w, h, dpr float64
	}{
		{"negative width", -1, 10, 1},
		{"nan height", 10, math.NaN(), 1},
		{"zero dpr", 10, 10, 0},
		{"inf dpr", 10, 10, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := particle.NewViewport(tt.w, tt.h, tt.dpr)
			assert.True(t, errors.Is(err, particle.ErrInvalidConfig))
		})
	}
}

func TestNewViewportStrict(t *testing.T) {
	_, err := particle.NewViewportStrict(100, 100, 2.5)
	require.Error(t, err)
	assert.ErrorIs(t, err, particle.ErrInvalidConfig)

	var cerr *particle.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "dpr", cerr.Field)

	vp, err := particle.NewViewportStrict(100, 100, 1.25)
	require.NoError(t, err)
	assert.Equal(t, uint32(125), vp.BufferWidth)
}

func TestViewportContains(t *testing.T) {
	vp, err := particle.NewViewport(10, 10, 1)
	require.NoError(t, err)

	assert.True(t, vp.Contains(0, 0))
	assert.True(t, vp.Contains(9.999, 9.999))
	assert.False(t, vp.Contains(10, 5))
	assert.False(t, vp.Contains(5, -0.001))

	empty, err := particle.NewViewport(0, 10, 1)
	require.NoError(t, err)
	assert.True(t, empty.Empty())
	assert.False(t, empty.Contains(0, 0))
}
