package charts

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostwatch/internal/models"
)

func TestRenderHistory(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := models.HistorySnapshot{
		CPU:        []float64{10.5, 42.25},
		Memory:     []float64{55, 56.5},
		Timestamps: []time.Time{base, base.Add(10 * time.Second)},
	}

	var buf bytes.Buffer
	err := RenderHistory(&buf, snap, models.DefaultThresholds())
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "hostwatch - history")
	assert.Contains(t, html, "12:00:10")
	assert.Contains(t, html, "42.25")
	assert.Contains(t, html, "Memory %")
}

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := RenderHistory(&buf, models.HistorySnapshot{}, models.DefaultThresholds())
	require.NoError(t, err)
	assert.NotEmpty(t, buf.String())
}
