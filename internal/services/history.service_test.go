package services

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostwatch/internal/models"
)

var testBase = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestHistoryBufferEvictsOldest(t *testing.T) {
	h := NewHistoryBuffer(DefaultHistoryCapacity)

	for i := 0; i < 75; i++ {
		h.AppendSample(float64(i), float64(i)+0.5, testBase.Add(time.Duration(i)*time.Second))
	}

	snap := h.Snapshot()
	require.Equal(t, 60, snap.Len())
	assert.Len(t, snap.CPU, 60)
	assert.Len(t, snap.Memory, 60)
	for i := 0; i < 60; i++ {
		assert.Equal(t, float64(i+15), snap.CPU[i])
		assert.Equal(t, float64(i+15)+0.5, snap.Memory[i])
		assert.Equal(t, testBase.Add(time.Duration(i+15)*time.Second), snap.Timestamps[i])
	}
}

func TestHistoryBufferRoundTrip(t *testing.T) {
	h := NewHistoryBuffer(5)
	values := []float64{0.1, 33.333333333333336, 99.99999999999999, 1e-9, 42}

	for i, v := range values {
		h.AppendSample(v, -v, testBase.Add(time.Duration(i)*time.Millisecond))
	}

	snap := h.Snapshot()
	assert.Equal(t, values, snap.CPU)
	for i, v := range values {
		assert.Equal(t, -v, snap.Memory[i])
	}
}

func TestHistoryBufferAppendCarriesOtherSeries(t *testing.T) {
	h := NewHistoryBuffer(10)

	h.Append(models.MetricCPU, 12, testBase)
	h.Append(models.MetricMemory, 40, testBase.Add(time.Second))
	h.Append(models.MetricCPU, 14, testBase.Add(2*time.Second))
	h.Append(models.MetricDisk, 99, testBase.Add(3*time.Second))

	snap := h.Snapshot()
	assert.Equal(t, []float64{12, 12, 14}, snap.CPU)
	assert.Equal(t, []float64{0, 40, 40}, snap.Memory)
	assert.Equal(t, 3, h.Len())
}

func TestHistoryBufferSnapshotIsACopy(t *testing.T) {
	h := NewHistoryBuffer(3)
	h.AppendSample(1, 2, testBase)

	snap := h.Snapshot()
	snap.CPU[0] = 100

	assert.Equal(t, 1.0, h.Snapshot().CPU[0])
}

func TestHistoryBufferInvalidCapacity(t *testing.T) {
	assert.Equal(t, DefaultHistoryCapacity, NewHistoryBuffer(0).Capacity())
	assert.Equal(t, DefaultHistoryCapacity, NewHistoryBuffer(-3).Capacity())
	assert.Equal(t, 0, NewHistoryBuffer(4).Snapshot().Len())
}

func TestHistoryBufferConcurrentAccess(t *testing.T) {
	const (
		writers    = 8
		readers    = 4
		perWriter  = 500
		iterations = 500
	)
	h := NewHistoryBuffer(DefaultHistoryCapacity)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for i := 0; i < perWriter; i++ {
				switch rnd.Intn(3) {
				case 0:
					h.AppendSample(rnd.Float64()*100, rnd.Float64()*100, time.Now())
				case 1:
					h.Append(models.MetricCPU, rnd.Float64()*100, time.Now())
				default:
					h.Append(models.MetricMemory, rnd.Float64()*100, time.Now())
				}
			}
		}(int64(w))
	}

	mismatches := make(chan models.HistorySnapshot, readers*iterations)
	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				snap := h.Snapshot()
				if len(snap.CPU) != len(snap.Memory) || len(snap.CPU) != len(snap.Timestamps) || snap.Len() > DefaultHistoryCapacity {
					mismatches <- snap
				}
			}
		}()
	}

	wg.Wait()
	close(mismatches)

	assert.Empty(t, mismatches)
	assert.Equal(t, DefaultHistoryCapacity, h.Len())
}
