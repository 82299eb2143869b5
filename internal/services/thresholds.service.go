package services

import (
	"fmt"
	"math"
	"sync"

	"github.com/spf13/cast"

	"hostwatch/internal/models"
)

// ThresholdPolicy holds the alert thresholds shared by the monitor loop and
// the HTTP layer.
type ThresholdPolicy struct {
	mu     sync.RWMutex
	values models.ThresholdSet
}

// NewThresholdPolicy creates a policy starting from initial
func NewThresholdPolicy(initial models.ThresholdSet) *ThresholdPolicy {
	return &ThresholdPolicy{values: initial}
}

// Get returns a consistent copy of all thresholds
func (p *ThresholdPolicy) Get() models.ThresholdSet {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.values
}

// Set replaces all thresholds
func (p *ThresholdPolicy) Set(values models.ThresholdSet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values = values
}

// Update applies the cpu, memory and disk entries present in partial.
// Values may be numbers or numeric strings. Every present entry is parsed
// before anything is stored: one bad value leaves all thresholds unchanged.
// Unknown keys are ignored.
func (p *ThresholdPolicy) Update(partial map[string]interface{}) (models.ThresholdSet, error) {
	parsed := make(map[models.MetricKind]float64, 3)
	for _, kind := range []models.MetricKind{models.MetricCPU, models.MetricMemory, models.MetricDisk} {
		raw, ok := partial[string(kind)]
		if !ok {
			continue
		}
		value, err := parsePercent(raw)
		if err != nil {
			return p.Get(), fmt.Errorf("%w: %s threshold: %v", ErrInvalidInput, kind, err)
		}
		parsed[kind] = value
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := parsed[models.MetricCPU]; ok {
		p.values.CPU = v
	}
	if v, ok := parsed[models.MetricMemory]; ok {
		p.values.Memory = v
	}
	if v, ok := parsed[models.MetricDisk]; ok {
		p.values.Disk = v
	}
	return p.values, nil
}

func parsePercent(raw interface{}) (float64, error) {
	if raw == nil {
		return 0, fmt.Errorf("value is null")
	}
	if _, isBool := raw.(bool); isBool {
		return 0, fmt.Errorf("%v is not a number", raw)
	}
	value, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", fmt.Sprint(raw))
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%v is not a finite number", raw)
	}
	return value, nil
}
