package domain

import (
	"math"
	"sync/atomic"
)

const (
	DefaultTemperatureThreshold  float64 = 25
	TemperatureThresholdProperty         = "TemperatureThreshold"
)

// ThresholdStore holds the current temperature threshold. Reads and writes are
// atomic, so a reader always sees a whole value written by some Update (or the
// initial one). Concurrent updates are last-write-wins.
type ThresholdStore struct {
	bits atomic.Uint64
}

func NewThresholdStore(initial float64) *ThresholdStore {
	s := &ThresholdStore{}
	s.bits.Store(math.Float64bits(initial))
	return s
}

func (s *ThresholdStore) Get() float64 {
	return math.Float64frombits(s.bits.Load())
}

// Update replaces the threshold. No validation is applied.
func (s *ThresholdStore) Update(value float64) {
	s.bits.Store(math.Float64bits(value))
}
