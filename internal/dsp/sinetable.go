// Package dsp holds the per-sample building blocks of the tone renderer:
// a sine lookup table, a phase-accumulating oscillator, a biquad filter and
// a decibel gain ramp. Every type owns its state; none of them are safe for
// concurrent use.
package dsp

import (
	"errors"
	"fmt"
	"math"
)

// ErrTableSize is returned when a sine table size is not a positive power of two.
var ErrTableSize = errors.New("sine table size must be a power of two")

// SineTable holds one period of a sine wave at a fixed peak amplitude.
type SineTable struct {
	values []float64
	mask   int
}

// NewSineTable fills size entries with peak * sin(2π*i/size).
func NewSineTable(size int, peak float64) (*SineTable, error) {
	if !IsPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: %d", ErrTableSize, size)
	}

	values := make([]float64, size)
	for i := range values {
		values[i] = peak * math.Sin(2*math.Pi*float64(i)/float64(size))
	}

	return &SineTable{values: values, mask: size - 1}, nil
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Size returns the number of entries in the table.
func (t *SineTable) Size() int {
	return len(t.values)
}

// At returns the entry at index i, wrapped into the table.
func (t *SineTable) At(i int) float64 {
	return t.values[i&t.mask]
}

// Interpolate blends entry i with its wrapped successor by frac in [0, 1).
func (t *SineTable) Interpolate(i int, frac float64) float64 {
	current := t.values[i&t.mask]
	next := t.values[(i+1)&t.mask]
	return current + frac*(next-current)
}
