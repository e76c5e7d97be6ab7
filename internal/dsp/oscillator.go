package dsp

// Oscillator reads a shared SineTable with a fractional phase accumulator.
// Phase and increment are in table-index units.
type Oscillator struct {
	table     *SineTable
	size      float64
	phase     float64
	increment float64
}

// NewOscillator starts at phase 0 with no increment.
func NewOscillator(table *SineTable) *Oscillator {
	return &Oscillator{
		table: table,
		size:  float64(table.Size()),
	}
}

// PhaseIncrement converts a frequency to table-index steps per output
// sample. The result must stay below tableSize; callers keep frequency under
// the sample rate.
func PhaseIncrement(tableSize int, sampleRate, frequency float64) float64 {
	return float64(tableSize) / sampleRate * frequency
}

// SetFrequency recomputes the increment for frequency at sampleRate.
func (o *Oscillator) SetFrequency(frequency, sampleRate float64) {
	o.increment = PhaseIncrement(o.table.Size(), sampleRate, frequency)
}

// SetIncrement sets the per-sample phase step directly.
func (o *Oscillator) SetIncrement(increment float64) {
	o.increment = increment
}

// Increment returns the per-sample phase step.
func (o *Oscillator) Increment() float64 {
	return o.increment
}

// Phase returns the current fractional table index, always in [0, size).
func (o *Oscillator) Phase() float64 {
	return o.phase
}

// Reset returns the phase to zero.
func (o *Oscillator) Reset() {
	o.phase = 0
}

// Advance returns the interpolated table value at the current phase, then
// steps the phase and wraps it with a single subtraction.
func (o *Oscillator) Advance() float64 {
	i := int(o.phase)
	frac := o.phase - float64(i)
	value := o.table.Interpolate(i, frac)

	o.phase += o.increment
	if o.phase >= o.size {
		o.phase -= o.size
	}

	return value
}
