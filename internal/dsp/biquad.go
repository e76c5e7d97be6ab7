package dsp

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// DesignConstant is the first-order denominator weight of the analog
// prototype (z1 = DesignConstant * ωc). At 48kHz it sits close to 2*fs*√2.
const DesignConstant = 135744.0

// ErrCutoff is returned for a cutoff that is non-positive, NaN, or at or
// above the Nyquist frequency.
var ErrCutoff = errors.New("cutoff frequency out of range")

// FilterCoefficients are the normalised feed-forward (A) and feedback (B)
// terms of a second-order section. B0 is implicitly 1.
type FilterCoefficients struct {
	A0, A1, A2 float64
	B1, B2     float64
}

// FilterHistory is the two-sample input and output memory of one channel.
type FilterHistory struct {
	X1, X2 float64
	Y1, Y2 float64
}

// Reset zeroes all four slots.
func (h *FilterHistory) Reset() {
	*h = FilterHistory{}
}

// DesignFilter derives coefficients with a pre-warped bilinear transform.
func DesignFilter(cutoff, sampleRate float64) (FilterCoefficients, error) {
	if math.IsNaN(cutoff) || cutoff <= 0 || cutoff >= sampleRate/2 {
		return FilterCoefficients{}, fmt.Errorf("%w: %g Hz at %g Hz", ErrCutoff, cutoff, sampleRate)
	}

	// Pre-warp
	omegaC := 2 * sampleRate * math.Tan(math.Pi*cutoff/sampleRate)

	z0 := omegaC * omegaC
	z1 := DesignConstant * omegaC
	z2 := (2 * sampleRate) * (2 * sampleRate)
	norm := z0 + z1 + z2

	a0 := z2 / norm
	return FilterCoefficients{
		A0: a0,
		A1: -2 * z2 / norm,
		A2: a0,
		B1: (2*z0 - 2*z2) / norm,
		B2: (z0 - z1 + z2) / norm,
	}, nil
}

// Poles returns the roots of z² + B1·z + B2.
func (c FilterCoefficients) Poles() (complex128, complex128) {
	disc := cmplx.Sqrt(complex(c.B1*c.B1-4*c.B2, 0))
	b := complex(-c.B1, 0)
	return (b + disc) / 2, (b - disc) / 2
}

// Stable reports whether both poles lie strictly inside the unit circle.
func (c FilterCoefficients) Stable() bool {
	p1, p2 := c.Poles()
	return cmplx.Abs(p1) < 1 && cmplx.Abs(p2) < 1
}

// Biquad is one channel's filter: coefficients plus history. The zero value
// is not usable; construct with NewBiquad.
type Biquad struct {
	sampleRate float64
	cutoff     float64
	coeffs     FilterCoefficients
	history    FilterHistory
}

// NewBiquad designs the filter for cutoff and starts from zeroed history.
func NewBiquad(cutoff, sampleRate float64) (*Biquad, error) {
	coeffs, err := DesignFilter(cutoff, sampleRate)
	if err != nil {
		return nil, err
	}

	return &Biquad{
		sampleRate: sampleRate,
		cutoff:     cutoff,
		coeffs:     coeffs,
	}, nil
}

// SetCutoff redesigns the coefficients. History is kept so a running stream
// does not click; on error the filter is left unchanged.
func (b *Biquad) SetCutoff(cutoff float64) error {
	if cutoff == b.cutoff {
		return nil
	}

	coeffs, err := DesignFilter(cutoff, b.sampleRate)
	if err != nil {
		return err
	}

	b.cutoff = cutoff
	b.coeffs = coeffs
	return nil
}

// Cutoff returns the current cutoff frequency in Hz.
func (b *Biquad) Cutoff() float64 {
	return b.cutoff
}

// Coefficients returns the current coefficients.
func (b *Biquad) Coefficients() FilterCoefficients {
	return b.coeffs
}

// History returns a copy of the current history.
func (b *Biquad) History() FilterHistory {
	return b.history
}

// Reset zeroes the history.
func (b *Biquad) Reset() {
	b.history.Reset()
}

// Process filters one sample. Calls must follow sample order.
func (b *Biquad) Process(input float64) float64 {
	c := &b.coeffs
	h := &b.history

	output := c.A0*input + c.A1*h.X1 + c.A2*h.X2 - c.B1*h.Y1 - c.B2*h.Y2

	h.X2 = h.X1
	h.X1 = input
	h.Y2 = h.Y1
	h.Y1 = output

	return output
}
