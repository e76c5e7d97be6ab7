package config

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/Bastow2000/High-Pass-Filter/internal/dsp"
)

// Reference run: two channels, 1024 samples at 48kHz.
const (
	DefaultSampleRate   = 48000
	DefaultNumSamples   = 1024
	DefaultNumChannels  = 2
	DefaultTableSize    = 1024
	DefaultCutoffHz     = 100
	DefaultMasterVolume = 1.0
	DefaultPacketSize   = 64
)

// ErrInvalid is wrapped by every ConfigError.
var ErrInvalid = errors.New("invalid audio configuration")

// ConfigError names the offending field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalid, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalid
}

// AudioConfig describes one generation run. It is treated as immutable
// once validated.
type AudioConfig struct {
	SampleRate  int
	NumSamples  int
	NumChannels int
	TableSize   int

	Frequencies []float64 // Hz, one per channel
	GainsDB     []float64 // dB, one per channel

	CutoffHz     float64
	MasterVolume float64

	// PacketSize > 0 selects packetized generation; 0 renders in bulk.
	PacketSize int
}

// DefaultAudio returns the reference configuration.
func DefaultAudio() AudioConfig {
	return AudioConfig{
		SampleRate:   DefaultSampleRate,
		NumSamples:   DefaultNumSamples,
		NumChannels:  DefaultNumChannels,
		TableSize:    DefaultTableSize,
		Frequencies:  []float64{100, 1000},
		GainsDB:      []float64{-6, -10},
		CutoffHz:     DefaultCutoffHz,
		MasterVolume: DefaultMasterVolume,
		PacketSize:   DefaultPacketSize,
	}
}

// Clone returns a deep copy so callers can override fields without touching
// a shared base.
func (c AudioConfig) Clone() AudioConfig {
	c.Frequencies = slices.Clone(c.Frequencies)
	c.GainsDB = slices.Clone(c.GainsDB)
	return c
}

// BufferLen is the interleaved sample count: samples * channels.
func (c AudioConfig) BufferLen() int {
	return c.NumSamples * c.NumChannels
}

// Nyquist returns half the sample rate.
func (c AudioConfig) Nyquist() float64 {
	return float64(c.SampleRate) / 2
}

// Validate rejects anything the generator cannot render. It runs before any
// buffer is allocated.
func (c AudioConfig) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return &ConfigError{"sampleRate", fmt.Sprintf("must be positive, got %d", c.SampleRate)}
	case c.NumSamples <= 0:
		return &ConfigError{"numSamples", fmt.Sprintf("must be positive, got %d", c.NumSamples)}
	case c.NumChannels <= 0:
		return &ConfigError{"numChannels", fmt.Sprintf("must be positive, got %d", c.NumChannels)}
	case !dsp.IsPowerOfTwo(c.TableSize):
		return &ConfigError{"tableSize", fmt.Sprintf("must be a power of two, got %d", c.TableSize)}
	case len(c.Frequencies) != c.NumChannels:
		return &ConfigError{"frequencies", fmt.Sprintf("need %d values, got %d", c.NumChannels, len(c.Frequencies))}
	case len(c.GainsDB) != c.NumChannels:
		return &ConfigError{"gainsDb", fmt.Sprintf("need %d values, got %d", c.NumChannels, len(c.GainsDB))}
	case c.PacketSize < 0:
		return &ConfigError{"packetSize", fmt.Sprintf("must not be negative, got %d", c.PacketSize)}
	case !isFinite(c.MasterVolume) || c.MasterVolume < 0:
		return &ConfigError{"masterVolume", fmt.Sprintf("must be a non-negative number, got %g", c.MasterVolume)}
	}

	nyquist := c.Nyquist()
	if math.IsNaN(c.CutoffHz) || c.CutoffHz <= 0 || c.CutoffHz >= nyquist {
		return &ConfigError{"cutoffHz", fmt.Sprintf("must be in (0, %g), got %g", nyquist, c.CutoffHz)}
	}
	for ch, f := range c.Frequencies {
		if math.IsNaN(f) || f < 0 || f >= nyquist {
			return &ConfigError{fmt.Sprintf("frequencies[%d]", ch), fmt.Sprintf("must be in [0, %g), got %g", nyquist, f)}
		}
	}
	for ch, g := range c.GainsDB {
		if !isFinite(g) {
			return &ConfigError{fmt.Sprintf("gainsDb[%d]", ch), fmt.Sprintf("must be finite, got %g", g)}
		}
	}

	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
