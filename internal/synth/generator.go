// Package synth turns an AudioConfig into interleaved 32-bit PCM. One
// generation primitive renders a contiguous range of samples; bulk and
// packetized rendering are two schedules over it and produce identical
// output.
package synth

import (
	"errors"
	"fmt"
	"math"

	"github.com/Bastow2000/High-Pass-Filter/internal/config"
	"github.com/Bastow2000/High-Pass-Filter/internal/dsp"
)

var (
	// ErrBufferSize is returned when the caller's buffer does not hold
	// exactly numSamples * numChannels values.
	ErrBufferSize = errors.New("sample buffer has wrong length")

	// ErrPacketOrder is returned when a packet does not start where the
	// previous one ended, or runs past the end of the stream.
	ErrPacketOrder = errors.New("packet out of order")
)

// channel is the complete state of one output channel. Channels share the
// read-only sine table and nothing else.
type channel struct {
	osc    *dsp.Oscillator
	filter *dsp.Biquad
	gain   dsp.GainRamp
	gainDB float64
}

// Generator holds per-channel oscillator, filter and gain state for one run.
// It is not safe for concurrent use.
type Generator struct {
	cfg      config.AudioConfig
	table    *dsp.SineTable
	channels []channel
	next     int // next sample index for packetized generation
}

// New validates cfg and builds a generator with zeroed state.
func New(cfg config.AudioConfig) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	table, err := dsp.NewSineTable(cfg.TableSize, cfg.MasterVolume)
	if err != nil {
		return nil, err
	}

	sampleRate := float64(cfg.SampleRate)
	channels := make([]channel, cfg.NumChannels)
	for ch := range channels {
		filter, err := dsp.NewBiquad(cfg.CutoffHz, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
		osc := dsp.NewOscillator(table)
		osc.SetFrequency(cfg.Frequencies[ch], sampleRate)

		channels[ch] = channel{
			osc:    osc,
			filter: filter,
			gainDB: cfg.GainsDB[ch],
		}
	}

	return &Generator{
		cfg:      cfg,
		table:    table,
		channels: channels,
	}, nil
}

// Config returns the configuration the generator was built with.
func (g *Generator) Config() config.AudioConfig {
	return g.cfg.Clone()
}

// Position returns the index of the next sample GeneratePacket expects.
func (g *Generator) Position() int {
	return g.next
}

// Done reports whether every sample of the run has been generated.
func (g *Generator) Done() bool {
	return g.next >= g.cfg.NumSamples
}

// Reset zeroes phase, filter history and gain memory on every channel and
// rewinds the packet position.
func (g *Generator) Reset() {
	for i := range g.channels {
		ch := &g.channels[i]
		ch.osc.Reset()
		ch.filter.Reset()
		ch.gain.Reset()
	}
	g.next = 0
}

// Generate resets the generator and renders the whole run into buf.
func (g *Generator) Generate(buf []int32) error {
	if err := g.checkBuffer(buf); err != nil {
		return err
	}

	g.Reset()
	g.render(buf, 0, g.cfg.NumSamples)
	g.next = g.cfg.NumSamples

	return nil
}

// GeneratePacket renders samples [start, start+n) into their interleaved
// slots in buf, continuing from the state left by the previous packet.
// start must equal Position.
func (g *Generator) GeneratePacket(buf []int32, start, n int) error {
	if err := g.checkBuffer(buf); err != nil {
		return err
	}
	if start != g.next || n <= 0 || start+n > g.cfg.NumSamples {
		return fmt.Errorf("%w: packet [%d, %d) at position %d of %d",
			ErrPacketOrder, start, start+n, g.next, g.cfg.NumSamples)
	}

	g.render(buf, start, start+n)
	g.next = start + n

	return nil
}

// GeneratePackets resets the generator and renders the run in packets of
// packetSize samples. The last packet may be shorter.
func (g *Generator) GeneratePackets(buf []int32, packetSize int) error {
	if packetSize <= 0 {
		return fmt.Errorf("%w: packet size %d", ErrPacketOrder, packetSize)
	}
	if err := g.checkBuffer(buf); err != nil {
		return err
	}

	g.Reset()
	for start := 0; start < g.cfg.NumSamples; start += packetSize {
		n := min(packetSize, g.cfg.NumSamples-start)
		if err := g.GeneratePacket(buf, start, n); err != nil {
			return err
		}
	}

	return nil
}

// Packets returns how many GeneratePacket calls a run takes at packetSize.
func (g *Generator) Packets(packetSize int) int {
	if packetSize <= 0 {
		return 0
	}
	return (g.cfg.NumSamples + packetSize - 1) / packetSize
}

func (g *Generator) checkBuffer(buf []int32) error {
	if want := g.cfg.BufferLen(); len(buf) != want {
		return fmt.Errorf("%w: need %d, got %d", ErrBufferSize, want, len(buf))
	}
	return nil
}

// render is the single generation primitive. Samples outer, channels inner;
// every stage depends on the previous sample of its own channel.
func (g *Generator) render(buf []int32, from, to int) {
	numChannels := len(g.channels)
	for sample := from; sample < to; sample++ {
		base := sample * numChannels
		for i := range g.channels {
			ch := &g.channels[i]

			value := ch.osc.Advance()
			filtered := ch.filter.Process(value)
			gain := ch.gain.Apply(ch.gainDB)

			buf[base+i] = Quantize(gain * filtered)
		}
	}
}

// Quantize scales a normalised value to int32 full scale, truncating toward
// zero. Values outside [-1, 1] saturate.
func Quantize(v float64) int32 {
	scaled := v * math.MaxInt32
	switch {
	case scaled >= math.MaxInt32:
		return math.MaxInt32
	case scaled <= math.MinInt32:
		return math.MinInt32
	case math.IsNaN(scaled):
		return 0
	}
	return int32(scaled)
}
