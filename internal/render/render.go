// Package render runs one generation from configuration to PCM buffer or
// WAV file, with logging and metrics around it.
package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Bastow2000/High-Pass-Filter/internal/config"
	"github.com/Bastow2000/High-Pass-Filter/internal/metrics"
	"github.com/Bastow2000/High-Pass-Filter/internal/synth"
	"github.com/Bastow2000/High-Pass-Filter/internal/wavfile"
)

// Result describes a finished render.
type Result struct {
	ID      string
	Header  wavfile.Header
	Samples []int32
	Packets int // 0 for bulk renders
	Elapsed time.Duration
}

// Renderer is stateless apart from its logger; every call builds its own
// generator, so one Renderer may serve concurrent callers.
type Renderer struct {
	logger *zap.Logger
}

// New creates a Renderer.
func New(logger *zap.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render validates cfg and fills buf, which must hold cfg.BufferLen()
// samples. cfg.PacketSize selects packetized or bulk scheduling.
func (r *Renderer) Render(cfg config.AudioConfig, buf []int32) (Result, error) {
	res := Result{ID: uuid.NewString()}
	logger := r.logger.With(zap.String("render", res.ID))

	hdr, gen, err := prepare(cfg)
	if err != nil {
		metrics.RendersTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		logger.Warn("render rejected", zap.Error(err))
		return res, err
	}
	res.Header = hdr

	metrics.ActiveRenders.Inc()
	defer metrics.ActiveRenders.Dec()

	start := time.Now()
	if cfg.PacketSize > 0 {
		err = gen.GeneratePackets(buf, cfg.PacketSize)
		res.Packets = gen.Packets(cfg.PacketSize)
	} else {
		err = gen.Generate(buf)
	}
	if err != nil {
		outcome := metrics.OutcomeInvalid
		if errors.Is(err, synth.ErrBufferSize) {
			outcome = metrics.OutcomeBuffer
		}
		metrics.RendersTotal.WithLabelValues(outcome).Inc()
		logger.Warn("render failed", zap.Error(err))
		return res, err
	}
	res.Elapsed = time.Since(start)
	res.Samples = buf

	metrics.RenderLatency.WithLabelValues("generate").Observe(float64(res.Elapsed.Microseconds()) / 1000)
	metrics.SamplesGeneratedTotal.Add(float64(len(buf)))
	metrics.PacketsGeneratedTotal.Add(float64(res.Packets))

	logger.Debug("render complete",
		zap.Int("samples", cfg.NumSamples),
		zap.Int("channels", cfg.NumChannels),
		zap.Int("packets", res.Packets),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// RenderFile renders cfg into a new buffer and writes it to path. If either
// step fails no file is left at path.
func (r *Renderer) RenderFile(cfg config.AudioConfig, path string) (Result, error) {
	if err := cfg.Validate(); err != nil {
		metrics.RendersTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return Result{}, err
	}

	res, err := r.Render(cfg, make([]int32, cfg.BufferLen()))
	if err != nil {
		return res, err
	}

	start := time.Now()
	if err := wavfile.WriteFile(path, res.Header, res.Samples); err != nil {
		outcome := metrics.OutcomeInvalid
		var sinkErr *wavfile.SinkError
		if errors.As(err, &sinkErr) {
			outcome = metrics.OutcomeSinkError
		}
		metrics.RendersTotal.WithLabelValues(outcome).Inc()
		r.logger.Error("write failed", zap.String("render", res.ID), zap.String("path", path), zap.Error(err))
		return res, fmt.Errorf("write %s: %w", path, err)
	}
	metrics.RenderLatency.WithLabelValues("write").Observe(float64(time.Since(start).Microseconds()) / 1000)
	metrics.BytesWrittenTotal.Add(float64(res.Header.FileSize()))
	metrics.RendersTotal.WithLabelValues(metrics.OutcomeOK).Inc()

	r.logger.Info("wav written",
		zap.String("render", res.ID),
		zap.String("path", path),
		zap.Int64("bytes", res.Header.FileSize()),
		zap.Uint32("dataSize", res.Header.DataSize),
	)
	return res, nil
}

func prepare(cfg config.AudioConfig) (wavfile.Header, *synth.Generator, error) {
	gen, err := synth.New(cfg)
	if err != nil {
		return wavfile.Header{}, nil, err
	}
	hdr, err := wavfile.NewHeader(cfg.SampleRate, cfg.NumChannels, cfg.NumSamples)
	if err != nil {
		return wavfile.Header{}, nil, err
	}
	return hdr, gen, nil
}
