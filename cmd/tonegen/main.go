package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Bastow2000/High-Pass-Filter/internal/config"
	"github.com/Bastow2000/High-Pass-Filter/internal/metrics"
	"github.com/Bastow2000/High-Pass-Filter/internal/playback"
	"github.com/Bastow2000/High-Pass-Filter/internal/render"
	"github.com/Bastow2000/High-Pass-Filter/internal/server"
	"github.com/Bastow2000/High-Pass-Filter/internal/wavfile"
)

const usage = `tonegen renders a filtered two-tone WAV file.

Usage:
  tonegen [render] [flags]     render to a WAV file (default)
  tonegen serve [flags]        serve renders over HTTP
  tonegen inspect FILE.wav     describe a WAV file
`

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg := config.Load()

	args := os.Args[1:]
	cmd := "render"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "render":
		err = runRender(cfg, args, logger)
	case "serve":
		err = runServe(cfg, args, logger)
	case "inspect":
		err = runInspect(args)
	case "help":
		fmt.Print(usage)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logger.Error("tonegen failed", zap.String("command", cmd), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// newLogger picks the console encoder for interactive use and JSON otherwise.
func newLogger() *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// audioFlags registers the adjustable audio parameters on fs, defaulting to
// the loaded configuration.
func audioFlags(fs *flag.FlagSet, audio *config.AudioConfig) {
	fs.Float64Var(&audio.CutoffHz, "cutoff", audio.CutoffHz, "filter cutoff frequency in Hz")
	fs.Float64Var(&audio.MasterVolume, "volume", audio.MasterVolume, "master volume (sine table peak)")
	fs.IntVar(&audio.PacketSize, "packet", audio.PacketSize, "packet size in samples (0 renders in one pass)")
	fs.Func("freq", "comma-separated per-channel frequencies in Hz", func(s string) error {
		v, err := config.ParseFloats(s)
		if err != nil {
			return err
		}
		audio.Frequencies = v
		audio.NumChannels = len(v)
		return nil
	})
	fs.Func("gain", "comma-separated per-channel gains in dB", func(s string) error {
		v, err := config.ParseFloats(s)
		if err != nil {
			return err
		}
		audio.GainsDB = v
		return nil
	})
}

func runRender(cfg *config.Config, args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	audioFlags(fs, &cfg.Audio)
	fs.StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "output WAV path")
	fs.BoolVar(&cfg.PlayAfterWrite, "play", cfg.PlayAfterWrite, "play the file after writing it")
	fs.StringVar(&cfg.Player, "player", cfg.Player, "player command line (default depends on OS)")
	fs.StringVar(&cfg.MetricsTextfile, "metrics-textfile", cfg.MetricsTextfile, "write Prometheus metrics to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger.Info("tonegen render",
		zap.String("out", cfg.OutputPath),
		zap.Int("sampleRate", cfg.Audio.SampleRate),
		zap.Int("samples", cfg.Audio.NumSamples),
		zap.Float64s("frequencies", cfg.Audio.Frequencies),
		zap.Float64s("gainsDb", cfg.Audio.GainsDB),
		zap.Float64("cutoffHz", cfg.Audio.CutoffHz),
		zap.Float64("volume", cfg.Audio.MasterVolume),
		zap.Int("packetSize", cfg.Audio.PacketSize),
	)

	if _, err := render.New(logger).RenderFile(cfg.Audio, cfg.OutputPath); err != nil {
		return err
	}

	if cfg.PlayAfterWrite {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := playback.New(cfg.Player, logger).Play(ctx, cfg.OutputPath); err != nil {
			metrics.PlaybackFailuresTotal.Inc()
			logger.Warn("playback skipped", zap.Error(err))
		}
	}

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("metrics textfile not written", zap.String("path", cfg.MetricsTextfile), zap.Error(err))
		}
	}

	return nil
}

func runServe(cfg *config.Config, args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	audioFlags(fs, &cfg.Audio)
	fs.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "HTTP listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Audio.Validate(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.New(cfg, logger).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("render API listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return err
	}

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func runInspect(args []string) error {
	if len(args) != 1 {
		return errors.New("inspect takes exactly one file")
	}

	info, err := wavfile.Inspect(args[0])
	if err != nil {
		return err
	}

	h := info.Header
	fmt.Printf("file:          %s\n", args[0])
	fmt.Printf("format:        %d\n", info.AudioFormat)
	fmt.Printf("channels:      %d\n", info.NumChannels)
	fmt.Printf("sample rate:   %d Hz\n", info.SampleRate)
	fmt.Printf("bit depth:     %d\n", info.BitDepth)
	fmt.Printf("byte rate:     %d\n", h.ByteRate)
	fmt.Printf("block align:   %d\n", h.BlockAlign)
	fmt.Printf("data size:     %d bytes\n", h.DataSize)
	fmt.Printf("frames:        %d\n", info.Frames)
	fmt.Printf("duration:      %s\n", info.Duration)
	fmt.Printf("peak:          %d\n", peak(info.Samples))
	return nil
}

func peak(samples []int32) int64 {
	var p int64
	for _, s := range samples {
		v := int64(s)
		if v < 0 {
			v = -v
		}
		if v > p {
			p = v
		}
	}
	return p
}
