package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process-level configuration: the audio run plus where the
// result goes.
type Config struct {
	Audio AudioConfig

	OutputPath      string
	PlayAfterWrite  bool
	Player          string
	MetricsTextfile string

	ListenAddr      string
	ShutdownTimeout time.Duration
}

// Load reads TONEGEN_* environment variables over the defaults.
func Load() *Config {
	audio := DefaultAudio()
	audio.SampleRate = getEnvInt("TONEGEN_SAMPLE_RATE", audio.SampleRate)
	audio.NumSamples = getEnvInt("TONEGEN_NUM_SAMPLES", audio.NumSamples)
	audio.TableSize = getEnvInt("TONEGEN_TABLE_SIZE", audio.TableSize)
	audio.Frequencies = getEnvFloats("TONEGEN_FREQUENCIES", audio.Frequencies)
	audio.GainsDB = getEnvFloats("TONEGEN_GAINS_DB", audio.GainsDB)
	audio.CutoffHz = getEnvFloat("TONEGEN_CUTOFF_HZ", audio.CutoffHz)
	audio.MasterVolume = getEnvFloat("TONEGEN_VOLUME", audio.MasterVolume)
	audio.PacketSize = getEnvInt("TONEGEN_PACKET_SIZE", audio.PacketSize)
	audio.NumChannels = len(audio.Frequencies)

	return &Config{
		Audio:           audio,
		OutputPath:      getEnv("TONEGEN_OUTPUT", "output.wav"),
		PlayAfterWrite:  getEnvBool("TONEGEN_PLAY", false),
		Player:          getEnv("TONEGEN_PLAYER", ""),
		MetricsTextfile: getEnv("TONEGEN_METRICS_TEXTFILE", ""),
		ListenAddr:      getEnv("TONEGEN_LISTEN_ADDR", ":9090"),
		ShutdownTimeout: 5 * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvFloats(key string, fallback []float64) []float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	values, err := ParseFloats(v)
	if err != nil {
		return fallback
	}
	return values
}

// ParseFloats parses a comma-separated list such as "100,1000".
func ParseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		values = append(values, f)
	}
	return values, nil
}
