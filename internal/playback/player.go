package playback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNoPlayer is returned when no player command is configured or found.
var ErrNoPlayer = errors.New("no audio player available")

// DefaultTimeout bounds a single playback. The rendered files are a few
// hundred milliseconds long.
const DefaultTimeout = 30 * time.Second

// Player plays a finished WAV file through an external program.
type Player struct {
	command string
	args    []string
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a player. An empty command line selects the platform default.
func New(commandLine string, logger *zap.Logger) *Player {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		fields = DefaultCommand(runtime.GOOS)
	}

	return &Player{
		command: fields[0],
		args:    fields[1:],
		timeout: DefaultTimeout,
		logger:  logger.With(zap.String("player", fields[0])),
	}
}

// DefaultCommand returns the player command line for goos.
func DefaultCommand(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"afplay"}
	case "linux":
		return []string{"aplay", "-q"}
	default:
		return []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "error"}
	}
}

// Command returns the program and arguments Play would run for path.
func (p *Player) Command(path string) (string, []string) {
	args := make([]string, 0, len(p.args)+1)
	args = append(args, p.args...)
	args = append(args, path)
	return p.command, args
}

// Play blocks until the player exits, ctx is cancelled, or the timeout
// passes.
func (p *Player) Play(ctx context.Context, path string) error {
	bin, err := exec.LookPath(p.command)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoPlayer, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	_, args := p.Command(path)
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	p.logger.Info("playback started", zap.String("file", path))

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		p.logger.Warn("playback failed", zap.Error(err), zap.String("stderr", msg))
		if msg != "" {
			return fmt.Errorf("play %s: %w: %s", path, err, msg)
		}
		return fmt.Errorf("play %s: %w", path, err)
	}

	p.logger.Info("playback finished", zap.Duration("elapsed", time.Since(start)))
	return nil
}
