package playback

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"go.uber.org/zap"
)

func TestDefaultCommand(t *testing.T) {
	tests := map[string]string{
		"darwin":  "afplay",
		"linux":   "aplay",
		"windows": "ffplay",
	}
	for goos, want := range tests {
		if got := DefaultCommand(goos)[0]; got != want {
			t.Errorf("%s: expected %s, got %s", goos, want, got)
		}
	}
}

func TestCommandAppendsPath(t *testing.T) {
	p := New("ffplay -nodisp -autoexit", zap.NewNop())
	bin, args := p.Command("out.wav")
	if bin != "ffplay" {
		t.Errorf("expected ffplay, got %s", bin)
	}
	want := []string{"-nodisp", "-autoexit", "out.wav"}
	if len(args) != len(want) {
		t.Fatalf("expected %v, got %v", want, args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d: expected %s, got %s", i, want[i], args[i])
		}
	}
}

func TestPlayMissingPlayer(t *testing.T) {
	p := New("tonegen-no-such-player-binary", zap.NewNop())
	if err := p.Play(context.Background(), "out.wav"); !errors.Is(err, ErrNoPlayer) {
		t.Errorf("expected ErrNoPlayer, got %v", err)
	}
}

func TestPlayRunsCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX true/false")
	}
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not on PATH")
	}

	if err := New("true", zap.NewNop()).Play(context.Background(), "out.wav"); err != nil {
		t.Errorf("expected success, got %v", err)
	}
	if err := New("false", zap.NewNop()).Play(context.Background(), "out.wav"); err == nil {
		t.Error("expected an error from a failing player")
	}
}
