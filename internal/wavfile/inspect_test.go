package wavfile

import (
	"testing"
	"time"

	"github.com/go-audio/audio"
)

func TestNewInfoFromIntBuffer(t *testing.T) {
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 48000},
		Data:           []int{1, -1, 2147483647, -2147483648, 0, 5},
		SourceBitDepth: 32,
	}

	info := newInfo(Header{}, FormatPCM, buf)
	if info.Frames != 3 {
		t.Errorf("expected 3 frames, got %d", info.Frames)
	}
	if info.BitDepth != 32 || info.NumChannels != 2 || info.SampleRate != 48000 {
		t.Errorf("unexpected format: %+v", info)
	}
	if info.Samples[3] != -2147483648 || info.Samples[2] != 2147483647 {
		t.Errorf("expected full-scale samples preserved, got %v", info.Samples)
	}
	if want := 3 * time.Second / 48000; info.Duration != want {
		t.Errorf("expected duration %s, got %s", want, info.Duration)
	}
}

func TestNewInfoWithoutFormat(t *testing.T) {
	info := newInfo(Header{}, FormatPCM, &audio.IntBuffer{Data: []int{1, 2}})
	if info.Frames != 0 || info.Duration != 0 {
		t.Errorf("expected no frames or duration without a format, got %+v", info)
	}
}
