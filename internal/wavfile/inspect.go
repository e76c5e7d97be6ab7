package wavfile

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Info describes a WAV file as decoded by go-audio/wav, alongside the raw
// canonical header.
type Info struct {
	Header      Header
	AudioFormat int
	NumChannels int
	SampleRate  int
	BitDepth    int
	Frames      int
	Duration    time.Duration
	Samples     []int32
}

// Inspect opens path and decodes it fully.
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SinkError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a canonical header and the PCM payload from r.
func Decode(r io.ReadSeeker) (*Info, error) {
	raw := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWAV, err)
	}
	var hdr Header
	if err := hdr.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind: %w", err)
	}

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotWAV
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode pcm: %w", err)
	}

	return newInfo(hdr, int(dec.WavAudioFormat), buf), nil
}

func newInfo(hdr Header, format int, buf *audio.IntBuffer) *Info {
	info := &Info{
		Header:      hdr,
		AudioFormat: format,
		BitDepth:    buf.SourceBitDepth,
		Samples:     make([]int32, len(buf.Data)),
	}
	if buf.Format != nil {
		info.NumChannels = buf.Format.NumChannels
		info.SampleRate = buf.Format.SampleRate
	}
	for i, v := range buf.Data {
		info.Samples[i] = int32(v)
	}
	if info.NumChannels > 0 {
		info.Frames = len(buf.Data) / info.NumChannels
	}
	if info.SampleRate > 0 {
		info.Duration = time.Duration(info.Frames) * time.Second / time.Duration(info.SampleRate)
	}

	return info
}
