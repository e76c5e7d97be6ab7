package wavfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	pcm "github.com/Bastow2000/High-Pass-Filter/internal/audio"
)

// SinkError reports a failure to create, write or publish the output file.
type SinkError struct {
	Op   string
	Path string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("wavfile: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// Encode writes the header followed by the interleaved samples. It needs no
// Seek, so it serves streamed destinations such as HTTP responses; files go
// through WriteFile.
func Encode(w io.Writer, h Header, samples []int32) error {
	return EncodeWith(w, h, samples, nil)
}

// EncodeWith is Encode with a caller-supplied scratch buffer for the PCM
// bytes. A scratch shorter than len(samples)*4 is replaced.
func EncodeWith(w io.Writer, h Header, samples []int32, scratch []byte) error {
	if err := checkSamples(h, samples); err != nil {
		return err
	}

	hdr, err := h.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if len(scratch) < len(samples)*pcm.BytesPerSample {
		scratch = make([]byte, len(samples)*pcm.BytesPerSample)
	}
	if _, err := w.Write(pcm.Int32ToBytesInto(samples, scratch)); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}

	return nil
}

// WriteFile writes a complete WAV file to path with the go-audio encoder.
// Data goes to a temporary file in the same directory which is renamed over
// path only after a successful sync, so a failed write leaves nothing behind.
func WriteFile(path string, h Header, samples []int32) (err error) {
	if err := checkSamples(h, samples); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &SinkError{Op: "create", Path: path, Err: err}
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	enc := wav.NewEncoder(f, int(h.SampleRate), int(h.BitsPerSample), int(h.NumChannels), int(h.AudioFormat))
	if err := enc.Write(intBuffer(h, samples)); err != nil {
		return &SinkError{Op: "write", Path: path, Err: err}
	}
	if int64(enc.WrittenBytes) != h.FileSize() {
		return &SinkError{Op: "write", Path: path,
			Err: fmt.Errorf("%w: encoder wrote %d bytes, header declares %d", ErrSampleCount, enc.WrittenBytes, h.FileSize())}
	}
	if err := enc.Close(); err != nil {
		return &SinkError{Op: "write", Path: path, Err: err}
	}
	if err := f.Sync(); err != nil {
		return &SinkError{Op: "sync", Path: path, Err: err}
	}
	if err := f.Chmod(0o644); err != nil {
		return &SinkError{Op: "chmod", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &SinkError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &SinkError{Op: "rename", Path: path, Err: err}
	}

	return nil
}

// intBuffer widens samples into the go-audio buffer layout described by h.
func intBuffer(h Header, samples []int32) *audio.IntBuffer {
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	return &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: int(h.NumChannels),
			SampleRate:  int(h.SampleRate),
		},
		Data:           data,
		SourceBitDepth: int(h.BitsPerSample),
	}
}

func checkSamples(h Header, samples []int32) error {
	if uint64(len(samples))*pcm.BytesPerSample != uint64(h.DataSize) {
		return fmt.Errorf("%w: %d samples for %d data bytes", ErrSampleCount, len(samples), h.DataSize)
	}
	return nil
}
