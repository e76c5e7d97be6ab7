package wavfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func referenceSamples(n int) []int32 {
	samples := make([]int32, n)
	for i := range samples {
		samples[i] = int32(i*7919) - 1<<20
	}
	return samples
}

func TestNewHeaderReferenceLayout(t *testing.T) {
	h, err := NewHeader(48000, 2, 1024)
	if err != nil {
		t.Fatal(err)
	}

	if h.DataSize != 8192 {
		t.Errorf("expected data size 8192, got %d", h.DataSize)
	}
	if h.ChunkSize != 8228 {
		t.Errorf("expected chunk size 8228, got %d", h.ChunkSize)
	}
	if h.ByteRate != 384000 {
		t.Errorf("expected byte rate 384000, got %d", h.ByteRate)
	}
	if h.BlockAlign != 8 {
		t.Errorf("expected block align 8, got %d", h.BlockAlign)
	}
	if h.Frames() != 1024 || h.FileSize() != 8236 {
		t.Errorf("expected 1024 frames in 8236 bytes, got %d in %d", h.Frames(), h.FileSize())
	}
	if binary.Size(h) != HeaderSize {
		t.Errorf("expected binary size %d, got %d", HeaderSize, binary.Size(h))
	}
}

func TestHeaderBytes(t *testing.T) {
	h, _ := NewHeader(48000, 2, 1024)
	got, err := h.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{
		'R', 'I', 'F', 'F', 0x24, 0x20, 0x00, 0x00,
		'W', 'A', 'V', 'E',
		'f', 'm', 't', ' ', 0x10, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x02, 0x00,
		0x80, 0xBB, 0x00, 0x00,
		0x00, 0xDC, 0x05, 0x00,
		0x08, 0x00, 0x20, 0x00,
		'd', 'a', 't', 'a', 0x00, 0x20, 0x00, 0x00,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("header bytes mismatch\nexpected % X\ngot      % X", want, got)
	}

	var back Header
	if err := back.UnmarshalBinary(got); err != nil {
		t.Fatal(err)
	}
	if back != h {
		t.Errorf("round trip: expected %+v, got %+v", h, back)
	}
}

func TestNewHeaderRejects(t *testing.T) {
	for _, tc := range [][3]int{{0, 2, 1024}, {48000, 0, 1024}, {48000, 2, 0}, {48000, 2, 1 << 30}} {
		if _, err := NewHeader(tc[0], tc[1], tc[2]); !errors.Is(err, ErrHeader) {
			t.Errorf("%v: expected ErrHeader, got %v", tc, err)
		}
	}
}

func TestUnmarshalRejects(t *testing.T) {
	var h Header
	if err := h.UnmarshalBinary(make([]byte, 10)); !errors.Is(err, ErrNotWAV) {
		t.Errorf("short input: expected ErrNotWAV, got %v", err)
	}
	if err := h.UnmarshalBinary(make([]byte, HeaderSize)); !errors.Is(err, ErrNotWAV) {
		t.Errorf("zeroed input: expected ErrNotWAV, got %v", err)
	}
}

func TestEncode(t *testing.T) {
	h, _ := NewHeader(48000, 2, 4)
	samples := []int32{1, -1, 256, -256, 0, 0, 1 << 30, -(1 << 30)}

	var buf bytes.Buffer
	if err := Encode(&buf, h, samples); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != HeaderSize+len(samples)*4 {
		t.Fatalf("expected %d bytes, got %d", HeaderSize+len(samples)*4, buf.Len())
	}

	payload := buf.Bytes()[HeaderSize:]
	for i, want := range samples {
		if got := int32(binary.LittleEndian.Uint32(payload[i*4:])); got != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, got)
		}
	}

	if err := Encode(&buf, h, samples[:7]); !errors.Is(err, ErrSampleCount) {
		t.Errorf("expected ErrSampleCount, got %v", err)
	}
}

func TestWriteFileAndInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.wav")
	h, _ := NewHeader(48000, 2, 1024)
	samples := referenceSamples(2048)

	if err := WriteFile(path, h, samples); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if st.Size() != 8236 {
		t.Errorf("expected 8236 bytes on disk, got %d", st.Size())
	}

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.Header.DataSize != 8192 {
		t.Errorf("expected declared data size 8192, got %d", info.Header.DataSize)
	}
	if info.AudioFormat != FormatPCM || info.NumChannels != 2 || info.SampleRate != 48000 || info.BitDepth != 32 {
		t.Errorf("unexpected format: %+v", info)
	}
	if info.Frames != 1024 {
		t.Errorf("expected 1024 frames, got %d", info.Frames)
	}
	if !slices.Equal(info.Samples, samples) {
		t.Error("decoded samples differ from written samples")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the output file in the directory, found %d entries", len(entries))
	}
}

func TestWriteFileLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output.wav")
	h, _ := NewHeader(48000, 2, 1024)

	if err := WriteFile(path, h, referenceSamples(100)); !errors.Is(err, ErrSampleCount) {
		t.Fatalf("expected ErrSampleCount, got %v", err)
	}

	missing := filepath.Join(dir, "no-such-dir", "output.wav")
	err := WriteFile(missing, h, referenceSamples(2048))
	var sinkErr *SinkError
	if !errors.As(err, &sinkErr) || sinkErr.Op != "create" {
		t.Fatalf("expected create SinkError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected SinkError to wrap os.ErrNotExist, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no files after failed writes, found %d", len(entries))
	}
}

func TestWriteFileReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.wav")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	h, _ := NewHeader(8000, 1, 4)
	if err := WriteFile(path, h, []int32{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if len(data) != HeaderSize+16 {
		t.Errorf("expected %d bytes, got %d", HeaderSize+16, len(data))
	}
}

func TestInspectRejectsNonWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), 100), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Inspect(path); !errors.Is(err, ErrNotWAV) {
		t.Errorf("expected ErrNotWAV, got %v", err)
	}
	if _, err := Inspect(filepath.Join(t.TempDir(), "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestWriteFileMatchesEncode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.wav")
	h, _ := NewHeader(48000, 2, 1024)
	samples := referenceSamples(2048)

	if err := WriteFile(path, h, samples); err != nil {
		t.Fatal(err)
	}
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var streamed bytes.Buffer
	if err := Encode(&streamed, h, samples); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(onDisk, streamed.Bytes()) {
		t.Errorf("file and stream encodings differ: %d vs %d bytes", len(onDisk), streamed.Len())
	}
}

func TestWriteFileRenameFailureRemovesTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output.wav")
	if err := os.MkdirAll(filepath.Join(path, "occupied"), 0o755); err != nil {
		t.Fatal(err)
	}

	h, _ := NewHeader(48000, 2, 1024)
	err := WriteFile(path, h, referenceSamples(2048))
	var sinkErr *SinkError
	if !errors.As(err, &sinkErr) || sinkErr.Op != "rename" {
		t.Fatalf("expected rename SinkError, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != "output.wav" || !entries[0].IsDir() {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only the blocking directory to remain, found %v", names)
	}
}
