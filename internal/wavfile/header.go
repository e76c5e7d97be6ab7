// Package wavfile writes and reads canonical 44-byte-header RIFF/WAVE files
// holding interleaved signed 32-bit little-endian PCM.
package wavfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	// HeaderSize is the length of the canonical PCM header.
	HeaderSize = 44

	// FormatPCM is the WAVE_FORMAT_PCM tag.
	FormatPCM = 1

	// BitsPerSample is the only sample width this package writes.
	BitsPerSample = 32

	fmtChunkSize = 16
)

var (
	ErrNotWAV      = errors.New("not a RIFF/WAVE file")
	ErrHeader      = errors.New("invalid header parameters")
	ErrSampleCount = errors.New("sample count does not match header")
)

// Header mirrors the on-disk layout field for field; binary.Size(Header{})
// is HeaderSize.
type Header struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // 36 + DataSize
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	DataSize      uint32
}

// NewHeader describes numSamples frames of channels-wide 32-bit PCM.
func NewHeader(sampleRate, channels, numSamples int) (Header, error) {
	if sampleRate <= 0 || channels <= 0 || numSamples <= 0 {
		return Header{}, fmt.Errorf("%w: rate=%d channels=%d samples=%d", ErrHeader, sampleRate, channels, numSamples)
	}

	blockAlign := channels * BitsPerSample / 8
	dataSize := uint64(numSamples) * uint64(blockAlign)
	byteRate := uint64(sampleRate) * uint64(blockAlign)
	if channels > math.MaxUint16/4 || dataSize > math.MaxUint32-36 || byteRate > math.MaxUint32 {
		return Header{}, fmt.Errorf("%w: %d frames of %d channels do not fit a RIFF file", ErrHeader, numSamples, channels)
	}

	return Header{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + uint32(dataSize),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: fmtChunkSize,
		AudioFormat:   FormatPCM,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(byteRate),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: BitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		DataSize:      uint32(dataSize),
	}, nil
}

// Frames returns the number of sample frames the header declares.
func (h Header) Frames() int {
	if h.BlockAlign == 0 {
		return 0
	}
	return int(h.DataSize) / int(h.BlockAlign)
}

// FileSize returns the total number of bytes of header plus payload.
func (h Header) FileSize() int64 {
	return HeaderSize + int64(h.DataSize)
}

// MarshalBinary encodes the header little-endian.
func (h Header) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderSize)
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a canonical header and checks the chunk tags.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: %d bytes is shorter than a header", ErrNotWAV, len(data))
	}

	var hdr Header
	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &hdr); err != nil {
		return err
	}
	if string(hdr.ChunkID[:]) != "RIFF" || string(hdr.Format[:]) != "WAVE" ||
		string(hdr.Subchunk1ID[:]) != "fmt " || string(hdr.Subchunk2ID[:]) != "data" {
		return fmt.Errorf("%w: unexpected chunk tags", ErrNotWAV)
	}

	*h = hdr
	return nil
}
