package audio

import "encoding/binary"

// BytesPerSample is the width of one signed 32-bit PCM sample.
const BytesPerSample = 4

// Int32ToBytesInto writes s32le bytes into dst, avoiding allocation.
// dst must have length >= len(samples)*4. Returns the used portion.
func Int32ToBytesInto(samples []int32, dst []byte) []byte {
	for i, s := range samples {
		binary.LittleEndian.PutUint32(dst[i*BytesPerSample:], uint32(s))
	}
	return dst[:len(samples)*BytesPerSample]
}
