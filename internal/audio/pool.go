package audio

import "sync"

// RenderBuffers holds the sample and byte buffers for one render. Used via
// sync.Pool so concurrent HTTP renders do not allocate per request.
type RenderBuffers struct {
	Samples []int32
	Bytes   []byte
}

var renderPool = sync.Pool{
	New: func() interface{} {
		return &RenderBuffers{}
	},
}

// AcquireRenderBuffers gets buffers sized for n interleaved samples. Contents
// are not cleared.
func AcquireRenderBuffers(n int) *RenderBuffers {
	b := renderPool.Get().(*RenderBuffers)
	if cap(b.Samples) < n {
		b.Samples = make([]int32, n)
	}
	if cap(b.Bytes) < n*BytesPerSample {
		b.Bytes = make([]byte, n*BytesPerSample)
	}
	b.Samples = b.Samples[:n]
	b.Bytes = b.Bytes[:n*BytesPerSample]
	return b
}

// ReleaseRenderBuffers returns buffers to the pool.
func ReleaseRenderBuffers(b *RenderBuffers) {
	renderPool.Put(b)
}
