package system

import (
	"bytes"
	"sync"
)

// bufferPool reuses encode buffers between frames to keep GC pressure low
// when thousands of frames are serialized.
var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// maxPooledBuffer keeps one oversized frame from pinning its buffer.
const maxPooledBuffer = 4 << 20

// GetBuffer returns an empty buffer from the pool.
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns buf to the pool.
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledBuffer {
		return
	}
	bufferPool.Put(buf)
}
