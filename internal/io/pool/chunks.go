package pool

import (
	"sync"

	"github.com/javasync/RxIo/internal/constants"
)

// ChunkBufferPool provides a pool of default sized chunk buffers. Reading
// many files one after the other otherwise allocates a fresh 256KB buffer
// for every session.
var ChunkBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, constants.DefaultChunkSize)
		return &buf
	},
}

// LineBufferPool provides a pool of line accumulation buffers, each exactly
// MaxLineLength bytes long.
var LineBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, constants.MaxLineLength)
		return &buf
	},
}

// GetChunk returns a buffer of exactly size bytes. Only default sized
// buffers come from the pool, other sizes are allocated.
func GetChunk(size int) *[]byte {
	if size == constants.DefaultChunkSize {
		return ChunkBufferPool.Get().(*[]byte)
	}
	buf := make([]byte, size)
	return &buf
}

// PutChunk returns a chunk buffer to the pool. Buffers of other sizes are
// dropped.
func PutChunk(buf *[]byte) {
	if buf == nil || cap(*buf) != constants.DefaultChunkSize {
		return
	}
	*buf = (*buf)[:cap(*buf)]
	ChunkBufferPool.Put(buf)
}

// GetLine gets a line accumulation buffer from the pool
func GetLine() *[]byte {
	return LineBufferPool.Get().(*[]byte)
}

// PutLine returns a line accumulation buffer to the pool
func PutLine(buf *[]byte) {
	if buf == nil || cap(*buf) != constants.MaxLineLength {
		return
	}
	*buf = (*buf)[:cap(*buf)]
	LineBufferPool.Put(buf)
}
