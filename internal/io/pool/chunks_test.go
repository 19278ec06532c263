package pool

import (
	"testing"

	"github.com/javasync/RxIo/internal/constants"
	"github.com/javasync/RxIo/internal/testutil"
)

func TestGetChunk(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"default size", constants.DefaultChunkSize},
		{"tiny size", 4},
		{"odd size", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := GetChunk(tt.size)
			testutil.AssertEqual(t, tt.size, len(*buf))
			PutChunk(buf)
		})
	}
}

func TestPutChunkRestoresLength(t *testing.T) {
	buf := GetChunk(constants.DefaultChunkSize)
	*buf = (*buf)[:10]
	PutChunk(buf)

	again := GetChunk(constants.DefaultChunkSize)
	testutil.AssertEqual(t, constants.DefaultChunkSize, len(*again))
}

func TestLineBuffer(t *testing.T) {
	buf := GetLine()
	testutil.AssertEqual(t, constants.MaxLineLength, len(*buf))
	PutLine(buf)
	PutLine(nil)
}
