package fs

import (
	"bytes"
	"context"

	"go.uber.org/zap"

	"github.com/javasync/RxIo/internal/errors"
	"github.com/javasync/RxIo/internal/io/dlog"
	"github.com/javasync/RxIo/internal/io/pool"
)

// ReadAllBytes reads h from offset zero to the end in chunkSize reads and
// returns the concatenated bytes. The handle is closed in every case.
func ReadAllBytes(ctx context.Context, path string, h Handle, chunkSize int) (data []byte, err error) {
	if chunkSize <= 0 {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "chunk size must be positive, got %d", chunkSize)
	}
	chunk := pool.GetChunk(chunkSize)
	defer pool.PutChunk(chunk)
	defer func() {
		if cerr := h.Close(); cerr != nil {
			if err == nil {
				err = errors.Wrapf(cerr, "closing %s", path)
				data = nil
				return
			}
			dlog.Logger().Warn("Unable to close file", zap.String("path", path), zap.Error(cerr))
		}
	}()

	var out bytes.Buffer
	var off int64
	buf := *chunk
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := ReadChunk(h, off, buf)
		if err != nil {
			return nil, errors.Wrapf(errors.Classify(err), "reading %s at offset %d", path, off)
		}
		if n == 0 {
			return out.Bytes(), nil
		}
		out.Write(buf[:n])
		off += int64(n)
	}
}

// ReadAllFile opens path with opts and reads it whole.
func ReadAllFile(ctx context.Context, path string, opts ReadOptions) ([]byte, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	h, err := OpenReader(path, opts.Flags, opts.Decompress)
	if err != nil {
		return nil, err
	}
	return ReadAllBytes(ctx, path, h, opts.ChunkSize)
}
