package fs

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/DataDog/zstd"

	"github.com/javasync/RxIo/internal/errors"
)

// sequentialHandle adapts a decompressing stream to Handle. The stream can
// only be read front to back, so ReadAt accepts nothing but the current
// position. A read session reads strictly sequentially and satisfies this.
type sequentialHandle struct {
	mu     sync.Mutex
	path   string
	fd     *os.File
	stream io.ReadCloser
	pos    int64
	closed bool
}

func newCompressedHandle(path string, fd *os.File) (Handle, error) {
	var stream io.ReadCloser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		stream = zstd.NewReader(fd)
	case ".gz", ".gzip":
		gz, err := gzip.NewReader(fd)
		if err != nil {
			return nil, errors.Wrapf(err, "opening gzip stream %s", path)
		}
		stream = gz
	default:
		return fd, nil
	}
	return &sequentialHandle{path: path, fd: fd, stream: stream}, nil
}

func (h *sequentialHandle) ReadAt(p []byte, off int64) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, errors.ErrClosed
	}
	if off != h.pos {
		return 0, errors.Wrapf(errors.ErrInvalidArgument,
			"%s is compressed and only readable sequentially (at %d, asked %d)", h.path, h.pos, off)
	}
	n, err := io.ReadFull(h.stream, p)
	h.pos += int64(n)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}

func (h *sequentialHandle) WriteAt([]byte, int64) (int, error) {
	return 0, errors.Wrapf(errors.ErrInvalidArgument, "%s is opened read only", h.path)
}

func (h *sequentialHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	merr := errors.NewMultiError()
	merr.Add(h.stream.Close())
	merr.Add(h.fd.Close())
	return merr.ErrorOrNil()
}
