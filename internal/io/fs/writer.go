package fs

import (
	"io"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/javasync/RxIo/internal/constants"
	"github.com/javasync/RxIo/internal/errors"
	"github.com/javasync/RxIo/internal/future"
	"github.com/javasync/RxIo/internal/io/dlog"
)

// LineSeparator terminates every line written by WriteLine.
var LineSeparator = lineSeparator()

func lineSeparator() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

type writeJob struct {
	data []byte
	off  int64
	res  *future.Future[int64]
}

// Writer appends to a file asynchronously. Every write reserves its byte
// range when it is issued, so writes land in issue order even though they
// complete on a background goroutine. After a failed write all later
// writes fail with the same error.
type Writer struct {
	path string
	h    Handle
	log  *zap.Logger

	mu      sync.Mutex
	pos     int64
	closing *future.Future[struct{}]
	jobs    chan writeJob

	errMu  sync.Mutex
	failed error
}

// NewWriter opens path with flags and starts the write worker. Zero flags
// mean DefaultWriteFlags. The Write flag is always added.
func NewWriter(path string, flags OpenFlag) (*Writer, error) {
	if flags == 0 {
		flags = DefaultWriteFlags
	}
	fd, err := Open(path, flags|Write)
	if err != nil {
		return nil, err
	}
	return NewHandleWriter(path, fd), nil
}

// NewHandleWriter writes to an already open handle starting at offset zero.
func NewHandleWriter(path string, h Handle) *Writer {
	w := &Writer{
		path: path,
		h:    h,
		log:  dlog.Logger().With(zap.String("path", path)),
		jobs: make(chan writeJob, constants.WriteQueueSize),
	}
	go w.run()
	return w
}

// Write schedules b at the current position. The future resolves to the
// position after the write. b must not be modified until it resolves.
func (w *Writer) Write(b []byte) *future.Future[int64] {
	if err := w.err(); err != nil {
		return future.Failed[int64](err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closing != nil {
		return future.Failed[int64](errors.Wrapf(errors.ErrClosed, "writing %s", w.path))
	}
	job := writeJob{data: b, off: w.pos, res: future.New[int64]()}
	w.pos += int64(len(b))
	w.jobs <- job
	return job.res
}

// WriteString schedules s at the current position.
func (w *Writer) WriteString(s string) *future.Future[int64] {
	return w.Write([]byte(s))
}

// WriteLine schedules s followed by LineSeparator.
func (w *Writer) WriteLine(s string) *future.Future[int64] {
	return w.Write([]byte(s + LineSeparator))
}

// Position returns the position the next write starts at.
func (w *Writer) Position() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pos
}

// Close stops accepting writes. The returned future resolves once every
// pending write finished and the handle is closed. Calling Close again
// returns the same future.
func (w *Writer) Close() *future.Future[struct{}] {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closing == nil {
		w.closing = future.New[struct{}]()
		close(w.jobs)
	}
	return w.closing
}

// run is the write worker. It is the only goroutine touching the handle.
func (w *Writer) run() {
	for job := range w.jobs {
		if err := w.err(); err != nil {
			job.res.Reject(err)
			continue
		}
		if err := w.writeAt(job.data, job.off); err != nil {
			w.setErr(err)
			job.res.Reject(err)
			continue
		}
		job.res.Resolve(job.off + int64(len(job.data)))
	}

	merr := errors.NewMultiError()
	merr.Add(w.err())
	if err := w.h.Close(); err != nil {
		merr.Add(errors.Wrapf(errors.Classify(err), "closing %s", w.path))
	}
	if err := merr.ErrorOrNil(); err != nil {
		w.log.Debug("Writer closed with errors", zap.Error(err))
		w.closing.Reject(err)
		return
	}
	w.closing.Resolve(struct{}{})
}

func (w *Writer) writeAt(b []byte, off int64) error {
	for len(b) > 0 {
		n, err := w.h.WriteAt(b, off)
		if err != nil {
			return errors.Wrapf(errors.Classify(err), "writing %s at offset %d", w.path, off)
		}
		if n == 0 {
			return errors.Wrapf(io.ErrShortWrite, "writing %s at offset %d", w.path, off)
		}
		b = b[n:]
		off += int64(n)
	}
	return nil
}

func (w *Writer) err() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.failed
}

func (w *Writer) setErr(err error) {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	if w.failed == nil {
		w.failed = err
	}
}
