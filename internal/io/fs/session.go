package fs

import (
	"context"

	"go.uber.org/zap"

	"github.com/javasync/RxIo/internal/errors"
	"github.com/javasync/RxIo/internal/io/dlog"
	"github.com/javasync/RxIo/internal/io/emit"
	"github.com/javasync/RxIo/internal/io/line"
	"github.com/javasync/RxIo/internal/io/pool"
)

// LineSink receives the lines of a read session. *emit.Emitter implements it.
type LineSink interface {
	line.Processor
	// Complete signals the end of input.
	Complete()
	// Fail signals a read, decode or close failure.
	Fail(err error)
	// Cancel silences the sink. No further notifications are delivered.
	Cancel()
	// Stopped reports whether the sink accepts no more lines.
	Stopped() bool
	// AwaitDemand blocks while highWater or more lines are undelivered.
	AwaitDemand(ctx context.Context, highWater int) error
}

// Session is the driving loop of one line read. It owns the handle, the
// chunk buffer and the splitter, reads chunk after chunk from offset zero
// and pushes every completed line into the sink. Run is meant to be the
// only code running on its goroutine.
type Session struct {
	path      string
	h         Handle
	sink      LineSink
	chunk     *[]byte
	splitter  *line.Splitter
	decoder   *line.Decoder
	highWater int
	offset    int64
	warned    bool
	log       *zap.Logger
}

// NewSession prepares a session reading h into sink. The session takes
// ownership of h and closes it exactly once before the terminal signal.
// When NewSession fails the caller still owns h.
func NewSession(path string, h Handle, opts ReadOptions, sink LineSink) (*Session, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	dec, err := line.NewDecoder(opts.Charset, opts.DecodePolicy)
	if err != nil {
		return nil, err
	}
	return &Session{
		path:      path,
		h:         h,
		sink:      sink,
		chunk:     pool.GetChunk(opts.ChunkSize),
		splitter:  line.NewSplitter(dec.IsUTF8()),
		decoder:   dec,
		highWater: opts.HighWater,
		log:       dlog.Logger().With(zap.String("path", path)),
	}, nil
}

// Offset returns the number of bytes consumed so far.
func (s *Session) Offset() int64 {
	return s.offset
}

// Run reads until end of input, a failure, or until ctx is done or the sink
// stops. A read that completes after cancellation is discarded.
func (s *Session) Run(ctx context.Context) {
	defer s.release()
	s.log.Debug("Starting read session", zap.Int("chunkSize", len(*s.chunk)),
		zap.String("charset", s.decoder.Charset()))

	buf := *s.chunk
	for {
		if err := s.sink.AwaitDemand(ctx, s.highWater); err != nil {
			s.abandon(ctx)
			return
		}
		if ctx.Err() != nil || s.sink.Stopped() {
			s.abandon(ctx)
			return
		}

		n, err := ReadChunk(s.h, s.offset, buf)
		if ctx.Err() != nil || s.sink.Stopped() {
			s.abandon(ctx)
			return
		}
		if err != nil {
			s.fail(errors.Wrapf(errors.Classify(err), "reading %s at offset %d", s.path, s.offset))
			return
		}
		if n == 0 {
			s.finish()
			return
		}

		s.offset += int64(n)
		if err := s.splitter.Feed(buf[:n], s.produce); err != nil {
			if errors.Is(err, emit.ErrStopped) {
				s.abandon(ctx)
				return
			}
			s.fail(err)
			return
		}
	}
}

// produce decodes one completed line and hands it to the sink.
func (s *Session) produce(b []byte) error {
	if s.splitter.Overlong() {
		if !s.warned {
			s.log.Warn("Long line, splitting into multiple lines", zap.Int64("offset", s.offset))
			s.warned = true
		}
	} else {
		s.warned = false
	}
	text, err := s.decoder.Decode(b)
	if err != nil {
		return errors.Wrapf(err, "decoding %s before offset %d", s.path, s.offset)
	}
	return s.sink.ProcessLine(text)
}

// finish emits the unterminated last line, closes the handle and signals
// completion. A close failure is delivered as an error instead.
func (s *Session) finish() {
	if err := s.splitter.Flush(s.produce); err != nil {
		if errors.Is(err, emit.ErrStopped) {
			s.closeHandle()
			return
		}
		s.fail(err)
		return
	}
	if err := s.closeHandle(); err != nil {
		s.sink.Fail(errors.Wrapf(err, "closing %s", s.path))
		return
	}
	s.log.Debug("Read session complete", zap.Int64("bytes", s.offset),
		zap.Int("forcedCuts", s.splitter.Cuts()))
	s.sink.Complete()
}

// fail closes the handle and then reports err.
func (s *Session) fail(err error) {
	if cerr := s.closeHandle(); cerr != nil {
		s.log.Warn("Unable to close file after failure", zap.Error(cerr))
	}
	s.log.Debug("Read session failed", zap.Error(err))
	s.sink.Fail(err)
}

// abandon stops without a terminal signal. When ctx was ended by the
// caller rather than by the sink, the sink is cancelled so it stays silent.
func (s *Session) abandon(ctx context.Context) {
	if cerr := s.closeHandle(); cerr != nil {
		s.log.Warn("Unable to close file after cancel", zap.Error(cerr))
	}
	if ctx.Err() != nil && !s.sink.Stopped() {
		s.sink.Cancel()
	}
	s.log.Debug("Read session cancelled", zap.Int64("bytes", s.offset),
		zap.Int("discarded", s.splitter.Pending()))
}

func (s *Session) closeHandle() error {
	if s.h == nil {
		return nil
	}
	h := s.h
	s.h = nil
	return h.Close()
}

func (s *Session) release() {
	pool.PutChunk(s.chunk)
	s.chunk = nil
	s.splitter.Release()
}
