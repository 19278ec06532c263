package rxio

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/javasync/RxIo/internal/errors"
	"github.com/javasync/RxIo/internal/io/dlog"
	"github.com/javasync/RxIo/internal/io/emit"
	"github.com/javasync/RxIo/internal/io/fs"
)

// Publisher starts an independent read session for every Subscribe call.
type Publisher interface {
	Subscribe(sub Subscriber)
}

type linesPublisher struct {
	ctx  context.Context
	path string
	opts Options

	// handle publishers hand out h once.
	fromHandle bool
	mu         sync.Mutex
	h          Handle
}

// Lines returns a Publisher of the lines of the file at path.
func Lines(path string, opts Options) Publisher {
	return LinesContext(context.Background(), path, opts)
}

// LinesContext is Lines bound to ctx. When ctx is done the running
// sessions stop reading and their subscribers hear nothing more.
func LinesContext(ctx context.Context, path string, opts Options) Publisher {
	return &linesPublisher{ctx: ctx, path: path, opts: opts}
}

// LinesFromHandle returns a Publisher reading an already open handle. The
// handle can only be read once: the first subscription takes ownership
// and closes it, later subscriptions fail with ErrClosed. name labels the
// handle in errors and logs.
func LinesFromHandle(name string, h Handle, opts Options) Publisher {
	return &linesPublisher{ctx: context.Background(), path: name, opts: opts, fromHandle: true, h: h}
}

// Subscribe opens the file and starts the session. sub gets OnSubscribe
// before any other call. An open failure is reported as OnSubscribe with a
// no-op Subscription followed by OnError.
func (p *linesPublisher) Subscribe(sub Subscriber) {
	if sub == nil {
		panic("rxio: nil Subscriber")
	}
	opts := p.opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		reject(sub, err)
		return
	}
	h, err := p.handle(opts)
	if err != nil {
		reject(sub, err)
		return
	}

	ctx, cancel := context.WithCancel(p.ctx)
	e := emit.New(sub, opts.ErrorPolicy, cancel)
	s, err := fs.NewSession(p.path, h, opts, e)
	if err != nil {
		cancel()
		if cerr := h.Close(); cerr != nil {
			dlog.Logger().Warn("Unable to close file", zap.String("path", p.path), zap.Error(cerr))
		}
		reject(sub, err)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			// The session releases the handle once it sees the cancelled
			// context.
			e.Cancel()
			cancel()
			go s.Run(ctx)
			panic(r)
		}
	}()
	sub.OnSubscribe(e)
	go s.Run(ctx)
}

func (p *linesPublisher) handle(opts Options) (Handle, error) {
	if !p.fromHandle {
		return fs.OpenReader(p.path, opts.Flags, opts.Decompress)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	h := p.h
	p.h = nil
	if h == nil {
		return nil, errors.Wrapf(errors.ErrClosed, "handle %s was already read", p.path)
	}
	return h, nil
}

func reject(sub Subscriber, err error) {
	sub.OnSubscribe(emit.Noop)
	sub.OnError(err)
}
