package rxio

import (
	"context"
	"io"

	"github.com/javasync/RxIo/internal/future"
)

// LineQuery pushes the lines of a file into a callback.
type LineQuery struct {
	ctx  context.Context
	path string
	opts Options
}

// Query prepares a push style read of the file at path.
func Query(path string, opts Options) *LineQuery {
	return QueryContext(context.Background(), path, opts)
}

// QueryContext is Query bound to ctx. When ctx is done the callback stops
// being called and the returned future fails with the context error.
func QueryContext(ctx context.Context, path string, opts Options) *LineQuery {
	return &LineQuery{ctx: ctx, path: path, opts: opts}
}

// Subscribe starts the read. fn is called with every line and a nil error,
// then once more with an empty line and either the failure or io.EOF at the
// end of input. The future completes after that last call; it is resolved
// on io.EOF and rejected on failure.
func (q *LineQuery) Subscribe(fn func(line string, err error)) *Future[struct{}] {
	done := future.New[struct{}]()
	sub := DoOnNext(func(line string) {
		fn(line, nil)
	}).DoOnError(func(err error) {
		defer done.Reject(err)
		fn("", err)
	}).DoOnComplete(func() {
		defer done.Resolve(struct{}{})
		fn("", io.EOF)
	})
	LinesContext(q.ctx, q.path, q.opts).Subscribe(sub)

	if q.ctx.Done() != nil {
		go func() {
			select {
			case <-q.ctx.Done():
				done.Reject(q.ctx.Err())
			case <-done.Done():
			}
		}()
	}
	return done
}
