// Package future implements a single assignment result that is filled in
// by one goroutine and awaited by any number of others.
package future

import (
	"context"
	"fmt"
	"sync"

	"github.com/javasync/RxIo/internal/errors"
)

// Future holds the eventual value or error of an asynchronous operation.
// The first Resolve or Reject wins, later calls are ignored.
type Future[T any] struct {
	once sync.Once
	done chan struct{}
	val  T
	err  error
}

// New returns a pending future.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a future already completed with v.
func Resolved[T any](v T) *Future[T] {
	f := New[T]()
	f.Resolve(v)
	return f
}

// Failed returns a future already completed with err.
func Failed[T any](err error) *Future[T] {
	f := New[T]()
	f.Reject(err)
	return f
}

// Go runs fn on a new goroutine and completes the returned future with its
// result. A panic in fn rejects the future.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := New[T]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.Reject(errors.Wrap(errors.ErrInternal, fmt.Sprintf("panic: %v", r)))
			}
		}()
		f.Complete(fn())
	}()
	return f
}

// Resolve completes the future with v. It reports whether this call
// completed it.
func (f *Future[T]) Resolve(v T) bool {
	return f.Complete(v, nil)
}

// Reject completes the future with err.
func (f *Future[T]) Reject(err error) bool {
	var zero T
	return f.Complete(zero, err)
}

// Complete completes the future with v and err.
func (f *Future[T]) Complete(v T, err error) bool {
	completed := false
	f.once.Do(func() {
		f.val, f.err = v, err
		close(f.done)
		completed = true
	})
	return completed
}

// Done is closed once the future is complete.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the future is complete.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the future completes or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result blocks until the future completes.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.val, f.err
}
