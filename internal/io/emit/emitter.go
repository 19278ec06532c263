// Package emit bridges a read session producing lines on its own goroutine
// to a Subscriber that pulls them at its own pace.
//
// The Emitter buffers produced lines and delivers at most as many as the
// subscriber requested. Producer calls (ProcessLine, Complete, Fail) and
// consumer calls (Request, Cancel) may arrive concurrently from different
// goroutines. All shared state sits behind one mutex, and a delivering flag
// guarantees that only one goroutine runs the delivery loop at a time, so
// OnNext calls never overlap and always follow file order. Subscriber
// callbacks run without the mutex held, which lets OnNext call Request or
// Cancel re-entrantly.
package emit

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/javasync/RxIo/internal/errors"
	"github.com/javasync/RxIo/internal/io/dlog"
)

// ErrStopped is returned by ProcessLine once the emitter accepts no more
// lines. It tells the producer to stop reading and is never delivered.
var ErrStopped = errors.New("emitter stopped")

// ErrorPolicy selects when an upstream error reaches the subscriber.
type ErrorPolicy int

const (
	// ErrorsAfterDrain delivers pending lines first and then the error.
	ErrorsAfterDrain ErrorPolicy = iota
	// ErrorsImmediate drops pending lines and delivers the error right away.
	ErrorsImmediate
)

func (p ErrorPolicy) String() string {
	switch p {
	case ErrorsAfterDrain:
		return "drain"
	case ErrorsImmediate:
		return "immediate"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", int(p))
	}
}

// ParseErrorPolicy parses "drain" or "immediate".
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch s {
	case "drain", "":
		return ErrorsAfterDrain, nil
	case "immediate":
		return ErrorsImmediate, nil
	}
	return ErrorsAfterDrain, errors.Wrapf(errors.ErrInvalidArgument, "unknown error policy %q", s)
}

type state int

const (
	// stateActive accepts lines from the producer.
	stateActive state = iota
	// stateEnding has seen end of input or a failure; the terminal signal
	// goes out once the queue is empty.
	stateEnding
	// stateCancelled is final and silent.
	stateCancelled
	// stateTerminated has delivered its terminal signal.
	stateTerminated
)

// Emitter is the demand-aware line buffer between one producer and one
// Subscriber. It implements Subscription.
type Emitter struct {
	sub      Subscriber
	policy   ErrorPolicy
	onCancel func()
	stopOnce sync.Once
	log      *zap.Logger

	mu         sync.Mutex
	queue      lineQueue
	demand     int64
	state      state
	failure    error
	delivering bool

	// space wakes a producer waiting in AwaitDemand.
	space chan struct{}
}

// New returns an Emitter delivering to sub. onCancel, when not nil, is
// called at most once, when the subscription ends early (Cancel, protocol
// violation or a panicking subscriber), so the producer can stop reading.
func New(sub Subscriber, policy ErrorPolicy, onCancel func()) *Emitter {
	return &Emitter{
		sub:      sub,
		policy:   policy,
		onCancel: onCancel,
		log:      dlog.Logger(),
		space:    make(chan struct{}, 1),
	}
}

// Request adds n to the outstanding demand and delivers what it can.
func (e *Emitter) Request(n int64) {
	if n <= 0 {
		e.abort(errors.Wrapf(errors.ErrInvalidDemand, "request(%d)", n))
		return
	}
	e.mu.Lock()
	if e.state == stateCancelled || e.state == stateTerminated {
		e.mu.Unlock()
		return
	}
	e.demand = addDemand(e.demand, n)
	e.mu.Unlock()
	e.drain()
}

// Cancel stops all further deliveries, buffered lines included.
func (e *Emitter) Cancel() {
	e.mu.Lock()
	if e.state == stateCancelled || e.state == stateTerminated {
		e.mu.Unlock()
		return
	}
	e.state = stateCancelled
	e.queue.clear()
	e.mu.Unlock()
	e.wake()
	e.stopUpstream()
}

// ProcessLine appends a produced line and delivers what demand allows.
// It returns ErrStopped once the emitter no longer accepts lines.
func (e *Emitter) ProcessLine(line string) error {
	e.mu.Lock()
	if e.state != stateActive {
		e.mu.Unlock()
		return ErrStopped
	}
	e.queue.push(line)
	e.mu.Unlock()
	e.drain()
	return nil
}

// Complete marks end of input. OnComplete follows once pending lines drain.
func (e *Emitter) Complete() {
	e.mu.Lock()
	if e.state != stateActive {
		e.mu.Unlock()
		return
	}
	e.state = stateEnding
	e.mu.Unlock()
	e.drain()
}

// Fail ends the input with err. Depending on the policy, OnError follows
// after pending lines drain or right away.
func (e *Emitter) Fail(err error) {
	e.mu.Lock()
	if e.state != stateActive {
		e.mu.Unlock()
		return
	}
	e.state = stateEnding
	e.failure = err
	if e.policy == ErrorsImmediate {
		e.queue.clear()
	}
	e.mu.Unlock()
	e.drain()
}

// Stopped reports whether the producer should stop: the subscription was
// cancelled, aborted, or has already terminated.
func (e *Emitter) Stopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state != stateActive
}

// Pending returns the number of buffered lines.
func (e *Emitter) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.len()
}

// AwaitDemand blocks the producer while highWater or more lines are
// pending, until the subscriber drains them, the emitter stops, or ctx is
// done. A non-positive highWater never blocks.
func (e *Emitter) AwaitDemand(ctx context.Context, highWater int) error {
	if highWater <= 0 {
		return nil
	}
	for {
		e.mu.Lock()
		backlogged := e.state == stateActive && e.queue.len() >= highWater
		e.mu.Unlock()
		if !backlogged {
			return nil
		}
		select {
		case <-e.space:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// abort ends the subscription early with err: pending lines are dropped,
// the producer is stopped and err is delivered.
func (e *Emitter) abort(err error) {
	e.mu.Lock()
	if e.state == stateCancelled || e.state == stateTerminated {
		e.mu.Unlock()
		return
	}
	e.state = stateEnding
	e.failure = err
	e.queue.clear()
	e.mu.Unlock()
	e.wake()
	e.stopUpstream()
	e.drain()
}

// drain is the delivery loop. Only one goroutine runs it at a time; a
// concurrent caller returns immediately because the running loop re-checks
// demand, queue and state under the mutex before it goes idle.
func (e *Emitter) drain() {
	e.mu.Lock()
	if e.delivering {
		e.mu.Unlock()
		return
	}
	e.delivering = true
	for {
		if e.state == stateCancelled || e.state == stateTerminated {
			break
		}
		if e.demand > 0 && e.queue.len() > 0 {
			line, ok := e.queue.pop()
			if !ok {
				e.mu.Unlock()
				panic(errors.Wrap(errors.ErrInternal, "pop from empty pending line queue"))
			}
			if e.demand != Unbounded {
				e.demand--
			}
			e.mu.Unlock()
			e.wake()
			err := e.next(line)
			e.mu.Lock()
			if err != nil && e.state != stateCancelled && e.state != stateTerminated {
				e.state = stateEnding
				e.failure = err
				e.queue.clear()
				e.mu.Unlock()
				e.stopUpstream()
				e.mu.Lock()
			}
			continue
		}
		if e.state == stateEnding && e.queue.len() == 0 {
			e.state = stateTerminated
			failure := e.failure
			e.mu.Unlock()
			e.terminate(failure)
			e.mu.Lock()
		}
		break
	}
	e.delivering = false
	e.mu.Unlock()
}

// next calls OnNext, turning a panic into an error.
func (e *Emitter) next(line string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("Subscriber panicked in OnNext", zap.Any("panic", r))
			err = errors.Wrapf(errors.ErrSubscriberPanic, "OnNext: %v", r)
		}
	}()
	e.sub.OnNext(line)
	return nil
}

// terminate delivers the single terminal signal. A panicking handler is
// logged and never reaches the producer's call stack.
func (e *Emitter) terminate(failure error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("Subscriber panicked in terminal signal",
				zap.Any("panic", r), zap.NamedError("failure", failure))
		}
	}()
	if failure != nil {
		e.sub.OnError(failure)
		return
	}
	e.sub.OnComplete()
}

func (e *Emitter) wake() {
	select {
	case e.space <- struct{}{}:
	default:
	}
}

func (e *Emitter) stopUpstream() {
	if e.onCancel != nil {
		e.stopOnce.Do(e.onCancel)
	}
}
