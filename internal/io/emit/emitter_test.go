package emit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/javasync/RxIo/internal/errors"
	"github.com/javasync/RxIo/internal/io/dlog"
	"github.com/javasync/RxIo/internal/testutil"
)

// recorder is a Subscriber remembering everything it was told.
type recorder struct {
	mu        sync.Mutex
	sub       Subscription
	lines     []string
	err       error
	terminals int
	completed bool
	done      chan struct{}

	inNext  int32
	overlap int32

	// onNext runs inside OnNext after the line is recorded.
	onNext func(r *recorder, line string)
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{})}
}

func (r *recorder) OnSubscribe(s Subscription) {
	r.mu.Lock()
	r.sub = s
	r.mu.Unlock()
}

func (r *recorder) OnNext(line string) {
	if !atomic.CompareAndSwapInt32(&r.inNext, 0, 1) {
		atomic.StoreInt32(&r.overlap, 1)
	}
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
	if r.onNext != nil {
		r.onNext(r, line)
	}
	atomic.StoreInt32(&r.inNext, 0)
}

func (r *recorder) OnError(err error) {
	r.mu.Lock()
	r.err = err
	r.terminals++
	r.mu.Unlock()
	close(r.done)
}

func (r *recorder) OnComplete() {
	r.mu.Lock()
	r.completed = true
	r.terminals++
	r.mu.Unlock()
	close(r.done)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func numbered(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return lines
}

func produce(t *testing.T, e *Emitter, lines []string) {
	t.Helper()
	for _, line := range lines {
		testutil.AssertNoError(t, e.ProcessLine(line))
	}
}

func TestEmitterRespectsDemand(t *testing.T) {
	r := newRecorder()
	e := New(r, ErrorsAfterDrain, nil)
	input := []string{"super", "brave", "isel", "ole", "gain", "massi", "tot"}

	produce(t, e, input)
	testutil.AssertEqual(t, 0, len(r.snapshot()))

	e.Request(3)
	testutil.AssertLines(t, input[:3], r.snapshot())
	testutil.AssertEqual(t, 4, e.Pending())

	e.Complete()
	select {
	case <-r.done:
		t.Fatal("completion must wait for pending lines")
	default:
	}

	e.Request(4)
	testutil.WaitFor(t, r.done, time.Second, "completion")
	testutil.AssertLines(t, input, r.snapshot())
	testutil.AssertEqual(t, true, r.completed)
	testutil.AssertEqual(t, 1, r.terminals)
}

func TestEmitterCompletesEmptyWithoutDemand(t *testing.T) {
	r := newRecorder()
	e := New(r, ErrorsAfterDrain, nil)

	e.Complete()
	testutil.WaitFor(t, r.done, time.Second, "completion")
	testutil.AssertEqual(t, true, r.completed)

	// Later calls are ignored.
	e.Complete()
	e.Fail(errors.ErrInternal)
	e.Request(1)
	testutil.AssertEqual(t, 1, r.terminals)
	if err := e.ProcessLine("late"); err != ErrStopped {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}

func TestEmitterIncrementalDemand(t *testing.T) {
	input := numbered(7)
	r := newRecorder()
	r.onNext = func(r *recorder, line string) {
		r.sub.Request(1)
	}
	e := New(r, ErrorsAfterDrain, nil)
	r.OnSubscribe(e)

	produce(t, e, input)
	e.Complete()
	e.Request(1)

	testutil.WaitFor(t, r.done, time.Second, "completion")
	testutil.AssertLines(t, input, r.snapshot())
}

func TestEmitterInvalidDemand(t *testing.T) {
	for _, n := range []int64{0, -1, -42} {
		t.Run(fmt.Sprintf("request(%d)", n), func(t *testing.T) {
			var cancelled int32
			r := newRecorder()
			e := New(r, ErrorsAfterDrain, func() { atomic.AddInt32(&cancelled, 1) })
			produce(t, e, numbered(5))

			e.Request(n)
			testutil.WaitFor(t, r.done, time.Second, "error")
			if !errors.Is(r.err, errors.ErrInvalidDemand) {
				t.Errorf("expected ErrInvalidDemand, got %v", r.err)
			}
			testutil.AssertEqual(t, int32(1), atomic.LoadInt32(&cancelled))

			e.Request(10)
			if err := e.ProcessLine("more"); err != ErrStopped {
				t.Errorf("expected ErrStopped, got %v", err)
			}
			testutil.AssertEqual(t, 0, len(r.snapshot()))
			testutil.AssertEqual(t, 1, r.terminals)
		})
	}
}

func TestEmitterCancel(t *testing.T) {
	var cancelled int32
	r := newRecorder()
	e := New(r, ErrorsAfterDrain, func() { atomic.AddInt32(&cancelled, 1) })
	produce(t, e, numbered(10))

	e.Request(3)
	e.Cancel()
	e.Cancel()
	e.Request(100)
	e.Complete()

	testutil.AssertEqual(t, 3, len(r.snapshot()))
	testutil.AssertEqual(t, 0, r.terminals)
	testutil.AssertEqual(t, int32(1), atomic.LoadInt32(&cancelled))
	testutil.AssertEqual(t, true, e.Stopped())
	testutil.AssertEqual(t, 0, e.Pending())
}

func TestEmitterCancelFromOnNext(t *testing.T) {
	r := newRecorder()
	r.onNext = func(r *recorder, line string) {
		if len(r.snapshot()) == 2 {
			r.sub.Cancel()
		}
	}
	e := New(r, ErrorsAfterDrain, nil)
	r.OnSubscribe(e)
	e.Request(Unbounded)
	produce(t, e, numbered(2))

	if err := e.ProcessLine("never"); err != ErrStopped {
		t.Errorf("expected ErrStopped, got %v", err)
	}
	testutil.AssertEqual(t, 2, len(r.snapshot()))
	testutil.AssertEqual(t, 0, r.terminals)
}

func TestEmitterFailPolicies(t *testing.T) {
	boom := errors.New("boom")

	t.Run("drain", func(t *testing.T) {
		r := newRecorder()
		e := New(r, ErrorsAfterDrain, nil)
		produce(t, e, numbered(3))
		e.Fail(boom)

		e.Request(2)
		select {
		case <-r.done:
			t.Fatal("error must wait for pending lines")
		default:
		}
		e.Request(1)
		testutil.WaitFor(t, r.done, time.Second, "error")
		testutil.AssertLines(t, numbered(3), r.snapshot())
		testutil.AssertEqual(t, boom, r.err)
	})

	t.Run("immediate", func(t *testing.T) {
		r := newRecorder()
		e := New(r, ErrorsImmediate, nil)
		produce(t, e, numbered(3))
		e.Fail(boom)

		testutil.WaitFor(t, r.done, time.Second, "error")
		testutil.AssertEqual(t, 0, len(r.snapshot()))
		testutil.AssertEqual(t, boom, r.err)
	})
}

func TestEmitterSaturatesDemand(t *testing.T) {
	testutil.AssertEqual(t, Unbounded, addDemand(Unbounded, 1))
	testutil.AssertEqual(t, Unbounded, addDemand(Unbounded-5, 10))
	testutil.AssertEqual(t, int64(7), addDemand(3, 4))

	r := newRecorder()
	e := New(r, ErrorsAfterDrain, nil)
	e.Request(Unbounded)
	e.Request(Unbounded)
	produce(t, e, numbered(50))
	e.Complete()

	testutil.WaitFor(t, r.done, time.Second, "completion")
	testutil.AssertEqual(t, 50, len(r.snapshot()))
}

func TestEmitterConcurrentDemand(t *testing.T) {
	const total = 20000
	input := numbered(total)
	r := newRecorder()
	e := New(r, ErrorsAfterDrain, nil)

	go func() {
		for _, line := range input {
			if err := e.ProcessLine(line); err != nil {
				return
			}
		}
		e.Complete()
	}()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < total/4; i++ {
				e.Request(1)
			}
		}()
	}
	wg.Wait()

	testutil.WaitFor(t, r.done, 5*time.Second, "completion")
	testutil.AssertLines(t, input, r.snapshot())
	testutil.AssertEqual(t, int32(0), atomic.LoadInt32(&r.overlap))
	testutil.AssertEqual(t, 1, r.terminals)
}

func TestEmitterNeverExceedsDemand(t *testing.T) {
	r := newRecorder()
	e := New(r, ErrorsAfterDrain, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, line := range numbered(1000) {
			e.ProcessLine(line)
		}
	}()
	for i := 0; i < 10; i++ {
		e.Request(7)
	}
	wg.Wait()

	testutil.AssertEqual(t, 70, len(r.snapshot()))
	testutil.AssertEqual(t, 930, e.Pending())
}

func TestEmitterAwaitDemand(t *testing.T) {
	r := newRecorder()
	e := New(r, ErrorsAfterDrain, nil)
	produce(t, e, numbered(4))

	testutil.AssertNoError(t, e.AwaitDemand(context.Background(), 0))
	testutil.AssertNoError(t, e.AwaitDemand(context.Background(), 5))

	released := make(chan struct{})
	go func() {
		e.AwaitDemand(context.Background(), 4)
		close(released)
	}()
	select {
	case <-released:
		t.Fatal("producer should idle while the backlog is full")
	case <-time.After(50 * time.Millisecond):
	}

	e.Request(1)
	testutil.WaitFor(t, released, time.Second, "producer release")

	ctx, cancel := context.WithCancel(context.Background())
	produce(t, e, numbered(1))
	cancel()
	if err := e.AwaitDemand(ctx, 4); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	e.Cancel()
	testutil.AssertNoError(t, e.AwaitDemand(context.Background(), 1))
}

func TestEmitterPanickingSubscriber(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	dlog.SetLogger(zap.New(core))
	defer dlog.SetLogger(nil)

	t.Run("OnNext", func(t *testing.T) {
		r := newRecorder()
		r.onNext = func(*recorder, string) { panic("bad line") }
		var cancelled int32
		e := New(r, ErrorsAfterDrain, func() { atomic.AddInt32(&cancelled, 1) })
		produce(t, e, numbered(3))
		e.Request(Unbounded)

		testutil.WaitFor(t, r.done, time.Second, "error")
		if !errors.Is(r.err, errors.ErrSubscriberPanic) {
			t.Errorf("expected ErrSubscriberPanic, got %v", r.err)
		}
		testutil.AssertEqual(t, 1, len(r.snapshot()))
		testutil.AssertEqual(t, int32(1), atomic.LoadInt32(&cancelled))
	})

	t.Run("OnError", func(t *testing.T) {
		e := New(DoOnNext(nil).DoOnError(func(error) { panic("bad handler") }), ErrorsAfterDrain, nil)
		// Must not panic
		e.Fail(errors.New("boom"))
		if logs.FilterMessage("Subscriber panicked in terminal signal").Len() != 1 {
			t.Error("expected the handler panic to be logged")
		}
	})
}

func TestFuncsDefaultsToUnboundedDemand(t *testing.T) {
	var lines []string
	completed := false
	sub := DoOnNext(func(line string) { lines = append(lines, line) }).
		DoOnComplete(func() { completed = true })

	e := New(sub, ErrorsAfterDrain, nil)
	sub.OnSubscribe(e)
	produce(t, e, numbered(3))
	e.Complete()

	testutil.AssertLines(t, numbered(3), lines)
	testutil.AssertEqual(t, true, completed)
}

func TestParseErrorPolicy(t *testing.T) {
	p, err := ParseErrorPolicy("immediate")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ErrorsImmediate, p)
	testutil.AssertEqual(t, "immediate", p.String())

	_, err = ParseErrorPolicy("sometimes")
	if !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
