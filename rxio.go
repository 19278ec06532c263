// Package rxio reads files line by line without blocking the caller and
// writes them back asynchronously.
//
// A file can be consumed three ways, all driven by the same read session:
//
//   - Lines returns a Publisher. Its Subscriber pulls lines with
//     Subscription.Request and receives exactly one OnComplete or OnError.
//   - Query pushes every line into a callback and reports the end through
//     a Future.
//   - ReadAll and ReadAllBytes return the whole content as a Future.
//
// Writes go through a Writer, which orders them by issue time and reports
// each completion through a Future.
package rxio

import (
	"github.com/javasync/RxIo/internal/config"
	"github.com/javasync/RxIo/internal/constants"
	"github.com/javasync/RxIo/internal/errors"
	"github.com/javasync/RxIo/internal/future"
	"github.com/javasync/RxIo/internal/io/emit"
	"github.com/javasync/RxIo/internal/io/fs"
	"github.com/javasync/RxIo/internal/io/line"
)

type (
	// Subscriber receives the lines of one read session.
	Subscriber = emit.Subscriber
	// Subscription controls the demand of one read session.
	Subscription = emit.Subscription
	// Funcs is a Subscriber assembled from callbacks.
	Funcs = emit.Funcs
	// Options configures a read.
	Options = fs.ReadOptions
	// OpenFlag selects how a file is opened.
	OpenFlag = fs.OpenFlag
	// Handle is an open file supporting positional reads and writes.
	Handle = fs.Handle
	// Writer writes to a file asynchronously and in order.
	Writer = fs.Writer
	// DecodePolicy selects how malformed input is handled.
	DecodePolicy = line.DecodePolicy
	// ErrorPolicy selects when a read error overtakes buffered lines.
	ErrorPolicy = emit.ErrorPolicy
)

// Future is the eventual result of an asynchronous operation.
type Future[T any] = future.Future[T]

// Open flags.
const (
	Read      = fs.Read
	Write     = fs.Write
	Create    = fs.Create
	CreateNew = fs.CreateNew
	Truncate  = fs.Truncate
)

// Policies.
const (
	DecodeReplace    = line.DecodeReplace
	DecodeStrict     = line.DecodeStrict
	ErrorsAfterDrain = emit.ErrorsAfterDrain
	ErrorsImmediate  = emit.ErrorsImmediate
)

// Unbounded requests every remaining line at once.
const Unbounded = emit.Unbounded

// Read sizes. Zero Options fields fall back to the defaults.
const (
	DefaultChunkSize = constants.DefaultChunkSize
	DefaultHighWater = constants.DefaultHighWater
	// MaxLineLength is the length at which a line without terminator is cut.
	MaxLineLength = constants.MaxLineLength
)

// Errors delivered by the readers and the writer. Use errors.Is to match.
var (
	ErrFileNotFound      = errors.ErrFileNotFound
	ErrPermissionDenied  = errors.ErrPermissionDenied
	ErrClosed            = errors.ErrClosed
	ErrMalformedEncoding = errors.ErrMalformedEncoding
	ErrInvalidDemand     = errors.ErrInvalidDemand
	ErrSubscriberPanic   = errors.ErrSubscriberPanic
	ErrInvalidArgument   = errors.ErrInvalidArgument
	ErrInternal          = errors.ErrInternal
)

// DoOnNext starts a callback Subscriber. Without DoOnSubscribe the
// subscriber requests every line as soon as it is subscribed.
func DoOnNext(fn func(line string)) *Funcs {
	return emit.DoOnNext(fn)
}

// DoOnSubscribe starts a callback Subscriber that controls its own demand.
func DoOnSubscribe(fn func(s Subscription)) *Funcs {
	return new(Funcs).DoOnSubscribe(fn)
}

// OptionsFromEnv returns the default read options overridden by the RXIO_
// environment variables.
func OptionsFromEnv() (Options, error) {
	cfg, err := config.FromEnv(config.Default())
	if err != nil {
		return Options{}, err
	}
	if err := cfg.ReadOptions.Validate(); err != nil {
		return Options{}, err
	}
	return cfg.ReadOptions, nil
}
