package fs

import (
	"github.com/javasync/RxIo/internal/constants"
	"github.com/javasync/RxIo/internal/errors"
	"github.com/javasync/RxIo/internal/io/emit"
	"github.com/javasync/RxIo/internal/io/line"
)

// ReadOptions configures a read session. The zero value reads UTF-8 text
// in DefaultChunkSize chunks, replaces malformed input and delivers errors
// after already buffered lines.
type ReadOptions struct {
	// ChunkSize is the number of bytes requested per read. Zero means
	// DefaultChunkSize.
	ChunkSize int
	// Flags are the open flags. Read is always added.
	Flags OpenFlag
	// DecodePolicy controls malformed input handling.
	DecodePolicy line.DecodePolicy
	// ErrorPolicy controls when an error overtakes buffered lines.
	ErrorPolicy emit.ErrorPolicy
	// Charset names the text encoding. Empty means UTF-8.
	Charset string
	// HighWater is the number of undelivered lines at which the reader
	// stops reading until the subscriber requests more. Zero means
	// DefaultHighWater, a negative value disables idling.
	HighWater int
	// Decompress transparently decompresses .zst and .gz files.
	Decompress bool
}

// WithDefaults returns a copy with the zero fields set to their defaults.
func (o ReadOptions) WithDefaults() ReadOptions {
	if o.ChunkSize == 0 {
		o.ChunkSize = constants.DefaultChunkSize
	}
	if o.Flags == 0 {
		o.Flags = DefaultReadFlags
	}
	if o.Charset == "" {
		o.Charset = "utf-8"
	}
	if o.HighWater == 0 {
		o.HighWater = constants.DefaultHighWater
	}
	return o
}

// Validate rejects option values no session can run with.
func (o ReadOptions) Validate() error {
	if o.ChunkSize < 0 {
		return errors.Wrapf(errors.ErrInvalidArgument, "chunk size must be positive, got %d", o.ChunkSize)
	}
	if o.Flags&(Write|Truncate) != 0 {
		return errors.Wrapf(errors.ErrInvalidArgument, "open flags %s are not valid for reading", o.Flags)
	}
	switch o.DecodePolicy {
	case line.DecodeReplace, line.DecodeStrict:
	default:
		return errors.Wrapf(errors.ErrInvalidArgument, "unknown decode policy %d", o.DecodePolicy)
	}
	switch o.ErrorPolicy {
	case emit.ErrorsAfterDrain, emit.ErrorsImmediate:
	default:
		return errors.Wrapf(errors.ErrInvalidArgument, "unknown error policy %d", o.ErrorPolicy)
	}
	return nil
}
