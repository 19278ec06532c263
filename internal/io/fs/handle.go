// Package fs provides the file side of RxIo: positional handles, the chunk
// reader, the read session that drives a file through the line splitter
// into an emitter, whole file reads and the ordered asynchronous writer.
//
// All blocking I/O happens on goroutines owned by this package. Callers only
// ever see futures or emitter notifications.
package fs

import (
	"io"
	"os"
	"strings"

	"github.com/javasync/RxIo/internal/errors"
)

// Handle is an open file that supports positional reads and writes.
// *os.File satisfies it.
type Handle interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
}

// OpenFlag selects how a file is opened. Flags combine with bitwise or.
type OpenFlag int

const (
	// Read opens the file for reading.
	Read OpenFlag = 1 << iota
	// Write opens the file for writing.
	Write
	// Create creates the file if it does not exist.
	Create
	// CreateNew creates the file and fails if it already exists.
	CreateNew
	// Truncate truncates an existing file to zero length.
	Truncate
)

// Default flag sets for readers and writers.
const (
	DefaultReadFlags  = Read
	DefaultWriteFlags = CreateNew | Write
)

func (f OpenFlag) String() string {
	var names []string
	for _, fl := range []struct {
		flag OpenFlag
		name string
	}{
		{Read, "read"},
		{Write, "write"},
		{Create, "create"},
		{CreateNew, "create_new"},
		{Truncate, "truncate"},
	} {
		if f&fl.flag != 0 {
			names = append(names, fl.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseOpenFlags parses a comma separated list such as "create,write".
func ParseOpenFlags(s string) (OpenFlag, error) {
	var f OpenFlag
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "":
		case "read":
			f |= Read
		case "write":
			f |= Write
		case "create":
			f |= Create
		case "create_new", "createnew":
			f |= CreateNew
		case "truncate":
			f |= Truncate
		default:
			return 0, errors.Wrapf(errors.ErrInvalidArgument, "unknown open flag %q", part)
		}
	}
	return f, nil
}

func (f OpenFlag) osFlags() int {
	var flags int
	switch {
	case f&Read != 0 && f&Write != 0:
		flags = os.O_RDWR
	case f&Write != 0:
		flags = os.O_WRONLY
	default:
		flags = os.O_RDONLY
	}
	if f&Create != 0 {
		flags |= os.O_CREATE
	}
	if f&CreateNew != 0 {
		flags |= os.O_CREATE | os.O_EXCL
	}
	if f&Truncate != 0 {
		flags |= os.O_TRUNC
	}
	return flags
}

// Open opens path with the given flags. Failures are classified, so
// errors.Is(err, errors.ErrFileNotFound) works for a missing file.
func Open(path string, flags OpenFlag) (*os.File, error) {
	fd, err := os.OpenFile(path, flags.osFlags(), 0o666)
	if err != nil {
		return nil, errors.Wrapf(errors.Classify(err), "opening %s", path)
	}
	return fd, nil
}

// OpenReader opens path for a read session. The read flag is always
// added. With decompress set, files ending in .zst or .gz are wrapped in a
// sequential decompressing handle.
func OpenReader(path string, flags OpenFlag, decompress bool) (Handle, error) {
	fd, err := Open(path, flags|Read)
	if err != nil {
		return nil, err
	}
	adviseSequential(fd)
	if !decompress {
		return fd, nil
	}
	h, err := newCompressedHandle(path, fd)
	if err != nil {
		fd.Close()
		return nil, err
	}
	return h, nil
}
