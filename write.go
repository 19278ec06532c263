package rxio

import (
	"github.com/javasync/RxIo/internal/future"
	"github.com/javasync/RxIo/internal/io/fs"
)

// LineSeparator is the terminator Writer.WriteLine appends on this platform.
var LineSeparator = fs.LineSeparator

// NewWriter opens path for asynchronous writing. Without flags the file is
// created and must not exist yet.
func NewWriter(path string, flags ...OpenFlag) (*Writer, error) {
	return fs.NewWriter(path, combine(flags))
}

// WriteLines writes every line followed by LineSeparator and closes the
// file. The future resolves to the number of bytes written once the file
// is closed.
func WriteLines(path string, lines []string, flags ...OpenFlag) *Future[int64] {
	return future.Go(func() (int64, error) {
		w, err := NewWriter(path, flags...)
		if err != nil {
			return 0, err
		}
		for _, l := range lines {
			w.WriteLine(l)
		}
		return finish(w)
	})
}

// WriteBytes writes b and closes the file.
func WriteBytes(path string, b []byte, flags ...OpenFlag) *Future[int64] {
	return future.Go(func() (int64, error) {
		w, err := NewWriter(path, flags...)
		if err != nil {
			return 0, err
		}
		w.Write(b)
		return finish(w)
	})
}

// finish closes w. Write failures surface through the close future.
func finish(w *Writer) (int64, error) {
	if _, err := w.Close().Result(); err != nil {
		return 0, err
	}
	return w.Position(), nil
}

func combine(flags []OpenFlag) OpenFlag {
	var f OpenFlag
	for _, fl := range flags {
		f |= fl
	}
	return f
}
