package fs

import "io"

// ReadChunk reads up to len(buf) bytes at offset off. A zero count with a
// nil error means the end of the input was reached. Other errors are
// returned unchanged; nothing is retried.
func ReadChunk(r io.ReaderAt, off int64, buf []byte) (int, error) {
	n, err := r.ReadAt(buf, off)
	if err == io.EOF {
		err = nil
	}
	return n, err
}
