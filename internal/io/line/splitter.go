// Package line turns raw chunk bytes into logical lines. The Splitter keeps
// the partial line left over at a chunk boundary, normalizes CRLF and LF
// terminators, and force cuts lines that grow beyond MaxLineLength. The
// Decoder converts the completed byte ranges into text.
package line

import (
	"unicode/utf8"

	"github.com/javasync/RxIo/internal/constants"
	"github.com/javasync/RxIo/internal/io/pool"
)

const (
	lf = '\n'
	cr = '\r'
)

// EmitFunc receives one completed line. The slice aliases the splitter's
// accumulation buffer and is only valid until EmitFunc returns.
type EmitFunc func(line []byte) error

// Splitter is a line splitting state machine. It is not safe for concurrent
// use; a read session owns exactly one.
type Splitter struct {
	buf      *[]byte
	acc      []byte
	n        int
	runeSafe bool
	// cuts counts forced cuts, overlong tracks whether the current line
	// was already cut at least once.
	cuts     int
	overlong bool
	// heldCR is a CR that arrived with the buffer full. It is not part
	// of acc until the next byte shows whether it ends the line.
	heldCR bool
}

// NewSplitter returns a Splitter with an accumulation buffer of
// MaxLineLength bytes. When runeSafe is set, a forced cut never splits a
// UTF-8 sequence: the incomplete tail is carried into the next segment.
func NewSplitter(runeSafe bool) *Splitter {
	buf := pool.GetLine()
	return &Splitter{
		buf:      buf,
		acc:      (*buf)[:constants.MaxLineLength],
		runeSafe: runeSafe,
	}
}

// Feed scans chunk byte by byte and calls emit for every completed line.
// Bytes after the last terminator stay in the accumulation buffer for the
// next Feed or Flush. The first error returned by emit stops the scan.
func (s *Splitter) Feed(chunk []byte, emit EmitFunc) error {
	for _, b := range chunk {
		if s.heldCR {
			s.heldCR = false
			if b == lf {
				n := s.n
				s.n = 0
				s.overlong = false
				if err := emit(s.acc[:n]); err != nil {
					return err
				}
				continue
			}
			if err := s.appendCut(cr, emit); err != nil {
				return err
			}
		}
		if b == lf {
			n := s.n
			if n > 0 && s.acc[n-1] == cr {
				n--
			}
			s.n = 0
			s.overlong = false
			if err := emit(s.acc[:n]); err != nil {
				return err
			}
			continue
		}
		if b == cr && s.n == len(s.acc) {
			s.heldCR = true
			continue
		}
		if err := s.appendCut(b, emit); err != nil {
			return err
		}
	}
	return nil
}

// appendCut appends b, cutting first when the buffer is full.
func (s *Splitter) appendCut(b byte, emit EmitFunc) error {
	if s.n == len(s.acc) {
		if err := s.cut(emit); err != nil {
			return err
		}
	}
	s.acc[s.n] = b
	s.n++
	return nil
}

// Flush emits the leftover partial line, if any. It must only be called
// once end of input is confirmed.
func (s *Splitter) Flush(emit EmitFunc) error {
	if s.heldCR {
		s.heldCR = false
		if err := s.appendCut(cr, emit); err != nil {
			return err
		}
	}
	if s.n == 0 {
		return nil
	}
	n := s.n
	s.n = 0
	return emit(s.acc[:n])
}

// Pending returns the number of accumulated bytes not yet emitted.
func (s *Splitter) Pending() int {
	if s.heldCR {
		return s.n + 1
	}
	return s.n
}

// Cuts returns how many forced cuts happened so far.
func (s *Splitter) Cuts() int {
	return s.cuts
}

// Overlong reports whether the line currently accumulating was already cut.
func (s *Splitter) Overlong() bool {
	return s.overlong
}

// Release hands the accumulation buffer back to the pool. The Splitter must
// not be used afterwards.
func (s *Splitter) Release() {
	pool.PutLine(s.buf)
	s.buf = nil
	s.acc = nil
	s.n = 0
	s.heldCR = false
}

func (s *Splitter) cut(emit EmitFunc) error {
	end := s.n
	if s.runeSafe {
		end = runeBoundary(s.acc[:s.n])
	}
	s.cuts++
	s.overlong = true
	if err := emit(s.acc[:end]); err != nil {
		return err
	}
	s.n = copy(s.acc, s.acc[end:s.n])
	return nil
}

// runeBoundary returns the length of the longest prefix of b that does not
// end in an incomplete UTF-8 sequence. Invalid bytes count as complete.
func runeBoundary(b []byte) int {
	n := len(b)
	for i := n - 1; i >= 0 && i >= n-utf8.UTFMax+1; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) && i > 0 {
				return i
			}
			return n
		}
	}
	return n
}
