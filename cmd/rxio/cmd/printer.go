package cmd

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	numberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// printer writes lines to the command output, optionally numbered and with
// a styled header per file when the output is a terminal. It is safe for
// concurrent use: a cancelled session may still deliver a line while the
// command flushes.
type printer struct {
	mu      sync.Mutex
	w       *bufio.Writer
	color   bool
	numbers bool
	headers bool
	count   int64
}

func newPrinter(out io.Writer, numbers, headers bool) *printer {
	return &printer{
		w:       bufio.NewWriter(out),
		color:   decorated(out),
		numbers: numbers,
		headers: headers,
	}
}

func (p *printer) header(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.headers {
		return
	}
	p.count = 0
	h := "==> " + path + " <=="
	if p.color {
		h = headerStyle.Render(h)
	}
	fmt.Fprintln(p.w, h)
}

func (p *printer) line(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	if p.numbers {
		n := fmt.Sprintf("%6d  ", p.count)
		if p.color {
			n = numberStyle.Render(n)
		}
		p.w.WriteString(n)
	}
	p.w.WriteString(s)
	p.w.WriteByte('\n')
}

func (p *printer) raw(b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.w.Write(b)
}

func (p *printer) flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.w.Flush()
}
