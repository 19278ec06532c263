package emit

import "github.com/javasync/RxIo/internal/constants"

// Unbounded is the demand that never runs out.
const Unbounded = constants.Unbounded

// addDemand adds two non-negative demands, saturating at Unbounded.
func addDemand(a, b int64) int64 {
	if a > Unbounded-b {
		return Unbounded
	}
	return a + b
}

// lineQueue is a FIFO of pending lines.
type lineQueue struct {
	items []string
	head  int
}

func (q *lineQueue) len() int {
	return len(q.items) - q.head
}

func (q *lineQueue) push(line string) {
	q.items = append(q.items, line)
}

func (q *lineQueue) pop() (string, bool) {
	if q.head == len(q.items) {
		return "", false
	}
	line := q.items[q.head]
	q.items[q.head] = ""
	q.head++
	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= 1024 && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return line, true
}

func (q *lineQueue) clear() {
	q.items = nil
	q.head = 0
}
