package monitor

import "sync"

// Queue is an unbounded FIFO of indicator states. Push and DrainAll are safe
// to call from different goroutines.
type Queue struct {
	mu    sync.Mutex
	items []bool
}

// Push appends a state. It never blocks on the consumer.
func (q *Queue) Push(on bool) {
	q.mu.Lock()
	q.items = append(q.items, on)
	q.mu.Unlock()
}

// DrainAll removes and returns every pending state in push order. It returns
// nil when nothing is pending.
func (q *Queue) DrainAll() []bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	items := q.items
	q.items = nil
	return items
}

// Len returns the number of pending states.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
