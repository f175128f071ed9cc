package mediastreamer

// Queue is a FIFO of items, drained by Context.Pack and Context.Unpack.
// The zero value is an empty queue ready for use.
type Queue[T any] struct {
	items []T
}

// NewQueue returns a queue holding items in order.
func NewQueue[T any](items ...T) *Queue[T] {
	return &Queue[T]{items: items}
}

// Put appends v at the tail.
func (q *Queue[T]) Put(v T) { q.items = append(q.items, v) }

// Get removes and returns the head.
func (q *Queue[T]) Get() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true
}

// Peek returns the head without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.items[0], true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int { return len(q.items) }

// Empty reports whether the queue holds nothing.
func (q *Queue[T]) Empty() bool { return len(q.items) == 0 }

// Drain removes and returns every item in order.
func (q *Queue[T]) Drain() []T {
	items := q.items
	q.items = nil
	return items
}

// Flush discards every item.
func (q *Queue[T]) Flush() { q.items = nil }
