package mediastreamer

import "testing"

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue("a", "b")
	q.Put("c")

	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}
	if v, ok := q.Peek(); !ok || v != "a" {
		t.Errorf("Peek() = %q, %v; want a, true", v, ok)
	}
	for _, want := range []string{"a", "b", "c"} {
		v, ok := q.Get()
		if !ok || v != want {
			t.Errorf("Get() = %q, %v; want %q, true", v, ok, want)
		}
	}
	if _, ok := q.Get(); ok {
		t.Error("Get() on empty queue returned a value")
	}
	if !q.Empty() {
		t.Error("queue not empty after draining")
	}
}

func TestQueue_DrainFlush(t *testing.T) {
	var q Queue[int]
	q.Put(1)
	q.Put(2)

	if got := q.Drain(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Drain() = %v, want [1 2]", got)
	}
	if !q.Empty() {
		t.Error("queue not empty after Drain")
	}

	q.Put(3)
	q.Flush()
	if _, ok := q.Peek(); ok {
		t.Error("Peek() after Flush returned a value")
	}
}
