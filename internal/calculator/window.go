package calculator

// Window is a fixed-capacity ring buffer that keeps the most recent values.
type Window[T any] struct {
	buf   []T
	start int
	size  int
}

// NewWindow creates a window holding at most capacity values. A capacity
// below one is treated as one.
func NewWindow[T any](capacity int) *Window[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Window[T]{buf: make([]T, capacity)}
}

// Push appends v, evicting the oldest value when full. It returns the evicted
// value and whether one was evicted.
func (w *Window[T]) Push(v T) (T, bool) {
	var evicted T
	if w.size < len(w.buf) {
		w.buf[(w.start+w.size)%len(w.buf)] = v
		w.size++
		return evicted, false
	}
	evicted = w.buf[w.start]
	w.buf[w.start] = v
	w.start = (w.start + 1) % len(w.buf)
	return evicted, true
}

func (w *Window[T]) Len() int { return w.size }

func (w *Window[T]) Cap() int { return len(w.buf) }

func (w *Window[T]) Full() bool { return w.size == len(w.buf) }

// At returns the i-th value, oldest first.
func (w *Window[T]) At(i int) T { return w.buf[(w.start+i)%len(w.buf)] }

// First returns the oldest value.
func (w *Window[T]) First() T { return w.At(0) }

// Last returns the newest value.
func (w *Window[T]) Last() T { return w.At(w.size - 1) }

// Values returns a copy of the contents, oldest first.
func (w *Window[T]) Values() []T {
	out := make([]T, w.size)
	for i := range out {
		out[i] = w.At(i)
	}
	return out
}
