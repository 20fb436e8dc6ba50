// Package deque provides a generic double-ended queue backed by a ring buffer.
package deque

// Deque is a double-ended queue of T.
// The zero value is an empty deque ready to use.
type Deque[T any] struct {
	buf  []T
	head int // index of the front element
	len  int
}

// New creates a new deque with room for capacity elements before growing.
func New[T any](capacity int) *Deque[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Deque[T]{buf: make([]T, capacity)}
}

// Len is the number of elements in the deque.
func (d *Deque[T]) Len() int {
	return d.len
}

// PushFront adds a new value to the front of the deque.
func (d *Deque[T]) PushFront(v T) {
	if d.len == len(d.buf) {
		d.grow()
	}
	d.head = d.index(len(d.buf) - 1)
	d.buf[d.head] = v
	d.len++
}

// PopBack removes and returns the value at the back of the deque.
// ok is false if the deque is empty.
func (d *Deque[T]) PopBack() (v T, ok bool) {
	if d.len == 0 {
		return
	}
	i := d.index(d.len - 1)
	v = d.buf[i]
	var zero T
	d.buf[i] = zero // release references held by the popped slot
	d.len--
	return v, true
}

// At returns the i-th value counted from the front.
// It panics if i is out of range.
func (d *Deque[T]) At(i int) T {
	if i < 0 || i >= d.len {
		panic("deque: index out of range")
	}
	return d.buf[d.index(i)]
}

// Clear removes all elements, keeping the allocated buffer.
func (d *Deque[T]) Clear() {
	clear(d.buf)
	d.head = 0
	d.len = 0
}

func (d *Deque[T]) index(i int) int {
	return (d.head + i) % len(d.buf)
}

func (d *Deque[T]) grow() {
	n := len(d.buf) * 2
	if n == 0 {
		n = 8
	}
	d.realloc(n)
}

// Cap is the number of elements the deque can hold before growing.
func (d *Deque[T]) Cap() int {
	return len(d.buf)
}

// Shrink reallocates the buffer to hold max(Len(), capacity) elements, releasing the rest.
// It does nothing if the buffer is already that small.
func (d *Deque[T]) Shrink(capacity int) {
	capacity = max(d.len, capacity)
	if capacity >= len(d.buf) {
		return
	}
	d.realloc(capacity)
}

func (d *Deque[T]) realloc(n int) {
	buf := make([]T, n)
	for i := 0; i < d.len; i++ {
		buf[i] = d.buf[d.index(i)]
	}
	d.buf = buf
	d.head = 0
}
