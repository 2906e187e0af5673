package sim

import "sync/atomic"

// Latest is a single-slot handoff cell. Writers overwrite, the reader
// takes the newest value; intermediate values are dropped.
type Latest[T any] struct {
	v atomic.Pointer[T]
}

func (l *Latest[T]) Put(v T) {
	l.v.Store(&v)
}

// Take returns the pending value and clears the slot.
func (l *Latest[T]) Take() (T, bool) {
	p := l.v.Swap(nil)
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
