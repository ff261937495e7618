package enum

import "github.com/crillab/gopherjt/subset"

// A Sink is an append-only list of assignments with a maximum size.
// It is not safe for concurrent use.
type Sink struct {
	capacity  int // Maximum number of assignments; 0 or less means no limit
	items     []subset.Assignment
	truncated bool // Was an assignment rejected because the sink was full?
}

// NewSink returns an empty sink that will hold at most capacity assignments.
// A capacity of 0 or less means the sink is unbounded.
func NewSink(capacity int) *Sink {
	return &Sink{capacity: capacity}
}

// Add appends a to the sink and returns true, or returns false if the sink is full.
// The sink takes ownership of a.
func (s *Sink) Add(a subset.Assignment) bool {
	if s.full() {
		s.truncated = true
		return false
	}
	s.items = append(s.items, a)
	return true
}

func (s *Sink) full() bool {
	return s.capacity > 0 && len(s.items) >= s.capacity
}

// refuse marks the sink as truncated and returns true if it cannot take any more assignment.
func (s *Sink) refuse() bool {
	if s.full() {
		s.truncated = true
		return true
	}
	return false
}

// remaining returns how many assignments can still be added, or -1 if there is no limit.
func (s *Sink) remaining() int {
	if s.capacity <= 0 {
		return -1
	}
	return s.capacity - len(s.items)
}

// Assignments returns the content of the sink, in insertion order.
func (s *Sink) Assignments() []subset.Assignment { return s.items }

// Len returns the number of assignments in the sink.
func (s *Sink) Len() int { return len(s.items) }

// Capacity returns the maximum number of assignments, or 0 if unbounded.
func (s *Sink) Capacity() int {
	if s.capacity < 0 {
		return 0
	}
	return s.capacity
}

// Truncated is true iff at least one assignment was rejected because the sink was full.
func (s *Sink) Truncated() bool { return s.truncated }
