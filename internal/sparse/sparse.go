// Package sparse provides a sparse set of program counters with O(1)
// insert, membership and clear.
//
// The lock-step engine clears its set once per input position, so Clear
// must not depend on the number of elements.
package sparse

import "github.com/coregx/twinvm/internal/conv"

// SparseSet is a set of uint32 values below a fixed capacity. The sparse
// array maps a value to its index in the dense array; a value is present
// when the two agree.
type SparseSet struct {
	sparse []uint32
	dense  []uint32
}

// NewSparseSet creates a set that can hold values in [0, capacity).
func NewSparseSet(capacity int) *SparseSet {
	n := conv.IntToUint32(capacity)
	return &SparseSet{
		sparse: make([]uint32, n),
		dense:  make([]uint32, 0, n),
	}
}

// Insert adds value and reports whether it was absent.
// Panics if value >= capacity.
func (s *SparseSet) Insert(value uint32) bool {
	if s.Contains(value) {
		return false
	}
	s.sparse[value] = uint32(len(s.dense)) //nolint:gosec // len(dense) <= capacity, which fits uint32
	s.dense = append(s.dense, value)
	return true
}

// Contains returns true if the value is in the set
func (s *SparseSet) Contains(value uint32) bool {
	if int(value) >= len(s.sparse) {
		return false
	}
	idx := s.sparse[value]
	return int(idx) < len(s.dense) && s.dense[idx] == value
}

// Clear removes all elements from the set in O(1) time
func (s *SparseSet) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of elements in the set
func (s *SparseSet) Len() int {
	return len(s.dense)
}

// Capacity returns the exclusive upper bound on stored values.
func (s *SparseSet) Capacity() int {
	return len(s.sparse)
}

// Values returns the elements in insertion order.
// The returned slice is valid until the next mutation.
func (s *SparseSet) Values() []uint32 {
	return s.dense
}
