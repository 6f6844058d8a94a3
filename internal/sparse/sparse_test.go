package sparse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSparseSet_Basic(t *testing.T) {
	s := NewSparseSet(100)

	if s.Len() != 0 {
		t.Error("new set should be empty")
	}
	if s.Contains(0) {
		t.Error("empty set should not contain 0")
	}

	if !s.Insert(5) {
		t.Error("first insert should return true")
	}
	if !s.Contains(5) {
		t.Error("set should contain 5 after insert")
	}
	if s.Insert(5) {
		t.Error("duplicate insert should return false")
	}
	if s.Len() != 1 {
		t.Errorf("len should be 1, got %d", s.Len())
	}

	s.Insert(10)
	s.Insert(3)
	s.Insert(7)
	if s.Len() != 4 {
		t.Errorf("len should be 4, got %d", s.Len())
	}

	s.Clear()
	if s.Len() != 0 {
		t.Error("set should be empty after clear")
	}
	if s.Contains(5) {
		t.Error("cleared set should not contain 5")
	}
}

func TestSparseSet_InsertionOrder(t *testing.T) {
	s := NewSparseSet(100)
	for _, v := range []uint32{5, 2, 8, 1, 2} {
		s.Insert(v)
	}
	if diff := cmp.Diff([]uint32{5, 2, 8, 1}, s.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
}

func TestSparseSet_StaleEntries(t *testing.T) {
	// After Clear the sparse array still points into the old dense
	// positions; membership must not be fooled by them.
	s := NewSparseSet(8)
	s.Insert(3)
	s.Insert(6)
	s.Clear()
	s.Insert(6)

	if s.Contains(3) {
		t.Error("stale value 3 reported present")
	}
	if !s.Contains(6) {
		t.Error("value 6 should be present")
	}
	if !s.Insert(3) {
		t.Error("re-inserting 3 after clear should succeed")
	}
}

func TestSparseSet_Bounds(t *testing.T) {
	s := NewSparseSet(4)
	if s.Capacity() != 4 {
		t.Errorf("Capacity() = %d, want 4", s.Capacity())
	}
	if s.Contains(4) || s.Contains(1 << 31) {
		t.Error("out-of-range values must not be present")
	}
	for v := uint32(0); v < 4; v++ {
		if !s.Insert(v) {
			t.Errorf("Insert(%d) = false", v)
		}
	}
	if s.Len() != 4 {
		t.Errorf("full set Len() = %d", s.Len())
	}

	defer func() {
		if recover() == nil {
			t.Error("Insert beyond capacity should panic")
		}
	}()
	s.Insert(4)
}

func BenchmarkSparseSet_InsertClear(b *testing.B) {
	s := NewSparseSet(256)
	for i := 0; i < b.N; i++ {
		for v := uint32(0); v < 256; v += 3 {
			s.Insert(v)
		}
		s.Clear()
	}
}
