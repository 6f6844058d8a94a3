package vm

// visitSet records (pc, position) pairs the backtracker has explored.
// Layout: bit at index (pc * (inputLen+1) + pos). Searches whose bit vector
// would exceed the configured cap use a hash set instead.
type visitSet struct {
	bits     []uint64
	width    int
	overflow map[int]struct{}
}

func newVisitSet(numInsts, inputLen, maxBits int) *visitSet {
	width := inputLen + 1
	bitsNeeded := numInsts * width
	if bitsNeeded > maxBits {
		return &visitSet{width: width, overflow: make(map[int]struct{})}
	}
	return &visitSet{
		bits:  make([]uint64, (bitsNeeded+63)/64),
		width: width,
	}
}

// shouldVisit marks (pc, pos) and reports whether it was unmarked before.
func (v *visitSet) shouldVisit(pc, pos int) bool {
	idx := pc*v.width + pos
	if v.overflow != nil {
		if _, seen := v.overflow[idx]; seen {
			return false
		}
		v.overflow[idx] = struct{}{}
		return true
	}
	word, bit := idx/64, uint64(1)<<(idx%64)
	if v.bits[word]&bit != 0 {
		return false
	}
	v.bits[word] |= bit
	return true
}
