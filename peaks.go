package mmr

import "math/bits"

// A Peak identifies the root of one maximal perfect subtree composing an
// MMR: its position and its height (0 for a lone leaf).
type Peak struct {
	Pos    uint64
	Height uint64
}

// Leftmost returns the lowest position covered by the peak's subtree.
// Verification uses this to test range overlap without walking any tree.
func (p Peak) Leftmost() uint64 {
	return p.Pos + 2 - (uint64(1) << (p.Height + 1))
}

// PeakIterator enumerates the peaks of an MMR with the given node count,
// left to right, which is also highest to lowest. The decomposition is
// fully determined by size: the peak heights follow the set bits of the
// implied leaf count, the way a binary counter decomposes.
//
// The search starts from the smallest all-ones candidate position at least
// as large as size and walks the candidate forest: a candidate inside the
// MMR is a peak and the search jumps to its right sibling, a candidate
// beyond it descends to its left child.
//
// The iterator makes no attempt to validate size. An impossible node count
// yields a decomposition that downstream verification rejects through hash
// mismatches or starvation of proof data.
type PeakIterator struct {
	size uint64
	pos  uint64
	twoH uint64 // 2^(height+1) of the current candidate
}

func NewPeakIterator(size uint64) *PeakIterator {
	if size == 0 {
		return &PeakIterator{}
	}
	n := uint(bits.Len64(size))
	return &PeakIterator{
		size: size,
		pos:  (uint64(1) << n) - 2,
		twoH: uint64(1) << n,
	}
}

// Next returns the next peak in left to right order, and false once the
// enumeration is exhausted.
func (it *PeakIterator) Next() (Peak, bool) {
	for it.twoH > 1 {
		if it.pos < it.size {
			peak := Peak{Pos: it.pos, Height: uint64(bits.TrailingZeros64(it.twoH)) - 1}
			// jump to the right sibling at the same height
			it.pos += it.twoH - 1
			return peak, true
		}
		// descend to the left child
		it.twoH >>= 1
		it.pos -= it.twoH
	}
	return Peak{}, false
}

// Peaks collects the full peak decomposition for size.
func Peaks(size uint64) []Peak {
	var peaks []Peak
	it := NewPeakIterator(size)
	for peak, ok := it.Next(); ok; peak, ok = it.Next() {
		peaks = append(peaks, peak)
	}
	return peaks
}

// PeakHashCount returns how many peaks compose an MMR of the given node
// count, which follows the set bits of the implied leaf count. A proof
// whose range touches a single peak carries exactly PeakHashCount(size)-1
// full peak digests ahead of its sibling segment, so this bounds proof
// sizing without extracting anything.
func PeakHashCount(size uint64) uint64 {
	var count uint64
	it := NewPeakIterator(size)
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		count++
	}
	return count
}

// LeafPosition returns the position assigned to the leafIndex'th leaf
// (counting from 0). Each preceding leaf contributes itself plus one
// parent per trailing one-bit it completed, which collapses to
// 2*leafIndex - popcount(leafIndex).
func LeafPosition(leafIndex uint64) uint64 {
	return 2*leafIndex - uint64(bits.OnesCount64(leafIndex))
}
