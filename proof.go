package mmr

import (
	"bytes"
	"hash"
)

// Proof carries the information needed to prove that one element, or a
// contiguous run of elements, occupies specific positions in an MMR whose
// root the verifier already trusts. It is an immutable snapshot of the
// accumulator at extraction time and is fully self contained: size pins
// down the peak decomposition used during verification, which need not be
// the accumulator's current size when proving against a historical root.
//
// hashes is one flat sequence serving two roles. The front holds the full
// digests of peaks untouched by the proven range; the back, read in
// reverse, holds the sibling digests the reconstruction of the touched
// peaks consumes. Every entry must be consumed during verification;
// leftovers are rejected.
type Proof struct {
	size   uint64
	hashes [][]byte
}

// NewProof assembles a proof from its transmitted parts: the node count of
// the MMR it was extracted from and its ordered digest sequence.
func NewProof(size uint64, hashes [][]byte) Proof {
	return Proof{size: size, hashes: hashes}
}

// Size returns the node count of the MMR the proof was extracted from.
func (p Proof) Size() uint64 {
	return p.size
}

// Hashes returns the proof's ordered digest sequence.
func (p Proof) Hashes() [][]byte {
	return p.hashes
}

// VerifyElementInclusion returns true if the proof proves that element
// appears at position pos within the MMR with root digest expectedRoot.
func (p Proof) VerifyElementInclusion(baseHasher hash.Hash, element []byte, pos uint64, expectedRoot []byte) bool {
	return p.VerifyRangeInclusion(baseHasher, [][]byte{element}, pos, pos, expectedRoot)
}

// VerifyRangeInclusion returns true if the proof proves that elements
// appear consecutively at positions startPos through endPos inclusive
// within the MMR with root digest expectedRoot.
//
// Verification is a pure computation over the proof, the claimed elements
// and positional arithmetic; no stored tree is consulted. It never returns
// an error: insufficient proof digests, insufficient or leftover elements,
// unconsumed proof digests and root mismatches all report as false.
func (p Proof) VerifyRangeInclusion(baseHasher hash.Hash, elements [][]byte, startPos, endPos uint64, expectedRoot []byte) bool {
	hasher := NewHasher(baseHasher)

	// Two independent cursors walk the flat hash sequence: a forward one
	// consuming untouched peak digests and a backward one consuming
	// sibling digests. A forward cursor over the claimed elements rides
	// along inside cur.
	nextPeakHash := 0
	cur := &cursors{sibling: len(p.hashes) - 1}

	var peakHashes [][]byte
	it := NewPeakIterator(p.size)
	for peak, ok := it.Next(); ok; peak, ok = it.Next() {
		if peak.Pos >= startPos && peak.Leftmost() <= endPos {
			digest, ok := p.reconstruct(hasher, peak.Pos, uint64(1)<<peak.Height, startPos, endPos, elements, cur)
			if !ok {
				return false
			}
			peakHashes = append(peakHashes, digest)
			continue
		}
		if nextPeakHash >= len(p.hashes) {
			return false // starved of peak digests
		}
		peakHashes = append(peakHashes, p.hashes[nextPeakHash])
		nextPeakHash++
	}

	if cur.element != len(elements) {
		return false // leftover elements: the claimed range is wrong
	}

	// The two hash cursors must meet exactly. The forward cursor consumed
	// hashes[:nextPeakHash], the backward cursor consumed
	// hashes[cur.sibling+1:]; any gap between them is proof data the
	// arithmetic never touched, which would let distinct proof byte
	// sequences verify for the same claim.
	if cur.sibling != nextPeakHash-1 {
		return false
	}

	return bytes.Equal(expectedRoot, hasher.HashRoot(p.size, peakHashes...))
}

// cursors tracks consumption of the caller supplied elements (forward)
// and of the proof's sibling segment (backward).
type cursors struct {
	element int
	sibling int
}

// reconstruct recomputes the digest of the subtree rooted at pos, whose
// leaf layer is twoH wide, from the claimed elements and the sibling
// digests popped off the back of the proof. It descends into any child
// subtree overlapping [startPos, endPos], left before right, and takes the
// digest of any child subtree outside it from the backward cursor. The
// second return is false when either cursor runs dry; the first failure
// aborts the whole verification.
func (p Proof) reconstruct(hasher *Hasher, pos, twoH, startPos, endPos uint64, elements [][]byte, cur *cursors) ([]byte, bool) {
	if twoH == 1 {
		if cur.element >= len(elements) {
			return nil, false
		}
		element := elements[cur.element]
		cur.element++
		return hasher.HashLeaf(pos, element), true
	}

	leftPos := pos - twoH
	rightPos := leftPos + twoH - 1
	var leftHash, rightHash []byte

	if leftPos >= startPos {
		// the left subtree holds part of the range
		digest, ok := p.reconstruct(hasher, leftPos, twoH>>1, startPos, endPos, elements, cur)
		if !ok {
			return nil, false
		}
		leftHash = digest
	}
	if leftPos < endPos {
		// the right subtree holds part of the range
		digest, ok := p.reconstruct(hasher, rightPos, twoH>>1, startPos, endPos, elements, cur)
		if !ok {
			return nil, false
		}
		rightHash = digest
	}
	if leftHash == nil {
		if cur.sibling < 0 {
			return nil, false
		}
		leftHash = p.hashes[cur.sibling]
		cur.sibling--
	}
	if rightHash == nil {
		if cur.sibling < 0 {
			return nil, false
		}
		rightHash = p.hashes[cur.sibling]
		cur.sibling--
	}
	return hasher.HashNode(pos, leftHash, rightHash), true
}
