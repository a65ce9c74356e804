package mmr

import "hash"

// MMR is the accumulator: it appends elements, owns position assignment
// and the growing peak set, and extracts proofs against its current root.
//
// An MMR assumes a single mutator; concurrent Add calls on one instance
// require external mutual exclusion. Extracted proofs are immutable values
// and freely shareable.
type MMR struct {
	hasher *Hasher
	store  NodeStore
	peaks  []peakNode
}

// peakNode is one entry of the accumulator's peak stack, ordered left to
// right, which is also descending height.
type peakNode struct {
	height uint64
	pos    uint64
	digest []byte
}

// New returns an empty MMR hashing with baseHasher and keeping all node
// digests in memory.
func New(baseHasher hash.Hash) *MMR {
	return NewWithStore(baseHasher, NewInMemoryNodeStore())
}

// NewWithStore returns an empty MMR writing node digests through store.
// The store must start empty: the accumulator assigns positions from zero.
func NewWithStore(baseHasher hash.Hash, store NodeStore) *MMR {
	return &MMR{hasher: NewHasher(baseHasher), store: store}
}

// Size returns the total node count, leaves and interior nodes combined.
func (m *MMR) Size() uint64 {
	return m.store.Size()
}

// Add appends element as the next leaf and returns its position. Whenever
// the two most recent peaks share a height they are merged under a new
// interior node, bottom up, the way a binary counter increments.
func (m *MMR) Add(element []byte) uint64 {
	leafPos := m.store.Size()
	digest := m.hasher.HashLeaf(leafPos, element)
	m.store.Append(digest)
	m.peaks = append(m.peaks, peakNode{height: 0, pos: leafPos, digest: digest})

	for len(m.peaks) >= 2 && m.peaks[len(m.peaks)-1].height == m.peaks[len(m.peaks)-2].height {
		right := m.peaks[len(m.peaks)-1]
		left := m.peaks[len(m.peaks)-2]
		m.peaks = m.peaks[:len(m.peaks)-2]

		parentPos := m.store.Size()
		parentDigest := m.hasher.HashNode(parentPos, left.digest, right.digest)
		m.store.Append(parentDigest)
		m.peaks = append(m.peaks, peakNode{height: right.height + 1, pos: parentPos, digest: parentDigest})
	}
	return leafPos
}

// Root bags the current ordered peak digests with the current size.
func (m *MMR) Root() []byte {
	peakHashes := make([][]byte, len(m.peaks))
	for i, p := range m.peaks {
		peakHashes[i] = p.digest
	}
	return m.hasher.HashRoot(m.Size(), peakHashes...)
}

// Proof extracts an inclusion proof for the single leaf at pos.
func (m *MMR) Proof(pos uint64) (Proof, error) {
	return m.RangeProof(pos, pos)
}

// RangeProof extracts a proof that the leaves at positions startPos
// through endPos inclusive are included under the current root. Peaks
// whose subtree lies entirely outside the range contribute their full
// digest to the front of the proof's hash sequence; peaks overlapping the
// range contribute the sibling digests of every subtree the verifier's
// reconstruction will not descend into. The elements themselves are never
// part of the proof, the verifier supplies them independently.
func (m *MMR) RangeProof(startPos, endPos uint64) (Proof, error) {
	size := m.Size()
	var peakHashes [][]byte
	var siblings [][]byte // in the order verification consumes them

	it := NewPeakIterator(size)
	for peak, ok := it.Next(); ok; peak, ok = it.Next() {
		if peak.Pos >= startPos && peak.Leftmost() <= endPos {
			if err := m.collectSiblings(peak.Pos, uint64(1)<<peak.Height, startPos, endPos, &siblings); err != nil {
				return Proof{}, err
			}
			continue
		}
		digest, err := m.store.Get(peak.Pos)
		if err != nil {
			return Proof{}, err
		}
		peakHashes = append(peakHashes, digest)
	}

	// The sibling digests ride at the back of the same flat sequence,
	// reversed, so a verifier reading from the back pops them in exactly
	// reconstruction order.
	hashes := peakHashes
	for i := len(siblings) - 1; i >= 0; i-- {
		hashes = append(hashes, siblings[i])
	}
	return Proof{size: size, hashes: hashes}, nil
}

// collectSiblings mirrors the verifier's recursive reconstruction over the
// subtree rooted at pos, appending the digest of every child subtree the
// reconstruction will not descend into. The append order must match the
// reconstruction's pop order: both children first, then the undescended
// left, then the undescended right.
func (m *MMR) collectSiblings(pos, twoH, startPos, endPos uint64, siblings *[][]byte) error {
	if twoH == 1 {
		return nil // a leaf in range; the verifier supplies the element
	}

	leftPos := pos - twoH
	rightPos := leftPos + twoH - 1

	if leftPos >= startPos {
		if err := m.collectSiblings(leftPos, twoH>>1, startPos, endPos, siblings); err != nil {
			return err
		}
	}
	if leftPos < endPos {
		if err := m.collectSiblings(rightPos, twoH>>1, startPos, endPos, siblings); err != nil {
			return err
		}
	}
	if leftPos < startPos {
		digest, err := m.store.Get(leftPos)
		if err != nil {
			return err
		}
		*siblings = append(*siblings, digest)
	}
	if leftPos >= endPos {
		digest, err := m.store.Get(rightPos)
		if err != nil {
			return err
		}
		*siblings = append(*siblings, digest)
	}
	return nil
}
