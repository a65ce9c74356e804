package mmr

import (
	"encoding/binary"
	"hash"

	sha256 "github.com/minio/sha256-simd"
)

// Domain separation prefixes. Leaf, interior node and root digests are
// computed over disjoint input domains, so a digest of one kind can never
// be replayed as another kind by an adversary assembling a forged proof.
const (
	LeafPrefix = 0
	NodePrefix = 1
	RootPrefix = 2
)

// Hasher derives the three digest kinds an MMR is built from. It wraps a
// generic fixed-output hash.Hash and resets it at the start of every
// computation, so a single Hasher can be reused across calls. It is not
// safe for concurrent use; verification constructs its own.
type Hasher struct {
	baseHasher hash.Hash
	buf        [8]byte
}

func NewHasher(baseHasher hash.Hash) *Hasher {
	return &Hasher{baseHasher: baseHasher}
}

// NewSha256Hasher returns a Hasher over SHA-256, the default digest for
// this package's tests and tools.
func NewSha256Hasher() *Hasher {
	return NewHasher(sha256.New())
}

// Size returns the digest length in bytes.
func (h *Hasher) Size() int {
	return h.baseHasher.Size()
}

// HashLeaf computes H(LeafPrefix || pos || element). Binding the position
// into the digest means the same element content at two different
// positions yields two different leaf digests.
//
//nolint:errcheck // hash.Hash.Write never returns an error
func (h *Hasher) HashLeaf(pos uint64, element []byte) []byte {
	h.baseHasher.Reset()
	h.baseHasher.Write([]byte{LeafPrefix})
	h.writeUint64(pos)
	h.baseHasher.Write(element)
	return h.baseHasher.Sum(nil)
}

// HashNode computes H(NodePrefix || pos || left || right) for the interior
// node at pos. left and right are not interchangeable.
//
//nolint:errcheck
func (h *Hasher) HashNode(pos uint64, left, right []byte) []byte {
	h.baseHasher.Reset()
	h.baseHasher.Write([]byte{NodePrefix})
	h.writeUint64(pos)
	h.baseHasher.Write(left)
	h.baseHasher.Write(right)
	return h.baseHasher.Sum(nil)
}

// HashRoot bags the ordered peak digests, highest peak first, together
// with the node count: H(RootPrefix || size || peak_1 || ... || peak_n).
// Binding size into the root keeps two structures of different sizes that
// happen to share peak digests from sharing a root.
//
//nolint:errcheck
func (h *Hasher) HashRoot(size uint64, peakHashes ...[]byte) []byte {
	h.baseHasher.Reset()
	h.baseHasher.Write([]byte{RootPrefix})
	h.writeUint64(size)
	for _, peakHash := range peakHashes {
		h.baseHasher.Write(peakHash)
	}
	return h.baseHasher.Sum(nil)
}

// EmptyRoot returns the root digest of an MMR with no nodes.
func (h *Hasher) EmptyRoot() []byte {
	return h.HashRoot(0)
}

//nolint:errcheck
func (h *Hasher) writeUint64(v uint64) {
	binary.BigEndian.PutUint64(h.buf[:], v)
	h.baseHasher.Write(h.buf[:])
}
