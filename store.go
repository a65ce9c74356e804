package mmr

import (
	"errors"
	"fmt"
)

var ErrPosOutOfRange = errors.New("node position exceeds MMR size")

// NodeStore retains the digest of every MMR node, indexed by position.
// The accumulator is the sole writer: Append assigns the next position and
// nodes are never mutated once written. Proof extraction requires that all
// current peak digests and, for range proofs, the sibling digests along
// the covered peaks are retrievable by position.
type NodeStore interface {
	Append(digest []byte)
	Get(pos uint64) ([]byte, error)
	Size() uint64
}

var _ NodeStore = (*InMemoryNodeStore)(nil)

// InMemoryNodeStore keeps every node digest in a slice, in position order.
// It is the store used by New; durable backends implement NodeStore and
// are supplied through NewWithStore.
type InMemoryNodeStore struct {
	nodes [][]byte
}

func NewInMemoryNodeStore() *InMemoryNodeStore {
	return &InMemoryNodeStore{}
}

func (s *InMemoryNodeStore) Append(digest []byte) {
	s.nodes = append(s.nodes, digest)
}

func (s *InMemoryNodeStore) Get(pos uint64) ([]byte, error) {
	if pos >= uint64(len(s.nodes)) {
		return nil, fmt.Errorf("%w: got: %d, want < %d", ErrPosOutOfRange, pos, len(s.nodes))
	}
	return s.nodes[pos], nil
}

func (s *InMemoryNodeStore) Size() uint64 {
	return uint64(len(s.nodes))
}
