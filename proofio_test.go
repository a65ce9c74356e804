package mmr

import (
	"crypto/sha256"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProofCBORRoundTrip(t *testing.T) {
	m := New(sha256.New())
	var elements [][]byte
	var positions []uint64
	for i := 0; i < 23; i++ {
		elements = append(elements, []byte{byte(i), 0xaa})
		positions = append(positions, m.Add(elements[i]))
	}
	root := m.Root()

	proof, err := m.RangeProof(positions[5], positions[11])
	require.NoError(t, err)

	wire, err := cbor.Marshal(proof)
	require.NoError(t, err)

	var got Proof
	require.NoError(t, cbor.Unmarshal(wire, &got))
	assert.Equal(t, proof.Size(), got.Size())
	assert.Equal(t, proof.Hashes(), got.Hashes())

	// the decoded proof verifies exactly like the original
	assert.True(t, got.VerifyRangeInclusion(sha256.New(), elements[5:12], positions[5], positions[11], root))
}

func TestProofCBORRejectsGarbage(t *testing.T) {
	var p Proof
	err := p.UnmarshalCBOR([]byte{0xff, 0x00, 0x01})
	require.ErrorIs(t, err, ErrInvalidProofEncoding)
}

func TestProofCBOREmptyHashes(t *testing.T) {
	// a single-leaf MMR proves its only element with no hashes at all
	m := New(sha256.New())
	pos := m.Add([]byte("only"))
	proof, err := m.Proof(pos)
	require.NoError(t, err)
	require.Empty(t, proof.Hashes())

	wire, err := proof.MarshalCBOR()
	require.NoError(t, err)
	var got Proof
	require.NoError(t, got.UnmarshalCBOR(wire))
	assert.True(t, got.VerifyElementInclusion(sha256.New(), []byte("only"), pos, m.Root()))
}
