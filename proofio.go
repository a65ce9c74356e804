package mmr

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var ErrInvalidProofEncoding = errors.New("invalid proof encoding")

// proofCBOR is the wire form of a Proof: the node count and the flat,
// order preserving digest sequence. Integer keys keep the envelope small.
type proofCBOR struct {
	Size   uint64   `cbor:"1,keyasint"`
	Hashes [][]byte `cbor:"2,keyasint"`
}

// MarshalCBOR encodes the proof losslessly; any decoder preserving the
// ordered structure reproduces a proof that verifies identically.
func (p Proof) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(proofCBOR{Size: p.size, Hashes: p.hashes})
}

// UnmarshalCBOR decodes a proof produced by MarshalCBOR. A decoding error
// here only means the envelope was damaged; a syntactically valid but
// forged proof is the verification algorithm's problem, not this one's.
func (p *Proof) UnmarshalCBOR(data []byte) error {
	var enc proofCBOR
	if err := cbor.Unmarshal(data, &enc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProofEncoding, err)
	}
	p.size = enc.Size
	p.hashes = enc.Hashes
	return nil
}
