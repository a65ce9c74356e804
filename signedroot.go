package mmr

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/veraison/go-cose"
)

// SignedRoot is the payload of a root attestation: the accumulator's node
// count and root digest at signing time, plus the unix time the signature
// was produced. It is how a "previously trusted root" reaches verifiers
// that were not present when the log grew.
type SignedRoot struct {
	// Timestamp is the unix time read at the time the root was signed
	Timestamp uint64 `cbor:"1,keyasint"`
	MMRSize   uint64 `cbor:"2,keyasint"`
	Root      []byte `cbor:"3,keyasint"`
}

// Sign encodes the SignedRoot as CBOR and wraps it in a COSE Sign1
// envelope produced by signer. Key management stays with the caller.
func (sr SignedRoot) Sign(rand io.Reader, signer cose.Signer) ([]byte, error) {
	payload, err := cbor.Marshal(sr)
	if err != nil {
		return nil, fmt.Errorf("encoding signed root payload: %w", err)
	}
	msg := cose.NewSign1Message()
	msg.Headers.Protected.SetAlgorithm(signer.Algorithm())
	msg.Payload = payload
	if err := msg.Sign(rand, nil, signer); err != nil {
		return nil, fmt.Errorf("signing root: %w", err)
	}
	return msg.MarshalCBOR()
}

// VerifySignedRoot checks the COSE envelope against verifier and returns
// the attested root payload. The returned root is only as trustworthy as
// the key behind verifier.
func VerifySignedRoot(data []byte, verifier cose.Verifier) (*SignedRoot, error) {
	var msg cose.Sign1Message
	if err := msg.UnmarshalCBOR(data); err != nil {
		return nil, fmt.Errorf("decoding signed root envelope: %w", err)
	}
	if err := msg.Verify(nil, verifier); err != nil {
		return nil, err
	}
	sr := &SignedRoot{}
	if err := cbor.Unmarshal(msg.Payload, sr); err != nil {
		return nil, fmt.Errorf("decoding signed root payload: %w", err)
	}
	return sr, nil
}
