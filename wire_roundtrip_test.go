package rsync

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Property 3: wire round-trip — decode(encode(sig)) = sig and
// decode(encode(delta)) = delta, across the supported protocol range.
func TestPropertyWireRoundTripAcrossProtocolVersions(t *testing.T) {
	basis := bytes.Repeat([]byte("round trip across protocols "), 30)
	target := append(append([]byte{}, basis[:200]...), []byte("divergent middle section")...)
	target = append(target, basis[200:]...)

	for _, version := range []int32{20, 26, 27, 29, 30, 31, 32} {
		p := testProtocol(t, version)

		sig, err := BuildSignature(basis, p, 29, 0)
		if err != nil {
			t.Fatalf("version %d: BuildSignature: %v", version, err)
		}

		var sigBuf bytes.Buffer
		if err := sig.WriteTo(&sigBuf, p.Version); err != nil {
			t.Fatalf("version %d: WriteTo: %v", version, err)
		}
		decodedSig, err := ReadSignature(&sigBuf, p.Version, int64(len(basis)))
		if err != nil {
			t.Fatalf("version %d: ReadSignature: %v", version, err)
		}
		if diff := cmp.Diff(sig.Header, decodedSig.Header); diff != "" {
			t.Fatalf("version %d: header mismatch (-want +got):\n%s", version, diff)
		}
		if diff := cmp.Diff(sig.Blocks, decodedSig.Blocks); diff != "" {
			t.Fatalf("version %d: block mismatch (-want +got):\n%s", version, diff)
		}

		delta, _, err := ComputeDelta(basis, target, sig, p)
		if err != nil {
			t.Fatalf("version %d: ComputeDelta: %v", version, err)
		}

		var deltaBuf bytes.Buffer
		if err := WriteDelta(&deltaBuf, delta, sig, p); err != nil {
			t.Fatalf("version %d: WriteDelta: %v", version, err)
		}
		decodedDelta, err := ReadDelta(&deltaBuf, sig, p)
		if err != nil {
			t.Fatalf("version %d: ReadDelta: %v", version, err)
		}

		patched, err := Patch(basis, decodedDelta, p)
		if err != nil {
			t.Fatalf("version %d: Patch: %v", version, err)
		}
		if !bytes.Equal(patched, target) {
			t.Fatalf("version %d: wire-round-tripped delta did not reproduce target", version)
		}
	}
}
