package rsync

import (
	"bytes"
	"errors"
	"testing"

	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/rsyncchecksum"
)

func testProtocol(t *testing.T, version int32) *Protocol {
	t.Helper()
	p, err := Negotiate(SessionConfig{LocalPreferred: version, RemotePreferred: version})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestBuildSignatureBlockCount(t *testing.T) {
	p := testProtocol(t, 30)
	basis := bytes.Repeat([]byte{0x42}, 10000)
	sig, err := BuildSignature(basis, p, 1000, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Header.ChecksumCount != 10 {
		t.Errorf("ChecksumCount = %d, want 10", sig.Header.ChecksumCount)
	}
	if sig.Header.RemainderLength != 0 {
		t.Errorf("RemainderLength = %d, want 0", sig.Header.RemainderLength)
	}
	if err := sig.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestBuildSignatureRemainderBlock(t *testing.T) {
	p := testProtocol(t, 30)
	basis := bytes.Repeat([]byte{0x07}, 2500)
	sig, err := BuildSignature(basis, p, 1000, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Header.ChecksumCount != 3 {
		t.Errorf("ChecksumCount = %d, want 3", sig.Header.ChecksumCount)
	}
	if sig.Header.RemainderLength != 500 {
		t.Errorf("RemainderLength = %d, want 500", sig.Header.RemainderLength)
	}
	if sig.BlockLen(2) != 500 {
		t.Errorf("BlockLen(2) = %d, want 500", sig.BlockLen(2))
	}
	if sig.BlockLen(0) != 1000 {
		t.Errorf("BlockLen(0) = %d, want 1000", sig.BlockLen(0))
	}
}

func TestBuildSignatureEmptyBasis(t *testing.T) {
	p := testProtocol(t, 30)
	sig, err := BuildSignature(nil, p, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Header.ChecksumCount != 0 || len(sig.Blocks) != 0 {
		t.Errorf("expected empty signature, got %+v", sig.Header)
	}
}

func TestBuildSignatureDeterministic(t *testing.T) {
	p := testProtocol(t, 30)
	basis := []byte("the quick brown fox jumps over the lazy dog, repeated for bulk")
	a, err := BuildSignature(basis, p, 16, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildSignature(basis, p, 16, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Blocks {
		if a.Blocks[i].Weak != b.Blocks[i].Weak {
			t.Errorf("block %d weak mismatch across runs", i)
		}
		if !bytes.Equal(a.Blocks[i].Strong, b.Blocks[i].Strong) {
			t.Errorf("block %d strong mismatch across runs", i)
		}
	}
}

func TestBuildSignatureSeedChangesStrongDigest(t *testing.T) {
	basis := []byte("some content long enough to span a whole block of data, really")

	p1 := testProtocol(t, 30)
	p1.Seed = 1

	p2 := testProtocol(t, 30)
	p2.Seed = 2

	sigA, err := BuildSignature(basis, p1, 16, 0)
	if err != nil {
		t.Fatal(err)
	}
	sigB, err := BuildSignature(basis, p2, 16, 0)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(sigA.Blocks[0].Strong, sigB.Blocks[0].Strong) {
		t.Error("different seeds produced identical strong digests")
	}
}

func TestBuildSignatureRejectsMemoryCap(t *testing.T) {
	p := testProtocol(t, 30)
	basis := bytes.Repeat([]byte{0x01}, 1<<20)
	_, err := BuildSignature(basis, p, 700, 8)
	if err == nil {
		t.Fatal("expected error for tiny memory cap")
	}
	var rerr *Error
	if !errors.As(err, &rerr) {
		t.Fatalf("error is not a *rsync.Error: %v", err)
	}
	if rerr.Kind != ResourceLimit {
		t.Errorf("Kind = %v, want ResourceLimit", rerr.Kind)
	}
}

func TestBuildSignatureChecksumLengthWithinDigestBounds(t *testing.T) {
	p := testProtocol(t, 30)
	basis := bytes.Repeat([]byte{0x11}, 50000)
	sig, err := BuildSignature(basis, p, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	full := int32(rsyncchecksum.FullLen(p.DefaultDigest))
	if sig.Header.ChecksumLength < 2 || sig.Header.ChecksumLength > full {
		t.Errorf("ChecksumLength = %d out of [2, %d]", sig.Header.ChecksumLength, full)
	}
}
