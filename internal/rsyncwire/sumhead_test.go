package rsyncwire

import (
	"bytes"
	"testing"
)

func TestSumHeadRoundTripNewProtocol(t *testing.T) {
	f := SumHeadFields{ChecksumCount: 5, BlockLength: 700, ChecksumLength: 16, RemainderLength: 42}
	var buf bytes.Buffer
	if err := WriteSumHead(&buf, 30, f); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSumHead(&buf, 30, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != f {
		t.Fatalf("got %+v, want %+v", got, f)
	}
}

func TestSumHeadRoundTripOldProtocol(t *testing.T) {
	f := SumHeadFields{ChecksumCount: 3, BlockLength: 700, ChecksumLength: 16}
	var buf bytes.Buffer
	if err := WriteSumHead(&buf, 26, f); err != nil {
		t.Fatal(err)
	}
	// basis length 2100 = 3*700 exactly, so R should come back 0.
	got, err := ReadSumHead(&buf, 26, 2100)
	if err != nil {
		t.Fatal(err)
	}
	if got.ChecksumCount != f.ChecksumCount || got.BlockLength != f.BlockLength || got.ChecksumLength != f.ChecksumLength {
		t.Fatalf("got %+v, want %+v (ignoring R)", got, f)
	}
	if got.RemainderLength != 0 {
		t.Errorf("RemainderLength = %d, want 0", got.RemainderLength)
	}
}

func TestSumHeadOldProtocolRemainderInferred(t *testing.T) {
	f := SumHeadFields{ChecksumCount: 3, BlockLength: 700, ChecksumLength: 16}
	var buf bytes.Buffer
	if err := WriteSumHead(&buf, 26, f); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSumHead(&buf, 26, 2101) // one byte into a 4th block
	if err != nil {
		t.Fatal(err)
	}
	if got.RemainderLength != 1 {
		t.Errorf("RemainderLength = %d, want 1", got.RemainderLength)
	}
}

func TestSumHeadMalformedTruncated(t *testing.T) {
	_, err := ReadSumHead(bytes.NewReader([]byte{1, 2, 3}), 30, 0)
	if err != ErrMalformed {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
}
