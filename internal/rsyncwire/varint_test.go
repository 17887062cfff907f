package rsyncwire

import (
	"bytes"
	"io"
	"math/rand"
	"testing"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 127, 128, -128, -129, 1 << 20, -(1 << 20), 1<<62 - 1, -(1 << 62)}
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		values = append(values, rnd.Int63()-rnd.Int63())
	}
	for _, v := range values {
		var buf bytes.Buffer
		if err := WriteVarint(&buf, v); err != nil {
			t.Fatalf("WriteVarint(%d): %v", v, err)
		}
		got, err := ReadVarint(&buf)
		if err != nil {
			t.Fatalf("ReadVarint after WriteVarint(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round-trip(%d) = %d", v, got)
		}
	}
}

func TestVarint32RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 1 << 20, -(1 << 20), 1<<31 - 1, -(1 << 31)} {
		var buf bytes.Buffer
		if err := WriteVarint32(&buf, v); err != nil {
			t.Fatalf("WriteVarint32(%d): %v", v, err)
		}
		got, err := ReadVarint32(&buf)
		if err != nil {
			t.Fatalf("ReadVarint32: %v", err)
		}
		if got != v {
			t.Fatalf("round-trip(%d) = %d", v, got)
		}
	}
}

func TestReadVarintNeverPanicsOnGarbage(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 2000; i++ {
		n := rnd.Intn(12)
		buf := make([]byte, n)
		rnd.Read(buf)
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("ReadVarint panicked on %x: %v", buf, r)
				}
			}()
			_, _ = ReadVarint(bytes.NewReader(buf))
		}()
	}
}

func TestReadVarintRejectsOversizedHeader(t *testing.T) {
	_, err := ReadVarint(bytes.NewReader([]byte{200}))
	if err != ErrMalformed {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
}

func TestReadVarintTruncated(t *testing.T) {
	_, err := ReadVarint(bytes.NewReader([]byte{4, 1, 2}))
	if err != ErrMalformed {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
}

func TestReadVarintEOF(t *testing.T) {
	_, err := ReadVarint(bytes.NewReader(nil))
	if err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}
