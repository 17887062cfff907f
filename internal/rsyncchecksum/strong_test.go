package rsyncchecksum_test

import (
	"bytes"
	"testing"

	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/rsyncchecksum"
)

func TestBlockDigestDeterministic(t *testing.T) {
	kinds := []rsyncchecksum.Kind{
		rsyncchecksum.MD4,
		rsyncchecksum.MD5,
		rsyncchecksum.SHA1,
		rsyncchecksum.SHA256,
		rsyncchecksum.XXHash64,
		rsyncchecksum.XXHash3_64,
		rsyncchecksum.XXHash3_128,
	}
	for _, k := range kinds {
		a, err := rsyncchecksum.BlockDigest(k, 7, []byte("some block contents"))
		if err != nil {
			t.Fatalf("%v: %v", k, err)
		}
		b, err := rsyncchecksum.BlockDigest(k, 7, []byte("some block contents"))
		if err != nil {
			t.Fatalf("%v: %v", k, err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("%v: digest not deterministic", k)
		}
		if len(a) != rsyncchecksum.FullLen(k) {
			t.Errorf("%v: len=%d want %d", k, len(a), rsyncchecksum.FullLen(k))
		}
	}
}

func TestBlockDigestSeedChangesOutput(t *testing.T) {
	a, err := rsyncchecksum.BlockDigest(rsyncchecksum.MD5, 1, []byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := rsyncchecksum.BlockDigest(rsyncchecksum.MD5, 2, []byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Error("different seeds produced identical digests")
	}
}

func TestFileDigestSeeding(t *testing.T) {
	mk := func(seeded bool) []byte {
		fd, err := rsyncchecksum.NewFileDigest(rsyncchecksum.SHA256, 99, seeded)
		if err != nil {
			t.Fatal(err)
		}
		fd.Write([]byte("chunk one"))
		fd.Write([]byte("chunk two"))
		return fd.Sum()
	}
	unseeded := mk(false)
	seeded := mk(true)
	if bytes.Equal(unseeded, seeded) {
		t.Error("seeded and unseeded whole-file digests must differ")
	}
}
