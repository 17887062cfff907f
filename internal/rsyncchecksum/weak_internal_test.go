package rsyncchecksum

import (
	"math/rand"
	"testing"
)

func TestRollingChecksumMatchesFromScratch(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	data := make([]byte, 4096)
	rnd.Read(data)

	const window = 64
	for _, seeded := range []bool{false, true} {
		roll := NewRollingChecksum(data[:window], 42, seeded)
		for i := 0; i+window < len(data)-1; i++ {
			want := checksum1Seeded(data[i+1:i+1+window], 42, seeded)
			roll.Roll(data[i], data[i+window])
			if got := roll.Value(); got != want {
				t.Fatalf("seeded=%v i=%d: roll=%d want=%d", seeded, i, got, want)
			}
		}
	}
}

func TestTagDeterministic(t *testing.T) {
	sum := Checksum1([]byte("hello world"))
	if Tag(sum) != Tag(sum) {
		t.Fatal("Tag is not deterministic")
	}
}

func TestChecksum1Empty(t *testing.T) {
	if got := Checksum1(nil); got != 0 {
		t.Errorf("Checksum1(nil) = %d, want 0", got)
	}
}
