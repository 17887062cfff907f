// Package matchindex builds the hash table the matcher uses to locate
// candidate basis blocks by weak checksum tag, per spec §4.4.
//
// Corresponds to rsync's build_hash_table (match.c), reworked per
// Design Notes §9 from a chain-of-pointers structure into the two flat
// arrays used here: head (tag -> first block index, or -1) and next
// (block index -> next block index sharing the same tag, or -1).
package matchindex

import "github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/rsyncchecksum"

// Index is the built hash table: for a given tag, Head[tag] gives the
// first block index to examine, and Next[i] chains to the following
// block index sharing that tag, terminated by -1.
type Index struct {
	Head [1 << 16]int32
	Next []int32
}

// Build constructs an Index over weak checksums, one per basis block,
// in block order (weak[i] is the tag-able weak checksum of block i).
//
// Blocks are linked into their tag's chain in descending index order
// (i = N-1 downto 0) so that walking a chain from Head forward visits
// ascending block indices — the lowest index reachable from the head
// is examined first, giving the matcher's tie-break its "lowest index
// wins" guarantee for free.
func Build(weak []uint32) *Index {
	idx := &Index{Next: make([]int32, len(weak))}
	for t := range idx.Head {
		idx.Head[t] = -1
	}
	for i := len(weak) - 1; i >= 0; i-- {
		tag := rsyncchecksum.Tag(weak[i])
		idx.Next[i] = idx.Head[tag]
		idx.Head[tag] = int32(i)
	}
	return idx
}

// Candidates calls yield once per block index chained under tag, in
// ascending index order, stopping early if yield returns false.
func (idx *Index) Candidates(tag uint16, yield func(blockIndex int32) bool) {
	for i := idx.Head[tag]; i != -1; i = idx.Next[i] {
		if !yield(i) {
			return
		}
	}
}
