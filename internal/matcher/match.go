// Package matcher implements the signature search algorithm: given a
// basis's Signature and new target bytes, it finds runs of target
// bytes that reproduce a basis block and emits a Delta of COPY/LITERAL
// instructions, per spec §4 and §5.
//
// Corresponds to rsync/match.c:hash_search and matched, as reworked by
// the teacher's internal/rsyncd/match.go, reimplemented here over
// in-memory byte slices instead of *os.File since this package has no
// filesystem dependency.
package matcher

import (
	"bytes"

	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/log"
	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/matchindex"
	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/rsyncchecksum"
)

// Block is the subset of a basis block's signature the matcher needs:
// its weak checksum, truncated strong digest, and length.
type Block struct {
	Weak   uint32
	Strong []byte
	Offset int64
	Length int64
}

// Op is one emitted delta instruction: a COPY of basis[Offset:Offset+Length]
// spanning RunBlocks consecutive basis blocks starting at BlockIndex when
// BlockIndex>=0, or a LITERAL of Literal bytes when BlockIndex<0.
type Op struct {
	BlockIndex int32
	RunBlocks  int32 // COPY only; number of fused consecutive basis blocks
	Offset     int64
	Length     int64
	Literal    []byte
}

// Stats accumulates the observational counters a Search run produces:
// bytes emitted as COPY vs LITERAL, and how many weak-checksum hits a
// strong-digest comparison then rejected as a false alarm.
type Stats struct {
	MatchedBytes int64
	LiteralBytes int64
	CopyCount    int64
	FalseAlarms  int64
}

// strongDigest computes the truncated strong digest of buf the same
// way the signature builder did, so candidate verification compares
// like with like.
type strongDigest func(buf []byte) ([]byte, error)

// Search scans target for runs that reproduce a basis block described
// by blocks (ordered by block index, weak[i] already folded into
// blocks[i].Weak), chunking unmatched spans at chunkSize bytes, and
// returns the resulting ops in emission order.
//
// basis is the data the blocks describe; Search does not read it, since
// candidate strong digests are computed over target windows and
// compared with blocks[i].Strong. seed/checksumLength/digest mirror the
// signature's own digest kind, truncation and seed so that
// strong-digest comparisons agree.
func Search(basis, target []byte, blocks []Block, checksumLength int, digest strongDigest, seed int32, seeded bool, chunkSize int) ([]Op, Stats, error) {
	idx := make([]uint32, len(blocks))
	for i, b := range blocks {
		idx[i] = b.Weak
	}
	index := matchindex.Build(idx)

	var ops []Op
	var stats Stats
	lastMatch := int64(0)
	n := int64(len(target))

	if len(blocks) == 0 {
		if n > 0 {
			ops = flushLiteral(target, 0, n, chunkSize)
			stats.LiteralBytes = n
		}
		return ops, stats, nil
	}

	lastBlockLen := blocks[len(blocks)-1].Length
	end := n + 1 - lastBlockLen
	if end < 0 {
		end = 0
	}

	blockLength := blocks[0].Length

	offset := int64(0)
	windowLen := func(at int64) int64 {
		l := blockLength
		if remaining := n - at; remaining < l {
			l = remaining
		}
		return l
	}

	wl := windowLen(offset)
	var roll *rsyncchecksum.RollingChecksum
	if wl > 0 {
		roll = rsyncchecksum.NewRollingChecksum(target[offset:offset+wl], seed, seeded)
	}

	emitMatch := func(blockIndex int32, matchOffset, matchLen int64) {
		literalLen := matchOffset - lastMatch
		if literalLen > 0 {
			lits := flushLiteral(target, lastMatch, literalLen, chunkSize)
			ops = append(ops, lits...)
			stats.LiteralBytes += literalLen
		}
		if literalLen == 0 && len(ops) > 0 {
			if last := &ops[len(ops)-1]; last.BlockIndex >= 0 && last.BlockIndex+last.RunBlocks == blockIndex {
				// Adjacent in both target and basis: fuse into the
				// run instead of emitting a second COPY, per spec
				// §4.5 step d / §3's COPY(block_index, run_length).
				last.Length += matchLen
				last.RunBlocks++
				stats.MatchedBytes += matchLen
				stats.CopyCount++
				lastMatch = matchOffset + matchLen
				log.AtLeast(log.LevelDebug, "fused block %d into run starting at %d (now %d blocks)", blockIndex, last.BlockIndex, last.RunBlocks)
				return
			}
		}
		ops = append(ops, Op{
			BlockIndex: blockIndex,
			RunBlocks:  1,
			Offset:     blocks[blockIndex].Offset,
			Length:     matchLen,
		})
		stats.MatchedBytes += matchLen
		stats.CopyCount++
		lastMatch = matchOffset + matchLen
	}

	// verify checks whether block i's strong digest confirms a weak hit
	// at the current window, recording a false alarm if it does not.
	verify := func(i int32) (bool, error) {
		b := blocks[i]
		want := target[offset : offset+wl]
		strong, err := digest(want)
		if err != nil {
			return false, err
		}
		if !bytes.Equal(strong[:checksumLength], b.Strong[:checksumLength]) {
			stats.FalseAlarms++
			log.AtLeast(log.LevelDebug, "weak checksum collision at offset %d against block %d: strong digest mismatch", offset, i)
			return false, nil
		}
		return true, nil
	}

	var searchErr error
	nextWant := int32(-1) // block index that would extend the previous match, or -1 if none

outer:
	for {
		if roll == nil {
			break
		}
		tag := rsyncchecksum.Tag(roll.Value())
		sum := roll.Value()
		wl = windowLen(offset)

		var matched bool
		wantI := nextWant

		// want_i adjacency preference (spec §4.5 step c): if the block
		// that would extend the previous match also hits here, take
		// it ahead of the chain's lowest-index candidate, so that a
		// duplicated basis block doesn't break an otherwise-contiguous
		// run into a non-adjacent COPY.
		if wantI >= 0 && wantI < int32(len(blocks)) {
			b := blocks[wantI]
			if sum == b.Weak && wl == b.Length {
				ok, err := verify(wantI)
				if err != nil {
					return nil, Stats{}, err
				}
				if ok {
					emitMatch(wantI, offset, wl)
					offset += wl
					matched = true
					nextWant = wantI + 1
				}
			}
		}

		if !matched {
			index.Candidates(tag, func(i int32) bool {
				if i == wantI {
					return true // already tried above
				}
				b := blocks[i]
				if sum != b.Weak || wl != b.Length {
					return true
				}
				ok, err := verify(i)
				if err != nil {
					searchErr = err
					return false
				}
				if !ok {
					return true // false alarm
				}
				emitMatch(i, offset, wl)
				offset += wl
				matched = true
				nextWant = i + 1
				return false
			})
			if searchErr != nil {
				return nil, Stats{}, searchErr
			}
		}

		if offset >= end {
			break outer
		}
		if matched {
			wl = windowLen(offset)
			if wl <= 0 {
				break outer
			}
			roll = rsyncchecksum.NewRollingChecksum(target[offset:offset+wl], seed, seeded)
			continue outer
		}

		// null_tag: slide the window forward by one byte.
		nextOffset := offset + 1
		if nextOffset >= end {
			offset = nextOffset
			break outer
		}
		curLen := wl
		newEnd := offset + curLen
		if newEnd < n {
			roll.Roll(target[offset], target[newEnd])
		} else {
			wl2 := windowLen(nextOffset)
			if wl2 <= 0 {
				offset = nextOffset
				break outer
			}
			roll = rsyncchecksum.NewRollingChecksum(target[nextOffset:nextOffset+wl2], seed, seeded)
		}
		offset = nextOffset
	}

	if lastMatch < n {
		tailLen := n - lastMatch
		ops = append(ops, flushLiteral(target, lastMatch, tailLen, chunkSize)...)
		stats.LiteralBytes += tailLen
	}
	log.AtLeast(log.LevelInfo, "search complete: %d matched bytes, %d literal bytes, %d copies, %d false alarms", stats.MatchedBytes, stats.LiteralBytes, stats.CopyCount, stats.FalseAlarms)
	return ops, stats, nil
}

// flushLiteral splits a [start, start+length) target span into one or
// more LITERAL ops of at most chunkSize bytes each, per spec §5's
// chunking rule.
func flushLiteral(target []byte, start, length int64, chunkSize int) []Op {
	var ops []Op
	for l := int64(0); l < length; l += int64(chunkSize) {
		n1 := int64(chunkSize)
		if length-l < n1 {
			n1 = length - l
		}
		ops = append(ops, Op{
			BlockIndex: -1,
			Offset:     start + l,
			Length:     n1,
			Literal:    target[start+l : start+l+n1],
		})
	}
	return ops
}
