package rsync

import (
	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/matcher"
	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/rsyncchecksum"
)

// ComputeDelta scans target against sig (the signature of basis) and
// returns the Delta of COPY/LITERAL instructions that reconstructs
// target from basis, per spec §4 and §5.
//
// Corresponds to rsync/match.c:hash_search, wrapping internal/matcher
// with the block offset/digest bookkeeping a Signature already knows.
func ComputeDelta(basis, target []byte, sig *Signature, p *Protocol) (*Delta, Stats, error) {
	if err := sig.Validate(); err != nil {
		return nil, Stats{}, err
	}

	blocks := make([]matcher.Block, len(sig.Blocks))
	for i, b := range sig.Blocks {
		blocks[i] = matcher.Block{
			Weak:   b.Weak,
			Strong: b.Strong,
			Offset: int64(i) * int64(sig.Header.BlockLength),
			Length: sig.BlockLen(i),
		}
	}

	digest := func(buf []byte) ([]byte, error) {
		return rsyncchecksum.BlockDigest(p.DefaultDigest, p.Seed, buf)
	}

	ops, ms, err := matcher.Search(basis, target, blocks, int(sig.Header.ChecksumLength), digest, p.Seed, p.UsesVarint, chunkSize)
	if err != nil {
		return nil, Stats{}, wrapf(DeltaInvalid, err, "searching for matches")
	}

	instructions := make([]Instruction, len(ops))
	for i, op := range ops {
		if op.BlockIndex >= 0 {
			instructions[i] = Instruction{
				Kind:       OpCopy,
				BlockIndex: op.BlockIndex,
				RunLength:  op.RunBlocks,
				Offset:     op.Offset,
				Length:     op.Length,
			}
		} else {
			instructions[i] = Instruction{Kind: OpLiteral, Length: op.Length, Literal: op.Literal}
		}
	}

	stats := Stats{
		MatchedBytes: ms.MatchedBytes,
		LiteralBytes: ms.LiteralBytes,
		CopyCount:    ms.CopyCount,
		FalseAlarms:  ms.FalseAlarms,
	}
	return &Delta{Instructions: instructions, TargetLength: int64(len(target))}, stats, nil
}
