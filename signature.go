package rsync

import (
	"errors"

	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/log"
	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/rsyncchecksum"
	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/rsynccommon"
)

// BuildSignature computes the block signature of basis under the given
// Protocol: the block-size plan (spec §4.2) followed by one weak+strong
// digest pair per block (spec §4.3).
//
// Corresponds to rsync/generator.c:generate_and_send_sums, as reworked
// by the teacher's generateAndSendSums into a single in-memory pass
// rather than a generate-then-send pipeline.
func BuildSignature(basis []byte, p *Protocol, blockLengthOverride int32, memoryCap int64) (*Signature, error) {
	plan, err := rsynccommon.Plan(int64(len(basis)), blockLengthOverride, rsynccommon.Bounds{
		MinBlockLength: minBlockLength,
		MaxBlockLength: p.MaxBlockLength,
		FullDigestLen:  int32(rsyncchecksum.FullLen(p.DefaultDigest)),
		MemoryCap:      memoryCap,
	})
	if err != nil {
		var capErr *rsynccommon.MemoryCapExceeded
		if errors.As(err, &capErr) {
			return nil, wrapf(ResourceLimit, err, "planning signature block sizes")
		}
		return nil, wrapf(ConfigInvalid, err, "planning signature block sizes")
	}
	log.AtLeast(log.LevelDebug, "generating signature for %d bytes: %d blocks of length %d", len(basis), plan.ChecksumCount, plan.BlockLength)

	sig := &Signature{
		Header: SumHead{
			ChecksumCount:   plan.ChecksumCount,
			BlockLength:     plan.BlockLength,
			ChecksumLength:  plan.ChecksumLength,
			RemainderLength: plan.RemainderLength,
		},
		Blocks: make([]Block, plan.ChecksumCount),
	}

	for i := int32(0); i < plan.ChecksumCount; i++ {
		start := int64(i) * int64(plan.BlockLength)
		end := start + int64(plan.BlockLength)
		if i == plan.ChecksumCount-1 && plan.RemainderLength != 0 {
			end = start + int64(plan.RemainderLength)
		}
		block := basis[start:end]

		weak := rsyncchecksum.Checksum1Seeded(block, p.Seed, p.UsesVarint)
		strong, err := rsyncchecksum.BlockDigest(p.DefaultDigest, p.Seed, block)
		if err != nil {
			return nil, wrapf(ConfigInvalid, err, "computing strong digest for block %d", i)
		}
		sig.Blocks[i] = Block{Weak: weak, Strong: strong[:plan.ChecksumLength]}
	}

	log.AtLeast(log.LevelInfo, "signature complete: %d blocks, checksum length %d", sig.Header.ChecksumCount, sig.Header.ChecksumLength)
	return sig, nil
}
