// Package rsynccommon contains the block-size planning logic the
// signature builder and the matcher both depend on.
package rsynccommon

import (
	"fmt"
	"math"
)

// Bounds collects the protocol-dependent limits the planner enforces.
type Bounds struct {
	MinBlockLength int32
	MaxBlockLength int32
	FullDigestLen  int32
	MemoryCap      int64 // 0 means unbounded
}

// MemoryCapExceeded is returned by Plan when the planned signature
// would need more memory than Bounds.MemoryCap allows, distinguishable
// from Plan's other failures (bad arguments, block length out of
// range) so a caller can map it to a specific error kind rather than a
// generic one.
type MemoryCapExceeded struct {
	ChecksumCount int32
	NeededBytes   int64
	Cap           int64
}

func (e *MemoryCapExceeded) Error() string {
	return fmt.Sprintf("rsynccommon: signature for %d blocks would need %d bytes, exceeding cap %d", e.ChecksumCount, e.NeededBytes, e.Cap)
}

// SumSizes mirrors rsync generator.c:sum_sizes_sqroot's outputs: the
// nominal block length B, the truncated strong-digest length S, the
// block count N, and the remainder length R of the final block.
type SumSizes struct {
	BlockLength     int32
	ChecksumLength  int32
	ChecksumCount   int32
	RemainderLength int32
}

// Plan computes a SumSizes for a basis of length contentLen. If
// blockLenOverride is non-zero, it is used verbatim (after bounds
// checking) in place of the square-root heuristic, mirroring rsync's
// --block-size flag.
//
// Corresponds to rsync/generator.c:sum_sizes_sqroot.
func Plan(contentLen int64, blockLenOverride int32, b Bounds) (SumSizes, error) {
	if contentLen < 0 {
		return SumSizes{}, fmt.Errorf("rsynccommon: negative content length %d", contentLen)
	}

	var blockLength int32
	if blockLenOverride != 0 {
		if blockLenOverride < 0 {
			return SumSizes{}, fmt.Errorf("rsynccommon: negative block length %d", blockLenOverride)
		}
		if blockLenOverride > b.MaxBlockLength {
			return SumSizes{}, fmt.Errorf("rsynccommon: block length %d exceeds max %d for this protocol", blockLenOverride, b.MaxBlockLength)
		}
		blockLength = blockLenOverride
	} else {
		// The block size is a rounded square root of the file length,
		// with a minimum of BLOCK_SIZE (700) and rounded up to a
		// multiple of eight.
		blockLength = int32(math.Sqrt(float64(contentLen)))
		if blockLength < b.MinBlockLength {
			blockLength = b.MinBlockLength
		}
		if blockLength > b.MaxBlockLength {
			blockLength = b.MaxBlockLength
		}
		if rem := blockLength % 8; rem != 0 {
			blockLength += 8 - rem
		}
		if blockLength > b.MaxBlockLength {
			blockLength = b.MaxBlockLength
		}
	}

	checksumLength := checksumLength(contentLen, blockLength, b.FullDigestLen)

	var checksumCount, remainderLength int32
	if contentLen == 0 || blockLength == 0 {
		checksumCount = 0
		remainderLength = 0
	} else {
		checksumCount = int32((contentLen + int64(blockLength) - 1) / int64(blockLength))
		remainderLength = int32(contentLen % int64(blockLength))
	}

	if b.MemoryCap > 0 {
		perBlock := int64(4 + checksumLength) // weak uint32 + truncated strong digest
		if needed := int64(checksumCount) * perBlock; needed > b.MemoryCap {
			return SumSizes{}, &MemoryCapExceeded{ChecksumCount: checksumCount, NeededBytes: needed, Cap: b.MemoryCap}
		}
	}

	return SumSizes{
		BlockLength:     blockLength,
		ChecksumLength:  checksumLength,
		ChecksumCount:   checksumCount,
		RemainderLength: remainderLength,
	}, nil
}

// checksumLength implements the Donovan Baarda formula rsync uses to
// decide how many bytes of the strong digest to keep:
//
//	blocksum_bits = BLOCKSUM_EXP + 2*log2(file_len) - log2(block_len)
//
// clamped to [2, fullDigestLen] bytes.
func checksumLength(contentLen int64, blockLength int32, fullDigestLen int32) int32 {
	const blocksumExp = 10 // rsync's BLOCKSUM_BIAS-derived constant

	if contentLen <= 0 || blockLength <= 0 {
		return 2
	}

	bits := float64(blocksumExp) + 2*math.Log2(float64(contentLen)) - math.Log2(float64(blockLength))
	bytes := int32(math.Ceil(bits / 8))
	if bytes < 2 {
		bytes = 2
	}
	if bytes > fullDigestLen {
		bytes = fullDigestLen
	}
	return bytes
}
