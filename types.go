package rsync

import (
	"io"

	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/rsyncwire"
)

// Block is one entry of a Signature: the weak checksum and the
// truncated strong digest of one basis block.
//
// Corresponds to rsync/rsync.h's struct sum_buf, minus the Offset/Len
// bookkeeping a Signature's header already determines deterministically
// (block i covers basis bytes [i*B, i*B+L_i)).
type Block struct {
	Weak   uint32
	Strong []byte // exactly Header.ChecksumLength bytes
}

// SumHead is the wire-level header of a Signature: block count N,
// nominal block length B, truncated strong-digest length S, and the
// remainder length R of the final block.
//
// Corresponds to rsync/rsync.h's struct sum_struct.
type SumHead struct {
	ChecksumCount   int32
	BlockLength     int32
	ChecksumLength  int32
	RemainderLength int32
}

// Signature is an ordered sequence of block descriptors plus their
// header, per spec §3.
type Signature struct {
	Header SumHead
	Blocks []Block
}

// BlockLen returns the length of basis block i: BlockLength for every
// block but the last, which is RemainderLength when the basis length
// was not an exact multiple of BlockLength.
func (s *Signature) BlockLen(i int) int64 {
	n := int(s.Header.ChecksumCount)
	if i == n-1 && s.Header.RemainderLength != 0 {
		return int64(s.Header.RemainderLength)
	}
	return int64(s.Header.BlockLength)
}

// Validate checks the internal consistency invariants spec §4.5's
// failure mode and §3's data model require: the block count matches
// the header, the strong digest length of every block matches S, S is
// within [2, 255] whenever there is at least one block (no supported
// digest kind is that long), and R is within [0, B].
func (s *Signature) Validate() error {
	if int(s.Header.ChecksumCount) != len(s.Blocks) {
		return errf(SignatureInvalid, "header count %d disagrees with %d blocks", s.Header.ChecksumCount, len(s.Blocks))
	}
	if s.Header.ChecksumCount > 0 && (s.Header.ChecksumLength < 2 || s.Header.ChecksumLength > 255) {
		return errf(SignatureInvalid, "checksum length %d out of range", s.Header.ChecksumLength)
	}
	if s.Header.RemainderLength < 0 || s.Header.RemainderLength > s.Header.BlockLength {
		return errf(SignatureInvalid, "remainder length %d out of range for block length %d", s.Header.RemainderLength, s.Header.BlockLength)
	}
	for i, b := range s.Blocks {
		if int32(len(b.Strong)) != s.Header.ChecksumLength {
			return errf(SignatureInvalid, "block %d strong digest length %d disagrees with header %d", i, len(b.Strong), s.Header.ChecksumLength)
		}
	}
	return nil
}

// WriteTo serializes the Signature in the wire form of the negotiated
// protocol: the sum-head (fixed or varint, per protocol) followed by
// N entries of {weak uint32 LE, strong S raw bytes}, no padding.
func (s *Signature) WriteTo(w io.Writer, protocolVersion int32) error {
	if err := rsyncwire.WriteSumHead(w, protocolVersion, rsyncwire.SumHeadFields{
		ChecksumCount:   s.Header.ChecksumCount,
		BlockLength:     s.Header.BlockLength,
		ChecksumLength:  s.Header.ChecksumLength,
		RemainderLength: s.Header.RemainderLength,
	}); err != nil {
		return wrapf(WireMalformed, err, "writing sum head")
	}

	conn := &rsyncwire.Conn{Writer: w}
	for i, b := range s.Blocks {
		if err := conn.WriteInt32(int32(b.Weak)); err != nil {
			return wrapf(WireMalformed, err, "writing weak checksum for block %d", i)
		}
		if _, err := w.Write(b.Strong); err != nil {
			return wrapf(WireMalformed, err, "writing strong digest for block %d", i)
		}
	}
	return nil
}

// ReadSignature deserializes a Signature written by WriteTo.
// basisLen is only consulted for protocol<27 (see ReadSumHead).
func ReadSignature(r io.Reader, protocolVersion int32, basisLen int64) (*Signature, error) {
	fields, err := rsyncwire.ReadSumHead(r, protocolVersion, basisLen)
	if err != nil {
		return nil, wrapf(WireMalformed, err, "reading sum head")
	}
	if fields.ChecksumCount < 0 {
		return nil, errf(WireMalformed, "negative checksum count %d", fields.ChecksumCount)
	}

	sig := &Signature{
		Header: SumHead{
			ChecksumCount:   fields.ChecksumCount,
			BlockLength:     fields.BlockLength,
			ChecksumLength:  fields.ChecksumLength,
			RemainderLength: fields.RemainderLength,
		},
		Blocks: make([]Block, fields.ChecksumCount),
	}

	conn := &rsyncwire.Conn{Reader: r}
	for i := range sig.Blocks {
		weak, err := conn.ReadInt32()
		if err != nil {
			return nil, wrapf(WireMalformed, err, "reading weak checksum for block %d", i)
		}
		strong := make([]byte, fields.ChecksumLength)
		if _, err := io.ReadFull(r, strong); err != nil {
			return nil, wrapf(WireMalformed, err, "reading strong digest for block %d", i)
		}
		sig.Blocks[i] = Block{Weak: uint32(weak), Strong: strong}
	}

	if err := sig.Validate(); err != nil {
		return nil, err
	}
	return sig, nil
}
