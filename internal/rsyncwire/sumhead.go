package rsyncwire

import (
	"io"
)

// SumHeadFields is the wire-level payload of a signature header:
// block count N, nominal block length B, truncated strong-digest
// length S, and the remainder length R of the final (possibly short)
// block.
//
// Corresponds to rsync/io.c's sum header framing.
type SumHeadFields struct {
	ChecksumCount   int32
	BlockLength     int32
	ChecksumLength  int32
	RemainderLength int32
}

// WriteSumHead serializes f in the wire form the negotiated protocol
// uses: fixed-width int32 fields below protocol 27 (R is implicit,
// not written), varints at 27 and above (R is always written).
func WriteSumHead(w io.Writer, protocolVersion int32, f SumHeadFields) error {
	if protocolVersion >= 27 {
		for _, v := range []int32{f.ChecksumCount, f.BlockLength, f.ChecksumLength, f.RemainderLength} {
			if err := WriteVarint32(w, v); err != nil {
				return err
			}
		}
		return nil
	}

	c := &Conn{Writer: w}
	if err := c.WriteInt32(f.ChecksumCount); err != nil {
		return err
	}
	if err := c.WriteInt32(f.BlockLength); err != nil {
		return err
	}
	return c.WriteInt32(f.ChecksumLength)
}

// ReadSumHead deserializes a sum header. basisLen is only consulted
// for protocol<27, where R is not on the wire and must be derived
// from the basis length and block length instead.
func ReadSumHead(r io.Reader, protocolVersion int32, basisLen int64) (SumHeadFields, error) {
	if protocolVersion >= 27 {
		var f SumHeadFields
		vals := make([]*int32, 4)
		vals[0], vals[1], vals[2], vals[3] = &f.ChecksumCount, &f.BlockLength, &f.ChecksumLength, &f.RemainderLength
		for _, p := range vals {
			v, err := ReadVarint32(r)
			if err != nil {
				return SumHeadFields{}, err
			}
			*p = v
		}
		return f, nil
	}

	c := &Conn{Reader: r}
	n, err := c.ReadInt32()
	if err != nil {
		return SumHeadFields{}, ErrMalformed
	}
	b, err := c.ReadInt32()
	if err != nil {
		return SumHeadFields{}, ErrMalformed
	}
	s, err := c.ReadInt32()
	if err != nil {
		return SumHeadFields{}, ErrMalformed
	}

	var rem int32
	if b > 0 && basisLen > 0 {
		rem = int32(basisLen % int64(b))
	}
	return SumHeadFields{
		ChecksumCount:   n,
		BlockLength:     b,
		ChecksumLength:  s,
		RemainderLength: rem,
	}, nil
}
