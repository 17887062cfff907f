package rsyncwire

import (
	"errors"
	"io"
)

// ErrMalformed is returned by the varint reader when the wire bytes
// are internally inconsistent or truncated. The root package maps
// this to rsync.WireMalformed.
var ErrMalformed = errors.New("rsyncwire: malformed varint")

// maxVarintBytes bounds how many magnitude bytes a varint header can
// declare; int64's two's-complement form never needs more than 8.
const maxVarintBytes = 8

// WriteVarint encodes v using rsync protocol>=27's length-prefixed
// varint: a header byte giving the number of little-endian magnitude
// bytes that follow, sign-extended to the declared width on decode.
//
// This module's retrieval pack contains no byte-for-byte reference for
// rsync's real varint30/varlong bit layout (see DESIGN.md), so the
// header byte here holds the byte count outright rather than packing
// count bits and magnitude bits into one byte the way upstream rsync
// does; the wire contract from spec §4.7 (length-prefixed,
// little-endian magnitude, two's-complement sign extension) is
// preserved, verified by round-trip tests rather than interop with a
// real rsync peer.
func WriteVarint(w io.Writer, v int64) error {
	var magnitude [8]byte
	for i := 0; i < 8; i++ {
		magnitude[i] = byte(v >> (8 * i))
	}

	n := 8
	for n > 1 {
		b := magnitude[n-1]
		prev := magnitude[n-2]
		if b == 0x00 && prev&0x80 == 0 {
			n--
			continue
		}
		if b == 0xFF && prev&0x80 != 0 {
			n--
			continue
		}
		break
	}

	header := [1]byte{byte(n)}
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(magnitude[:n])
	return err
}

// ReadVarint decodes a value written by WriteVarint. It never reads
// past the bytes the header declares and never panics on malformed
// input; truncated or out-of-range input yields ErrMalformed.
func ReadVarint(r io.Reader) (int64, error) {
	var header [1]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.EOF {
			return 0, err
		}
		return 0, ErrMalformed
	}
	n := int(header[0])
	if n < 1 || n > maxVarintBytes {
		return 0, ErrMalformed
	}

	var magnitude [8]byte
	if _, err := io.ReadFull(r, magnitude[:n]); err != nil {
		return 0, ErrMalformed
	}

	var v int64
	for i := 0; i < n; i++ {
		v |= int64(magnitude[i]) << (8 * i)
	}
	// sign-extend from the declared width
	if n < 8 && magnitude[n-1]&0x80 != 0 {
		v |= -1 << (8 * n)
	}
	return v, nil
}

// WriteVarint32 and ReadVarint32 narrow the varint codec to the int32
// range the sum-head fields (N, B, S, R) use.
func WriteVarint32(w io.Writer, v int32) error {
	return WriteVarint(w, int64(v))
}

func ReadVarint32(r io.Reader) (int32, error) {
	v, err := ReadVarint(r)
	if err != nil {
		return 0, err
	}
	if v < -(1<<31) || v > (1<<31)-1 {
		return 0, ErrMalformed
	}
	return int32(v), nil
}
