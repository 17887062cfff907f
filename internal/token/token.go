// Package token implements the wire framing of a delta instruction
// stream, per spec §6: a signed integer header per instruction, where a
// positive value is a literal chunk length, a negative value
// (after rsync's -(token+1) decode) identifies a basis block index,
// and 0 terminates the stream. A copy token carries a second header
// field giving the number of consecutive basis blocks the token spans,
// so that a matcher's fused run (spec §4.5 step d) survives the wire
// as one token rather than being re-fragmented per block.
//
// Corresponds to rsync/token.c:send_token and simple_send_token, and
// the receiving half in the teacher's receiver.go:receiveData, folded
// into one bidirectional codec since this module has no process
// boundary to split sender and receiver across.
package token

import (
	"io"

	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/rsyncwire"
)

// Kind distinguishes a decoded token: a literal chunk of data, a copy
// referencing a basis block, or the end-of-stream marker.
type Kind uint8

const (
	KindLiteral Kind = iota
	KindCopy
	KindEnd
)

// Token is one decoded element of the instruction stream.
type Token struct {
	Kind       Kind
	Literal    []byte // KindLiteral only
	BlockIndex int32  // KindCopy only
	RunLength  int32  // KindCopy only; number of consecutive basis blocks
}

// Writer encodes a sequence of Tokens onto w using the header
// convention a negotiated protocol's integer codec implies: varint
// headers for protocol>=27, fixed-width int32 below that.
type Writer struct {
	w         io.Writer
	useVarint bool
}

func NewWriter(w io.Writer, useVarint bool) *Writer {
	return &Writer{w: w, useVarint: useVarint}
}

func (tw *Writer) writeHeader(v int32) error {
	if tw.useVarint {
		return rsyncwire.WriteVarint32(tw.w, v)
	}
	c := &rsyncwire.Conn{Writer: tw.w}
	return c.WriteInt32(v)
}

// WriteLiteral emits a literal chunk, split by the caller into pieces
// no larger than the negotiated chunkSize, per spec §5.
func (tw *Writer) WriteLiteral(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := tw.writeHeader(int32(len(data))); err != nil {
		return err
	}
	_, err := tw.w.Write(data)
	return err
}

// WriteCopy emits a reference to a run of runLength consecutive basis
// blocks starting at blockIndex. The starting index is encoded as
// rsync's -(i+1) convention so that it is distinguishable from a
// literal length (always positive) and from the end marker (0); the
// run length follows as a second header field.
func (tw *Writer) WriteCopy(blockIndex, runLength int32) error {
	if err := tw.writeHeader(-(blockIndex + 1)); err != nil {
		return err
	}
	return tw.writeHeader(runLength)
}

// WriteEnd emits the end-of-stream marker.
func (tw *Writer) WriteEnd() error {
	return tw.writeHeader(0)
}

// Reader decodes a Token stream written by Writer.
type Reader struct {
	r         io.Reader
	useVarint bool
}

func NewReader(r io.Reader, useVarint bool) *Reader {
	return &Reader{r: r, useVarint: useVarint}
}

func (tr *Reader) readHeader() (int32, error) {
	if tr.useVarint {
		return rsyncwire.ReadVarint32(tr.r)
	}
	c := &rsyncwire.Conn{Reader: tr.r}
	return c.ReadInt32()
}

// Next decodes the following Token. Callers should stop reading once
// it returns a Token with Kind==KindEnd.
func (tr *Reader) Next() (Token, error) {
	header, err := tr.readHeader()
	if err != nil {
		return Token{}, err
	}
	switch {
	case header == 0:
		return Token{Kind: KindEnd}, nil
	case header > 0:
		buf := make([]byte, header)
		if _, err := io.ReadFull(tr.r, buf); err != nil {
			return Token{}, err
		}
		return Token{Kind: KindLiteral, Literal: buf}, nil
	default:
		runLength, err := tr.readHeader()
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: KindCopy, BlockIndex: -(header + 1), RunLength: runLength}, nil
	}
}
