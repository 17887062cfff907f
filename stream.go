package rsync

import (
	"io"

	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/token"
)

// WriteDelta serializes delta as a token stream on w, splitting each
// LITERAL instruction at chunkSize boundaries if it is not already
// chunked, per spec §5/§6. A fused multi-block COPY (Instruction's
// RunLength>1) is written as a single copy token, not re-fragmented.
func WriteDelta(w io.Writer, delta *Delta, sig *Signature, p *Protocol) error {
	tw := token.NewWriter(w, p.UsesVarint)
	for _, ins := range delta.Instructions {
		switch ins.Kind {
		case OpCopy:
			runLength := ins.RunLength
			if runLength < 1 {
				runLength = 1
			}
			if err := tw.WriteCopy(ins.BlockIndex, runLength); err != nil {
				return wrapf(WireMalformed, err, "writing copy token")
			}
		case OpLiteral:
			for off := 0; off < len(ins.Literal); off += chunkSize {
				end := off + chunkSize
				if end > len(ins.Literal) {
					end = len(ins.Literal)
				}
				if err := tw.WriteLiteral(ins.Literal[off:end]); err != nil {
					return wrapf(WireMalformed, err, "writing literal token")
				}
			}
		}
	}
	if err := tw.WriteEnd(); err != nil {
		return wrapf(WireMalformed, err, "writing end token")
	}
	return nil
}

// ReadDelta deserializes a token stream written by WriteDelta back
// into a Delta. Since a token stream carries basis block indices
// rather than absolute offsets, sig supplies the block-length
// bookkeeping needed to recover each COPY's basis offset and length.
func ReadDelta(r io.Reader, sig *Signature, p *Protocol) (*Delta, error) {
	tr := token.NewReader(r, p.UsesVarint)
	var delta Delta
	for {
		tok, err := tr.Next()
		if err != nil {
			return nil, wrapf(WireMalformed, err, "reading token")
		}
		switch tok.Kind {
		case token.KindEnd:
			delta.TargetLength = sumInstructionLengths(delta.Instructions)
			return &delta, nil
		case token.KindLiteral:
			delta.Instructions = append(delta.Instructions, Instruction{
				Kind:    OpLiteral,
				Length:  int64(len(tok.Literal)),
				Literal: tok.Literal,
			})
		case token.KindCopy:
			i := int(tok.BlockIndex)
			runLength := tok.RunLength
			if runLength < 1 {
				runLength = 1
			}
			last := i + int(runLength) - 1
			if i < 0 || last >= len(sig.Blocks) {
				return nil, errf(DeltaInvalid, "copy token references out-of-range block range [%d, %d]", i, last)
			}
			var length int64
			for j := i; j <= last; j++ {
				length += sig.BlockLen(j)
			}
			delta.Instructions = append(delta.Instructions, Instruction{
				Kind:       OpCopy,
				BlockIndex: tok.BlockIndex,
				RunLength:  runLength,
				Offset:     int64(i) * int64(sig.Header.BlockLength),
				Length:     length,
			})
		}
	}
}

func sumInstructionLengths(ins []Instruction) int64 {
	var n int64
	for _, i := range ins {
		n += i.Length
	}
	return n
}
