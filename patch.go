package rsync

import (
	"bytes"

	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/log"
	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/rsyncchecksum"
)

// Patch replays delta against basis, reconstructing the target bytes.
//
// Corresponds to rsync/receiver.c:receive_data, as reworked by the
// teacher's receiveData into an in-memory apply step: COPY ranges read
// from basis, LITERAL ranges appended verbatim, in instruction order.
func Patch(basis []byte, delta *Delta, p *Protocol) ([]byte, error) {
	log.AtLeast(log.LevelDebug, "patching: %d instructions, target length %d", len(delta.Instructions), delta.TargetLength)
	out := make([]byte, 0, delta.TargetLength)
	for i, ins := range delta.Instructions {
		switch ins.Kind {
		case OpCopy:
			if ins.Offset < 0 || ins.Offset+ins.Length > int64(len(basis)) {
				return nil, errf(DeltaInvalid, "instruction %d: copy range [%d, %d) out of basis bounds (len %d)", i, ins.Offset, ins.Offset+ins.Length, len(basis))
			}
			out = append(out, basis[ins.Offset:ins.Offset+ins.Length]...)
		case OpLiteral:
			if int64(len(ins.Literal)) != ins.Length {
				return nil, errf(DeltaInvalid, "instruction %d: literal length %d disagrees with declared length %d", i, len(ins.Literal), ins.Length)
			}
			out = append(out, ins.Literal...)
		default:
			return nil, errf(DeltaInvalid, "instruction %d: unknown kind %d", i, ins.Kind)
		}
	}
	if int64(len(out)) != delta.TargetLength {
		return nil, errf(DeltaInvalid, "reconstructed length %d disagrees with declared target length %d", len(out), delta.TargetLength)
	}
	log.AtLeast(log.LevelInfo, "patch complete: %d bytes reconstructed", len(out))
	return out, nil
}

// VerifyDigest recomputes the whole-file digest of patched per the
// negotiated protocol's digest kind and seeding rule, failing with
// IntegrityFailure if it disagrees with want — the final check
// receive_data performs before accepting a transfer.
func VerifyDigest(patched []byte, want []byte, p *Protocol) error {
	fd, err := rsyncchecksum.NewFileDigest(p.DefaultDigest, p.Seed, p.WholeFileSeeded)
	if err != nil {
		return wrapf(ConfigInvalid, err, "starting whole-file digest")
	}
	if _, err := fd.Write(patched); err != nil {
		return wrapf(IntegrityFailure, err, "hashing patched output")
	}
	got := fd.Sum()
	if !bytes.Equal(got, want) {
		return errf(IntegrityFailure, "whole-file digest mismatch: got %x, want %x", got, want)
	}
	return nil
}
