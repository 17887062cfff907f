package rsync

import (
	"io"

	"github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/rsynccompress"
)

// WrapWriter wraps w with the compression adapter p.Compression names,
// or returns w unchanged (as a no-op closer) for CompressionNone.
// Callers pass the result to WriteDelta so the token stream is
// compressed transparently, per spec §4.10.
func WrapWriter(w io.Writer, p *Protocol) (io.WriteCloser, error) {
	switch p.Compression {
	case CompressionZlib:
		return rsynccompress.NewZlibWriter(w), nil
	case CompressionZstd:
		cw, err := rsynccompress.NewZstdWriter(w)
		if err != nil {
			return nil, wrapf(ConfigInvalid, err, "starting zstd writer")
		}
		return cw, nil
	default:
		return nopWriteCloser{w}, nil
	}
}

// WrapReader mirrors WrapWriter for the receiving side.
func WrapReader(r io.Reader, p *Protocol) (io.ReadCloser, error) {
	switch p.Compression {
	case CompressionZlib:
		cr, err := rsynccompress.NewZlibReader(r)
		if err != nil {
			return nil, wrapf(WireMalformed, err, "starting zlib reader")
		}
		return cr, nil
	case CompressionZstd:
		cr, err := rsynccompress.NewZstdReader(r)
		if err != nil {
			return nil, wrapf(WireMalformed, err, "starting zstd reader")
		}
		return cr, nil
	default:
		return nopReadCloser{r}, nil
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type nopReadCloser struct{ io.Reader }

func (nopReadCloser) Close() error { return nil }
