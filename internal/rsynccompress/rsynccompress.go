// Package rsynccompress adapts the token stream to an optional
// compressed wire encoding, per spec §4.10's protocol-dependent
// compression negotiation: zlib by default for protocol 30-31, zstd as
// this engine's opt-in alternative for protocol 31 and above.
package rsynccompress

import (
	"compress/zlib"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Writer wraps w so that writes are compressed before reaching the
// underlying transport. Close must be called to flush trailing
// compressed data.
type Writer interface {
	io.WriteCloser
}

// Reader wraps r so that reads are decompressed from the underlying
// transport.
type Reader interface {
	io.ReadCloser
}

// NewZlibWriter wraps w with a standard zlib stream.
func NewZlibWriter(w io.Writer) Writer {
	return zlib.NewWriter(w)
}

// NewZlibReader wraps r to decompress a standard zlib stream.
func NewZlibReader(r io.Reader) (Reader, error) {
	return zlib.NewReader(r)
}

// NewZstdWriter wraps w with a zstd stream.
func NewZstdWriter(w io.Writer) (Writer, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return enc, nil
}

// zstdReader adapts *zstd.Decoder (which has no Close() error method,
// only Close() with no return) to the io.ReadCloser Reader needs.
type zstdReader struct {
	*zstd.Decoder
}

func (z *zstdReader) Close() error {
	z.Decoder.Close()
	return nil
}

// NewZstdReader wraps r to decompress a zstd stream.
func NewZstdReader(r io.Reader) (Reader, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &zstdReader{dec}, nil
}
