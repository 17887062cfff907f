package rsync

// Protocol version bounds this engine understands. Negotiation caps an
// agreed version above MaxProtocolVersion to it and fails with a
// ProtocolUnsupported error below MinProtocolVersion.
const (
	MinProtocolVersion = 20
	MaxProtocolVersion = 32
)

// Block-length bounds, keyed by negotiated protocol. rsync widened its
// maximum block size from 8 KiB to 128 KiB starting with protocol 30.
const (
	minBlockLength    = 700 // rsync.h BLOCK_SIZE
	maxBlockLengthOld = 8 << 10
	maxBlockLengthNew = 128 << 10
)

// chunkSize bounds how much unmatched data the matcher buffers before
// flushing a literal instruction. rsync.h defines CHUNK_SIZE as 32 KiB;
// the teacher daemon bumped this to 256 KiB for throughput, which this
// engine keeps since it only affects memory/latency tradeoffs, not
// wire compatibility.
const chunkSize = 256 * 1024
