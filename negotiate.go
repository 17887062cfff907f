package rsync

import "github.com/alesanGreat/rsync-Phoenix-Rebuilt/internal/rsyncchecksum"

// CompressionKind identifies the token-stream compression adapter (C11)
// a negotiated session uses, if any.
type CompressionKind uint8

const (
	CompressionNone CompressionKind = iota
	CompressionZlib
	CompressionZstd
)

// Protocol is an immutable, negotiated session context: the agreed
// protocol version, default strong-digest kind, checksum seed, the
// maximum permissible block size, and the compression kind in force.
// It is read-only for the lifetime of a session — nothing here is
// process-global state (Design Notes §9).
type Protocol struct {
	Version          int32
	DefaultDigest    rsyncchecksum.Kind
	Seed             int32
	MaxBlockLength   int32
	Compression      CompressionKind
	WholeFileSeeded  bool // whole-file digests are seeded for P>=30
	UsesVarint       bool // P>=27 uses the varint wire form
}

// SessionConfig is what a caller supplies to Negotiate: each side's
// preferred protocol version plus any overrides. This replaces the
// module-level globals (checksum seed override, memory cap) the
// original carried, per Design Notes §9.
type SessionConfig struct {
	LocalPreferred  int32
	RemotePreferred int32

	Seed int32

	// PreferredDigest, if non-nil, overrides the protocol's default
	// digest kind (only meaningful for P=32, where digest choice is
	// per-session; see DESIGN.md's Open Question decision).
	PreferredDigest *rsyncchecksum.Kind

	// EnableZstd opts into zstd compression for P>=31 instead of the
	// protocol's zlib default.
	EnableZstd bool

	// BlockLengthOverride is a requested signature block size. Negotiate
	// does not read it and Protocol does not carry it; the override
	// BuildSignature applies is its own blockLengthOverride argument.
	BlockLengthOverride int32

	// MemoryCap is a bound on the memory a Signature's block table may
	// occupy. Negotiate does not read it and Protocol does not carry
	// it; the cap BuildSignature enforces (failing with ResourceLimit)
	// is its own memoryCap argument.
	MemoryCap int64
}

// Negotiate picks an agreed protocol version and derives the feature
// set that follows from it, per spec §4.10.
func Negotiate(cfg SessionConfig) (*Protocol, error) {
	agreed := cfg.LocalPreferred
	if cfg.RemotePreferred < agreed {
		agreed = cfg.RemotePreferred
	}
	if agreed > MaxProtocolVersion {
		agreed = MaxProtocolVersion
	}
	if agreed < MinProtocolVersion {
		return nil, errf(ProtocolUnsupported, "negotiated version %d below minimum %d", agreed, MinProtocolVersion)
	}

	digest := defaultDigest(agreed)
	if cfg.PreferredDigest != nil {
		digest = *cfg.PreferredDigest
	}

	maxBlock := int32(maxBlockLengthOld)
	if agreed >= 30 {
		maxBlock = maxBlockLengthNew
	}

	compression := CompressionNone
	if agreed >= 30 && agreed <= 31 {
		compression = CompressionZlib
	}
	if agreed >= 31 && cfg.EnableZstd {
		compression = CompressionZstd
	}

	return &Protocol{
		Version:         agreed,
		DefaultDigest:   digest,
		Seed:            cfg.Seed,
		MaxBlockLength:  maxBlock,
		Compression:     compression,
		WholeFileSeeded: agreed >= 30,
		UsesVarint:      agreed >= 27,
	}, nil
}

// defaultDigest implements spec §4.10's per-protocol digest default:
// MD4 below 30, MD5 for 30–31, and (per this repo's Open Question
// decision, see DESIGN.md) xxHash64 for the per-session pick at 32.
func defaultDigest(version int32) rsyncchecksum.Kind {
	switch {
	case version < 30:
		return rsyncchecksum.MD4
	case version <= 31:
		return rsyncchecksum.MD5
	default:
		return rsyncchecksum.XXHash64
	}
}
