// Package rsync implements the core of the rsync delta-transfer
// algorithm: building block signatures over a basis, matching a target
// against those signatures to produce a copy/literal delta, applying a
// delta back onto a basis, and the on-wire framing rsync protocol
// versions 20 through 32 use for both.
//
// The package performs no network I/O and no filesystem walking.
// Callers supply byte buffers and receive byte buffers back; matching
// takes the whole target as one in-memory buffer and has no chunked or
// streaming input. Everything else — transport,
// authentication, file-list negotiation — is the caller's concern.
package rsync
