package rsync

// Stats is the observational summary of a single ComputeDelta call:
// how much of the target was reconstructed from the basis versus sent
// as new literal data, and how many weak-checksum hits turned out to
// be false alarms under strong-digest verification (spec §4.5 step 4).
//
// Corresponds to rsync C's struct stats (stats.matched_data et al.,
// referenced directly in the teacher's match.go comments), supplemented
// per original_source/file_sync.py's TransferStats dataclass. Purely
// observational: nothing here changes the bytes a Delta carries.
type Stats struct {
	MatchedBytes int64
	LiteralBytes int64
	CopyCount    int64
	FalseAlarms  int64
}
