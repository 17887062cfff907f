package rsync

import "golang.org/x/sync/errgroup"

// BatchItem is one independent basis/target pair a Batch computes a
// Delta for.
type BatchItem struct {
	Basis  []byte
	Target []byte
}

// BatchResult is the outcome of computing one BatchItem's Delta.
type BatchResult struct {
	Delta *Delta
	Stats Stats
}

// RunBatch computes a Delta for each item concurrently, one goroutine
// per item, bounded by limit (0 means unbounded). Results are
// returned in the same order as items; a single item's failure fails
// the batch, matching errgroup.Group's fail-fast semantics.
//
// Corresponds to the teacher's concurrent per-file hashing in
// rsyncd/sender.go's sendFile, generalized from "one file" to "one
// independent basis/target pair" since this package has no file list
// of its own — spec §5 leaves it to the caller to parallelize
// independent files, and this is that caller-facing helper.
func RunBatch(items []BatchItem, sigs []*Signature, p *Protocol, limit int) ([]BatchResult, error) {
	if len(items) != len(sigs) {
		return nil, errf(ConfigInvalid, "batch: %d items but %d signatures", len(items), len(sigs))
	}

	results := make([]BatchResult, len(items))
	var eg errgroup.Group
	if limit > 0 {
		eg.SetLimit(limit)
	}

	for i := range items {
		i := i
		eg.Go(func() error {
			delta, stats, err := ComputeDelta(items[i].Basis, items[i].Target, sigs[i], p)
			if err != nil {
				return err
			}
			results[i] = BatchResult{Delta: delta, Stats: stats}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
