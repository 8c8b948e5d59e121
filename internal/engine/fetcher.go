// Package engine batched reads.
//
// The fetcher is the read-side counterpart of the submission path: it splits
// an arbitrary key list into bounded groups, issues one concurrent read call
// per group, and stitches the answers back into key order. Unlike the write
// path there are no retries and no partial results: any group failure fails
// the whole fetch, because a read caller cannot act on a hole it cannot
// distinguish from a genuinely absent entry.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/crestline-dev/relay/internal/ledger"
)

// BatchedFetcher reads ledger entries in bounded concurrent groups.
type BatchedFetcher struct {
	reader    ledger.Reader
	groupSize int
}

// NewBatchedFetcher creates a fetcher issuing reads in groups of groupSize.
func NewBatchedFetcher(reader ledger.Reader, groupSize int) (*BatchedFetcher, error) {
	if groupSize < 1 {
		return nil, fmt.Errorf("read group size must be at least 1, got %d", groupSize)
	}
	return &BatchedFetcher{reader: reader, groupSize: groupSize}, nil
}

// FetchAll reads every key and returns values positionally aligned with keys,
// nil for absent entries. Fails fast on the first group error: either the
// caller gets every answer or it gets none.
func (f *BatchedFetcher) FetchAll(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return [][]byte{}, nil
	}

	values := make([][]byte, len(keys))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for start := 0; start < len(keys); start += f.groupSize {
		end := start + f.groupSize
		if end > len(keys) {
			end = len(keys)
		}

		wg.Add(1)
		go func(offset int, group []string) {
			defer wg.Done()
			groupValues, err := f.reader.ReadMany(ctx, group)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			copy(values[offset:offset+len(group)], groupValues)
		}(start, keys[start:end])
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("batched read failed: %w", firstErr)
	}

	return values, nil
}
