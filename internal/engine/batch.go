// Package engine batch packing.
//
// The packer is a pure function from an operation list and a capacity to an
// ordered list of batches. It performs no I/O and never splits or reorders an
// operation; every original index appears in exactly one batch, which is the
// provenance the result table relies on.
package engine

// Operation is one opaque, caller-supplied write payload. Its size and
// compute cost are discovered empirically through the dry run, not declared.
type Operation []byte

// Batch is an ordered, immutable group of operations submitted together,
// plus the original indices it represents. Batches are regenerated each retry
// round from the subset of operations still unresolved.
type Batch struct {
	Ops     []Operation
	Indices []int
}

// Size returns the number of operations in the batch.
func (b Batch) Size() int {
	return len(b.Ops)
}

// PackOperations partitions ops into batches of at most capacity operations,
// preserving original order and index provenance. A capacity below 1 is
// treated as 1 so a degenerate estimate can never stall the pipeline.
func PackOperations(ops []Operation, capacity int) []Batch {
	if capacity < 1 {
		capacity = 1
	}
	if len(ops) == 0 {
		return nil
	}

	batches := make([]Batch, 0, (len(ops)+capacity-1)/capacity)
	for start := 0; start < len(ops); start += capacity {
		end := start + capacity
		if end > len(ops) {
			end = len(ops)
		}

		batch := Batch{
			Ops:     make([]Operation, end-start),
			Indices: make([]int, end-start),
		}
		copy(batch.Ops, ops[start:end])
		for i := start; i < end; i++ {
			batch.Indices[i-start] = i
		}
		batches = append(batches, batch)
	}

	return batches
}
