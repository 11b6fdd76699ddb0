package event

// Batch holds the events returned by one bridge call, along with the cursor
// position the call was issued at.
type Batch struct {
	Events    []ContractEvent
	FromBlock uint64
}

// Len returns the number of events in the batch.
func (b Batch) Len() int {
	return len(b.Events)
}

// IsEmpty reports whether the batch contains no events.
func (b Batch) IsEmpty() bool {
	return len(b.Events) == 0
}

// LastBlock returns the block number of the final event in the batch.
// Panics on an empty batch; callers must check IsEmpty first.
func (b Batch) LastBlock() uint64 {
	return b.Events[len(b.Events)-1].BlockNumber
}
