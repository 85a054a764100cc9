package metrics

import "sync"

// PurchaseCounter tallies applied purchases per identity for the lifetime of
// the process. It is explicitly non-durable: a restart resets it. It exists
// for observability only and must never gate reconciliation.
type PurchaseCounter struct {
	mu     sync.Mutex
	counts map[int64]int64
	total  int64
}

func NewPurchaseCounter() *PurchaseCounter {
	return &PurchaseCounter{counts: make(map[int64]int64)}
}

func (x *PurchaseCounter) Increment(identity int64) int64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.counts[identity]++
	x.total++
	return x.counts[identity]
}

func (x *PurchaseCounter) Count(identity int64) int64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.counts[identity]
}

func (x *PurchaseCounter) Total() int64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.total
}

// Snapshot copies the per-identity tallies for reporting.
func (x *PurchaseCounter) Snapshot() map[int64]int64 {
	x.mu.Lock()
	defer x.mu.Unlock()

	snapshot := make(map[int64]int64, len(x.counts))
	for identity, count := range x.counts {
		snapshot[identity] = count
	}
	return snapshot
}
