package domain

import (
	"context"
	"sync"
)

// CDRArchive stores accepted charge detail records.
type CDRArchive interface {
	Store(ctx context.Context, cdr ChargeDetailRecord) error
}

// MemoryCDRArchive keeps records in memory.
type MemoryCDRArchive struct {
	mu      sync.Mutex
	records []ChargeDetailRecord
}

// NewMemoryCDRArchive returns an empty archive.
func NewMemoryCDRArchive() *MemoryCDRArchive {
	return &MemoryCDRArchive{}
}

// Store implements CDRArchive.
func (a *MemoryCDRArchive) Store(_ context.Context, cdr ChargeDetailRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, cdr)
	return nil
}

// Records returns a copy of the stored records.
func (a *MemoryCDRArchive) Records() []ChargeDetailRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ChargeDetailRecord(nil), a.records...)
}
