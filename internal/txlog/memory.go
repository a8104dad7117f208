// Package txlog provides an in-memory transaction log for running
// without a database.
package txlog

import (
	"context"
	"sync"

	"github.com/jhendriks/photoregister/internal/model"
)

var _ model.TransactionLog = (*Memory)(nil)

// Memory keeps transaction records in process memory. Records are
// lost on restart; it exists for local development and tests.
type Memory struct {
	mu      sync.Mutex
	records []model.TransactionRecord
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Record(_ context.Context, rec model.TransactionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// Records returns a copy of everything recorded so far.
func (m *Memory) Records() []model.TransactionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.TransactionRecord, len(m.records))
	copy(out, m.records)
	return out
}
