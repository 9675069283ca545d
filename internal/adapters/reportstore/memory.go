// Package reportstore keeps the most recent batch report in memory for the
// REST surface. Reports are also published to the queue; this store only
// exists so an operator can poll the last outcome without a queue consumer.
package reportstore

import (
	"sync"

	"rental-sync-service/internal/core/domain"
)

type Memory struct {
	mu     sync.RWMutex
	latest *domain.BatchReport
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Put(report domain.BatchReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = &report
}

func (m *Memory) Latest() (domain.BatchReport, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.latest == nil {
		return domain.BatchReport{}, false
	}
	return *m.latest, true
}
