package memstore

import (
	"sort"
	"sync"

	"drvx/internal/domain"
)

// History is an in-memory port.HistoryStore. Records are lost on Close.
type History struct {
	mu   sync.RWMutex
	recs []domain.ScanRecord
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Put(rec domain.ScanRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recs = append(h.recs, rec)
	return nil
}

func (h *History) List(limit int) ([]domain.ScanRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	recs := make([]domain.ScanRecord, len(h.recs))
	copy(recs, h.recs)
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].StartedAt.After(recs[j].StartedAt)
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recs = nil
	return nil
}

func (h *History) Close() error {
	return h.Clear()
}
