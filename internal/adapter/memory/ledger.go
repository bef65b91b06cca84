package memory

import (
	"context"
	"sort"
	"sync"

	"gitlab.com/answer-validator.net/internal/core/ports/secondary"
	"gitlab.com/answer-validator.net/internal/domain"
)

var _ secondary.ResultLedger = &Ledger{}

// Ledger keeps records in insertion order
type Ledger struct {
	mu      sync.RWMutex
	records []domain.LedgerRecord
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Append(_ context.Context, records []domain.LedgerRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, records...)
	return nil
}

func (l *Ledger) History(_ context.Context, query domain.HistoryQuery) ([]domain.LedgerRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.LedgerRecord, 0)
	for i := len(l.records) - 1; i >= 0; i-- {
		rec := l.records[i]
		if rec.PuzzleID != query.PuzzleID {
			continue
		}
		if query.UserID != nil && (rec.UserID == nil || *rec.UserID != *query.UserID) {
			continue
		}
		if !query.MatchesStatus(rec.Status) {
			continue
		}
		out = append(out, rec)
	}
	// newest first; insertion order breaks ties
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit := query.EffectiveLimit(); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Records returns a copy of everything appended so far
func (l *Ledger) Records() []domain.LedgerRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.LedgerRecord, len(l.records))
	copy(out, l.records)
	return out
}
