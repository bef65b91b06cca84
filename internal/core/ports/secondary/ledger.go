package secondary

import (
	"context"

	"gitlab.com/answer-validator.net/internal/domain"
)

// ResultLedger is the append-only store of validation outcomes
type ResultLedger interface {
	Append(ctx context.Context, records []domain.LedgerRecord) error

	// History returns records newest first
	History(ctx context.Context, query domain.HistoryQuery) ([]domain.LedgerRecord, error)
}
