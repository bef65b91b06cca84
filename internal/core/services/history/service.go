package history

import (
	"context"

	"gitlab.com/answer-validator.net/internal/domain"
)

// IHistoryService reads past validation outcomes from the ledger
type IHistoryService interface {
	// History returns the newest outcomes of a puzzle, optionally for one user, with a summary of that window
	History(ctx context.Context, query domain.HistoryQuery) (*domain.History, error)
}
