// Package history records the terms users search for.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/briangreenhill/partsgpt/internal/db"
)

// MaxTermLen caps how much of a term is stored.
const MaxTermLen = 255

var ErrEmptyTerm = errors.New("Termo de busca é obrigatório")

// Recorder stores a search term for a user. Repeated terms refresh the
// existing entry instead of adding a new one.
type Recorder interface {
	Record(ctx context.Context, userID uuid.UUID, term string) error
}

// Upserter is the query the store recorder needs.
type Upserter interface {
	UpsertSearchHistory(ctx context.Context, arg db.UpsertSearchHistoryParams) error
}

// StoreRecorder writes directly to the database.
type StoreRecorder struct {
	Q Upserter
}

// CleanTerm trims term and cuts it to MaxTermLen runes.
func CleanTerm(term string) (string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", ErrEmptyTerm
	}
	if r := []rune(term); len(r) > MaxTermLen {
		term = string(r[:MaxTermLen])
	}
	return term, nil
}

func (s StoreRecorder) Record(ctx context.Context, userID uuid.UUID, term string) error {
	term, err := CleanTerm(term)
	if err != nil {
		return err
	}
	if err := s.Q.UpsertSearchHistory(ctx, db.UpsertSearchHistoryParams{UserID: userID, Term: term}); err != nil {
		return fmt.Errorf("upsert search history: %w", err)
	}
	return nil
}
