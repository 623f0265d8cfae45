package memory

import (
	"context"
	"sync"

	"github.com/corray333/atlas-cafe/internal/service/models/match"
)

// MatchRepository keeps the latest snapshot in process memory.
type MatchRepository struct {
	mu      sync.RWMutex
	matches []match.Match
	saved   bool
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{}
}

func (r *MatchRepository) Save(_ context.Context, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matches = append([]match.Match(nil), matches...)
	r.saved = true

	return nil
}

func (r *MatchRepository) Latest(_ context.Context) ([]match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.saved {
		return nil, false, nil
	}

	return append([]match.Match{}, r.matches...), true, nil
}
