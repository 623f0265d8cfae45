package imatchrepo

import (
	"context"

	"github.com/corray333/atlas-cafe/internal/service/models/match"
)

// IMatchRepository stores the latest schedule snapshot.
type IMatchRepository interface {
	// Save replaces the stored snapshot
	Save(ctx context.Context, matches []match.Match) error

	// Latest returns the stored snapshot, or false when nothing was saved yet
	Latest(ctx context.Context) ([]match.Match, bool, error)
}
