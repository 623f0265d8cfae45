package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	dalredis "github.com/corray333/atlas-cafe/internal/dal/redis"
	"github.com/corray333/atlas-cafe/internal/service/models/match"
	"github.com/go-redis/redis/v8"
)

const latestKey = "cafe:matches:latest"

// MatchRepository stores the latest schedule snapshot in Redis so restarts and
// sibling instances serve the same board before their first poll completes.
type MatchRepository struct {
	client *dalredis.Client
	ttl    time.Duration
}

// NewMatchRepository creates a repository whose snapshot expires after ttl. Zero keeps it forever.
func NewMatchRepository(client *dalredis.Client, ttl time.Duration) *MatchRepository {
	return &MatchRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *MatchRepository) Save(ctx context.Context, matches []match.Match) error {
	data, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("failed to encode matches: %w", err)
	}

	if err := r.client.DB().Set(ctx, latestKey, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save matches: %w", err)
	}

	return nil
}

func (r *MatchRepository) Latest(ctx context.Context) ([]match.Match, bool, error) {
	data, err := r.client.DB().Get(ctx, latestKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load matches: %w", err)
	}

	var matches []match.Match
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, false, fmt.Errorf("failed to decode matches: %w", err)
	}

	return matches, true, nil
}
