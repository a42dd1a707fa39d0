// Package search ranks users by trigram similarity of their username to a query.
package search

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "user-graph-service/internal/domain/user"
	apperrors "user-graph-service/pkg/errors"
	"user-graph-service/pkg/security"
	"user-graph-service/pkg/trigram"
)

// Threshold is the similarity a username must exceed to be returned.
const Threshold = 0.1

// Store is the data access the searcher needs.
type Store interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	ListSummaries(ctx context.Context) ([]domain.Summary, error)
	ListFollowedSummaries(ctx context.Context, id uuid.UUID) ([]domain.Summary, error)
	GetManyByID(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

// Config bounds result sizes.
type Config struct {
	DefaultLimit int
	MaxLimit     int
}

// Searcher implements username search, globally or within a user's followeds.
type Searcher struct {
	store Store
	cfg   Config
	log   *zap.Logger
}

// New creates a Searcher. Non-positive limits fall back to 10 and 100.
func New(store Store, cfg Config, log *zap.Logger) *Searcher {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = max(cfg.DefaultLimit, 100)
	}
	return &Searcher{store: store, cfg: cfg, log: log}
}

// SearchUsers returns up to limit users ordered by decreasing similarity to query.
func (s *Searcher) SearchUsers(ctx context.Context, query string, limit int) ([]domain.User, error) {
	q, err := s.validate(query, limit)
	if err != nil {
		return nil, err
	}

	candidates, err := s.store.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, q, candidates, limit)
}

// SearchWithinFolloweds is SearchUsers restricted to the users id follows.
func (s *Searcher) SearchWithinFolloweds(ctx context.Context, id uuid.UUID, query string, limit int) ([]domain.User, error) {
	q, err := s.validate(query, limit)
	if err != nil {
		return nil, err
	}

	ok, err := s.store.UserExists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewNotFoundError("user", "user "+id.String()+" not found")
	}

	candidates, err := s.store.ListFollowedSummaries(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, q, candidates, limit)
}

func (s *Searcher) validate(query string, limit int) (string, error) {
	if limit < 0 {
		return "", apperrors.NewValidationError("limit", "must not be negative")
	}
	q, err := security.ValidateSearchQuery(query)
	if err != nil {
		return "", apperrors.NewValidationError("user", err.Error())
	}
	return q, nil
}

func (s *Searcher) load(ctx context.Context, query string, candidates []domain.Summary, limit int) ([]domain.User, error) {
	ranked := Rank(query, candidates, s.clamp(limit))
	s.log.Debug("search ranked",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(ranked)),
	)
	if len(ranked) == 0 {
		return []domain.User{}, nil
	}

	ids := make([]uuid.UUID, len(ranked))
	for i, c := range ranked {
		ids[i] = c.ID
	}
	return s.store.GetManyByID(ctx, ids)
}

func (s *Searcher) clamp(limit int) int {
	if limit == 0 {
		return s.cfg.DefaultLimit
	}
	return min(limit, s.cfg.MaxLimit)
}

// Rank keeps the candidates whose username similarity to query exceeds
// Threshold, sorted by decreasing similarity with ties in input order, and
// truncated to limit.
func Rank(query string, candidates []domain.Summary, limit int) []domain.Summary {
	q := trigram.Extract(query)
	if len(q) == 0 || limit <= 0 {
		return nil
	}

	type scored struct {
		summary domain.Summary
		score   float64
	}
	matches := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if score := q.Similarity(trigram.Extract(c.Username)); score > Threshold {
			matches = append(matches, scored{summary: c, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]domain.Summary, len(matches))
	for i, m := range matches {
		out[i] = m.summary
	}
	return out
}
