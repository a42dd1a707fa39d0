// Package recommend suggests users to follow from three independent strategies.
package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "user-graph-service/internal/domain/user"
	apperrors "user-graph-service/pkg/errors"
	"user-graph-service/pkg/metrics"
)

// Store is the data access the engine needs. Each strategy query excludes the
// requester itself; FriendsOfFriends also excludes direct followeds.
type Store interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	FollowedIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	FriendsOfFriends(ctx context.Context, id uuid.UUID) ([]domain.Summary, error)
	SharedInterests(ctx context.Context, id uuid.UUID) ([]domain.Summary, error)
	SameLocation(ctx context.Context, id uuid.UUID) ([]domain.Summary, error)
}

type strategy struct {
	name string
	run  func(ctx context.Context, id uuid.UUID) ([]domain.Summary, error)
}

// Engine computes recommendations.
type Engine struct {
	store Store
	log   *zap.Logger
}

// New creates a recommendation engine over store.
func New(store Store, log *zap.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// Recommend returns the union of friend-of-friend, shared-interest and
// same-location candidates for id, deduplicated with the first occurrence kept,
// without id itself or anyone id already follows.
func (e *Engine) Recommend(ctx context.Context, id uuid.UUID) ([]domain.Summary, error) {
	start := time.Now()
	defer func() { metrics.RecommendationDuration.Observe(time.Since(start).Seconds()) }()

	ok, err := e.store.UserExists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewNotFoundError("user", "user "+id.String()+" not found")
	}

	strategies := []strategy{
		{"friends_of_friends", e.store.FriendsOfFriends},
		{"shared_interests", e.store.SharedInterests},
		{"same_location", e.store.SameLocation},
	}
	results := make([][]domain.Summary, len(strategies))
	var followed []uuid.UUID

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range strategies {
		g.Go(func() error {
			out, err := s.run(gctx, id)
			if err != nil {
				return err
			}
			metrics.RecordCandidates(s.name, len(out))
			results[i] = out
			return nil
		})
	}
	g.Go(func() error {
		var err error
		followed, err = e.store.FollowedIDs(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		e.log.Error("recommendation query failed", zap.String("user_id", id.String()), zap.Error(err))
		return nil, err
	}

	exclude := make(map[uuid.UUID]struct{}, len(followed)+1)
	exclude[id] = struct{}{}
	for _, f := range followed {
		exclude[f] = struct{}{}
	}

	out := []domain.Summary{}
	for _, candidates := range results {
		for _, c := range candidates {
			if _, skip := exclude[c.ID]; skip {
				continue
			}
			exclude[c.ID] = struct{}{}
			out = append(out, c)
		}
	}

	e.log.Debug("recommendations computed", zap.String("user_id", id.String()), zap.Int("count", len(out)))
	return out, nil
}
