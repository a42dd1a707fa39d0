// Package follow enforces the rules of the directed follow graph.
package follow

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "user-graph-service/internal/domain/user"
	apperrors "user-graph-service/pkg/errors"
	"user-graph-service/pkg/metrics"
)

// Store is the data access the engine needs. Transaction must run fn inside a
// single unit of work and roll back when fn fails.
type Store interface {
	Transaction(ctx context.Context, fn func(tx domain.GraphTx) error) error
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, id uuid.UUID) ([]domain.User, error)
	ListFolloweds(ctx context.Context, id uuid.UUID) ([]domain.User, error)
}

const (
	msgAlreadyFollowing = "already following"
	msgNotFollowing     = "cannot unfollow an unfollowed user"
)

// Engine implements follow, unfollow and edge listing.
type Engine struct {
	store Store
	log   *zap.Logger
}

// New creates a follow engine over store.
func New(store Store, log *zap.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// Follow adds the edge source -> target and returns the refreshed source view.
// Self-follow is rejected by callers before reaching the engine.
func (e *Engine) Follow(ctx context.Context, source, target uuid.UUID) (*domain.User, error) {
	var updated *domain.User
	err := e.store.Transaction(ctx, func(tx domain.GraphTx) error {
		if err := requireUsers(ctx, tx, source, target); err != nil {
			return err
		}

		following, err := tx.HasEdge(ctx, source, target)
		if err != nil {
			return err
		}
		if following {
			return apperrors.NewNotAllowedError(msgAlreadyFollowing)
		}

		if err := tx.InsertEdge(ctx, source, target); err != nil {
			// a concurrent follow won the insert
			if apperrors.IsAlreadyExists(err) {
				return apperrors.NewNotAllowedError(msgAlreadyFollowing)
			}
			return err
		}

		updated, err = tx.GetByID(ctx, source)
		return err
	})
	metrics.RecordFollow("follow", err)
	if err != nil {
		e.log.Warn("follow failed", zap.String("source", source.String()), zap.String("target", target.String()), zap.Error(err))
		return nil, err
	}

	e.log.Info("user followed", zap.String("source", source.String()), zap.String("target", target.String()))
	return updated, nil
}

// Unfollow removes the edge source -> target and returns the refreshed source view.
func (e *Engine) Unfollow(ctx context.Context, source, target uuid.UUID) (*domain.User, error) {
	var updated *domain.User
	err := e.store.Transaction(ctx, func(tx domain.GraphTx) error {
		if err := requireUsers(ctx, tx, source, target); err != nil {
			return err
		}

		following, err := tx.HasEdge(ctx, source, target)
		if err != nil {
			return err
		}
		if !following {
			return apperrors.NewNotAllowedError(msgNotFollowing)
		}

		if err := tx.DeleteEdge(ctx, source, target); err != nil {
			if apperrors.IsNotFound(err) {
				return apperrors.NewNotAllowedError(msgNotFollowing)
			}
			return err
		}

		updated, err = tx.GetByID(ctx, source)
		return err
	})
	metrics.RecordFollow("unfollow", err)
	if err != nil {
		e.log.Warn("unfollow failed", zap.String("source", source.String()), zap.String("target", target.String()), zap.Error(err))
		return nil, err
	}

	e.log.Info("user unfollowed", zap.String("source", source.String()), zap.String("target", target.String()))
	return updated, nil
}

// ListFollowers returns the users following id.
func (e *Engine) ListFollowers(ctx context.Context, id uuid.UUID) ([]domain.User, error) {
	if err := e.requireUser(ctx, id); err != nil {
		return nil, err
	}
	return e.store.ListFollowers(ctx, id)
}

// ListFolloweds returns the users id follows.
func (e *Engine) ListFolloweds(ctx context.Context, id uuid.UUID) ([]domain.User, error) {
	if err := e.requireUser(ctx, id); err != nil {
		return nil, err
	}
	return e.store.ListFolloweds(ctx, id)
}

func (e *Engine) requireUser(ctx context.Context, id uuid.UUID) error {
	ok, err := e.store.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(id)
	}
	return nil
}

func requireUsers(ctx context.Context, tx domain.GraphTx, ids ...uuid.UUID) error {
	for _, id := range ids {
		ok, err := tx.UserExists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound(id)
		}
	}
	return nil
}

func notFound(id uuid.UUID) error {
	return apperrors.NewNotFoundError("user", "user "+id.String()+" not found")
}
