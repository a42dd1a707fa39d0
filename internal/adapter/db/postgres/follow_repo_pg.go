package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"user-graph-service/internal/domain/user"
	apperrors "user-graph-service/pkg/errors"
)

// Transaction runs fn against a repository bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (r *UserRepoPG) Transaction(ctx context.Context, fn func(tx user.GraphTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UserRepoPG{db: tx, log: r.log})
	})
}

// UserExists reports whether a user with id is stored.
func (r *UserRepoPG) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Where("id = ?", id.String()).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

// HasEdge reports whether followerID follows followedID.
func (r *UserRepoPG) HasEdge(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&FollowSchema{}).
		Where("follower_id = ? AND followed_id = ?", followerID.String(), followedID.String()).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return count > 0, nil
}

// InsertEdge stores the edge followerID -> followedID. A duplicate edge yields
// an AlreadyExistsError.
func (r *UserRepoPG) InsertEdge(ctx context.Context, followerID, followedID uuid.UUID) error {
	edge := FollowSchema{FollowerID: followerID.String(), FollowedID: followedID.String()}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&edge).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAlreadyExistsError("follow", "follow edge already exists")
		}
		r.log.Error("failed to insert follow edge", zap.Error(err),
			zap.String("follower_id", edge.FollowerID), zap.String("followed_id", edge.FollowedID))
		return fmt.Errorf("failed to insert follow edge: %w", err)
	}

	r.log.Info("follow edge created", zap.String("follower_id", edge.FollowerID), zap.String("followed_id", edge.FollowedID))
	return nil
}

// DeleteEdge removes the edge followerID -> followedID. A missing edge yields
// a NotFoundError.
func (r *UserRepoPG) DeleteEdge(ctx context.Context, followerID, followedID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID.String(), followedID.String()).
		Delete(&FollowSchema{})
	if result.Error != nil {
		r.log.Error("failed to delete follow edge", zap.Error(result.Error),
			zap.String("follower_id", followerID.String()), zap.String("followed_id", followedID.String()))
		return fmt.Errorf("failed to delete follow edge: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("follow", "follow edge not found")
	}

	r.log.Info("follow edge deleted", zap.String("follower_id", followerID.String()), zap.String("followed_id", followedID.String()))
	return nil
}

// ListFollowers returns the users following id. It does not check that id exists.
func (r *UserRepoPG) ListFollowers(ctx context.Context, id uuid.UUID) ([]user.User, error) {
	sub := r.db.Model(&FollowSchema{}).Select("follower_id").Where("followed_id = ?", id.String())
	users, err := r.findUsers(ctx, r.db.WithContext(ctx).Where("id IN (?)", sub))
	if err != nil {
		r.log.Error("failed to list followers", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return users, nil
}

// ListFolloweds returns the users id follows. It does not check that id exists.
func (r *UserRepoPG) ListFolloweds(ctx context.Context, id uuid.UUID) ([]user.User, error) {
	sub := r.db.Model(&FollowSchema{}).Select("followed_id").Where("follower_id = ?", id.String())
	users, err := r.findUsers(ctx, r.db.WithContext(ctx).Where("id IN (?)", sub))
	if err != nil {
		r.log.Error("failed to list followeds", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to list followeds: %w", err)
	}
	return users, nil
}

// FollowedIDs returns the ids id follows.
func (r *UserRepoPG) FollowedIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var raw []string
	if err := r.db.WithContext(ctx).Model(&FollowSchema{}).
		Where("follower_id = ?", id.String()).
		Pluck("followed_id", &raw).Error; err != nil {
		return nil, fmt.Errorf("failed to list followed ids: %w", err)
	}
	return parseUUIDs(raw)
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid stored id %q: %w", s, err)
		}
		ids[i] = id
	}
	return ids, nil
}
