package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"user-graph-service/internal/domain/user"
)

type summaryRow struct {
	ID       string
	Username string
	Name     string
}

const (
	friendsOfFriendsSQL = `
SELECT DISTINCT u.id, u.username, u.name
FROM followers f1
JOIN followers f2 ON f2.follower_id = f1.followed_id
JOIN users u ON u.id = f2.followed_id
WHERE f1.follower_id = ?
  AND f2.followed_id <> ?
  AND f2.followed_id NOT IN (SELECT followed_id FROM followers WHERE follower_id = ?)`

	sharedInterestsSQL = `
SELECT DISTINCT u.id, u.username, u.name
FROM users_interests mine
JOIN users_interests theirs ON theirs.interest = mine.interest AND theirs.user_id <> mine.user_id
JOIN users u ON u.id = theirs.user_id
WHERE mine.user_id = ?`

	sameLocationSQL = `
SELECT u.id, u.username, u.name
FROM users u
JOIN users me ON me.location = u.location
WHERE me.id = ? AND u.id <> me.id`
)

// ListSummaries returns the id, username and name of every user in storage order.
func (r *UserRepoPG) ListSummaries(ctx context.Context) ([]user.Summary, error) {
	var rows []summaryRow
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).
		Select("id", "username", "name").
		Scan(&rows).Error; err != nil {
		r.log.Error("failed to list user summaries", zap.Error(err))
		return nil, fmt.Errorf("failed to list user summaries: %w", err)
	}
	return toSummaries(rows)
}

// ListFollowedSummaries returns summaries of the users id follows.
func (r *UserRepoPG) ListFollowedSummaries(ctx context.Context, id uuid.UUID) ([]user.Summary, error) {
	var rows []summaryRow
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).
		Select("users.id", "users.username", "users.name").
		Joins("JOIN followers ON followers.followed_id = users.id").
		Where("followers.follower_id = ?", id.String()).
		Scan(&rows).Error; err != nil {
		r.log.Error("failed to list followed summaries", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to list followed summaries: %w", err)
	}
	return toSummaries(rows)
}

// FriendsOfFriends returns users followed by someone id follows, excluding id
// and everyone id already follows.
func (r *UserRepoPG) FriendsOfFriends(ctx context.Context, id uuid.UUID) ([]user.Summary, error) {
	s := id.String()
	return r.rawSummaries(ctx, "friends_of_friends", friendsOfFriendsSQL, s, s, s)
}

// SharedInterests returns users other than id sharing at least one interest with id.
func (r *UserRepoPG) SharedInterests(ctx context.Context, id uuid.UUID) ([]user.Summary, error) {
	return r.rawSummaries(ctx, "shared_interests", sharedInterestsSQL, id.String())
}

// SameLocation returns users other than id whose location equals id's,
// including the empty location.
func (r *UserRepoPG) SameLocation(ctx context.Context, id uuid.UUID) ([]user.Summary, error) {
	return r.rawSummaries(ctx, "same_location", sameLocationSQL, id.String())
}

func (r *UserRepoPG) rawSummaries(ctx context.Context, name, query string, args ...any) ([]user.Summary, error) {
	var rows []summaryRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		r.log.Error("failed to run recommendation query", zap.Error(err), zap.String("query", name))
		return nil, fmt.Errorf("failed to run %s query: %w", name, err)
	}
	return toSummaries(rows)
}

func toSummaries(rows []summaryRow) ([]user.Summary, error) {
	out := make([]user.Summary, len(rows))
	for i, row := range rows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid stored id %q: %w", row.ID, err)
		}
		out[i] = user.Summary{ID: id, Username: row.Username, Name: row.Name}
	}
	return out, nil
}
