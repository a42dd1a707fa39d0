package user

import (
	"context"

	"github.com/google/uuid"

	domain "user-graph-service/internal/domain/user"
)

// UserUsecase defines the profile operations exposed to transports.
type UserUsecase interface {
	SignUp(ctx context.Context, in SignUpRequest) (*domain.User, error)
	SignUpAdmin(ctx context.Context, in AdminSignUpRequest) (*domain.Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Block(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Unblock(ctx context.Context, id uuid.UUID) (*domain.User, error)
	SetLocation(ctx context.Context, id uuid.UUID, in SetLocationRequest) (*domain.User, error)
	SetInterests(ctx context.Context, id uuid.UUID, interests []string) (*domain.User, error)
	SetGoals(ctx context.Context, id uuid.UUID, goals []string) (*domain.User, error)
	Rename(ctx context.Context, id uuid.UUID, in RenameRequest) (*domain.User, error)
	Follow(ctx context.Context, source, target uuid.UUID) (*domain.User, error)
	Unfollow(ctx context.Context, source, target uuid.UUID) (*domain.User, error)
	ListFollowers(ctx context.Context, id uuid.UUID) ([]domain.User, error)
	ListFolloweds(ctx context.Context, id uuid.UUID) ([]domain.User, error)
	Search(ctx context.Context, in SearchRequest) ([]domain.User, error)
	SearchFolloweds(ctx context.Context, id uuid.UUID, in SearchRequest) ([]domain.User, error)
	Recommend(ctx context.Context, id uuid.UUID) ([]domain.Summary, error)
	Interests() []domain.Interest
	Reset(ctx context.Context) error
}

// FollowEngine mutates and reads the follow graph.
type FollowEngine interface {
	Follow(ctx context.Context, source, target uuid.UUID) (*domain.User, error)
	Unfollow(ctx context.Context, source, target uuid.UUID) (*domain.User, error)
	ListFollowers(ctx context.Context, id uuid.UUID) ([]domain.User, error)
	ListFolloweds(ctx context.Context, id uuid.UUID) ([]domain.User, error)
}

// Searcher ranks users by username similarity.
type Searcher interface {
	SearchUsers(ctx context.Context, query string, limit int) ([]domain.User, error)
	SearchWithinFolloweds(ctx context.Context, id uuid.UUID, query string, limit int) ([]domain.User, error)
}

// Recommender suggests users to follow.
type Recommender interface {
	Recommend(ctx context.Context, id uuid.UUID) ([]domain.Summary, error)
}
