package user

import (
	"context"

	"github.com/google/uuid"
)

// GraphTx is the set of store operations the follow engine runs inside a single
// transaction. Implementations must see each other's writes within the same unit of work.
type GraphTx interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	HasEdge(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	InsertEdge(ctx context.Context, followerID, followedID uuid.UUID) error
	DeleteEdge(ctx context.Context, followerID, followedID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}
