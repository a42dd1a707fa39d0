package cached

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-graph-service/internal/adapter/cache"
	domain "user-graph-service/internal/domain/user"
	"user-graph-service/internal/usecase/follow"
	"user-graph-service/internal/usecase/user"
)

// Store is the persistent store the cache decorates.
type Store interface {
	user.Repository
	follow.Store
}

// CachedUserRepository implements Store with cache-aside reads of user views.
// Every write that changes a view invalidates it, including both endpoints of
// a follow edge.
type CachedUserRepository struct {
	dbRepo Store
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
// A nil cache disables caching.
func NewCachedUserRepository(dbRepo Store, cache cache.UserCache, log *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

var _ Store = (*CachedUserRepository)(nil)

// GetByID retrieves a user by ID using Cache-Aside pattern.
func (r *CachedUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	// Try to get from cache first
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("id", id.String()), zap.Error(err))
		} else if cachedUser != nil {
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	result, err, _ := r.group.Do("user:"+id.String(), func() (any, error) {
		// Double-check cache in case another request populated it while we were waiting
		if r.cache != nil {
			cachedUser, err := r.cache.Get(ctx, id)
			if err == nil && cachedUser != nil {
				return cachedUser, nil
			}
		}

		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.String("id", id.String()), zap.Error(err))
			}
		}

		return u, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.User), nil
}

func (r *CachedUserRepository) invalidate(ctx context.Context, ids ...uuid.UUID) {
	if r.cache == nil || len(ids) == 0 {
		return
	}
	if err := r.cache.Delete(ctx, ids...); err != nil {
		r.log.Warn("failed to invalidate cached users", zap.Int("count", len(ids)), zap.Error(err))
	}
}

// Create delegates to the DB repository.
func (r *CachedUserRepository) Create(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	return r.dbRepo.Create(ctx, in)
}

// CreateAdmin delegates to the DB repository.
func (r *CachedUserRepository) CreateAdmin(ctx context.Context, email string) (*domain.Admin, error) {
	return r.dbRepo.CreateAdmin(ctx, email)
}

// GetAdminByEmail delegates to the DB repository.
func (r *CachedUserRepository) GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.dbRepo.GetAdminByEmail(ctx, email)
}

// GetByEmail delegates to the DB repository.
func (r *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.GetByEmail(ctx, email)
}

// GetByEmailOrUsername delegates to the DB repository.
func (r *CachedUserRepository) GetByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	return r.dbRepo.GetByEmailOrUsername(ctx, email, username)
}

// List delegates to the DB repository.
func (r *CachedUserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.List(ctx)
}

// DeleteAll clears the DB and then the whole user cache.
func (r *CachedUserRepository) DeleteAll(ctx context.Context) error {
	if err := r.dbRepo.DeleteAll(ctx); err != nil {
		return err
	}
	if r.cache != nil {
		if err := r.cache.Flush(ctx); err != nil {
			r.log.Warn("failed to flush user cache after reset", zap.Error(err))
		}
	}
	return nil
}

// UpdateLocation updates the DB and invalidates the cache.
func (r *CachedUserRepository) UpdateLocation(ctx context.Context, id uuid.UUID, location string) error {
	if err := r.dbRepo.UpdateLocation(ctx, id, location); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// UpdateBlocked updates the DB and invalidates the cache.
func (r *CachedUserRepository) UpdateBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	if err := r.dbRepo.UpdateBlocked(ctx, id, blocked); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// UpdateName updates the DB and invalidates the cache.
func (r *CachedUserRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	if err := r.dbRepo.UpdateName(ctx, id, name); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// AppendInterests updates the DB and invalidates the cache.
func (r *CachedUserRepository) AppendInterests(ctx context.Context, id uuid.UUID, interests []domain.Interest) error {
	if err := r.dbRepo.AppendInterests(ctx, id, interests); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// AppendGoals updates the DB and invalidates the cache.
func (r *CachedUserRepository) AppendGoals(ctx context.Context, id uuid.UUID, goals []string) error {
	if err := r.dbRepo.AppendGoals(ctx, id, goals); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// Transaction runs fn in a DB transaction and, once it commits, invalidates
// every user whose edges fn changed.
func (r *CachedUserRepository) Transaction(ctx context.Context, fn func(tx domain.GraphTx) error) error {
	tracker := &edgeTracker{}
	if err := r.dbRepo.Transaction(ctx, func(tx domain.GraphTx) error {
		tracker.GraphTx = tx
		return fn(tracker)
	}); err != nil {
		return err
	}
	r.invalidate(ctx, tracker.touched...)
	return nil
}

// UserExists delegates to the DB repository.
func (r *CachedUserRepository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.dbRepo.UserExists(ctx, id)
}

// ListFollowers delegates to the DB repository.
func (r *CachedUserRepository) ListFollowers(ctx context.Context, id uuid.UUID) ([]domain.User, error) {
	return r.dbRepo.ListFollowers(ctx, id)
}

// ListFolloweds delegates to the DB repository.
func (r *CachedUserRepository) ListFolloweds(ctx context.Context, id uuid.UUID) ([]domain.User, error) {
	return r.dbRepo.ListFolloweds(ctx, id)
}

// edgeTracker records both endpoints of every edge written through it.
type edgeTracker struct {
	domain.GraphTx
	touched []uuid.UUID
}

func (t *edgeTracker) InsertEdge(ctx context.Context, followerID, followedID uuid.UUID) error {
	if err := t.GraphTx.InsertEdge(ctx, followerID, followedID); err != nil {
		return err
	}
	t.touched = append(t.touched, followerID, followedID)
	return nil
}

func (t *edgeTracker) DeleteEdge(ctx context.Context, followerID, followedID uuid.UUID) error {
	if err := t.GraphTx.DeleteEdge(ctx, followerID, followedID); err != nil {
		return err
	}
	t.touched = append(t.touched, followerID, followedID)
	return nil
}
