package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"user-graph-service/internal/domain/user"
	apperrors "user-graph-service/pkg/errors"
)

// UserRepoPG implements the user store on top of GORM. The same code runs
// against PostgreSQL in production and SQLite in tests.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection, or the open transaction
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

func userNotFound(id uuid.UUID) error {
	return apperrors.NewNotFoundError("user", fmt.Sprintf("user %s not found", id))
}

// Create inserts a new user and returns its stored view.
func (r *UserRepoPG) Create(ctx context.Context, in user.NewUser) (*user.User, error) {
	model := UserSchema{
		ID:       uuid.NewString(),
		Email:    in.Email,
		Username: in.Username,
		Name:     in.Name,
		Location: in.Location,
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("user already exists", zap.String("email", in.Email), zap.String("username", in.Username))
			return nil, apperrors.NewAlreadyExistsError("user", "email or username already registered")
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", in.Email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.String("id", model.ID))
	return toDomain(model, nil), nil
}

// CreateAdmin inserts a new administrator.
func (r *UserRepoPG) CreateAdmin(ctx context.Context, email string) (*user.Admin, error) {
	model := AdminSchema{ID: uuid.NewString(), Email: email}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewAlreadyExistsError("admin", "email already registered")
		}
		r.log.Error("failed to create admin in db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	r.log.Info("admin created in db", zap.String("id", model.ID))
	return &user.Admin{ID: uuid.MustParse(model.ID), Email: model.Email}, nil
}

// GetAdminByEmail returns nil without error when no admin has that email.
func (r *UserRepoPG) GetAdminByEmail(ctx context.Context, email string) (*user.Admin, error) {
	var model AdminSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to get admin by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return &user.Admin{ID: uuid.MustParse(model.ID), Email: model.Email}, nil
}

// GetByID retrieves a user with all sub-collections by their unique ID.
func (r *UserRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	users, err := r.findUsers(ctx, r.db.WithContext(ctx).Where("id = ?", id.String()))
	if err != nil {
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if len(users) == 0 {
		r.log.Debug("user not found", zap.String("id", id.String()))
		return nil, userNotFound(id)
	}
	return &users[0], nil
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	users, err := r.findUsers(ctx, r.db.WithContext(ctx).Where("email = ?", email))
	if err != nil {
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user with email %s not found", email))
	}
	return &users[0], nil
}

// GetByEmailOrUsername returns the first user matching either value, or nil
// without error when neither is taken.
func (r *UserRepoPG) GetByEmailOrUsername(ctx context.Context, email, username string) (*user.User, error) {
	users, err := r.findUsers(ctx, r.db.WithContext(ctx).Where("email = ? OR username = ?", email, username).Limit(1))
	if err != nil {
		r.log.Error("failed to check email or username", zap.Error(err), zap.String("email", email), zap.String("username", username))
		return nil, fmt.Errorf("failed to get user by email or username: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// List returns every user in storage order.
func (r *UserRepoPG) List(ctx context.Context) ([]user.User, error) {
	users, err := r.findUsers(ctx, r.db.WithContext(ctx))
	if err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetManyByID loads full views for ids, preserving the order of ids. Unknown
// ids are skipped.
func (r *UserRepoPG) GetManyByID(ctx context.Context, ids []uuid.UUID) ([]user.User, error) {
	if len(ids) == 0 {
		return []user.User{}, nil
	}

	users, err := r.findUsers(ctx, r.db.WithContext(ctx).Where("id IN ?", uuidStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("failed to get users by id: %w", err)
	}

	byID := make(map[uuid.UUID]user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	ordered := make([]user.User, 0, len(users))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			ordered = append(ordered, u)
		}
	}
	return ordered, nil
}

// DeleteAll removes every user and administrator. Child rows are removed
// explicitly so the reset does not depend on foreign key enforcement.
func (r *UserRepoPG) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&FollowSchema{}, &InterestSchema{}, &GoalSchema{}, &TwitsnapSchema{}, &UserSchema{}, &AdminSchema{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.log.Error("failed to delete all users", zap.Error(err))
		return fmt.Errorf("failed to delete all users: %w", err)
	}

	r.log.Warn("all users deleted")
	return nil
}

// UpdateLocation sets the location of a user.
func (r *UserRepoPG) UpdateLocation(ctx context.Context, id uuid.UUID, location string) error {
	return r.updateColumn(ctx, id, "location", location)
}

// UpdateBlocked sets the blocked flag of a user.
func (r *UserRepoPG) UpdateBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	return r.updateColumn(ctx, id, "is_blocked", blocked)
}

// UpdateName sets the display name of a user.
func (r *UserRepoPG) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	return r.updateColumn(ctx, id, "name", name)
}

func (r *UserRepoPG) updateColumn(ctx context.Context, id uuid.UUID, column string, value any) error {
	result := r.db.WithContext(ctx).Model(&UserSchema{}).Where("id = ?", id.String()).UpdateColumn(column, value)
	if result.Error != nil {
		r.log.Error("failed to update user in db", zap.Error(result.Error), zap.String("id", id.String()), zap.String("column", column))
		return fmt.Errorf("failed to update user %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return userNotFound(id)
	}

	r.log.Info("user updated in db", zap.String("id", id.String()), zap.String("column", column))
	return nil
}

// AppendInterests adds interest tags to a user. Tags the user already has are
// left untouched.
func (r *UserRepoPG) AppendInterests(ctx context.Context, id uuid.UUID, interests []user.Interest) error {
	return r.appendRows(ctx, id, "interests", len(interests), func(*gorm.DB) (any, error) {
		rows := make([]InterestSchema, len(interests))
		for i, in := range interests {
			rows[i] = InterestSchema{UserID: id.String(), Interest: string(in)}
		}
		return rows, nil
	})
}

// AppendGoals adds goals to a user after the ones already stored. Goals the
// user already has keep their original position.
func (r *UserRepoPG) AppendGoals(ctx context.Context, id uuid.UUID, goals []string) error {
	return r.appendRows(ctx, id, "goals", len(goals), func(tx *gorm.DB) (any, error) {
		var last int
		if err := tx.Model(&GoalSchema{}).
			Where("user_id = ?", id.String()).
			Select("COALESCE(MAX(position), 0)").
			Scan(&last).Error; err != nil {
			return nil, err
		}
		rows := make([]GoalSchema, len(goals))
		for i, g := range goals {
			rows[i] = GoalSchema{UserID: id.String(), Goal: g, Position: last + i + 1}
		}
		return rows, nil
	})
}

// appendRows inserts the rows built by build for an existing user, skipping
// rows that collide with the composite key.
func (r *UserRepoPG) appendRows(ctx context.Context, id uuid.UUID, what string, n int, build func(tx *gorm.DB) (any, error)) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&UserSchema{}).Where("id = ?", id.String()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return userNotFound(id)
		}
		if n == 0 {
			return nil
		}
		rows, err := build(tx)
		if err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return err
		}
		r.log.Error("failed to append user rows", zap.Error(err), zap.String("id", id.String()), zap.String("kind", what))
		return fmt.Errorf("failed to append %s: %w", what, err)
	}

	r.log.Info("user rows appended", zap.String("id", id.String()), zap.String("kind", what))
	return nil
}

// findUsers runs query against the users table and assembles full views,
// including interests, goals, twitsnaps and both edge directions.
func (r *UserRepoPG) findUsers(ctx context.Context, query *gorm.DB) ([]user.User, error) {
	var models []UserSchema
	if err := query.Model(&UserSchema{}).
		Preload("Interests").
		Preload("Goals", func(db *gorm.DB) *gorm.DB {
			return db.Order("position, goal")
		}).
		Preload("Twitsnaps").
		Find(&models).Error; err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return []user.User{}, nil
	}

	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}

	var edges []FollowSchema
	if err := r.db.WithContext(ctx).
		Select("follower_id", "followed_id").
		Where("follower_id IN ? OR followed_id IN ?", ids, ids).
		Find(&edges).Error; err != nil {
		return nil, err
	}

	users := make([]user.User, len(models))
	for i, m := range models {
		users[i] = *toDomain(m, edges)
	}
	return users, nil
}

func toDomain(m UserSchema, edges []FollowSchema) *user.User {
	u := &user.User{
		ID:        uuid.MustParse(m.ID),
		Email:     m.Email,
		Username:  m.Username,
		Name:      m.Name,
		Location:  m.Location,
		Blocked:   m.IsBlocked,
		Interests: make([]user.Interest, 0, len(m.Interests)),
		Goals:     make([]string, 0, len(m.Goals)),
		Followers: []uuid.UUID{},
		Followeds: []uuid.UUID{},
		Twitsnaps: make([]uuid.UUID, 0, len(m.Twitsnaps)),
	}
	for _, in := range m.Interests {
		u.Interests = append(u.Interests, user.Interest(in.Interest))
	}
	for _, g := range m.Goals {
		u.Goals = append(u.Goals, g.Goal)
	}
	for _, t := range m.Twitsnaps {
		if id, err := uuid.Parse(t.TwitsnapID); err == nil {
			u.Twitsnaps = append(u.Twitsnaps, id)
		}
	}
	for _, e := range edges {
		switch m.ID {
		case e.FollowerID:
			u.Followeds = append(u.Followeds, uuid.MustParse(e.FollowedID))
		case e.FollowedID:
			u.Followers = append(u.Followers, uuid.MustParse(e.FollowerID))
		}
	}
	return u
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
