package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "user-graph-service/internal/domain/user"
	apperrors "user-graph-service/pkg/errors"
)

// Repository defines the interface for user data access operations.
// Mutations on an unknown id fail with a NotFoundError.
type Repository interface {
	Create(ctx context.Context, in domain.NewUser) (*domain.User, error)
	CreateAdmin(ctx context.Context, email string) (*domain.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	DeleteAll(ctx context.Context) error
	UpdateLocation(ctx context.Context, id uuid.UUID, location string) error
	UpdateBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	AppendInterests(ctx context.Context, id uuid.UUID, interests []domain.Interest) error
	AppendGoals(ctx context.Context, id uuid.UUID, goals []string) error
}

// Usecase implements the profile service. It guards direct lookups with the
// blocked flag and delegates graph, search and recommendation work.
type Usecase struct {
	repo      Repository          // Repository for profile data
	follows   FollowEngine        // Follow graph rules
	search    Searcher            // Username search
	recommend Recommender         // Recommendation strategies
	log       *zap.Logger         // Logger for structured logging
	validate  *validator.Validate // Validator for request validation
}

var _ UserUsecase = (*Usecase)(nil)

// New creates a new instance of Usecase.
func New(r Repository, f FollowEngine, s Searcher, rec Recommender, log *zap.Logger) *Usecase {
	return &Usecase{
		repo:      r,
		follows:   f,
		search:    s,
		recommend: rec,
		log:       log,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// formatValidationError converts validator.ValidationErrors into a ValidationError.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewValidationError("", err.Error())
	}

	var fields, messages []string
	for _, e := range validationErrors {
		fields = append(fields, e.Field())
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
		case "iso3166_1_alpha3":
			messages = append(messages, fmt.Sprintf("%s must be an ISO 3166-1 alpha-3 country code", e.Field()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", e.Field(), e.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return apperrors.NewValidationError(strings.Join(fields, ","), strings.Join(messages, ", "))
}

func (uc *Usecase) check(in any) error {
	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return formatValidationError(err)
	}
	return nil
}

// SignUp registers a new user after checking email and username uniqueness.
func (uc *Usecase) SignUp(ctx context.Context, in SignUpRequest) (*domain.User, error) {
	uc.log.Info("signing up user", zap.String("email", in.Email), zap.String("username", in.Username))

	if err := uc.check(in); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		uc.log.Error("failed to check existing user", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	if existing != nil {
		if existing.Email == in.Email {
			return nil, apperrors.NewAlreadyExistsError("user", "email already registered")
		}
		return nil, apperrors.NewAlreadyExistsError("user", "username already registered")
	}

	u, err := uc.repo.Create(ctx, domain.NewUser{
		Email:    in.Email,
		Username: in.Username,
		Name:     in.Name,
		Location: in.Location,
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("user signed up", zap.String("id", u.ID.String()))
	return u, nil
}

// SignUpAdmin registers a new administrator.
func (uc *Usecase) SignUpAdmin(ctx context.Context, in AdminSignUpRequest) (*domain.Admin, error) {
	if err := uc.check(in); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetAdminByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewAlreadyExistsError("admin", "email already registered")
	}

	admin, err := uc.repo.CreateAdmin(ctx, in.Email)
	if err != nil {
		return nil, err
	}

	uc.log.Info("admin signed up", zap.String("id", admin.ID.String()))
	return admin, nil
}

// GetByID returns a user unless it is blocked.
func (uc *Usecase) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Blocked {
		return nil, apperrors.NewBlockedError(id.String())
	}
	return u, nil
}

// GetByEmail returns a user unless it is blocked.
func (uc *Usecase) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u.Blocked {
		return nil, apperrors.NewBlockedError(u.ID.String())
	}
	return u, nil
}

// List returns every user, blocked ones included.
func (uc *Usecase) List(ctx context.Context) ([]domain.User, error) {
	return uc.repo.List(ctx)
}

// Block hides a user from direct lookups. Follow edges are kept.
func (uc *Usecase) Block(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.mutate(ctx, id, "block", func() error {
		return uc.repo.UpdateBlocked(ctx, id, true)
	})
}

// Unblock restores direct lookups of a user.
func (uc *Usecase) Unblock(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.mutate(ctx, id, "unblock", func() error {
		return uc.repo.UpdateBlocked(ctx, id, false)
	})
}

// SetLocation changes a user's country code.
func (uc *Usecase) SetLocation(ctx context.Context, id uuid.UUID, in SetLocationRequest) (*domain.User, error) {
	if err := uc.check(in); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, id, "set_location", func() error {
		return uc.repo.UpdateLocation(ctx, id, in.Location)
	})
}

// SetInterests adds interest tags to a user. Existing tags are kept.
func (uc *Usecase) SetInterests(ctx context.Context, id uuid.UUID, interests []string) (*domain.User, error) {
	if err := uc.check(interestsRequest{Interests: interests}); err != nil {
		return nil, err
	}

	tags := make([]domain.Interest, 0, len(interests))
	for _, raw := range interests {
		tag, err := domain.ParseInterest(raw)
		if err != nil {
			return nil, apperrors.NewValidationError("Interests", err.Error())
		}
		tags = append(tags, tag)
	}

	return uc.mutate(ctx, id, "set_interests", func() error {
		return uc.repo.AppendInterests(ctx, id, tags)
	})
}

// SetGoals adds goals to a user. Existing goals are kept.
func (uc *Usecase) SetGoals(ctx context.Context, id uuid.UUID, goals []string) (*domain.User, error) {
	if err := uc.check(goalsRequest{Goals: goals}); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, id, "set_goals", func() error {
		return uc.repo.AppendGoals(ctx, id, goals)
	})
}

// Rename changes a user's display name.
func (uc *Usecase) Rename(ctx context.Context, id uuid.UUID, in RenameRequest) (*domain.User, error) {
	if err := uc.check(in); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, id, "rename", func() error {
		return uc.repo.UpdateName(ctx, id, in.Name)
	})
}

// mutate runs update and returns the refreshed view. The view is returned
// even when the user is blocked.
func (uc *Usecase) mutate(ctx context.Context, id uuid.UUID, op string, update func() error) (*domain.User, error) {
	if err := update(); err != nil {
		if !apperrors.IsNotFound(err) {
			uc.log.Error("profile update failed", zap.String("op", op), zap.String("id", id.String()), zap.Error(err))
		}
		return nil, err
	}

	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.log.Info("profile updated", zap.String("op", op), zap.String("id", id.String()))
	return u, nil
}

// Follow makes source follow target.
func (uc *Usecase) Follow(ctx context.Context, source, target uuid.UUID) (*domain.User, error) {
	if source == target {
		return nil, apperrors.NewNotAllowedError("cannot follow yourself")
	}
	return uc.follows.Follow(ctx, source, target)
}

// Unfollow makes source stop following target.
func (uc *Usecase) Unfollow(ctx context.Context, source, target uuid.UUID) (*domain.User, error) {
	if source == target {
		return nil, apperrors.NewNotAllowedError("cannot unfollow yourself")
	}
	return uc.follows.Unfollow(ctx, source, target)
}

// ListFollowers returns the users following id.
func (uc *Usecase) ListFollowers(ctx context.Context, id uuid.UUID) ([]domain.User, error) {
	return uc.follows.ListFollowers(ctx, id)
}

// ListFolloweds returns the users id follows.
func (uc *Usecase) ListFolloweds(ctx context.Context, id uuid.UUID) ([]domain.User, error) {
	return uc.follows.ListFolloweds(ctx, id)
}

// Search ranks all users against a username query.
func (uc *Usecase) Search(ctx context.Context, in SearchRequest) ([]domain.User, error) {
	if err := uc.check(in); err != nil {
		return nil, err
	}
	return uc.search.SearchUsers(ctx, in.Query, in.Limit)
}

// SearchFolloweds ranks the users id follows against a username query.
func (uc *Usecase) SearchFolloweds(ctx context.Context, id uuid.UUID, in SearchRequest) ([]domain.User, error) {
	if err := uc.check(in); err != nil {
		return nil, err
	}
	return uc.search.SearchWithinFolloweds(ctx, id, in.Query, in.Limit)
}

// Recommend returns users id may want to follow.
func (uc *Usecase) Recommend(ctx context.Context, id uuid.UUID) ([]domain.Summary, error) {
	return uc.recommend.Recommend(ctx, id)
}

// Interests lists the valid interest tags.
func (uc *Usecase) Interests() []domain.Interest {
	out := make([]domain.Interest, len(domain.Interests))
	copy(out, domain.Interests)
	return out
}

// Reset deletes every user and administrator.
func (uc *Usecase) Reset(ctx context.Context) error {
	uc.log.Warn("resetting user store")
	return uc.repo.DeleteAll(ctx)
}
