package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-graph-service/internal/domain/user"
	apperrors "user-graph-service/pkg/errors"
)

type MockRepository struct {
	mock.Mock
}

func userOrNil(args mock.Arguments) *domain.User {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.User)
}

func adminOrNil(args mock.Arguments) *domain.Admin {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Admin)
}

func (m *MockRepository) Create(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	args := m.Called(ctx, in)
	return userOrNil(args), args.Error(1)
}

func (m *MockRepository) CreateAdmin(ctx context.Context, email string) (*domain.Admin, error) {
	args := m.Called(ctx, email)
	return adminOrNil(args), args.Error(1)
}

func (m *MockRepository) GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	args := m.Called(ctx, email)
	return adminOrNil(args), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	return userOrNil(args), args.Error(1)
}

func (m *MockRepository) GetByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	args := m.Called(ctx, email, username)
	return userOrNil(args), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) DeleteAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockRepository) UpdateLocation(ctx context.Context, id uuid.UUID, location string) error {
	return m.Called(ctx, id, location).Error(0)
}

func (m *MockRepository) UpdateBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	return m.Called(ctx, id, blocked).Error(0)
}

func (m *MockRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	return m.Called(ctx, id, name).Error(0)
}

func (m *MockRepository) AppendInterests(ctx context.Context, id uuid.UUID, interests []domain.Interest) error {
	return m.Called(ctx, id, interests).Error(0)
}

func (m *MockRepository) AppendGoals(ctx context.Context, id uuid.UUID, goals []string) error {
	return m.Called(ctx, id, goals).Error(0)
}

type MockFollowEngine struct {
	mock.Mock
}

func (m *MockFollowEngine) Follow(ctx context.Context, source, target uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, source, target)
	return userOrNil(args), args.Error(1)
}

func (m *MockFollowEngine) Unfollow(ctx context.Context, source, target uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, source, target)
	return userOrNil(args), args.Error(1)
}

func (m *MockFollowEngine) ListFollowers(ctx context.Context, id uuid.UUID) ([]domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockFollowEngine) ListFolloweds(ctx context.Context, id uuid.UUID) ([]domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.User), args.Error(1)
}

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) SearchUsers(ctx context.Context, query string, limit int) ([]domain.User, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockSearcher) SearchWithinFolloweds(ctx context.Context, id uuid.UUID, query string, limit int) ([]domain.User, error) {
	args := m.Called(ctx, id, query, limit)
	return args.Get(0).([]domain.User), args.Error(1)
}

type MockRecommender struct {
	mock.Mock
}

func (m *MockRecommender) Recommend(ctx context.Context, id uuid.UUID) ([]domain.Summary, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.Summary), args.Error(1)
}

type mocks struct {
	repo      *MockRepository
	follows   *MockFollowEngine
	search    *MockSearcher
	recommend *MockRecommender
}

func setupTestUsecase(t *testing.T) (*Usecase, mocks) {
	m := mocks{
		repo:      new(MockRepository),
		follows:   new(MockFollowEngine),
		search:    new(MockSearcher),
		recommend: new(MockRecommender),
	}
	return New(m.repo, m.follows, m.search, m.recommend, zaptest.NewLogger(t)), m
}

func validSignUp() SignUpRequest {
	return SignUpRequest{
		Email:    "john@example.com",
		Password: "secret123",
		Username: "johnny",
		Name:     "John Doe",
		Location: "ARG",
	}
}

// ==================== SIGN UP ====================

func TestSignUp_Success(t *testing.T) {
	uc, m := setupTestUsecase(t)
	ctx := context.Background()
	req := validSignUp()
	created := &domain.User{ID: uuid.New(), Email: req.Email, Username: req.Username}

	m.repo.On("GetByEmailOrUsername", ctx, req.Email, req.Username).Return(nil, nil)
	m.repo.On("Create", ctx, domain.NewUser{
		Email: req.Email, Username: req.Username, Name: req.Name, Location: req.Location,
	}).Return(created, nil)

	got, err := uc.SignUp(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	m.repo.AssertExpectations(t)
}

func TestSignUp_Duplicate(t *testing.T) {
	tests := []struct {
		name     string
		existing *domain.User
		msg      string
	}{
		{"email taken", &domain.User{Email: "john@example.com", Username: "other"}, "email already registered"},
		{"username taken", &domain.User{Email: "other@example.com", Username: "johnny"}, "username already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, m := setupTestUsecase(t)
			ctx := context.Background()
			req := validSignUp()

			m.repo.On("GetByEmailOrUsername", ctx, req.Email, req.Username).Return(tt.existing, nil)

			_, err := uc.SignUp(ctx, req)
			assert.True(t, apperrors.IsAlreadyExists(err))
			assert.EqualError(t, err, tt.msg)
			m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestSignUp_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SignUpRequest)
		msg    string
	}{
		{"bad email", func(r *SignUpRequest) { r.Email = "nope" }, "Email must be a valid email"},
		{"missing password", func(r *SignUpRequest) { r.Password = "" }, "Password is required"},
		{"short username", func(r *SignUpRequest) { r.Username = "jo" }, "Username must be at least 3"},
		{"bad country", func(r *SignUpRequest) { r.Location = "AR" }, "Location must be an ISO 3166-1 alpha-3 country code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, m := setupTestUsecase(t)
			req := validSignUp()
			tt.mutate(&req)

			_, err := uc.SignUp(context.Background(), req)
			assert.True(t, apperrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.msg)
			m.repo.AssertNotCalled(t, "GetByEmailOrUsername", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSignUp_EmptyLocationAllowed(t *testing.T) {
	uc, m := setupTestUsecase(t)
	ctx := context.Background()
	req := validSignUp()
	req.Location = ""

	m.repo.On("GetByEmailOrUsername", ctx, req.Email, req.Username).Return(nil, nil)
	m.repo.On("Create", ctx, mock.Anything).Return(&domain.User{ID: uuid.New()}, nil)

	_, err := uc.SignUp(ctx, req)
	assert.NoError(t, err)
}

func TestSignUpAdmin(t *testing.T) {
	uc, m := setupTestUsecase(t)
	ctx := context.Background()
	admin := &domain.Admin{ID: uuid.New(), Email: "root@example.com"}

	m.repo.On("GetAdminByEmail", ctx, "root@example.com").Return(nil, nil).Once()
	m.repo.On("CreateAdmin", ctx, "root@example.com").Return(admin, nil).Once()

	got, err := uc.SignUpAdmin(ctx, AdminSignUpRequest{Email: "root@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, admin, got)

	m.repo.On("GetAdminByEmail", ctx, "root@example.com").Return(admin, nil)
	_, err = uc.SignUpAdmin(ctx, AdminSignUpRequest{Email: "root@example.com", Password: "secret123"})
	assert.True(t, apperrors.IsAlreadyExists(err))
}

// ==================== LOOKUPS ====================

func TestGetByID_Blocked(t *testing.T) {
	uc, m := setupTestUsecase(t)
	ctx := context.Background()
	id := uuid.New()

	m.repo.On("GetByID", ctx, id).Return(&domain.User{ID: id, Blocked: true}, nil)

	_, err := uc.GetByID(ctx, id)
	assert.True(t, apperrors.IsBlocked(err))
	assert.False(t, apperrors.IsNotFound(err))
}

func TestGetByID_NotFound(t *testing.T) {
	uc, m := setupTestUsecase(t)
	ctx := context.Background()
	id := uuid.New()

	m.repo.On("GetByID", ctx, id).Return(nil, apperrors.NewNotFoundError("user", "user not found"))

	_, err := uc.GetByID(ctx, id)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetByEmail(t *testing.T) {
	uc, m := setupTestUsecase(t)
	ctx := context.Background()
	visible := &domain.User{ID: uuid.New(), Email: "a@example.com"}

	m.repo.On("GetByEmail", ctx, "a@example.com").Return(visible, nil)
	m.repo.On("GetByEmail", ctx, "b@example.com").Return(&domain.User{ID: uuid.New(), Blocked: true}, nil)

	got, err := uc.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, visible, got)

	_, err = uc.GetByEmail(ctx, "b@example.com")
	assert.True(t, apperrors.IsBlocked(err))
}

// ==================== PROFILE MUTATIONS ====================

func TestBlockAndUnblock(t *testing.T) {
	uc, m := setupTestUsecase(t)
	ctx := context.Background()
	id := uuid.New()

	m.repo.On("UpdateBlocked", ctx, id, true).Return(nil)
	m.repo.On("GetByID", ctx, id).Return(&domain.User{ID: id, Blocked: true}, nil).Once()

	got, err := uc.Block(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Blocked)

	m.repo.On("UpdateBlocked", ctx, id, false).Return(nil)
	m.repo.On("GetByID", ctx, id).Return(&domain.User{ID: id}, nil).Once()

	got, err = uc.Unblock(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Blocked)
}

func TestMutations_NotFound(t *testing.T) {
	uc, m := setupTestUsecase(t)
	ctx := context.Background()
	id := uuid.New()
	notFound := apperrors.NewNotFoundError("user", "user not found")

	m.repo.On("UpdateBlocked", ctx, id, true).Return(notFound)
	m.repo.On("UpdateLocation", ctx, id, "ARG").Return(notFound)
	m.repo.On("UpdateName", ctx, id, "New").Return(notFound)
	m.repo.On("AppendGoals", ctx, id, []string{"g"}).Return(notFound)
	m.repo.On("AppendInterests", ctx, id, []domain.Interest{domain.InterestSports}).Return(notFound)

	_, err := uc.Block(ctx, id)
	assert.True(t, apperrors.IsNotFound(err))
	_, err = uc.SetLocation(ctx, id, SetLocationRequest{Location: "ARG"})
	assert.True(t, apperrors.IsNotFound(err))
	_, err = uc.Rename(ctx, id, RenameRequest{Name: "New"})
	assert.True(t, apperrors.IsNotFound(err))
	_, err = uc.SetGoals(ctx, id, []string{"g"})
	assert.True(t, apperrors.IsNotFound(err))
	_, err = uc.SetInterests(ctx, id, []string{"sports"})
	assert.True(t, apperrors.IsNotFound(err))
	m.repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSetLocation_Invalid(t *testing.T) {
	uc, m := setupTestUsecase(t)

	_, err := uc.SetLocation(context.Background(), uuid.New(), SetLocationRequest{Location: "XXX"})
	assert.True(t, apperrors.IsValidation(err))
	m.repo.AssertNotCalled(t, "UpdateLocation", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetInterests(t *testing.T) {
	uc, m := setupTestUsecase(t)
	ctx := context.Background()
	id := uuid.New()
	updated := &domain.User{ID: id, Interests: []domain.Interest{domain.InterestSports, domain.InterestScience}}

	m.repo.On("AppendInterests", ctx, id, []domain.Interest{domain.InterestSports, domain.InterestScience}).Return(nil)
	m.repo.On("GetByID", ctx, id).Return(updated, nil)

	got, err := uc.SetInterests(ctx, id, []string{"sports", "science"})
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = uc.SetInterests(ctx, id, []string{"sports", "cooking"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestSetGoals_RejectsEmptyGoal(t *testing.T) {
	uc, _ := setupTestUsecase(t)

	_, err := uc.SetGoals(context.Background(), uuid.New(), []string{"ok", ""})
	assert.True(t, apperrors.IsValidation(err))
}

func TestRename(t *testing.T) {
	uc, m := setupTestUsecase(t)
	ctx := context.Background()
	id := uuid.New()

	m.repo.On("UpdateName", ctx, id, "Johnny B").Return(nil)
	m.repo.On("GetByID", ctx, id).Return(&domain.User{ID: id, Name: "Johnny B"}, nil)

	got, err := uc.Rename(ctx, id, RenameRequest{Name: "Johnny B"})
	require.NoError(t, err)
	assert.Equal(t, "Johnny B", got.Name)

	_, err = uc.Rename(ctx, id, RenameRequest{})
	assert.True(t, apperrors.IsValidation(err))
}

// ==================== GRAPH, SEARCH, RECOMMEND ====================

func TestFollow_Self(t *testing.T) {
	uc, m := setupTestUsecase(t)
	id := uuid.New()

	_, err := uc.Follow(context.Background(), id, id)
	assert.True(t, apperrors.IsNotAllowed(err))
	_, err = uc.Unfollow(context.Background(), id, id)
	assert.True(t, apperrors.IsNotAllowed(err))
	m.follows.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
	m.follows.AssertNotCalled(t, "Unfollow", mock.Anything, mock.Anything, mock.Anything)
}

func TestFollow_Delegates(t *testing.T) {
	uc, m := setupTestUsecase(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()
	updated := &domain.User{ID: a, Followeds: []uuid.UUID{b}}

	m.follows.On("Follow", ctx, a, b).Return(updated, nil)
	m.follows.On("Unfollow", ctx, a, b).Return(nil, apperrors.NewNotAllowedError("cannot unfollow an unfollowed user"))
	m.follows.On("ListFollowers", ctx, b).Return([]domain.User{{ID: a}}, nil)
	m.follows.On("ListFolloweds", ctx, a).Return([]domain.User{{ID: b}}, nil)

	got, err := uc.Follow(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = uc.Unfollow(ctx, a, b)
	assert.True(t, apperrors.IsNotAllowed(err))

	followers, err := uc.ListFollowers(ctx, b)
	require.NoError(t, err)
	assert.Len(t, followers, 1)

	followeds, err := uc.ListFolloweds(ctx, a)
	require.NoError(t, err)
	assert.Len(t, followeds, 1)
}

func TestSearch(t *testing.T) {
	uc, m := setupTestUsecase(t)
	ctx := context.Background()
	id := uuid.New()

	m.search.On("SearchUsers", ctx, "john", 5).Return([]domain.User{{Username: "john"}}, nil)
	m.search.On("SearchWithinFolloweds", ctx, id, "john", 0).Return([]domain.User{}, nil)

	got, err := uc.Search(ctx, SearchRequest{Query: "john", Limit: 5})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = uc.SearchFolloweds(ctx, id, SearchRequest{Query: "john"})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = uc.Search(ctx, SearchRequest{Query: "john", Limit: -3})
	assert.True(t, apperrors.IsValidation(err))
}

func TestRecommend(t *testing.T) {
	uc, m := setupTestUsecase(t)
	ctx := context.Background()
	id := uuid.New()
	want := []domain.Summary{{ID: uuid.New(), Username: "x"}}

	m.recommend.On("Recommend", ctx, id).Return(want, nil)

	got, err := uc.Recommend(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestInterests(t *testing.T) {
	uc, _ := setupTestUsecase(t)

	got := uc.Interests()
	assert.Equal(t, domain.Interests, got)

	got[0] = "mutated"
	assert.Equal(t, domain.InterestSports, domain.Interests[0])
}

func TestReset(t *testing.T) {
	uc, m := setupTestUsecase(t)
	ctx := context.Background()
	boom := errors.New("boom")

	m.repo.On("DeleteAll", ctx).Return(boom)

	assert.ErrorIs(t, uc.Reset(ctx), boom)
}
