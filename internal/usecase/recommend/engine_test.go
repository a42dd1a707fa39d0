package recommend

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

type MockStore struct {
	mock.Mock
}

func (m *MockStore) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) FollowedIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockStore) FriendsOfFriends(ctx context.Context, id uuid.UUID) ([]domain.Summary, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.Summary), args.Error(1)
}

func (m *MockStore) SharedInterests(ctx context.Context, id uuid.UUID) ([]domain.Summary, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.Summary), args.Error(1)
}

func (m *MockStore) SameLocation(ctx context.Context, id uuid.UUID) ([]domain.Summary, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.Summary), args.Error(1)
}

func summary(name string) domain.Summary {
	return domain.Summary{ID: uuid.New(), Username: name, Name: name}
}

func TestRecommend_UnionDedupAndExclusion(t *testing.T) {
	store := new(MockStore)
	engine := New(store, zaptest.NewLogger(t))
	ctx := context.Background()

	me := uuid.New()
	fof, both, followed, local := summary("fof"), summary("both"), summary("followed"), summary("local")

	store.On("UserExists", ctx, me).Return(true, nil)
	store.On("FollowedIDs", mock.Anything, me).Return([]uuid.UUID{followed.ID}, nil)
	store.On("FriendsOfFriends", mock.Anything, me).Return([]domain.Summary{fof, both}, nil)
	store.On("SharedInterests", mock.Anything, me).Return([]domain.Summary{both, followed}, nil)
	store.On("SameLocation", mock.Anything, me).Return([]domain.Summary{local, fof, {ID: me}}, nil)

	got, err := engine.Recommend(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, []domain.Summary{fof, both, local}, got)
}

func TestRecommend_Empty(t *testing.T) {
	store := new(MockStore)
	engine := New(store, zaptest.NewLogger(t))
	ctx := context.Background()
	me := uuid.New()

	store.On("UserExists", ctx, me).Return(true, nil)
	store.On("FollowedIDs", mock.Anything, me).Return([]uuid.UUID{}, nil)
	store.On("FriendsOfFriends", mock.Anything, me).Return([]domain.Summary{}, nil)
	store.On("SharedInterests", mock.Anything, me).Return([]domain.Summary{}, nil)
	store.On("SameLocation", mock.Anything, me).Return([]domain.Summary{}, nil)

	got, err := engine.Recommend(ctx, me)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecommend_NotFound(t *testing.T) {
	store := new(MockStore)
	engine := New(store, zaptest.NewLogger(t))
	ctx := context.Background()
	me := uuid.New()

	store.On("UserExists", ctx, me).Return(false, nil)

	_, err := engine.Recommend(ctx, me)
	assert.True(t, apperrors.IsNotFound(err))
	store.AssertNotCalled(t, "FriendsOfFriends", mock.Anything, mock.Anything)
}

func TestRecommend_StrategyError(t *testing.T) {
	store := new(MockStore)
	engine := New(store, zaptest.NewLogger(t))
	ctx := context.Background()
	me := uuid.New()
	boom := errors.New("query timeout")

	store.On("UserExists", ctx, me).Return(true, nil)
	store.On("FollowedIDs", mock.Anything, me).Return([]uuid.UUID{}, nil)
	store.On("FriendsOfFriends", mock.Anything, me).Return([]domain.Summary{}, nil)
	store.On("SharedInterests", mock.Anything, me).Return([]domain.Summary(nil), boom)
	store.On("SameLocation", mock.Anything, me).Return([]domain.Summary{}, nil)

	_, err := engine.Recommend(ctx, me)
	assert.ErrorIs(t, err, boom)
}
