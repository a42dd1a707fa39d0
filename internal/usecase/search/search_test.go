package search

import (
	"context"
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

func (m *MockStore) ListSummaries(ctx context.Context) ([]domain.Summary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Summary), args.Error(1)
}

func (m *MockStore) ListFollowedSummaries(ctx context.Context, id uuid.UUID) ([]domain.Summary, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.Summary), args.Error(1)
}

func (m *MockStore) GetManyByID(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	users := make([]domain.User, len(ids))
	for i, id := range ids {
		users[i] = domain.User{ID: id}
	}
	return users, args.Error(0)
}

func summaries(usernames ...string) []domain.Summary {
	out := make([]domain.Summary, len(usernames))
	for i, u := range usernames {
		out[i] = domain.Summary{ID: uuid.New(), Username: u}
	}
	return out
}

func usernames(in []domain.Summary) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = s.Username
	}
	return out
}

func TestRank_OrdersBySimilarity(t *testing.T) {
	candidates := summaries("therealuser", "realuser3", "therealuser2", "imnotsimilar")

	got := Rank("therealuser", candidates, 10)
	assert.Equal(t, []string{"therealuser", "therealuser2", "realuser3"}, usernames(got))

	got = Rank("therealuser", candidates, 2)
	assert.Equal(t, []string{"therealuser", "therealuser2"}, usernames(got))
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	candidates := summaries("bob", "alice1", "alice2", "alice3")

	got := Rank("alice", candidates, 10)
	assert.Equal(t, []string{"alice1", "alice2", "alice3"}, usernames(got))
}

func TestRank_EmptyInputs(t *testing.T) {
	assert.Empty(t, Rank("", summaries("alice"), 10))
	assert.Empty(t, Rank("alice", nil, 10))
	assert.Empty(t, Rank("alice", summaries("alice"), 0))
}

func TestSearchUsers(t *testing.T) {
	store := new(MockStore)
	s := New(store, Config{DefaultLimit: 10, MaxLimit: 100}, zaptest.NewLogger(t))
	ctx := context.Background()
	candidates := summaries("therealuser", "realuser3", "therealuser2", "imnotsimilar")

	store.On("ListSummaries", ctx).Return(candidates, nil)
	store.On("GetManyByID", ctx, []uuid.UUID{candidates[0].ID, candidates[2].ID, candidates[1].ID}).Return(nil)

	got, err := s.SearchUsers(ctx, "  therealuser ", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, candidates[0].ID, got[0].ID)
	store.AssertExpectations(t)
}

func TestSearchUsers_LimitIsCapped(t *testing.T) {
	store := new(MockStore)
	s := New(store, Config{DefaultLimit: 1, MaxLimit: 2}, zaptest.NewLogger(t))
	ctx := context.Background()
	candidates := summaries("alice1", "alice2", "alice3")

	store.On("ListSummaries", ctx).Return(candidates, nil)
	store.On("GetManyByID", ctx, mock.MatchedBy(func(ids []uuid.UUID) bool { return len(ids) == 2 })).Return(nil)

	got, err := s.SearchUsers(ctx, "alice", 50)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSearchUsers_NoMatchSkipsLoad(t *testing.T) {
	store := new(MockStore)
	s := New(store, Config{}, zaptest.NewLogger(t))
	ctx := context.Background()

	store.On("ListSummaries", ctx).Return(summaries("zzz"), nil)

	got, err := s.SearchUsers(ctx, "alice", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	store.AssertNotCalled(t, "GetManyByID", mock.Anything, mock.Anything)
}

func TestSearchUsers_InvalidInput(t *testing.T) {
	s := New(new(MockStore), Config{}, zaptest.NewLogger(t))

	_, err := s.SearchUsers(context.Background(), "alice\x00", 5)
	assert.True(t, apperrors.IsValidation(err))

	_, err = s.SearchUsers(context.Background(), "alice", -1)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSearchWithinFolloweds(t *testing.T) {
	store := new(MockStore)
	s := New(store, Config{}, zaptest.NewLogger(t))
	ctx := context.Background()
	id, missing := uuid.New(), uuid.New()
	followed := summaries("therealuser2")

	store.On("UserExists", ctx, id).Return(true, nil)
	store.On("UserExists", ctx, missing).Return(false, nil)
	store.On("ListFollowedSummaries", ctx, id).Return(followed, nil)
	store.On("GetManyByID", ctx, []uuid.UUID{followed[0].ID}).Return(nil)

	got, err := s.SearchWithinFolloweds(ctx, id, "therealuser", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, followed[0].ID, got[0].ID)

	_, err = s.SearchWithinFolloweds(ctx, missing, "therealuser", 10)
	assert.True(t, apperrors.IsNotFound(err))
}
