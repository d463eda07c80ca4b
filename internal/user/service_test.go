package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/cache"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = "11111111-1111-1111-1111-111111111111"
	}
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, page request.Page) ([]*User, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]*User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newRedisCache(t *testing.T) (cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisCache(client, time.Minute), s
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("NormalizesInput", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
			return u.Name == "Alice" && u.Email == "alice@example.com"
		})).Return(nil)

		svc := NewService(repo, cache.NewNoop())
		u, err := svc.Create(ctx, CreateRequest{Name: "  Alice ", Email: " Alice@Example.com "})
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		repo.AssertExpectations(t)
	})

	t.Run("BlankName", func(t *testing.T) {
		svc := NewService(new(MockRepository), cache.NewNoop())
		_, err := svc.Create(ctx, CreateRequest{Name: " ", Email: "a@b.c"})
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, mock.Anything).Return(ErrEmailAlreadyUsed)

		svc := NewService(repo, cache.NewNoop())
		_, err := svc.Create(ctx, CreateRequest{Name: "Bob", Email: "bob@example.com"})
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})
}

func TestGetByIDIsCached(t *testing.T) {
	ctx := context.Background()
	c, s := newRedisCache(t)

	repo := new(MockRepository)
	u := &User{ID: "u1", Name: "Alice", Email: "alice@example.com"}
	repo.On("GetByID", ctx, "u1").Return(u, nil).Once()

	svc := NewService(repo, c)

	first, err := svc.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, s.Exists(cache.Key("user", "u1")))

	second, err := svc.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.Email, second.Email)

	repo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestExists(t *testing.T) {
	ctx := context.Background()

	repo := new(MockRepository)
	repo.On("GetByID", ctx, "known").Return(&User{ID: "known"}, nil)
	repo.On("GetByID", ctx, "missing").Return(nil, ErrNotFound)
	repo.On("GetByID", ctx, "broken").Return(nil, errors.New("connection reset"))

	svc := NewService(repo, cache.NewNoop())

	ok, err := svc.Exists(ctx, "known")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Exists(ctx, "broken")
	assert.Error(t, err)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("PartialUpdateInvalidatesCache", func(t *testing.T) {
		c, s := newRedisCache(t)
		require.NoError(t, c.Set(ctx, cache.Key("user", "u1"), User{ID: "u1", Name: "Old"}))

		repo := new(MockRepository)
		repo.On("GetByID", ctx, "u1").Return(&User{ID: "u1", Name: "Old", Email: "old@example.com"}, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(u *User) bool {
			return u.Name == "New" && u.Email == "old@example.com"
		})).Return(nil)

		svc := NewService(repo, c)
		name := "New"
		u, err := svc.Update(ctx, "u1", UpdateRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "New", u.Name)
		assert.False(t, s.Exists(cache.Key("user", "u1")))
	})

	t.Run("BlankEmail", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, "u1").Return(&User{ID: "u1", Name: "Old", Email: "old@example.com"}, nil)

		svc := NewService(repo, cache.NewNoop())
		blank := "  "
		_, err := svc.Update(ctx, "u1", UpdateRequest{Email: &blank})
		assert.ErrorIs(t, err, ErrEmailRequired)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, "nope").Return(nil, ErrNotFound)

		svc := NewService(repo, cache.NewNoop())
		_, err := svc.Update(ctx, "nope", UpdateRequest{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("Delete", ctx, "u1").Return(nil)
	repo.On("Delete", ctx, "u2").Return(ErrNotFound)

	svc := NewService(repo, cache.NewNoop())
	assert.NoError(t, svc.Delete(ctx, "u1"))
	assert.ErrorIs(t, svc.Delete(ctx, "u2"), ErrNotFound)
}
