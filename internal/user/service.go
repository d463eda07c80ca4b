package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/cache"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

const cachePrefix = "user"

// Service defines business logic related to users.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, page request.Page) ([]*User, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*User, error)
	Delete(ctx context.Context, id string) error
}

// CreateRequest carries the fields of a new user.
type CreateRequest struct {
	Name  string
	Email string
}

// UpdateRequest is a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	Name  *string
	Email *string
}

type service struct {
	repo  Repository
	cache cache.Cache
}

// NewService creates a new user Service backed by repo, caching lookups in c.
func NewService(repo Repository, c cache.Cache) Service {
	return &service{repo: repo, cache: c}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	u := &User{Name: name, Email: email}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	key := cache.Key(cachePrefix, id)

	var cached User
	if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
		return &cached, nil
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// A failed cache write only costs a later miss.
	_ = s.cache.Set(ctx, key, u)
	return u, nil
}

// Exists reports whether a user with the given id is registered.
func (s *service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.GetByID(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check user: %w", err)
}

func (s *service) List(ctx context.Context, page request.Page) ([]*User, error) {
	return s.repo.List(ctx, page)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		u.Name = name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
		u.Email = email
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, cache.Key(cachePrefix, id))
	return u, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, cache.Key(cachePrefix, id))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
