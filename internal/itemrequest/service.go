package itemrequest

import (
	"context"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// UserLookup reports whether a user is registered.
type UserLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ItemLister returns the items listed in answer to the given requests.
type ItemLister interface {
	ListByRequestIDs(ctx context.Context, requestIDs []string) ([]*item.Item, error)
}

// Service defines business logic related to item requests.
type Service interface {
	Create(ctx context.Context, requestorID, description string) (*WithItems, error)
	ListOwn(ctx context.Context, requestorID string) ([]WithItems, error)
	ListOthers(ctx context.Context, userID string, page request.Page) ([]WithItems, error)
	GetByID(ctx context.Context, userID, id string) (*WithItems, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type service struct {
	repo  Repository
	users UserLookup
	items ItemLister
	now   func() time.Time
}

// NewService creates a new item request Service.
func NewService(repo Repository, users UserLookup, items ItemLister) Service {
	return &service{
		repo:  repo,
		users: users,
		items: items,
		now:   time.Now,
	}
}

func (s *service) requireUser(ctx context.Context, id string) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *service) Create(ctx context.Context, requestorID, description string) (*WithItems, error) {
	if err := s.requireUser(ctx, requestorID); err != nil {
		return nil, err
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	ir := &ItemRequest{
		Description: description,
		RequestorID: requestorID,
		Created:     s.now(),
	}
	if err := s.repo.Create(ctx, ir); err != nil {
		return nil, err
	}
	return &WithItems{ItemRequest: *ir, Items: []*item.Item{}}, nil
}

func (s *service) ListOwn(ctx context.Context, requestorID string) ([]WithItems, error) {
	if err := s.requireUser(ctx, requestorID); err != nil {
		return nil, err
	}

	reqs, err := s.repo.ListByRequestor(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, reqs)
}

// ListOthers returns requests filed by everyone except userID, newest first.
func (s *service) ListOthers(ctx context.Context, userID string, page request.Page) ([]WithItems, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	reqs, err := s.repo.ListOthers(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, reqs)
}

func (s *service) GetByID(ctx context.Context, userID, id string) (*WithItems, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	ir, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	out, err := s.attachItems(ctx, []*ItemRequest{ir})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// attachItems loads answering items for all requests in one query and groups them by request.
func (s *service) attachItems(ctx context.Context, reqs []*ItemRequest) ([]WithItems, error) {
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ID)
	}

	items, err := s.items.ListByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[string][]*item.Item, len(reqs))
	for _, it := range items {
		if it.RequestID != nil {
			byRequest[*it.RequestID] = append(byRequest[*it.RequestID], it)
		}
	}

	out := make([]WithItems, 0, len(reqs))
	for _, r := range reqs {
		answered := byRequest[r.ID]
		if answered == nil {
			answered = []*item.Item{}
		}
		out = append(out, WithItems{ItemRequest: *r, Items: answered})
	}
	return out, nil
}
