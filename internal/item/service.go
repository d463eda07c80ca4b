package item

import (
	"context"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/cache"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

const cachePrefix = "item"

// UserLookup reports whether a user is registered.
type UserLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// RequestChecker reports whether an item request exists.
type RequestChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// BookingLookup finds the bookings that frame an item around a point in time.
// Rejected bookings are never returned.
type BookingLookup interface {
	// LastBooking returns the booking with the latest start before now, or nil.
	LastBooking(ctx context.Context, itemID string, now time.Time) (*BookingRef, error)
	// NextBooking returns the booking with the earliest start after now, or nil.
	NextBooking(ctx context.Context, itemID string, now time.Time) (*BookingRef, error)
	HasApprovedBookingStartedBefore(ctx context.Context, itemID, bookerID string, now time.Time) (bool, error)
}

// Service defines business logic related to items.
type Service interface {
	Create(ctx context.Context, ownerID string, req CreateRequest) (*Item, error)
	Update(ctx context.Context, ownerID, itemID string, req UpdateRequest) (*Item, error)
	// Find returns the stored item without projections.
	Find(ctx context.Context, id string) (*Item, error)
	Get(ctx context.Context, viewerID, itemID string) (*View, error)
	ListByOwner(ctx context.Context, ownerID string, page request.Page) ([]View, error)
	Search(ctx context.Context, text string, page request.Page) ([]*Item, error)
	AddComment(ctx context.Context, authorID, itemID, text string) (*Comment, error)
}

// CreateRequest carries the fields of a new item.
type CreateRequest struct {
	Name        string
	Description string
	Available   *bool
	RequestID   *string
}

// UpdateRequest is a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type service struct {
	repo     Repository
	users    UserLookup
	requests RequestChecker
	bookings BookingLookup
	cache    cache.Cache
	now      func() time.Time
}

// NewService creates a new item Service.
func NewService(repo Repository, users UserLookup, requests RequestChecker, bookings BookingLookup, c cache.Cache) Service {
	return &service{
		repo:     repo,
		users:    users,
		requests: requests,
		bookings: bookings,
		cache:    c,
		now:      time.Now,
	}
}

func (s *service) requireUser(ctx context.Context, id string) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOwnerNotFound
	}
	return nil
}

func (s *service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Item, error) {
	if err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if req.Available == nil {
		return nil, ErrAvailableRequired
	}

	if req.RequestID != nil {
		ok, err := s.requests.Exists(ctx, *req.RequestID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrRequestNotFound
		}
	}

	it := &Item{
		Name:        name,
		Description: description,
		Available:   *req.Available,
		OwnerID:     ownerID,
		RequestID:   req.RequestID,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// Update applies a partial update. Callers who do not own the item get ErrNotFound.
func (s *service) Update(ctx context.Context, ownerID, itemID string, req UpdateRequest) (*Item, error) {
	if err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		it.Name = name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, ErrDescriptionRequired
		}
		it.Description = description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, cache.Key(cachePrefix, itemID))
	return it, nil
}

func (s *service) Find(ctx context.Context, id string) (*Item, error) {
	key := cache.Key(cachePrefix, id)

	var cached Item
	if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
		return &cached, nil
	}

	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, it)
	return it, nil
}

// Get returns the detail view of an item. Last and next bookings are only
// shown to the owner.
func (s *service) Get(ctx context.Context, viewerID, itemID string) (*View, error) {
	now := s.now()

	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	var last, next *BookingRef
	if it.OwnerID == viewerID {
		if last, next, err = s.neighbours(ctx, itemID, now); err != nil {
			return nil, err
		}
	}

	comments, err := s.repo.ListComments(ctx, itemID)
	if err != nil {
		return nil, err
	}

	v := Project(it, last, next, comments)
	return &v, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID string, page request.Page) ([]View, error) {
	now := s.now()

	items, err := s.repo.ListByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(items))
	for _, it := range items {
		last, next, err := s.neighbours(ctx, it.ID, now)
		if err != nil {
			return nil, err
		}
		comments, err := s.repo.ListComments(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, Project(it, last, next, comments))
	}
	return views, nil
}

func (s *service) neighbours(ctx context.Context, itemID string, now time.Time) (*BookingRef, *BookingRef, error) {
	last, err := s.bookings.LastBooking(ctx, itemID, now)
	if err != nil {
		return nil, nil, err
	}
	next, err := s.bookings.NextBooking(ctx, itemID, now)
	if err != nil {
		return nil, nil, err
	}
	return last, next, nil
}

// Search returns available items matching text. Blank text matches nothing.
func (s *service) Search(ctx context.Context, text string, page request.Page) ([]*Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text, page)
}

// AddComment stores a comment if the author has an approved booking of the item that has started.
func (s *service) AddComment(ctx context.Context, authorID, itemID, text string) (*Comment, error) {
	now := s.now()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentTextRequired
	}

	ok, err := s.bookings.HasApprovedBookingStartedBefore(ctx, itemID, authorID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCommentNotAllowed
	}

	cm := &Comment{
		Text:     text,
		ItemID:   itemID,
		AuthorID: authorID,
		Created:  now,
	}
	if err := s.repo.CreateComment(ctx, cm); err != nil {
		return nil, err
	}
	return cm, nil
}
