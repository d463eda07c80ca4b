package booking

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/metrics"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// UserLookup reports whether a user is registered.
type UserLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ItemFinder loads a stored item.
type ItemFinder interface {
	Find(ctx context.Context, id string) (*item.Item, error)
}

// CreateRequest carries a new booking. Start and End are nil when absent from the request.
type CreateRequest struct {
	BookerID string
	ItemID   string
	Start    *time.Time
	End      *time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Decide(ctx context.Context, deciderID, bookingID string, approve bool) (*Booking, error)
	Get(ctx context.Context, viewerID, bookingID string) (*Booking, error)
	ListByBooker(ctx context.Context, bookerID, state string, page request.Page) ([]*Booking, error)
	ListByOwner(ctx context.Context, ownerID, state string, page request.Page) ([]*Booking, error)
}

type service struct {
	repo   Repository
	users  UserLookup
	items  ItemFinder
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, users UserLookup, items ItemFinder, logger zerolog.Logger) Service {
	return &service{
		repo:   repo,
		users:  users,
		items:  items,
		logger: logger.With().Str("component", "booking").Logger(),
		now:    time.Now,
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

// Create places a WAITING booking. Checks run in a fixed order and the first failure wins:
// booker exists, dates valid, item exists, booker is not the owner, item available.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	log := s.logger.With().Str("booker_id", req.BookerID).Str("item_id", req.ItemID).Logger()

	// 1. Booker exists
	if err := s.requireUser(ctx, req.BookerID); err != nil {
		return nil, err
	}

	// 2. Dates present and ordered
	if req.Start == nil || req.End == nil {
		return nil, ErrDatesRequired
	}
	if !req.Start.Before(*req.End) {
		return nil, ErrInvalidTimeRange
	}

	// 3. Item exists
	it, err := s.items.Find(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	// 4. No self-booking
	if it.OwnerID == req.BookerID {
		log.Warn().Msg("booking rejected: booker owns the item")
		return nil, ErrSelfBooking
	}

	// 5. Item available
	if !it.Available {
		log.Warn().Msg("booking rejected: item unavailable")
		return nil, ErrItemUnavailable
	}

	b := &Booking{
		Start:    req.Start.UTC(),
		End:      req.End.UTC(),
		ItemID:   it.ID,
		BookerID: req.BookerID,
		Status:   StatusWaiting,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	metrics.IncBookingCreated()
	log.Info().Str("booking_id", b.ID).Msg("booking created")

	return s.repo.GetByID(ctx, b.ID)
}

// Decide approves or rejects a WAITING booking on behalf of the item owner.
func (s *service) Decide(ctx context.Context, deciderID, bookingID string, approve bool) (*Booking, error) {
	log := s.logger.With().Str("booking_id", bookingID).Str("decider_id", deciderID).Logger()

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.ItemOwnerID != deciderID {
		log.Warn().Msg("decision rejected: not the item owner")
		return nil, ErrNotItemOwner
	}

	target := StatusRejected
	if approve {
		target = StatusApproved
	}
	if !b.Status.CanTransitionTo(target) {
		log.Warn().Str("status", string(b.Status)).Msg("decision rejected: booking already decided")
		return nil, ErrStatusChangeNotAllowed(b.Status)
	}

	ok, err := s.repo.DecideStatus(ctx, bookingID, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race with another decision; report what won.
		current, err := s.repo.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		log.Warn().Str("status", string(current.Status)).Msg("decision rejected: concurrent decision")
		return nil, ErrStatusChangeNotAllowed(current.Status)
	}

	b.Status = target
	metrics.IncBookingDecision(string(target))
	log.Info().Str("status", string(target)).Msg("booking decided")
	return b, nil
}

// Get returns a booking visible to its booker or to the item owner.
func (s *service) Get(ctx context.Context, viewerID, bookingID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if viewerID != b.BookerID && viewerID != b.ItemOwnerID {
		return nil, ErrNoAccess
	}
	return b, nil
}

func (s *service) ListByBooker(ctx context.Context, bookerID, state string, page request.Page) ([]*Booking, error) {
	return s.list(ctx, Filter{BookerID: bookerID}, bookerID, state, page)
}

func (s *service) ListByOwner(ctx context.Context, ownerID, state string, page request.Page) ([]*Booking, error) {
	return s.list(ctx, Filter{OwnerID: ownerID}, ownerID, state, page)
}

func (s *service) list(ctx context.Context, f Filter, userID, state string, page request.Page) ([]*Booking, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	st, err := ParseState(state)
	if err != nil {
		return nil, err
	}

	f.State = st
	f.Now = s.now()
	f.Page = page
	return s.repo.List(ctx, f)
}
