package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

var (
	ErrNotFound         = apperror.NotFound("booking not found")
	ErrUserNotFound     = apperror.NotFound("user not found")
	ErrItemNotFound     = apperror.NotFound("item not found")
	ErrSelfBooking      = apperror.NotFound("owner cannot book own item")
	ErrNoAccess         = apperror.NotFound("booking is not accessible to this user")
	ErrNotItemOwner     = apperror.NotFound("only the item owner can decide on a booking")
	ErrDatesRequired    = apperror.Validation("start and end are required")
	ErrInvalidTimeRange = apperror.Validation("start must be before end")
	ErrItemUnavailable  = apperror.Validation("item is not available for booking")
)

// ErrStatusChangeNotAllowed reports a decision on a booking that is no longer WAITING.
func ErrStatusChangeNotAllowed(current Status) error {
	return apperror.Validation(fmt.Sprintf("status change not allowed because current status is %s", current))
}

// ErrUnknownState reports a state filter token outside the supported set.
func ErrUnknownState(token string) error {
	return apperror.Validation("Unknown state: " + token)
}

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// transitions defines the booking state machine. APPROVED and REJECTED are terminal.
var transitions = map[Status][]Status{
	StatusWaiting:  {StatusApproved, StatusRejected},
	StatusApproved: {},
	StatusRejected: {},
}

// CanTransitionTo reports whether a booking may move from s to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible from s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// State selects bookings in list queries.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState converts a query token into a State. An empty token means ALL.
// Tokens are matched case-sensitively.
func ParseState(token string) (State, error) {
	switch s := State(strings.TrimSpace(token)); s {
	case "":
		return StateAll, nil
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return s, nil
	default:
		return "", ErrUnknownState(token)
	}
}

// Booking is a time-ranged reservation of an item by a booker.
// ItemName, ItemOwnerID and BookerName are read-only joins.
type Booking struct {
	ID          string
	Start       time.Time
	End         time.Time
	ItemID      string
	ItemName    string
	ItemOwnerID string
	BookerID    string
	BookerName  string
	Status      Status
	CreatedAt   time.Time
}

// Filter selects bookings for one booker or for the items of one owner.
// Exactly one of BookerID and OwnerID is set.
type Filter struct {
	BookerID string
	OwnerID  string
	State    State
	Now      time.Time
	Page     request.Page
}
