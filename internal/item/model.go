package item

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("item not found")
	ErrOwnerNotFound       = apperror.NotFound("user not found")
	ErrRequestNotFound     = apperror.NotFound("item request not found")
	ErrNameRequired        = apperror.Validation("name cannot be blank")
	ErrDescriptionRequired = apperror.Validation("description cannot be blank")
	ErrAvailableRequired   = apperror.Validation("available is required")
	ErrCommentTextRequired = apperror.Validation("comment text cannot be blank")
	ErrCommentNotAllowed   = apperror.Validation("user has no approved past booking of this item")
)

// Item is a thing an owner lists for others to book.
// Available is maintained manually by the owner.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	OwnerID     string    `json:"owner_id"`
	RequestID   *string   `json:"request_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Comment is feedback left by a user who has booked the item.
type Comment struct {
	ID         string
	Text       string
	ItemID     string
	AuthorID   string
	AuthorName string
	Created    time.Time
}

// BookingRef is the compact booking summary embedded in item views.
type BookingRef struct {
	ID       string
	BookerID string
	Start    time.Time
	End      time.Time
}

// View is an item decorated with its read-time projections.
type View struct {
	Item
	LastBooking *BookingRef
	NextBooking *BookingRef
	Comments    []Comment
}

// Project builds a view from an item and its looked-up neighbours.
// The item itself is copied, never modified.
func Project(it *Item, last, next *BookingRef, comments []Comment) View {
	if comments == nil {
		comments = []Comment{}
	}
	return View{
		Item:        *it,
		LastBooking: last,
		NextBooking: next,
		Comments:    comments,
	}
}
