package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// localLayout is accepted for timestamps sent without a zone; they are read as UTC.
const localLayout = "2006-01-02T15:04:05"

// Timestamp decodes RFC 3339 or zone-less ISO 8601 date-times.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation(localLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q", s)
	}
	t.Time = parsed
	return nil
}

// CreateBookingBody defines the payload for POST /bookings.
// Start and End stay nil when omitted so the service can report them.
type CreateBookingBody struct {
	ItemID string     `json:"itemId" binding:"required,uuid"`
	Start  *Timestamp `json:"start"`
	End    *Timestamp `json:"end"`
}

func (b CreateBookingBody) times() (start, end *time.Time) {
	if b.Start != nil && !b.Start.IsZero() {
		start = &b.Start.Time
	}
	if b.End != nil && !b.End.IsZero() {
		end = &b.End.Time
	}
	return start, end
}

// DecideBookingRequest defines query parameters for PATCH /bookings/:id.
type DecideBookingRequest struct {
	Approved *bool `form:"approved" binding:"required"`
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.OffsetParams
	State string `form:"state"`
}

type BookingResponse struct {
	ID     string           `json:"id"`
	Start  time.Time        `json:"start"`
	End    time.Time        `json:"end"`
	Status string           `json:"status"`
	Item   itemHttp.ItemTag `json:"item"`
	Booker userHttp.UserTag `json:"booker"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: string(b.Status),
		Item:   itemHttp.ItemTag{ID: b.ItemID, Name: b.ItemName},
		Booker: userHttp.UserTag{ID: b.BookerID, Name: b.BookerName},
	}
}
