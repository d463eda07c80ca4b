package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// CreateItemRequest defines the payload for POST /items.
type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Available   *bool   `json:"available" binding:"required"`
	RequestID   *string `json:"requestId" binding:"omitempty,uuid"`
}

// UpdateItemRequest defines fields allowed to be updated via PATCH /items/:id.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// ListItemsRequest defines query parameters for listing the caller's items.
type ListItemsRequest struct {
	request.OffsetParams
}

// SearchItemsRequest defines query parameters for GET /items/search.
type SearchItemsRequest struct {
	request.OffsetParams
	Text string `form:"text"`
}

// CreateCommentRequest defines the payload for POST /items/:id/comment.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// BookingRefResponse is the compact booking shown on an item.
type BookingRefResponse struct {
	ID       string    `json:"id"`
	BookerID string    `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// CommentResponse is the shape of a comment returned in API responses.
type CommentResponse struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// ItemResponse is the shape of item data returned in API responses.
type ItemResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Available   bool                `json:"available"`
	RequestID   *string             `json:"requestId"`
	LastBooking *BookingRefResponse `json:"lastBooking"`
	NextBooking *BookingRefResponse `json:"nextBooking"`
	Comments    []CommentResponse   `json:"comments"`
}

// ItemTag is a brief representation of an item.
type ItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewItemResponse converts a bare item; projections are left empty.
func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
		Comments:    []CommentResponse{},
	}
}

// NewItemViewResponse converts an item view including last/next bookings and comments.
func NewItemViewResponse(v item.View) ItemResponse {
	resp := NewItemResponse(&v.Item)
	resp.LastBooking = newBookingRefResponse(v.LastBooking)
	resp.NextBooking = newBookingRefResponse(v.NextBooking)
	for _, cm := range v.Comments {
		resp.Comments = append(resp.Comments, NewCommentResponse(cm))
	}
	return resp
}

func newBookingRefResponse(ref *item.BookingRef) *BookingRefResponse {
	if ref == nil {
		return nil
	}
	return &BookingRefResponse{
		ID:       ref.ID,
		BookerID: ref.BookerID,
		Start:    ref.Start,
		End:      ref.End,
	}
}

func NewCommentResponse(cm item.Comment) CommentResponse {
	return CommentResponse{
		ID:         cm.ID,
		Text:       cm.Text,
		AuthorName: cm.AuthorName,
		Created:    cm.Created,
	}
}
