package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

// CreateItemRequestBody defines the payload for POST /requests.
type CreateItemRequestBody struct {
	Description string `json:"description" binding:"required"`
}

// ListAllRequest defines query parameters for GET /requests/all.
type ListAllRequest struct {
	request.OffsetParams
}

// ItemTag is a brief representation of an item answering a request.
type ItemTag struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
	OwnerID     string  `json:"ownerId"`
	RequestID   *string `json:"requestId"`
}

// ItemRequestResponse is the shape of an item request returned in API responses.
type ItemRequestResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	RequestorID string    `json:"requestorId"`
	Created     time.Time `json:"created"`
	Items       []ItemTag `json:"items"`
}

func NewItemRequestResponse(r itemrequest.WithItems) ItemRequestResponse {
	return ItemRequestResponse{
		ID:          r.ID,
		Description: r.Description,
		RequestorID: r.RequestorID,
		Created:     r.Created,
		Items: response.NewList(r.Items, func(it *item.Item) ItemTag {
			return ItemTag{
				ID:          it.ID,
				Name:        it.Name,
				Description: it.Description,
				Available:   it.Available,
				OwnerID:     it.OwnerID,
				RequestID:   it.RequestID,
			}
		}),
	}
}
