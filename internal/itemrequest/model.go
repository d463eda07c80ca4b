package itemrequest

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("item request not found")
	ErrUserNotFound        = apperror.NotFound("user not found")
	ErrDescriptionRequired = apperror.Validation("description cannot be blank")
)

// ItemRequest is a wish for an item nobody has listed yet.
type ItemRequest struct {
	ID          string
	Description string
	RequestorID string
	Created     time.Time
}

// WithItems pairs a request with the items listed in answer to it.
type WithItems struct {
	ItemRequest
	Items []*item.Item
}
