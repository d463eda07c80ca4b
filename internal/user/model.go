package user

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed = apperror.Conflict("email already used")
	ErrNameRequired     = apperror.Validation("name cannot be blank")
	ErrEmailRequired    = apperror.Validation("email cannot be blank")
)

// User represents a registered member who can own items and book items of others.
type User struct {
	ID        string    `json:"id"` // UUID
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
