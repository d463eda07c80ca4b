package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// Error sends a JSON error response.
// AppErrors are rendered with the status of their kind; anything else is logged and
// reported as 500 Internal Server Error without leaking the cause.
func Error(c *gin.Context, err error) {
	logger := zerolog.Ctx(c.Request.Context())

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		logger.Warn().
			Str("kind", appErr.Kind.String()).
			Msg(appErr.Message)
		c.JSON(appErr.Code(), ErrorResponse{Error: appErr.Message})
		return
	}

	logger.Error().Err(err).Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// BindError sends a 400 response for request binding failures.
// Validator field errors are flattened into readable details.
func BindError(c *gin.Context, message string, err error) {
	resp := ErrorResponse{Error: message}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			resp.Details = append(resp.Details, describeFieldError(fe))
		}
	} else if err != nil {
		resp.Details = []string{err.Error()}
	}

	zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg(message)
	c.JSON(http.StatusBadRequest, resp)
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}
