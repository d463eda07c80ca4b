package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type Handler struct {
	service     booking.Service
	maxPageSize int
}

func NewHandler(service booking.Service, maxPageSize int) *Handler {
	return &Handler{
		service:     service,
		maxPageSize: maxPageSize,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, "invalid request body", err)
		return
	}

	start, end := body.times()
	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		BookerID: auth.GetUserID(c),
		ItemID:   body.ItemID,
		Start:    start,
		End:      end,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// Decide approves or rejects a booking; only the item owner may call it.
func (h *Handler) Decide(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, "invalid booking id", err)
		return
	}

	var req DecideBookingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, "invalid query parameters", err)
		return
	}

	b, err := h.service.Decide(c.Request.Context(), auth.GetUserID(c), uri.ID, *req.Approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, "invalid booking id", err)
		return
	}

	b, err := h.service.Get(c.Request.Context(), auth.GetUserID(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// ListByBooker lists the caller's own bookings.
func (h *Handler) ListByBooker(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, "invalid query parameters", err)
		return
	}

	bookings, err := h.service.ListByBooker(c.Request.Context(), auth.GetUserID(c), req.State, req.Page(h.maxPageSize))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewList(bookings, NewBookingResponse))
}

// ListByOwner lists bookings of the items the caller owns.
func (h *Handler) ListByOwner(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, "invalid query parameters", err)
		return
	}

	bookings, err := h.service.ListByOwner(c.Request.Context(), auth.GetUserID(c), req.State, req.Page(h.maxPageSize))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewList(bookings, NewBookingResponse))
}
