package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type Handler struct {
	service     user.Service
	maxPageSize int
}

func NewHandler(service user.Service, maxPageSize int) *Handler {
	return &Handler{
		service:     service,
		maxPageSize: maxPageSize,
	}
}

// Create registers a new user. Duplicate emails are rejected with 409.
func (h *Handler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, "invalid request body", err)
		return
	}

	u, err := h.service.Create(c.Request.Context(), user.CreateRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewUserResponse(u))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, "invalid user id", err)
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewUserResponse(u))
}

func (h *Handler) List(c *gin.Context) {
	var req ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, "invalid query parameters", err)
		return
	}

	users, err := h.service.List(c.Request.Context(), req.Page(h.maxPageSize))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewList(users, NewUserResponse))
}

// Update applies a partial update. Blank name or email is rejected.
func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, "invalid user id", err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, "invalid request body", err)
		return
	}

	u, err := h.service.Update(c.Request.Context(), uri.ID, user.UpdateRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewUserResponse(u))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, "invalid user id", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
