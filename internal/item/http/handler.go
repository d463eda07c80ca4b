package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type Handler struct {
	service     item.Service
	maxPageSize int
}

func NewHandler(service item.Service, maxPageSize int) *Handler {
	return &Handler{
		service:     service,
		maxPageSize: maxPageSize,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, "invalid request body", err)
		return
	}

	it, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), item.CreateRequest{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
		RequestID:   req.RequestID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemResponse(it))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, "invalid item id", err)
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, "invalid request body", err)
		return
	}

	it, err := h.service.Update(c.Request.Context(), auth.GetUserID(c), uri.ID, item.UpdateRequest{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(it))
}

// Get returns a single item. Last and next bookings are filled only for the owner.
func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, "invalid item id", err)
		return
	}

	v, err := h.service.Get(c.Request.Context(), auth.GetUserID(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemViewResponse(*v))
}

// List returns the caller's own items with their last/next bookings.
func (h *Handler) List(c *gin.Context) {
	var req ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, "invalid query parameters", err)
		return
	}

	views, err := h.service.ListByOwner(c.Request.Context(), auth.GetUserID(c), req.Page(h.maxPageSize))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewList(views, NewItemViewResponse))
}

func (h *Handler) Search(c *gin.Context) {
	var req SearchItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, "invalid query parameters", err)
		return
	}

	items, err := h.service.Search(c.Request.Context(), req.Text, req.Page(h.maxPageSize))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewList(items, NewItemResponse))
}

func (h *Handler) AddComment(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, "invalid item id", err)
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, "invalid request body", err)
		return
	}

	cm, err := h.service.AddComment(c.Request.Context(), auth.GetUserID(c), uri.ID, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCommentResponse(*cm))
}
