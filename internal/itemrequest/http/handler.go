package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type Handler struct {
	service     itemrequest.Service
	maxPageSize int
}

func NewHandler(service itemrequest.Service, maxPageSize int) *Handler {
	return &Handler{
		service:     service,
		maxPageSize: maxPageSize,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateItemRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, "invalid request body", err)
		return
	}

	r, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), body.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemRequestResponse(*r))
}

// ListOwn returns the caller's own requests with their answering items.
func (h *Handler) ListOwn(c *gin.Context) {
	reqs, err := h.service.ListOwn(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewList(reqs, NewItemRequestResponse))
}

// ListAll returns requests filed by other users.
func (h *Handler) ListAll(c *gin.Context) {
	var req ListAllRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, "invalid query parameters", err)
		return
	}

	reqs, err := h.service.ListOthers(c.Request.Context(), auth.GetUserID(c), req.Page(h.maxPageSize))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewList(reqs, NewItemRequestResponse))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, "invalid request id", err)
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), auth.GetUserID(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemRequestResponse(*r))
}
