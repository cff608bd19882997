package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studysmarter/studysmarter-api/internal/dto"
	appErrors "github.com/studysmarter/studysmarter-api/pkg/errors"
	"github.com/studysmarter/studysmarter-api/pkg/response"
)

type roomService interface {
	Create(ctx context.Context, payload dto.RoomPayload) (*dto.RoomResponse, error)
	Get(ctx context.Context, id int64) (*dto.RoomResponse, error)
	List(ctx context.Context) ([]dto.RoomResponse, error)
	Update(ctx context.Context, id int64, payload dto.RoomPayload) (*dto.RoomResponse, error)
}

// RoomHandler exposes study-room CRUD endpoints.
type RoomHandler struct {
	service roomService
}

// NewRoomHandler constructs a room handler.
func NewRoomHandler(svc roomService) *RoomHandler {
	return &RoomHandler{service: svc}
}

// Create handles POST /rooms.
func (h *RoomHandler) Create(c *gin.Context) {
	var payload dto.RoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request body"))
		return
	}

	room, err := h.service.Create(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// Get handles GET /rooms/:id.
func (h *RoomHandler) Get(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}

	room, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room)
}

// List handles GET /rooms.
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms)
}

// Update handles PUT and PATCH /rooms/:id.
func (h *RoomHandler) Update(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}

	var payload dto.RoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request body"))
		return
	}

	room, err := h.service.Update(c.Request.Context(), id, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room)
}

// roomID parses the path parameter. A non-numeric ID can never identify a
// room, so it is reported the same way as a missing one.
func roomID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "Room not found"))
		return 0, false
	}
	return id, true
}
