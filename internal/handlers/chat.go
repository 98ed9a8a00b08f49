package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"errand-service/internal/models"
	"errand-service/internal/repositories"
	"errand-service/internal/telemetry"
	"errand-service/internal/ws"
)

// ChatHandler manages chatting-room endpoints.
type ChatHandler struct {
	roomRepo    repositories.RoomRepository
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
	hub         *ws.Hub
	audit       *telemetry.AuditEmitter
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(roomRepo repositories.RoomRepository, messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, hub *ws.Hub, audit *telemetry.AuditEmitter) *ChatHandler {
	return &ChatHandler{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		hub:         hub,
		audit:       audit,
	}
}

// CreateRoom handles POST /rooms. Resolution is idempotent: the same
// participant set, in any order, maps to the same room.
func (h *ChatHandler) CreateRoom(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		ParticipantIDs []int `json:"participant_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	participants := models.DedupeIDs(append(req.ParticipantIDs, userID))
	if len(participants) < 2 {
		respondError(c, http.StatusBadRequest, "a room needs at least 2 distinct participants")
		return
	}

	count, err := h.userRepo.CountActiveUsers(c.Request.Context(), participants)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not verify participants")
		return
	}
	if count != len(participants) {
		respondError(c, http.StatusBadRequest, "participant set contains unknown or inactive users")
		return
	}

	room, err := h.roomRepo.FindOrCreateRoom(c.Request.Context(), models.RoomKey(participants), participants)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not resolve room")
		return
	}

	h.emitAudit(c, "INFO", "room resolved")
	respond(c, http.StatusOK, room)
}

// ListRooms handles GET /rooms.
func (h *ChatHandler) ListRooms(c *gin.Context) {
	userID := c.GetInt("userID")

	rooms, err := h.roomRepo.ListRoomsForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load rooms")
		return
	}

	respond(c, http.StatusOK, gin.H{"rooms": rooms})
}

// GetMessages handles GET /rooms/:room_key/messages, most recent first.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	room, ok := h.roomForParticipant(c)
	if !ok {
		return
	}

	offset, limit, pagOK := parsePagination(c, 30)
	if !pagOK {
		return
	}

	msgs, err := h.messageRepo.PageMessages(c.Request.Context(), room.ID, limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load messages")
		return
	}

	respond(c, http.StatusOK, gin.H{"messages": msgs})
}

// PostMessage handles POST /rooms/:room_key/messages: append to the ledger,
// then broadcast to subscribers. The broadcast is fire-and-forget.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	room, ok := h.roomForParticipant(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	var req struct {
		Message string `json:"message" binding:"required"`
		Type    string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Type == "" {
		req.Type = models.MessageTypeText
	}

	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), room.ID, userID, req.Message, req.Type)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not store message")
		return
	}

	h.hub.BroadcastRoomMessage(room.ID, msg)
	h.emitAudit(c, "INFO", "message sent")
	respond(c, http.StatusCreated, msg)
}

// roomForParticipant resolves the room from the path and verifies the caller
// participates in it. Writes the error response itself on failure.
func (h *ChatHandler) roomForParticipant(c *gin.Context) (models.Room, bool) {
	roomKey := c.Param("room_key")
	userID := c.GetInt("userID")

	room, err := h.roomRepo.GetRoomByKey(c.Request.Context(), roomKey)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			respondError(c, http.StatusNotFound, "room not found")
			return models.Room{}, false
		}
		respondError(c, http.StatusInternalServerError, "could not load room")
		return models.Room{}, false
	}

	member, err := h.roomRepo.IsParticipant(c.Request.Context(), room.ID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not verify membership")
		return models.Room{}, false
	}
	if !member {
		respondError(c, http.StatusForbidden, "not a room participant")
		return models.Room{}, false
	}
	return room, true
}

func (h *ChatHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
