package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"mafiaparty/game"
	"mafiaparty/services"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	roomService *services.RoomService
	jwtSecret   string
	tokenTTL    time.Duration
}

func NewRoomHandler(roomService *services.RoomService, jwtSecret string, tokenTTL time.Duration) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
	}
}

// CreateRoom opens a lobby and hands the host its room-scoped token plus
// the join token the display renders for players.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	doc, err := h.roomService.CreateRoom(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	hostToken, err := services.IssueHostToken(h.jwtSecret, doc.Code, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"room":      doc,
		"hostToken": hostToken,
		"joinToken": services.EncodeJoinToken(doc.Code),
	})
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	doc, err := h.roomService.GetRoom(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var req services.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.roomService.JoinRoom(c.Request.Context(), c.Param("code"), &req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

// StartGame deals roles and opens the first night. Host only; the token
// must match the room it was issued for.
func (h *RoomHandler) StartGame(c *gin.Context) {
	code, ok := h.hostRoom(c)
	if !ok {
		return
	}

	var req services.StartGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.roomService.StartGame(c.Request.Context(), code, req.Config)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *RoomHandler) AdvancePhase(c *gin.Context) {
	code, ok := h.hostRoom(c)
	if !ok {
		return
	}

	doc, err := h.roomService.AdvancePhase(c.Request.Context(), code)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *RoomHandler) ResetRoom(c *gin.Context) {
	code, ok := h.hostRoom(c)
	if !ok {
		return
	}

	doc, err := h.roomService.ResetRoom(c.Request.Context(), code)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// SuggestConfig returns the advisory role counts for the room's current
// player count, for the host's settings panel.
func (h *RoomHandler) SuggestConfig(c *gin.Context) {
	doc, err := h.roomService.GetRoom(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, game.SuggestConfig(len(doc.Players)))
}

func (h *RoomHandler) SubmitNightAction(c *gin.Context) {
	var req services.NightActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.roomService.SubmitNightAction(c.Request.Context(), c.Param("code"), &req); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Action submitted"})
}

func (h *RoomHandler) SubmitVote(c *gin.Context) {
	var req services.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.roomService.SubmitVote(c.Request.Context(), c.Param("code"), &req); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vote submitted"})
}

// Investigate answers a detective's private query about a target.
func (h *RoomHandler) Investigate(c *gin.Context) {
	investigatorID := c.Query("playerId")
	targetID := c.Query("targetId")
	if investigatorID == "" || targetID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "playerId and targetId required"})
		return
	}

	verdict, err := h.roomService.Investigate(c.Request.Context(), c.Param("code"), investigatorID, targetID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verdict": verdict})
}

// ResolveJoinToken decodes a join token (from a scanned QR link) to its
// room code.
func (h *RoomHandler) ResolveJoinToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}

	code, err := services.DecodeJoinToken(token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roomCode": code})
}

// hostRoom checks that the authenticated host token matches the room in
// the URL.
func (h *RoomHandler) hostRoom(c *gin.Context) (string, bool) {
	hostRoom, exists := c.Get("host_room")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Host not authenticated"})
		return "", false
	}
	code := strings.ToLower(c.Param("code"))
	if hostRoom.(string) != code {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token not valid for this room"})
		return "", false
	}
	return code, true
}

// renderError maps the command-boundary error taxonomy onto HTTP codes.
// Rejections never corrupt committed room state; the wrong-phase case is
// a plain no-op for the caller.
func (h *RoomHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
	case errors.Is(err, game.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrNotEnoughPlayers):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
