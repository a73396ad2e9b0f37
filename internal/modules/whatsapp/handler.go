package whatsapp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salescrm/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/whatsapp/sessions", h.ListSessions)
	rg.POST("/whatsapp/sessions", h.CreateSession)
	rg.GET("/whatsapp/sessions/:id", h.GetSession)
	rg.GET("/whatsapp/sessions/:id/qr", h.GetQR)
	rg.POST("/whatsapp/sessions/:id/status", h.UpdateStatus)
	rg.GET("/whatsapp/messages", h.ListMessages)
	rg.POST("/whatsapp/messages", h.SendMessage)
	rg.POST("/whatsapp/messages/inbound", h.RecordInbound)
}

func (h *Handler) CreateSession(c *gin.Context) {
	userID := c.GetInt64("user_id")
	session, err := h.service.CreateSession(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create session")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

func (h *Handler) GetSession(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid session ID")
		return
	}

	session, err := h.service.GetSession(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.service.ListSessions(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch sessions")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}

func (h *Handler) GetQR(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid session ID")
		return
	}

	session, err := h.service.GetSession(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}

	if session.QRCode == "" {
		response.Error(c, http.StatusConflict, "NO_QR", "Session has no pending QR code")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"qr_code": session.QRCode})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid session ID")
		return
	}

	var req UpdateSessionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Status is required")
		return
	}

	session, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Session not found")
		case errors.Is(err, ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown session status")
		case errors.Is(err, ErrInvalidTransition):
			response.Error(c, http.StatusUnprocessableEntity, "INVALID_TRANSITION", "Session cannot move to the requested status")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update session")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Contact phone and body are required")
		return
	}

	m, err := h.service.SendMessage(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, ErrNoConnectedSession) {
			response.Error(c, http.StatusConflict, "NO_CONNECTED_SESSION", "No connected WhatsApp session")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to send message")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": m})
}

func (h *Handler) RecordInbound(c *gin.Context) {
	var req InboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Session key, contact phone and body are required")
		return
	}

	m, err := h.service.RecordInbound(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Session not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record message")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": m})
}

func (h *Handler) ListMessages(c *gin.Context) {
	sessionID, err := strconv.ParseInt(c.Query("session_id"), 10, 64)
	if err != nil || sessionID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Query parameter session_id is required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, total, err := h.service.ListMessages(c.Request.Context(), sessionID, c.GetInt64("user_id"), c.Query("contact_phone"), limit, offset)
	if err != nil {
		h.sessionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"messages": messages,
		"total":    total,
	})
}

func (h *Handler) sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Session not found")
	case errors.Is(err, ErrNotSessionOwner):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Session belongs to another user")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch session")
	}
}
