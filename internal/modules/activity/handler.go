package activity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salescrm/internal/pkg/response"
	"salescrm/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/activities", h.ListActivities)
	rg.POST("/activities", h.CreateActivity)
	rg.GET("/activities/:id", h.GetActivity)
	rg.PUT("/activities/:id", h.UpdateActivity)
	rg.POST("/activities/:id/done", h.MarkDone)
	rg.DELETE("/activities/:id", h.DeleteActivity)
}

func (h *Handler) CreateActivity(c *gin.Context) {
	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")
	a, err := h.service.CreateActivity(c.Request.Context(), req, userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create activity")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"activity": a})
}

func (h *Handler) GetActivity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid activity ID")
		return
	}

	a, err := h.service.GetActivity(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Activity not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch activity")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"activity": a})
}

func (h *Handler) ListActivities(c *gin.Context) {
	contactID, _ := strconv.ParseInt(c.Query("contact_id"), 10, 64)
	dealID, _ := strconv.ParseInt(c.Query("deal_id"), 10, 64)
	userID, _ := strconv.ParseInt(c.Query("user_id"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	activities, total, err := h.service.ListActivities(c.Request.Context(), repository.ActivityFilter{
		ContactID: contactID,
		DealID:    dealID,
		UserID:    userID,
		Type:      c.Query("type"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch activities")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"activities": activities,
		"total":      total,
	})
}

func (h *Handler) UpdateActivity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid activity ID")
		return
	}

	var req UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.UpdateActivity(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Activity not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update activity")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"activity": a})
}

func (h *Handler) MarkDone(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid activity ID")
		return
	}

	var req struct {
		Done *bool `json:"done" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Field done is required")
		return
	}

	if err := h.service.MarkDone(c.Request.Context(), id, *req.Done); err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Activity not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update activity")
		return
	}

	response.Message(c, http.StatusOK, "Activity updated")
}

func (h *Handler) DeleteActivity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid activity ID")
		return
	}

	if err := h.service.DeleteActivity(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Activity not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete activity")
		return
	}

	response.Message(c, http.StatusOK, "Activity deleted")
}
