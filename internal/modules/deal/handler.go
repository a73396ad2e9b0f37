package deal

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
	rg.GET("/deals", h.ListDeals)
	rg.POST("/deals", h.CreateDeal)
	rg.GET("/deals/by-stage", h.DealsByStage)
	rg.GET("/deals/:id", h.GetDeal)
	rg.PUT("/deals/:id", h.UpdateDeal)
	rg.POST("/deals/:id/move", h.MoveDeal)
	rg.DELETE("/deals/:id", h.DeleteDeal)
}

func (h *Handler) CreateDeal(c *gin.Context) {
	var req CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	ownerID := c.GetInt64("user_id")
	d, err := h.service.CreateDeal(c.Request.Context(), req, ownerID)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Deal title is required and value must not be negative")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create deal")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"deal": d})
}

func (h *Handler) GetDeal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid deal ID")
		return
	}

	d, err := h.service.GetDeal(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrDealNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Deal not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch deal")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deal": d})
}

func (h *Handler) ListDeals(c *gin.Context) {
	pipelineID, _ := strconv.ParseInt(c.Query("pipeline_id"), 10, 64)
	ownerID, _ := strconv.ParseInt(c.Query("owner_id"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	deals, total, err := h.service.ListDeals(c.Request.Context(), repository.DealFilter{
		PipelineID: pipelineID,
		Stage:      c.Query("stage"),
		OwnerID:    ownerID,
		Search:     c.Query("search"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch deals")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"deals": deals,
		"total": total,
	})
}

func (h *Handler) UpdateDeal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid deal ID")
		return
	}

	var req UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.UpdateDeal(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrDealNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Deal not found")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Deal value must not be negative")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update deal")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deal": d})
}

func (h *Handler) MoveDeal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid deal ID")
		return
	}

	var req MoveDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Destination stage is required")
		return
	}

	actorID := c.GetInt64("user_id")
	d, err := h.service.MoveDeal(c.Request.Context(), id, req, actorID)
	if err != nil {
		if errors.Is(err, ErrDealNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Deal not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to move deal")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deal": d})
}

func (h *Handler) DeleteDeal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid deal ID")
		return
	}

	if err := h.service.DeleteDeal(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrDealNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Deal not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete deal")
		return
	}

	response.Message(c, http.StatusOK, "Deal deleted")
}

func (h *Handler) DealsByStage(c *gin.Context) {
	var pipelineID int64
	if raw := c.Query("pipeline_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid pipeline_id")
			return
		}
		pipelineID = id
	}

	buckets, err := h.service.DealsByStage(c.Request.Context(), pipelineID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to aggregate deals")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stages": buckets})
}
