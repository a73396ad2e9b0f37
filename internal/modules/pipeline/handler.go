package pipeline

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

// RegisterRoutes wires reads for every authenticated user and board
// administration for managers and admins.
func (h *Handler) RegisterRoutes(rg, admin *gin.RouterGroup) {
	rg.GET("/pipelines", h.ListPipelines)
	rg.GET("/pipelines/:id", h.GetPipeline)
	rg.GET("/pipeline-stages", h.ListStages)

	admin.POST("/pipelines", h.CreatePipeline)
	admin.PUT("/pipelines/:id", h.UpdatePipeline)
	admin.DELETE("/pipelines/:id", h.DeletePipeline)

	admin.POST("/pipeline-stages", h.CreateStage)
	admin.PUT("/pipeline-stages/positions", h.ReorderStages)
	admin.PUT("/pipeline-stages/:id", h.UpdateStage)
	admin.DELETE("/pipeline-stages/:id", h.DeleteStage)
}

func (h *Handler) CreatePipeline(c *gin.Context) {
	var req CreatePipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.CreatePipeline(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Pipeline name is required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create pipeline")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"pipeline": p})
}

func (h *Handler) GetPipeline(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid pipeline ID")
		return
	}

	p, err := h.service.GetPipeline(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPipelineNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Pipeline not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch pipeline")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"pipeline": p})
}

func (h *Handler) ListPipelines(c *gin.Context) {
	pipelines, err := h.service.ListPipelines(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch pipelines")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"pipelines": pipelines})
}

func (h *Handler) UpdatePipeline(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid pipeline ID")
		return
	}

	var req UpdatePipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.UpdatePipeline(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrPipelineNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Pipeline not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update pipeline")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"pipeline": p})
}

func (h *Handler) DeletePipeline(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid pipeline ID")
		return
	}

	if err := h.service.DeletePipeline(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrPipelineNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Pipeline not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete pipeline")
		return
	}

	response.Message(c, http.StatusOK, "Pipeline deleted")
}

func (h *Handler) CreateStage(c *gin.Context) {
	var req CreateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	stage, err := h.service.CreateStage(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Stage title is required")
		case errors.Is(err, ErrPipelineNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Pipeline not found")
		case errors.Is(err, ErrStageLimit):
			response.Error(c, http.StatusUnprocessableEntity, "STAGE_LIMIT", "Pipeline cannot have more than 12 stages")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create stage")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"stage": stage})
}

func (h *Handler) ListStages(c *gin.Context) {
	pipelineID, err := strconv.ParseInt(c.Query("pipeline_id"), 10, 64)
	if err != nil || pipelineID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "pipeline_id query parameter is required")
		return
	}

	stages, err := h.service.ListStages(c.Request.Context(), pipelineID)
	if err != nil {
		if errors.Is(err, ErrPipelineNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Pipeline not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch stages")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stages": stages})
}

func (h *Handler) UpdateStage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid stage ID")
		return
	}

	var req UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	stage, err := h.service.UpdateStage(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrStageNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Stage not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update stage")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stage": stage})
}

func (h *Handler) DeleteStage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid stage ID")
		return
	}

	if err := h.service.DeleteStage(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrStageNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Stage not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete stage")
		return
	}

	response.Message(c, http.StatusOK, "Stage deleted")
}

func (h *Handler) ReorderStages(c *gin.Context) {
	var req ReorderStagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	stages, err := h.service.ReorderStages(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Stage list is required")
		case errors.Is(err, ErrStageNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Stage not found")
		case errors.Is(err, ErrStageSetMismatch):
			response.Error(c, http.StatusUnprocessableEntity, "STAGE_SET_MISMATCH", "Reorder must include every stage of exactly one pipeline")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reorder stages")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stages": stages})
}
