package company

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
	rg.GET("/companies", h.ListCompanies)
	rg.POST("/companies", h.CreateCompany)
	rg.GET("/companies/:id", h.GetCompany)
	rg.PUT("/companies/:id", h.UpdateCompany)
	rg.DELETE("/companies/:id", h.DeleteCompany)
}

func (h *Handler) CreateCompany(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	ownerID := c.GetInt64("user_id")
	company, err := h.service.CreateCompany(c.Request.Context(), req, ownerID)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Company name is required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create company")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"company": company})
}

func (h *Handler) GetCompany(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid company ID")
		return
	}

	company, err := h.service.GetCompany(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCompanyNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Company not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch company")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"company": company})
}

func (h *Handler) ListCompanies(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	companies, total, err := h.service.ListCompanies(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch companies")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"companies": companies,
		"total":     total,
	})
}

func (h *Handler) UpdateCompany(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid company ID")
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	company, err := h.service.UpdateCompany(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrCompanyNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Company not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update company")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"company": company})
}

func (h *Handler) DeleteCompany(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid company ID")
		return
	}

	if err := h.service.DeleteCompany(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrCompanyNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Company not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete company")
		return
	}

	response.Message(c, http.StatusOK, "Company deleted")
}
