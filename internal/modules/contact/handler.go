package contact

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
	rg.GET("/contacts", h.ListContacts)
	rg.POST("/contacts", h.CreateContact)
	rg.GET("/contacts/:id", h.GetContact)
	rg.PUT("/contacts/:id", h.UpdateContact)
	rg.DELETE("/contacts/:id", h.DeleteContact)
}

func (h *Handler) CreateContact(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	ownerID := c.GetInt64("user_id")
	contact, err := h.service.CreateContact(c.Request.Context(), req, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Contact name is required and email must be valid")
		case errors.Is(err, ErrCompanyNotFound):
			response.Error(c, http.StatusUnprocessableEntity, "COMPANY_NOT_FOUND", "Referenced company does not exist")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create contact")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"contact": contact})
}

func (h *Handler) GetContact(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid contact ID")
		return
	}

	contact, err := h.service.GetContact(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrContactNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Contact not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch contact")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"contact": contact})
}

func (h *Handler) ListContacts(c *gin.Context) {
	companyID, _ := strconv.ParseInt(c.Query("company_id"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	contacts, total, err := h.service.ListContacts(c.Request.Context(), c.Query("search"), companyID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch contacts")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"contacts": contacts,
		"total":    total,
	})
}

func (h *Handler) UpdateContact(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid contact ID")
		return
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	contact, err := h.service.UpdateContact(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrContactNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Contact not found")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Contact name is required and email must be valid")
		case errors.Is(err, ErrCompanyNotFound):
			response.Error(c, http.StatusUnprocessableEntity, "COMPANY_NOT_FOUND", "Referenced company does not exist")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update contact")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"contact": contact})
}

func (h *Handler) DeleteContact(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid contact ID")
		return
	}

	if err := h.service.DeleteContact(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrContactNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Contact not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete contact")
		return
	}

	response.Message(c, http.StatusOK, "Contact deleted")
}
