package handler

import (
	"errors"
	"net/http"
	"strconv"

	"hotelsync/internal/app/review-sync/entity"
	"hotelsync/internal/app/review-sync/repository"
	"hotelsync/internal/app/review-sync/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// IntegrationHandler - HTTP слой управления интеграциями.
// Тонкий: валидация запроса, вызов сервиса, маппинг ошибок в статус коды.
type IntegrationHandler struct {
	integrationSvc service.IntegrationServiceInterface
	validator      *validator.Validate
}

// NewIntegrationHandler создает новый handler интеграций
func NewIntegrationHandler(integrationSvc service.IntegrationServiceInterface) *IntegrationHandler {
	return &IntegrationHandler{
		integrationSvc: integrationSvc,
		validator:      validator.New(),
	}
}

// SetupIntegration обрабатывает POST /integrations
func (h *IntegrationHandler) SetupIntegration(c *gin.Context) {
	var req entity.SetupIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	integration, err := h.integrationSvc.SetupIntegration(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrIntegrationExists):
			c.JSON(http.StatusConflict, entity.ErrorResponse{Error: "Integration already exists for this hotel and platform"})
		case errors.Is(err, repository.ErrHotelNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Hotel not found"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to setup integration"})
		}
		return
	}

	c.JSON(http.StatusCreated, integration)
}

// SyncNow обрабатывает POST /integrations/:id/sync - запуск вне расписания.
// Единственный endpoint, на котором ошибка синхронизации видна вызывающему.
func (h *IntegrationHandler) SyncNow(c *gin.Context) {
	integrationID := c.Param("id")

	result, err := h.integrationSvc.SyncNow(c.Request.Context(), integrationID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrIntegrationNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Integration not found"})
		case errors.Is(err, service.ErrSyncInProgress):
			c.JSON(http.StatusConflict, entity.ErrorResponse{Error: "Sync already in progress"})
		default:
			c.JSON(http.StatusBadGateway, entity.ErrorResponse{Error: "Sync failed", Message: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetIntegration обрабатывает GET /integrations/:id
func (h *IntegrationHandler) GetIntegration(c *gin.Context) {
	integration, err := h.integrationSvc.GetIntegration(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrIntegrationNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Integration not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to get integration"})
		return
	}

	c.JSON(http.StatusOK, integration)
}

// ListIntegrations обрабатывает GET /integrations?hotel_id=
func (h *IntegrationHandler) ListIntegrations(c *gin.Context) {
	hotelID := c.Query("hotel_id")
	if hotelID == "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "hotel_id query parameter is required"})
		return
	}

	integrations, err := h.integrationSvc.ListIntegrations(c.Request.Context(), hotelID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to list integrations"})
		return
	}

	c.JSON(http.StatusOK, entity.IntegrationListResponse{
		Integrations: integrations,
		Total:        len(integrations),
	})
}

// UpdateIntegration обрабатывает PATCH /integrations/:id
func (h *IntegrationHandler) UpdateIntegration(c *gin.Context) {
	var req entity.UpdateIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	integration, err := h.integrationSvc.UpdateIntegration(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrIntegrationNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Integration not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to update integration"})
		return
	}

	c.JSON(http.StatusOK, integration)
}

// DeleteIntegration обрабатывает DELETE /integrations/:id
func (h *IntegrationHandler) DeleteIntegration(c *gin.Context) {
	if err := h.integrationSvc.DeleteIntegration(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrIntegrationNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Integration not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to delete integration"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListReviews обрабатывает GET /hotels/:id/reviews?platform=&limit=
func (h *IntegrationHandler) ListReviews(c *gin.Context) {
	hotelID := c.Param("id")
	platform := entity.Platform(c.Query("platform"))

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "limit must be an integer between 1 and 500"})
			return
		}
		limit = parsed
	}

	reviews, err := h.integrationSvc.ListReviews(c.Request.Context(), hotelID, platform, limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Failed to list reviews", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{
		Reviews: reviews,
		Total:   len(reviews),
	})
}
