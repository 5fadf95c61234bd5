package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/service"
	"go.uber.org/zap"
)

type TenantHandler struct {
	tenantService *service.TenantService
	logger        *zap.Logger
}

func NewTenantHandler(tenantService *service.TenantService, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
		logger:        logger,
	}
}

// List godoc
// @Summary List businesses
// @Description Get the active businesses served by this deployment
// @Tags Tenants
// @Produce json
// @Success 200 {array} domain.TenantDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tenants [get]
func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.tenantService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list tenants", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list tenants",
		})
		return
	}

	respondJSON(w, http.StatusOK, tenants)
}

// GetByID godoc
// @Summary Get business by ID
// @Tags Tenants
// @Produce json
// @Param id path string true "Tenant ID" Enums(salon, nutrition)
// @Success 200 {object} domain.TenantDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tenants/{id} [get]
func (h *TenantHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := domain.TenantID(chi.URLParam(r, "id"))
	if !domain.IsValidTenantID(string(id)) || id == domain.TenantAll {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Unknown tenant",
		})
		return
	}

	tenant, err := h.tenantService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Tenant not found",
			})
			return
		}
		h.logger.Error("failed to get tenant", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get tenant",
		})
		return
	}

	respondJSON(w, http.StatusOK, tenant)
}
