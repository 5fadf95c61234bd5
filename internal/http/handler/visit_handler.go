package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/service"
	"go.uber.org/zap"
)

type VisitHandler struct {
	visitService *service.VisitService
	logger       *zap.Logger
}

func NewVisitHandler(visitService *service.VisitService, logger *zap.Logger) *VisitHandler {
	return &VisitHandler{
		visitService: visitService,
		logger:       logger,
	}
}

// List godoc
// @Summary List visits
// @Description Get visits for the caller's tenant. A clientName filter returns that client's history newest first; a date range returns visits in chronological order. The drill-down from a statistics slice lands here with searchTerm and the interval bounds.
// @Tags Visits
// @Accept json
// @Produce json
// @Param clientName query string false "Exact client name"
// @Param dateStart query string false "Range start (YYYY-MM-DD)"
// @Param dateEnd query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} domain.VisitDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /visits [get]
func (h *VisitHandler) List(w http.ResponseWriter, r *http.Request) {
	var start, end *time.Time
	if s := r.URL.Query().Get("dateStart"); s != "" {
		t, err := time.Parse(queryDateFormat, s)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "dateStart must be formatted as YYYY-MM-DD",
			})
			return
		}
		start = &t
	}
	if s := r.URL.Query().Get("dateEnd"); s != "" {
		t, err := time.Parse(queryDateFormat, s)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "dateEnd must be formatted as YYYY-MM-DD",
			})
			return
		}
		end = &t
	}

	visits, err := h.visitService.List(r.Context(), r.URL.Query().Get("clientName"), start, end)
	if err != nil {
		h.logger.Error("failed to list visits", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list visits",
		})
		return
	}

	respondJSON(w, http.StatusOK, visits)
}

// GetByID godoc
// @Summary Get visit by ID
// @Tags Visits
// @Accept json
// @Produce json
// @Param id path string true "Visit ID" format(uuid)
// @Success 200 {object} domain.VisitDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /visits/{id} [get]
func (h *VisitHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid visit ID format",
		})
		return
	}

	visit, err := h.visitService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrVisitNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Visit not found",
			})
			return
		}
		h.logger.Error("failed to get visit", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get visit",
		})
		return
	}

	respondJSON(w, http.StatusOK, visit)
}

// Create godoc
// @Summary Record visit
// @Description Record a manual visit. POS-imported visits arrive through the nightly sync instead.
// @Tags Visits
// @Accept json
// @Produce json
// @Param tenant query string false "Tenant scope (owners only)" Enums(salon, nutrition)
// @Param request body domain.CreateVisitRequest true "Visit data"
// @Success 201 {object} domain.VisitDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /visits [post]
func (h *VisitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	visit, err := h.visitService.Create(r.Context(), requestedTenant(r), &req)
	if err != nil {
		respondTenantError(w, h.logger, err, "failed to record visit")
		return
	}

	w.Header().Set("Location", "/api/v1/visits/"+visit.ID.String())
	respondJSON(w, http.StatusCreated, visit)
}

// Delete godoc
// @Summary Delete visit
// @Description Delete a visit record. The affected client's directory profile is recomputed on the next read.
// @Tags Visits
// @Accept json
// @Produce json
// @Param id path string true "Visit ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /visits/{id} [delete]
func (h *VisitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid visit ID format",
		})
		return
	}

	if err := h.visitService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrVisitNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Visit not found",
			})
			return
		}
		h.logger.Error("failed to delete visit", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete visit",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
