package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/service"
	"go.uber.org/zap"
)

type SegmentHandler struct {
	segmentService *service.SegmentService
	logger         *zap.Logger
}

func NewSegmentHandler(segmentService *service.SegmentService, logger *zap.Logger) *SegmentHandler {
	return &SegmentHandler{
		segmentService: segmentService,
		logger:         logger,
	}
}

// List godoc
// @Summary List custom segments
// @Description Get all custom segments for the caller's tenant, oldest first
// @Tags Segments
// @Accept json
// @Produce json
// @Success 200 {array} domain.SegmentDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /segments [get]
func (h *SegmentHandler) List(w http.ResponseWriter, r *http.Request) {
	segments, err := h.segmentService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list segments", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list segments",
		})
		return
	}

	respondJSON(w, http.StatusOK, segments)
}

// GetByID godoc
// @Summary Get segment by ID
// @Tags Segments
// @Accept json
// @Produce json
// @Param id path string true "Segment ID" format(uuid)
// @Success 200 {object} domain.SegmentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /segments/{id} [get]
func (h *SegmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid segment ID format",
		})
		return
	}

	segment, err := h.segmentService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSegmentNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Segment not found",
			})
			return
		}
		h.logger.Error("failed to get segment", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get segment",
		})
		return
	}

	respondJSON(w, http.StatusOK, segment)
}

// Create godoc
// @Summary Create custom segment
// @Description Create a named rule-based segment. Rules are validated before the segment is stored; names must be unique within the tenant.
// @Tags Segments
// @Accept json
// @Produce json
// @Param tenant query string false "Tenant scope (owners only)" Enums(salon, nutrition)
// @Param request body domain.CreateSegmentRequest true "Segment definition"
// @Success 201 {object} domain.SegmentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate segment name"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /segments [post]
func (h *SegmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSegmentRequest
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

	segment, err := h.segmentService.Create(r.Context(), requestedTenant(r), &req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateSegmentName) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "A segment with this name already exists",
			})
			return
		}
		respondTenantError(w, h.logger, err, "failed to create segment")
		return
	}

	w.Header().Set("Location", "/api/v1/segments/"+segment.ID.String())
	respondJSON(w, http.StatusCreated, segment)
}

// Update godoc
// @Summary Update custom segment
// @Description Replace a segment's name, color, and rules
// @Tags Segments
// @Accept json
// @Produce json
// @Param id path string true "Segment ID" format(uuid)
// @Param request body domain.CreateSegmentRequest true "Segment definition"
// @Success 200 {object} domain.SegmentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate segment name"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /segments/{id} [put]
func (h *SegmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid segment ID format",
		})
		return
	}

	var req domain.CreateSegmentRequest
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

	segment, err := h.segmentService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrSegmentNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Segment not found",
			})
			return
		}
		if errors.Is(err, service.ErrDuplicateSegmentName) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "A segment with this name already exists",
			})
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
			})
			return
		}
		h.logger.Error("failed to update segment", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update segment",
		})
		return
	}

	respondJSON(w, http.StatusOK, segment)
}

// Delete godoc
// @Summary Delete custom segment
// @Description Delete a segment. Clients matching the segment are unaffected; the label simply disappears from their profiles.
// @Tags Segments
// @Accept json
// @Produce json
// @Param id path string true "Segment ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /segments/{id} [delete]
func (h *SegmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid segment ID format",
		})
		return
	}

	if err := h.segmentService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrSegmentNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Segment not found",
			})
			return
		}
		h.logger.Error("failed to delete segment", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete segment",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
