package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/analytics"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/service"
	"go.uber.org/zap"
)

type ClientHandler struct {
	clientService *service.ClientService
	logger        *zap.Logger
}

func NewClientHandler(clientService *service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// queryDateFormat is the wire format for date query parameters
const queryDateFormat = "2006-01-02"

// parseDirectoryQuery builds the directory query from URL parameters. Unknown
// sort keys fall back to the name sort rather than erroring, matching how the
// segment selector treats unknown names (they simply match nothing).
func parseDirectoryQuery(r *http.Request) (analytics.Query, error) {
	q := analytics.Query{
		Search:  r.URL.Query().Get("search"),
		Segment: r.URL.Query().Get("segment"),
		SortBy:  analytics.SortByName,
		Staff:   r.URL.Query().Get("staff"),
	}

	if s := r.URL.Query().Get("sortBy"); s != "" {
		if key := analytics.SortKey(s); key.IsValid() {
			q.SortBy = key
		}
	}
	q.Descending = r.URL.Query().Get("order") == "desc"

	if c := r.URL.Query().Get("category"); c != "" {
		cat := domain.VisitCategory(c)
		if !cat.IsValid() {
			return q, errors.New("unknown category: " + c)
		}
		q.Category = cat
	}

	if s := r.URL.Query().Get("dateStart"); s != "" {
		t, err := time.Parse(queryDateFormat, s)
		if err != nil {
			return q, errors.New("dateStart must be formatted as YYYY-MM-DD")
		}
		q.DateStart = &t
	}
	if s := r.URL.Query().Get("dateEnd"); s != "" {
		t, err := time.Parse(queryDateFormat, s)
		if err != nil {
			return q, errors.New("dateEnd must be formatted as YYYY-MM-DD")
		}
		q.DateEnd = &t
	}

	return q, nil
}

// Directory godoc
// @Summary Client directory
// @Description Get the aggregated client directory with summary stats. Profiles are computed from the visit history merged with manually created clients.
// @Tags Clients
// @Accept json
// @Produce json
// @Param search query string false "Case-insensitive name search"
// @Param segment query string false "Segment label or custom segment name ('All' disables)"
// @Param sortBy query string false "Sort key" Enums(name, visitCount, avgNps, totalSpent, lastVisit)
// @Param order query string false "Sort direction" Enums(asc, desc)
// @Param staff query string false "Only clients served by this staff member"
// @Param category query string false "Only clients with a visit in this category"
// @Param dateStart query string false "Only clients with a visit on or after this date (YYYY-MM-DD)"
// @Param dateEnd query string false "Only clients with a visit on or before this date (YYYY-MM-DD)"
// @Param tenant query string false "Tenant scope (owners only)" Enums(salon, nutrition)
// @Success 200 {object} domain.DirectoryResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients [get]
func (h *ClientHandler) Directory(w http.ResponseWriter, r *http.Request) {
	query, err := parseDirectoryQuery(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
		})
		return
	}

	result, err := h.clientService.Directory(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to build client directory", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to build client directory",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ExportCSV godoc
// @Summary Export client directory as CSV
// @Description Export the filtered client directory as a CSV file. Accepts the same query parameters as the directory listing.
// @Tags Clients
// @Produce text/csv
// @Param search query string false "Case-insensitive name search"
// @Param segment query string false "Segment label or custom segment name ('All' disables)"
// @Param sortBy query string false "Sort key" Enums(name, visitCount, avgNps, totalSpent, lastVisit)
// @Param order query string false "Sort direction" Enums(asc, desc)
// @Success 200 {string} string "CSV payload"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients/export [get]
func (h *ClientHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	query, err := parseDirectoryQuery(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
		})
		return
	}

	data, err := h.clientService.ExportCSV(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to export client directory", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to export client directory",
		})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="clients.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetByID godoc
// @Summary Get client by ID
// @Description Get a single client record including its attachments
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID" format(uuid)
// @Success 200 {object} domain.ClientDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients/{id} [get]
func (h *ClientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid client ID format",
		})
		return
	}

	client, err := h.clientService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Client not found",
			})
			return
		}
		h.logger.Error("failed to get client", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get client",
		})
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// Create godoc
// @Summary Create client
// @Description Create a new client record. The phone number must be unique within the tenant.
// @Tags Clients
// @Accept json
// @Produce json
// @Param tenant query string false "Tenant scope (owners only)" Enums(salon, nutrition)
// @Param request body domain.CreateClientRequest true "Client data"
// @Success 201 {object} domain.ClientDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate phone number"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients [post]
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
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

	client, err := h.clientService.Create(r.Context(), requestedTenant(r), &req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicatePhone) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "A client with this phone number already exists",
			})
			return
		}
		respondTenantError(w, h.logger, err, "failed to create client")
		return
	}

	w.Header().Set("Location", "/api/v1/clients/"+client.ID.String())
	respondJSON(w, http.StatusCreated, client)
}

// Update godoc
// @Summary Update client
// @Description Update an existing client record
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID" format(uuid)
// @Param request body domain.UpdateClientRequest true "Client data"
// @Success 200 {object} domain.ClientDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate phone number"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid client ID format",
		})
		return
	}

	var req domain.UpdateClientRequest
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

	client, err := h.clientService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Client not found",
			})
			return
		}
		if errors.Is(err, service.ErrDuplicatePhone) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "A client with this phone number already exists",
			})
			return
		}
		h.logger.Error("failed to update client", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update client",
		})
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// Delete godoc
// @Summary Delete client
// @Description Soft delete a client record. Visits remain; the directory entry reverts to a history-only profile.
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid client ID format",
		})
		return
	}

	if err := h.clientService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Client not found",
			})
			return
		}
		h.logger.Error("failed to delete client", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete client",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
