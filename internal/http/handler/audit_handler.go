package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/service"
	"go.uber.org/zap"
)

// AuditHandler exposes the audit trail to owners and managers.
type AuditHandler struct {
	auditService *service.AuditLogService
	logger       *zap.Logger
}

func NewAuditHandler(auditService *service.AuditLogService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{auditService: auditService, logger: logger}
}

// AuditLogDTO is one audit entry in API form. The jsonb columns come back
// as decoded objects rather than raw strings.
type AuditLogDTO struct {
	ID          string                 `json:"id"`
	UserID      string                 `json:"userId,omitempty"`
	UserEmail   string                 `json:"userEmail,omitempty"`
	UserName    string                 `json:"userName,omitempty"`
	Action      string                 `json:"action"`
	EntityType  string                 `json:"entityType"`
	EntityID    string                 `json:"entityId,omitempty"`
	EntityName  string                 `json:"entityName,omitempty"`
	TenantID    string                 `json:"tenantId,omitempty"`
	OldValues   map[string]interface{} `json:"oldValues,omitempty"`
	NewValues   map[string]interface{} `json:"newValues,omitempty"`
	Changes     map[string]interface{} `json:"changes,omitempty"`
	IPAddress   string                 `json:"ipAddress,omitempty"`
	UserAgent   string                 `json:"userAgent,omitempty"`
	RequestID   string                 `json:"requestId,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	PerformedAt string                 `json:"performedAt"`
}

// AuditLogListResponse is a page of audit entries.
type AuditLogListResponse struct {
	Data       []AuditLogDTO `json:"data"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

// AuditStatsResponse holds per-action counts for a time window.
type AuditStatsResponse struct {
	ActionCounts map[string]int64 `json:"actionCounts"`
	StartTime    string           `json:"startTime"`
	EndTime      string           `json:"endTime"`
}

// requireManager gates the audit endpoints to owners and managers.
func requireManager(w http.ResponseWriter, r *http.Request) (*auth.UserContext, bool) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return nil, false
	}
	if !userCtx.IsManager() {
		respondJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
		return nil, false
	}
	return userCtx, true
}

// List godoc
// @Summary List audit logs
// @Description Returns a paginated list of audit log entries with optional filters
// @Tags Audit
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Param userId query string false "Filter by user ID"
// @Param action query string false "Filter by action type"
// @Param entityType query string false "Filter by entity type"
// @Param entityId query string false "Filter by entity ID"
// @Param startTime query string false "Filter by start time (RFC3339)"
// @Param endTime query string false "Filter by end time (RFC3339)"
// @Success 200 {object} AuditLogListResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := requireManager(w, r)
	if !ok {
		return
	}

	params := listParamsFromQuery(r)
	params.TenantID = userCtx.GetTenantFilter()

	logs, total, err := h.auditService.List(r.Context(), params)
	if err != nil {
		h.logger.Error("failed to list audit logs", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to retrieve audit logs"})
		return
	}

	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize > 0 {
		totalPages++
	}

	respondJSON(w, http.StatusOK, AuditLogListResponse{
		Data:       auditDTOs(logs),
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	})
}

// listParamsFromQuery reads the filter query string. Malformed optional
// values (bad uuid, bad timestamp) are ignored rather than rejected.
func listParamsFromQuery(r *http.Request) service.AuditLogQueryParams {
	q := r.URL.Query()

	params := service.AuditLogQueryParams{
		UserID:     q.Get("userId"),
		EntityType: q.Get("entityType"),
		Page:       parseIntQuery(r, "page", 1),
		PageSize:   parseIntQuery(r, "pageSize", 20),
	}
	if params.PageSize > 100 {
		params.PageSize = 100
	}

	if s := q.Get("action"); s != "" {
		action := domain.AuditAction(s)
		params.Action = &action
	}
	if s := q.Get("entityId"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			params.EntityID = &id
		}
	}
	if s := q.Get("startTime"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			params.StartTime = &t
		}
	}
	if s := q.Get("endTime"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			params.EndTime = &t
		}
	}
	return params
}

// GetByID godoc
// @Summary Get audit log by ID
// @Tags Audit
// @Produce json
// @Param id path string true "Audit log ID"
// @Success 200 {object} AuditLogDTO
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit/{id} [get]
func (h *AuditHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManager(w, r); !ok {
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid audit log ID"})
		return
	}

	log, err := h.auditService.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get audit log", zap.String("id", idStr), zap.Error(err))
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "audit log not found"})
		return
	}

	respondJSON(w, http.StatusOK, auditDTO(*log))
}

// GetByEntity godoc
// @Summary Get audit logs for an entity
// @Description Returns the change history of a single record
// @Tags Audit
// @Produce json
// @Param entityType path string true "Entity type (e.g., Client, Segment)"
// @Param entityId path string true "Entity ID"
// @Param limit query int false "Maximum number of entries (default: 50)"
// @Success 200 {array} AuditLogDTO
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit/entity/{entityType}/{entityId} [get]
func (h *AuditHandler) GetByEntity(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManager(w, r); !ok {
		return
	}

	entityType := chi.URLParam(r, "entityType")
	entityIDStr := chi.URLParam(r, "entityId")

	entityID, err := uuid.Parse(entityIDStr)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid entity ID"})
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	if limit > 200 {
		limit = 200
	}

	logs, err := h.auditService.GetByEntity(r.Context(), entityType, entityID, limit)
	if err != nil {
		h.logger.Error("failed to get entity audit logs",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityIDStr),
			zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to retrieve audit logs"})
		return
	}

	respondJSON(w, http.StatusOK, auditDTOs(logs))
}

// GetStats godoc
// @Summary Get audit log statistics
// @Description Returns per-action entry counts for a time range
// @Tags Audit
// @Produce json
// @Param startTime query string true "Start time (RFC3339)"
// @Param endTime query string true "End time (RFC3339)"
// @Success 200 {object} AuditStatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 400 {object} map[string]string "Bad request"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit/stats [get]
func (h *AuditHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManager(w, r); !ok {
		return
	}

	startTime, err := time.Parse(time.RFC3339, r.URL.Query().Get("startTime"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "startTime is required in RFC3339 format"})
		return
	}
	endTime, err := time.Parse(time.RFC3339, r.URL.Query().Get("endTime"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "endTime is required in RFC3339 format"})
		return
	}

	stats, err := h.auditService.GetStats(r.Context(), startTime, endTime)
	if err != nil {
		h.logger.Error("failed to get audit stats", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to retrieve statistics"})
		return
	}

	actionCounts := make(map[string]int64, len(stats))
	for action, count := range stats {
		actionCounts[string(action)] = count
	}

	respondJSON(w, http.StatusOK, AuditStatsResponse{
		ActionCounts: actionCounts,
		StartTime:    startTime.Format(time.RFC3339),
		EndTime:      endTime.Format(time.RFC3339),
	})
}

func auditDTOs(logs []domain.AuditLog) []AuditLogDTO {
	dtos := make([]AuditLogDTO, len(logs))
	for i, log := range logs {
		dtos[i] = auditDTO(log)
	}
	return dtos
}

func auditDTO(log domain.AuditLog) AuditLogDTO {
	dto := AuditLogDTO{
		ID:          log.ID.String(),
		UserID:      log.UserID,
		UserEmail:   log.UserEmail,
		UserName:    log.UserName,
		Action:      string(log.Action),
		EntityType:  log.EntityType,
		EntityName:  log.EntityName,
		IPAddress:   log.IPAddress,
		UserAgent:   log.UserAgent,
		RequestID:   log.RequestID,
		PerformedAt: log.PerformedAt.Format(time.RFC3339),
		OldValues:   decodeJSONObject(log.OldValues),
		NewValues:   decodeJSONObject(log.NewValues),
		Changes:     decodeJSONObject(log.Changes),
		Metadata:    decodeJSONObject(log.Metadata),
	}
	if log.EntityID != nil {
		dto.EntityID = log.EntityID.String()
	}
	if log.TenantID != nil {
		dto.TenantID = string(*log.TenantID)
	}
	return dto
}

// decodeJSONObject turns a stored jsonb string into a map, or nil when the
// column is empty or holds something other than an object.
func decodeJSONObject(data string) map[string]interface{} {
	if data == "" {
		return nil
	}
	var obj map[string]interface{}
	if err := parseJSON(data, &obj); err != nil {
		return nil
	}
	return obj
}

// parseIntQuery reads an integer query parameter, falling back on the
// default for missing or unparseable values.
func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}
