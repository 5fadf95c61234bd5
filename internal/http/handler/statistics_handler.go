package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/solemia/studio-api/internal/analytics"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/service"
	"go.uber.org/zap"
)

type StatisticsHandler struct {
	statisticsService *service.StatisticsService
	logger            *zap.Logger
}

func NewStatisticsHandler(statisticsService *service.StatisticsService, logger *zap.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		statisticsService: statisticsService,
		logger:            logger,
	}
}

// parseStatsQuery reads the shared statistics parameters. Validation of the
// enum values happens in the service, which reports ErrInvalidInput.
func parseStatsQuery(r *http.Request) (service.StatsQuery, error) {
	q := service.StatsQuery{
		Period:   analytics.PeriodKind(r.URL.Query().Get("period")),
		Compare:  analytics.ComparisonMode(r.URL.Query().Get("compare")),
		Staff:    r.URL.Query().Get("staff"),
		Category: domain.VisitCategory(r.URL.Query().Get("category")),
	}

	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.Parse(queryDateFormat, s)
		if err != nil {
			return q, errors.New("start must be formatted as YYYY-MM-DD")
		}
		q.CustomStart = t
	}
	if s := r.URL.Query().Get("end"); s != "" {
		t, err := time.Parse(queryDateFormat, s)
		if err != nil {
			return q, errors.New("end must be formatted as YYYY-MM-DD")
		}
		q.CustomEnd = t
	}

	return q, nil
}

func (h *StatisticsHandler) respondStatsError(w http.ResponseWriter, err error, logMsg string) {
	if errors.Is(err, service.ErrInvalidInput) {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
		})
		return
	}
	h.logger.Error(logMsg, zap.Error(err))
	respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
		Error:   "Internal Server Error",
		Message: "Failed to compute statistics",
	})
}

// KPIs godoc
// @Summary Headline KPIs
// @Description Get revenue, appointment count, average ticket, average satisfaction, and retention rate for the selected period, optionally with deltas against a comparison period.
// @Tags Statistics
// @Accept json
// @Produce json
// @Param period query string false "Period selection" Enums(week, month, quarter, year, custom) default(month)
// @Param start query string false "Custom period start (YYYY-MM-DD, required with period=custom)"
// @Param end query string false "Custom period end (YYYY-MM-DD, required with period=custom)"
// @Param compare query string false "Comparison mode" Enums(previous, sameLastYear)
// @Param staff query string false "Restrict to one staff member"
// @Param category query string false "Restrict to one visit category"
// @Param tenant query string false "Tenant scope (owners only)" Enums(salon, nutrition)
// @Success 200 {object} domain.StatisticsKPIResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /statistics/kpis [get]
func (h *StatisticsHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	q, err := parseStatsQuery(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
		})
		return
	}

	result, err := h.statisticsService.KPIs(r.Context(), q)
	if err != nil {
		h.respondStatsError(w, err, "failed to compute kpis")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Revenue godoc
// @Summary Daily revenue series
// @Description Get the day-by-day revenue chart for the selected period. With a comparison mode, each point carries the aligned day of the comparison period.
// @Tags Statistics
// @Accept json
// @Produce json
// @Param period query string false "Period selection" Enums(week, month, quarter, year, custom) default(month)
// @Param start query string false "Custom period start (YYYY-MM-DD)"
// @Param end query string false "Custom period end (YYYY-MM-DD)"
// @Param compare query string false "Comparison mode" Enums(previous, sameLastYear)
// @Param staff query string false "Restrict to one staff member"
// @Param category query string false "Restrict to one visit category"
// @Success 200 {array} domain.RevenuePointDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /statistics/revenue [get]
func (h *StatisticsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	q, err := parseStatsQuery(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
		})
		return
	}

	result, err := h.statisticsService.Revenue(r.Context(), q)
	if err != nil {
		h.respondStatsError(w, err, "failed to compute revenue series")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Staff godoc
// @Summary Staff performance breakdown
// @Description Get per-staff revenue, visit count, commission, and average satisfaction for the selected period, highest revenue first.
// @Tags Statistics
// @Accept json
// @Produce json
// @Param period query string false "Period selection" Enums(week, month, quarter, year, custom) default(month)
// @Param start query string false "Custom period start (YYYY-MM-DD)"
// @Param end query string false "Custom period end (YYYY-MM-DD)"
// @Param category query string false "Restrict to one visit category"
// @Success 200 {array} domain.StaffStatsDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /statistics/staff [get]
func (h *StatisticsHandler) Staff(w http.ResponseWriter, r *http.Request) {
	q, err := parseStatsQuery(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
		})
		return
	}

	result, err := h.statisticsService.Staff(r.Context(), q)
	if err != nil {
		h.respondStatsError(w, err, "failed to compute staff breakdown")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// SalesProfile godoc
// @Summary Sales profile pie
// @Description Get the revenue split for the selected period. The binary view splits services against products; the services and products views break one bucket down by name. Each slice carries a drill-down handoff to the visit list.
// @Tags Statistics
// @Accept json
// @Produce json
// @Param period query string false "Period selection" Enums(week, month, quarter, year, custom) default(month)
// @Param start query string false "Custom period start (YYYY-MM-DD)"
// @Param end query string false "Custom period end (YYYY-MM-DD)"
// @Param view query string false "Pie view" Enums(binary, services, products) default(binary)
// @Success 200 {object} domain.SalesProfileResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /statistics/sales-profile [get]
func (h *StatisticsHandler) SalesProfile(w http.ResponseWriter, r *http.Request) {
	q, err := parseStatsQuery(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
		})
		return
	}

	view := analytics.PieView(r.URL.Query().Get("view"))
	result, err := h.statisticsService.SalesProfile(r.Context(), q, view)
	if err != nil {
		h.respondStatsError(w, err, "failed to compute sales profile")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
