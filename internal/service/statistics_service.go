package service

import (
	"context"
	"fmt"
	"time"

	"github.com/solemia/studio-api/internal/analytics"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/mapper"
	"github.com/solemia/studio-api/internal/repository"
	"go.uber.org/zap"
)

// StatsQuery describes one statistics request: the period selection, an
// optional comparison, and the staff and category facets.
type StatsQuery struct {
	Period      analytics.PeriodKind
	CustomStart time.Time // only read when Period is custom
	CustomEnd   time.Time
	Compare     analytics.ComparisonMode // empty disables the comparison
	Staff       string
	Category    domain.VisitCategory
}

// StatisticsService computes the dashboard numbers: period KPIs with
// comparison deltas, the revenue chart, the staff breakdown, and the sales
// profile drill-down.
type StatisticsService struct {
	visitRepo *repository.VisitRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewStatisticsService(visitRepo *repository.VisitRepository, logger *zap.Logger) *StatisticsService {
	return &StatisticsService{
		visitRepo: visitRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// WithNow overrides the clock. Tests use this to pin "today".
func (s *StatisticsService) WithNow(now func() time.Time) *StatisticsService {
	s.now = now
	return s
}

func (s *StatisticsService) validate(q StatsQuery) error {
	if q.Period != "" && !q.Period.IsValid() {
		return fmt.Errorf("%w: unknown period %q", ErrInvalidInput, q.Period)
	}
	if q.Period == analytics.PeriodCustom && (q.CustomStart.IsZero() || q.CustomEnd.IsZero()) {
		return fmt.Errorf("%w: custom period requires start and end dates", ErrInvalidInput)
	}
	if q.Compare != "" && !q.Compare.IsValid() {
		return fmt.Errorf("%w: unknown comparison mode %q", ErrInvalidInput, q.Compare)
	}
	if q.Category != "" && !q.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, q.Category)
	}
	return nil
}

// resolve loads the visit history and slices it into the primary and (when
// requested) comparison windows.
func (s *StatisticsService) resolve(ctx context.Context, q StatsQuery) (primary analytics.Interval, current []domain.Visit, comparison *analytics.Interval, previous []domain.Visit, err error) {
	if err = s.validate(q); err != nil {
		return
	}

	period := q.Period
	if period == "" {
		period = analytics.PeriodMonth
	}
	primary = analytics.ResolvePeriod(period, q.CustomStart, q.CustomEnd, s.now())

	visits, loadErr := s.visitRepo.ListAll(ctx)
	if loadErr != nil {
		err = fmt.Errorf("failed to load visits: %w", loadErr)
		return
	}

	current = analytics.FilterVisits(visits, primary, q.Staff, q.Category)

	if q.Compare != "" {
		iv := analytics.ResolveComparison(q.Compare, primary)
		comparison = &iv
		previous = analytics.FilterVisits(visits, iv, q.Staff, q.Category)
	}

	return
}

// KPIs computes the headline metrics for the selected period, with deltas
// against the comparison period when one is requested.
func (s *StatisticsService) KPIs(ctx context.Context, q StatsQuery) (*domain.StatisticsKPIResponse, error) {
	primary, current, comparison, previous, err := s.resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	currentKPIs := analytics.ComputeKPIs(current)
	resp := &domain.StatisticsKPIResponse{
		Period:  mapper.ToIntervalDTO(primary),
		Current: mapper.ToPeriodKPIsDTO(&currentKPIs),
	}

	if comparison != nil {
		previousKPIs := analytics.ComputeKPIs(previous)
		deltas := analytics.CompareKPIs(currentKPIs, previousKPIs)

		ivDTO := mapper.ToIntervalDTO(*comparison)
		prevDTO := mapper.ToPeriodKPIsDTO(&previousKPIs)
		deltasDTO := mapper.ToKPIDeltasDTO(&deltas)
		resp.Comparison = &ivDTO
		resp.Previous = &prevDTO
		resp.Deltas = &deltasDTO
	}

	return resp, nil
}

// Revenue computes the daily revenue series for the selected period,
// aligned with the comparison period when one is requested.
func (s *StatisticsService) Revenue(ctx context.Context, q StatsQuery) ([]domain.RevenuePointDTO, error) {
	primary, current, comparison, previous, err := s.resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	series := analytics.RevenueSeries(current, previous, primary, comparison)
	return mapper.ToRevenuePointDTOs(series), nil
}

// Staff computes the per-staff performance breakdown for the selected period.
func (s *StatisticsService) Staff(ctx context.Context, q StatsQuery) ([]domain.StaffStatsDTO, error) {
	_, current, _, _, err := s.resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	rows := analytics.StaffBreakdown(current)
	return mapper.ToStaffStatsDTOs(rows), nil
}

// SalesProfile computes the sales pie for the requested view. The binary
// view splits services against products; the detail views break one bucket
// down by service name. Each slice carries a drill-down handoff.
func (s *StatisticsService) SalesProfile(ctx context.Context, q StatsQuery, view analytics.PieView) (*domain.SalesProfileResponse, error) {
	if view == "" {
		view = analytics.PieViewBinary
	}
	if !view.IsValid() {
		return nil, fmt.Errorf("%w: unknown view %q", ErrInvalidInput, view)
	}

	primary, current, _, _, err := s.resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	var slices []analytics.SalesSlice
	if view == analytics.PieViewBinary {
		slices = analytics.BinarySplit(current, primary)
	} else {
		slices = analytics.SliceDetail(current, primary, view)
	}

	return &domain.SalesProfileResponse{
		View:   string(view),
		Slices: mapper.ToSalesSliceDTOs(slices),
	}, nil
}

// SelectSlice advances the sales profile drill-down after a slice click.
func (s *StatisticsService) SelectSlice(current, selected analytics.PieView) (analytics.PieView, error) {
	next, err := analytics.SelectSlice(current, selected)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return next, nil
}

// GoBack returns the sales profile drill-down to the binary view.
func (s *StatisticsService) GoBack(current analytics.PieView) (analytics.PieView, error) {
	next, err := analytics.GoBack(current)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return next, nil
}
