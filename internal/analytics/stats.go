package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/solemia/studio-api/internal/domain"
)

// PeriodKPIs holds the five headline metrics of one date interval
type PeriodKPIs struct {
	Revenue          float64
	AppointmentCount int
	AvgTicket        float64
	AvgSatisfaction  *float64 // nil when no visit carried an NPS score
	RetentionRate    int      // percent, rounded
}

// KPIDeltas holds the per-metric percentage change against a comparison
// period, rounded to one decimal. A nil entry means the baseline was zero or
// absent, where a percentage is meaningless.
type KPIDeltas struct {
	Revenue          *float64
	AppointmentCount *float64
	AvgTicket        *float64
	AvgSatisfaction  *float64
	RetentionRate    *float64
}

// FilterVisits restricts visits to the interval and the optional staff and
// category facets. Empty facet values mean no restriction.
func FilterVisits(visits []domain.Visit, iv Interval, staff string, category domain.VisitCategory) []domain.Visit {
	out := []domain.Visit{}
	for _, v := range visits {
		if !iv.Contains(v.Date) {
			continue
		}
		if staff != "" && v.StaffName != staff {
			continue
		}
		if category != "" && v.Category != category {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ComputeKPIs aggregates the headline metrics over an already filtered visit
// list. Retention is the share of visits not flagged as a first visit.
func ComputeKPIs(visits []domain.Visit) PeriodKPIs {
	k := PeriodKPIs{AppointmentCount: len(visits)}
	var npsSum float64
	var npsCount, newCount int
	for _, v := range visits {
		k.Revenue += v.Amount
		if v.NPS != nil {
			npsSum += float64(*v.NPS)
			npsCount++
		}
		if v.IsNewClient {
			newCount++
		}
	}
	if k.AppointmentCount > 0 {
		k.AvgTicket = k.Revenue / float64(k.AppointmentCount)
		k.RetentionRate = int(math.Round(float64(k.AppointmentCount-newCount) / float64(k.AppointmentCount) * 100))
	}
	if npsCount > 0 {
		avg := round1(npsSum / float64(npsCount))
		k.AvgSatisfaction = &avg
	}
	return k
}

// CompareKPIs derives the percentage deltas of current against previous
func CompareKPIs(current, previous PeriodKPIs) KPIDeltas {
	d := KPIDeltas{
		Revenue:          delta(current.Revenue, previous.Revenue),
		AppointmentCount: delta(float64(current.AppointmentCount), float64(previous.AppointmentCount)),
		AvgTicket:        delta(current.AvgTicket, previous.AvgTicket),
		RetentionRate:    delta(float64(current.RetentionRate), float64(previous.RetentionRate)),
	}
	if current.AvgSatisfaction != nil && previous.AvgSatisfaction != nil {
		d.AvgSatisfaction = delta(*current.AvgSatisfaction, *previous.AvgSatisfaction)
	}
	return d
}

// delta is (current-previous)/previous*100 rounded to one decimal, or nil
// when the baseline is zero
func delta(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	v := round1((current - previous) / previous * 100)
	return &v
}

// SeriesPoint is one day of the revenue chart
type SeriesPoint struct {
	Date            time.Time
	Revenue         float64
	PreviousRevenue *float64
}

// RevenueSeries produces one point per calendar day of the primary interval,
// zero-filling days without visits. When a comparison interval is given,
// each day is paired with the comparison day at the same offset from the
// interval start.
func RevenueSeries(current, comparison []domain.Visit, primary Interval, comparisonIv *Interval) []SeriesPoint {
	byDay := revenueByDay(current)
	var prevByDay map[time.Time]float64
	if comparisonIv != nil {
		prevByDay = revenueByDay(comparison)
	}

	points := make([]SeriesPoint, 0, primary.Days())
	for day := primary.Start; !day.After(primary.End); day = day.AddDate(0, 0, 1) {
		p := SeriesPoint{Date: day, Revenue: byDay[day]}
		if comparisonIv != nil {
			offset := daysBetween(primary.Start, day)
			prev := prevByDay[comparisonIv.Start.AddDate(0, 0, offset)]
			p.PreviousRevenue = &prev
		}
		points = append(points, p)
	}
	return points
}

func revenueByDay(visits []domain.Visit) map[time.Time]float64 {
	byDay := make(map[time.Time]float64)
	for _, v := range visits {
		byDay[dateOf(v.Date)] += v.Amount
	}
	return byDay
}

// StaffPerformance is one row of the staff breakdown
type StaffPerformance struct {
	StaffName  string
	Revenue    float64
	Count      int
	Commission float64
	AvgNps     *float64
}

// StaffBreakdown groups the filtered visits by staff member and orders the
// rows by revenue, highest first. Ties keep first-seen order.
func StaffBreakdown(visits []domain.Visit) []StaffPerformance {
	type acc struct {
		perf     StaffPerformance
		npsSum   float64
		npsCount int
	}
	byStaff := make(map[string]*acc)
	var order []string
	for _, v := range visits {
		a, ok := byStaff[v.StaffName]
		if !ok {
			a = &acc{perf: StaffPerformance{StaffName: v.StaffName}}
			byStaff[v.StaffName] = a
			order = append(order, v.StaffName)
		}
		a.perf.Revenue += v.Amount
		a.perf.Count++
		if v.Commission != nil {
			a.perf.Commission += *v.Commission
		}
		if v.NPS != nil {
			a.npsSum += float64(*v.NPS)
			a.npsCount++
		}
	}

	rows := make([]StaffPerformance, 0, len(order))
	for _, name := range order {
		a := byStaff[name]
		if a.npsCount > 0 {
			avg := round1(a.npsSum / float64(a.npsCount))
			a.perf.AvgNps = &avg
		}
		rows = append(rows, a.perf)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Revenue > rows[j].Revenue })
	return rows
}

// DrillDown is the handoff a statistics slice carries into the filtered
// sales list: the term to search for and the interval bounds.
type DrillDown struct {
	SearchTerm string
	StartDate  time.Time
	EndDate    time.Time
}

// SalesSlice is one slice of the sales profile breakdown
type SalesSlice struct {
	Name      string
	Revenue   float64
	Count     int
	DrillDown DrillDown
}

// Binary slice names
const (
	SliceServices = "Services"
	SliceProducts = "Products"
)

// BinarySplit partitions the filtered visits into a services slice and a
// products slice. Retail visits are products, everything else is a service.
func BinarySplit(visits []domain.Visit, iv Interval) []SalesSlice {
	services := SalesSlice{Name: SliceServices, DrillDown: DrillDown{SearchTerm: SliceServices, StartDate: iv.Start, EndDate: iv.End}}
	products := SalesSlice{Name: SliceProducts, DrillDown: DrillDown{SearchTerm: SliceProducts, StartDate: iv.Start, EndDate: iv.End}}
	for _, v := range visits {
		if v.Category.IsProduct() {
			products.Revenue += v.Amount
			products.Count++
		} else {
			services.Revenue += v.Amount
			services.Count++
		}
	}
	return []SalesSlice{services, products}
}

// SliceDetail breaks the selected binary bucket down by service name,
// ordered by revenue, highest first. Each slice carries the drill-down
// handoff into the filtered sales list.
func SliceDetail(visits []domain.Visit, iv Interval, view PieView) []SalesSlice {
	wantProducts := view == PieViewProducts
	byName := make(map[string]*SalesSlice)
	var order []string
	for _, v := range visits {
		if v.Category.IsProduct() != wantProducts {
			continue
		}
		s, ok := byName[v.ServiceName]
		if !ok {
			s = &SalesSlice{
				Name:      v.ServiceName,
				DrillDown: DrillDown{SearchTerm: v.ServiceName, StartDate: iv.Start, EndDate: iv.End},
			}
			byName[v.ServiceName] = s
			order = append(order, v.ServiceName)
		}
		s.Revenue += v.Amount
		s.Count++
	}

	slices := make([]SalesSlice, 0, len(order))
	for _, name := range order {
		slices = append(slices, *byName[name])
	}
	sort.SliceStable(slices, func(i, j int) bool { return slices[i].Revenue > slices[j].Revenue })
	return slices
}
