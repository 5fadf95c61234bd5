// Package analytics implements the in-memory aggregation engines behind the
// client directory and the statistics dashboard. All functions are pure:
// they take the visit history (and the reference time) as arguments and
// never touch the database or the clock.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/solemia/studio-api/internal/domain"
)

// BuiltinSegment is one of the mutually exclusive labels every profile gets
type BuiltinSegment string

const (
	SegmentVIP     BuiltinSegment = "VIP"
	SegmentChurned BuiltinSegment = "Churned"
	SegmentNew     BuiltinSegment = "New"
	SegmentLoyal   BuiltinSegment = "Loyal"
	SegmentRegular BuiltinSegment = "Regular"
)

// churnedAfterDays is the inactivity window beyond which a client counts as churned
const churnedAfterDays = 90

// loyalVisitCount is the visit count from which a client counts as loyal
const loyalVisitCount = 5

// fallbackVIPThreshold applies when there are no profiles to rank, or when
// the ranked spend is zero (a roster of stubs with no visits yet)
const fallbackVIPThreshold = 10000

// ClientProfile is one computed directory entry: every visit sharing the
// same client name folded together, plus contact details from the manual
// stub when one exists.
type ClientProfile struct {
	Name               string
	Phone              string
	Email              string
	TotalSpent         float64
	VisitCount         int
	AvgSpent           float64
	AvgNps             *float64 // nil when no visit carried an NPS score
	FavoriteService    string
	LastVisit          time.Time
	DaysSinceLastVisit int
	Segment            BuiltinSegment
	CustomSegments     []string
	Insights           []string
	History            []domain.Visit // newest first
}

// lastVisitSentinel seeds groups created by a visit record. It predates any
// real data, so the first folded visit always replaces it; a group that
// somehow keeps it lands far beyond the churn window.
var lastVisitSentinel = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

type profileGroup struct {
	profile       ClientProfile
	npsSum        float64
	npsCount      int
	serviceOrder  []string
	serviceCounts map[string]int
}

// BuildProfiles folds every visit into a group keyed by client name, seeds
// groups from the manual stubs, derives the per-client aggregates, and
// attaches the built-in and custom segment labels. The result is ordered by
// first appearance (stubs first, then visit order).
func BuildProfiles(visits []domain.Visit, stubs []domain.Client, segments []domain.Segment, now time.Time) []ClientProfile {
	groups := make(map[string]*profileGroup)
	var order []string

	for _, stub := range stubs {
		if _, ok := groups[stub.Name]; ok {
			continue
		}
		g := &profileGroup{
			profile: ClientProfile{
				Name:      stub.Name,
				Phone:     stub.Phone,
				Email:     stub.Email,
				LastVisit: dateOf(now),
			},
			serviceCounts: make(map[string]int),
		}
		if stub.Notes != "" {
			g.profile.Insights = append(g.profile.Insights, stub.Notes)
		}
		groups[stub.Name] = g
		order = append(order, stub.Name)
	}

	for _, v := range visits {
		g, ok := groups[v.ClientName]
		if !ok {
			g = &profileGroup{
				profile: ClientProfile{
					Name:      v.ClientName,
					LastVisit: lastVisitSentinel,
				},
				serviceCounts: make(map[string]int),
			}
			groups[v.ClientName] = g
			order = append(order, v.ClientName)
		}

		g.profile.TotalSpent += v.Amount
		g.profile.VisitCount++
		g.profile.History = append(g.profile.History, v)
		if v.NPS != nil {
			g.npsSum += float64(*v.NPS)
			g.npsCount++
		}
		if d := dateOf(v.Date); d.After(g.profile.LastVisit) {
			g.profile.LastVisit = d
		}
		if v.Insight != "" {
			g.profile.Insights = append(g.profile.Insights, v.Insight)
		}
		if _, seen := g.serviceCounts[v.ServiceName]; !seen {
			g.serviceOrder = append(g.serviceOrder, v.ServiceName)
		}
		g.serviceCounts[v.ServiceName]++
	}

	profiles := make([]ClientProfile, 0, len(order))
	for _, name := range order {
		g := groups[name]
		p := g.profile

		p.FavoriteService = favoriteService(g.serviceOrder, g.serviceCounts)
		if p.VisitCount > 0 {
			p.AvgSpent = p.TotalSpent / float64(p.VisitCount)
		}
		if g.npsCount > 0 {
			avg := round1(g.npsSum / float64(g.npsCount))
			p.AvgNps = &avg
		}
		sort.SliceStable(p.History, func(i, j int) bool {
			return p.History[i].OccurredAt.After(p.History[j].OccurredAt)
		})
		p.DaysSinceLastVisit = daysBetween(p.LastVisit, now)

		profiles = append(profiles, p)
	}

	threshold := vipThreshold(profiles)
	for i := range profiles {
		profiles[i].Segment = builtinSegment(profiles[i], threshold)
		profiles[i].CustomSegments = matchingSegments(profiles[i], segments)
	}
	return profiles
}

// vipThreshold is the spend at the 10th-percentile rank of the descending
// spend order, so roughly the top tenth of spenders clears it.
func vipThreshold(profiles []ClientProfile) float64 {
	if len(profiles) == 0 {
		return fallbackVIPThreshold
	}
	spends := make([]float64, len(profiles))
	for i, p := range profiles {
		spends[i] = p.TotalSpent
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(spends)))
	if t := spends[int(math.Floor(float64(len(spends))*0.1))]; t > 0 {
		return t
	}
	// A zero threshold would make every client VIP
	return fallbackVIPThreshold
}

func builtinSegment(p ClientProfile, vipThreshold float64) BuiltinSegment {
	switch {
	case p.TotalSpent >= vipThreshold:
		return SegmentVIP
	case p.DaysSinceLastVisit > churnedAfterDays:
		return SegmentChurned
	case p.VisitCount == 1:
		return SegmentNew
	case p.VisitCount >= loyalVisitCount:
		return SegmentLoyal
	default:
		return SegmentRegular
	}
}

// favoriteService returns the most frequent service name. Ties go to the
// service seen first, which is why the ordered slice drives the scan.
func favoriteService(order []string, counts map[string]int) string {
	best := ""
	max := 0
	for _, name := range order {
		if counts[name] > max {
			max = counts[name]
			best = name
		}
	}
	return best
}

// dateOf truncates a time to its calendar date in UTC
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from a to b
func daysBetween(a, b time.Time) int {
	return int(dateOf(b).Sub(dateOf(a)).Hours() / 24)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
