package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/solemia/studio-api/internal/domain"
)

// SortKey selects the directory ordering
type SortKey string

const (
	SortByName       SortKey = "name"
	SortByVisitCount SortKey = "visitCount"
	SortByAvgNps     SortKey = "avgNps"
	SortByTotalSpent SortKey = "totalSpent"
	SortByLastVisit  SortKey = "lastVisit"
)

// IsValid checks if the SortKey is a valid enum value
func (sk SortKey) IsValid() bool {
	switch sk {
	case SortByName, SortByVisitCount, SortByAvgNps, SortByTotalSpent, SortByLastVisit:
		return true
	}
	return false
}

// SegmentAll disables segment filtering
const SegmentAll = "All"

// Query describes one directory request: search, segment selection, sort
// order, and the tactical filters that restrict on the underlying visits.
type Query struct {
	Search     string
	Segment    string // SegmentAll, a built-in label, or a custom segment name
	SortBy     SortKey
	Descending bool
	Staff      string // empty means all
	Category   domain.VisitCategory
	DateStart  *time.Time
	DateEnd    *time.Time
}

// FilterProfiles applies the segment filter, the name search, the stable
// sort, and the tactical visit filters, in that order. customNames tells the
// segment filter which selections refer to custom segments.
func FilterProfiles(profiles []ClientProfile, customNames []string, q Query) []ClientProfile {
	result := make([]ClientProfile, len(profiles))
	copy(result, profiles)

	if q.Segment != "" && q.Segment != SegmentAll {
		if containsString(customNames, q.Segment) {
			result = keep(result, func(p ClientProfile) bool {
				return containsString(p.CustomSegments, q.Segment)
			})
		} else {
			result = keep(result, func(p ClientProfile) bool {
				return string(p.Segment) == q.Segment
			})
		}
	}

	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		result = keep(result, func(p ClientProfile) bool {
			return strings.Contains(strings.ToLower(p.Name), needle)
		})
	}

	sortProfiles(result, q.SortBy, q.Descending)

	if q.Staff != "" {
		result = keep(result, func(p ClientProfile) bool {
			return anyVisit(p, func(v domain.Visit) bool { return v.StaffName == q.Staff })
		})
	}
	if q.Category != "" {
		result = keep(result, func(p ClientProfile) bool {
			return anyVisit(p, func(v domain.Visit) bool { return v.Category == q.Category })
		})
	}
	if q.DateStart != nil || q.DateEnd != nil {
		result = keep(result, func(p ClientProfile) bool {
			return anyVisit(p, func(v domain.Visit) bool {
				d := dateOf(v.Date)
				if q.DateStart != nil && d.Before(dateOf(*q.DateStart)) {
					return false
				}
				if q.DateEnd != nil && d.After(dateOf(*q.DateEnd)) {
					return false
				}
				return true
			})
		})
	}

	return result
}

func sortProfiles(profiles []ClientProfile, key SortKey, descending bool) {
	less := func(a, b ClientProfile) bool { return false }
	switch key {
	case SortByVisitCount:
		less = func(a, b ClientProfile) bool { return a.VisitCount < b.VisitCount }
	case SortByAvgNps:
		less = func(a, b ClientProfile) bool { return npsOrZero(a) < npsOrZero(b) }
	case SortByTotalSpent:
		less = func(a, b ClientProfile) bool { return a.TotalSpent < b.TotalSpent }
	case SortByLastVisit:
		less = func(a, b ClientProfile) bool { return a.LastVisit.Before(b.LastVisit) }
	default: // SortByName
		less = func(a, b ClientProfile) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		if descending {
			return less(profiles[j], profiles[i])
		}
		return less(profiles[i], profiles[j])
	})
}

// DirectorySummary holds the headline numbers above the client list
type DirectorySummary struct {
	ClientCount      int
	AvgLifetimeValue float64
	NewClientCount   int
	AvgNps           *float64
}

// Summarize computes the directory headline numbers over the (already
// filtered) profile list. The NPS average only considers clients that have
// NPS data at all.
func Summarize(profiles []ClientProfile) DirectorySummary {
	s := DirectorySummary{ClientCount: len(profiles)}
	var spentSum, npsSum float64
	var npsCount int
	for _, p := range profiles {
		spentSum += p.TotalSpent
		if p.Segment == SegmentNew {
			s.NewClientCount++
		}
		if p.AvgNps != nil {
			npsSum += *p.AvgNps
			npsCount++
		}
	}
	if s.ClientCount > 0 {
		s.AvgLifetimeValue = spentSum / float64(s.ClientCount)
	}
	if npsCount > 0 {
		avg := round1(npsSum / float64(npsCount))
		s.AvgNps = &avg
	}
	return s
}

func keep(profiles []ClientProfile, pred func(ClientProfile) bool) []ClientProfile {
	out := profiles[:0]
	for _, p := range profiles {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}

func anyVisit(p ClientProfile, pred func(domain.Visit) bool) bool {
	for _, v := range p.History {
		if pred(v) {
			return true
		}
	}
	return false
}

func npsOrZero(p ClientProfile) float64 {
	if p.AvgNps == nil {
		return 0
	}
	return *p.AvgNps
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
