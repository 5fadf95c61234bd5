package analytics

import (
	"errors"
	"fmt"
	"math"

	"github.com/solemia/studio-api/internal/domain"
)

// Segment construction errors
var (
	ErrEmptySegmentName = errors.New("segment name must not be empty")
	ErrUnknownMetric    = errors.New("unknown rule metric")
	ErrUnknownOperator  = errors.New("unknown rule operator")
	ErrNonFiniteValue   = errors.New("rule value must be a finite number")
	ErrInvalidRange     = errors.New("range upper bound must not be below lower bound")
)

// ValidateSegment rejects malformed segments at construction time instead of
// letting them silently match nothing (or everything) later. A segment whose
// rules are all inactive is legal and matches every client.
func ValidateSegment(name string, rules []domain.SegmentRule) error {
	if name == "" {
		return ErrEmptySegmentName
	}
	for i, r := range rules {
		if !r.Metric.IsValid() {
			return fmt.Errorf("rule %d: %w: %q", i, ErrUnknownMetric, r.Metric)
		}
		if !r.Operator.IsValid() {
			return fmt.Errorf("rule %d: %w: %q", i, ErrUnknownOperator, r.Operator)
		}
		if !isFinite(r.Value) || (r.Operator == domain.RuleOperatorRange && !isFinite(r.Value2)) {
			return fmt.Errorf("rule %d: %w", i, ErrNonFiniteValue)
		}
		if r.Operator == domain.RuleOperatorRange && r.Value2 < r.Value {
			return fmt.Errorf("rule %d: %w", i, ErrInvalidRange)
		}
	}
	return nil
}

// MatchesSegment reports whether the profile satisfies every active rule of
// the segment. Inactive rules never constrain the result.
func MatchesSegment(p ClientProfile, seg domain.Segment) bool {
	for _, r := range seg.Rules {
		if !r.Active {
			continue
		}
		if !evaluateRule(p, r) {
			return false
		}
	}
	return true
}

// matchingSegments returns the names of every segment the profile satisfies,
// in the segments' declaration order.
func matchingSegments(p ClientProfile, segments []domain.Segment) []string {
	names := []string{}
	for _, seg := range segments {
		if MatchesSegment(p, seg) {
			names = append(names, seg.Name)
		}
	}
	return names
}

func evaluateRule(p ClientProfile, r domain.SegmentRule) bool {
	val := metricValue(p, r.Metric)
	switch r.Operator {
	case domain.RuleOperatorGreater:
		return val > r.Value
	case domain.RuleOperatorLess:
		return val < r.Value
	case domain.RuleOperatorEqual:
		return val == r.Value
	case domain.RuleOperatorRange:
		return val >= r.Value && val <= r.Value2
	}
	return true
}

// metricValue extracts the rule input from a profile. A missing NPS average
// evaluates as zero, matching how profiles without feedback behave in the
// directory.
func metricValue(p ClientProfile, m domain.RuleMetric) float64 {
	switch m {
	case domain.RuleMetricTotalSpent:
		return p.TotalSpent
	case domain.RuleMetricVisitCount:
		return float64(p.VisitCount)
	case domain.RuleMetricAvgNps:
		if p.AvgNps == nil {
			return 0
		}
		return *p.AvgNps
	case domain.RuleMetricDaysSinceLastVisit:
		return float64(p.DaysSinceLastVisit)
	}
	return 0
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
