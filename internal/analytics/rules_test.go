package analytics_test

import (
	"math"
	"testing"

	"github.com/solemia/studio-api/internal/analytics"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeRule(metric domain.RuleMetric, op domain.RuleOperator, value float64) domain.SegmentRule {
	return domain.SegmentRule{Metric: metric, Operator: op, Value: value, Active: true}
}

func TestValidateSegment(t *testing.T) {
	valid := []domain.SegmentRule{activeRule(domain.RuleMetricTotalSpent, domain.RuleOperatorGreater, 2000)}

	assert.NoError(t, analytics.ValidateSegment("Big Spenders", valid))
	assert.ErrorIs(t, analytics.ValidateSegment("", valid), analytics.ErrEmptySegmentName)

	bad := activeRule("lifetimeValue", domain.RuleOperatorGreater, 1)
	assert.ErrorIs(t, analytics.ValidateSegment("x", []domain.SegmentRule{bad}), analytics.ErrUnknownMetric)

	bad = activeRule(domain.RuleMetricTotalSpent, ">=", 1)
	assert.ErrorIs(t, analytics.ValidateSegment("x", []domain.SegmentRule{bad}), analytics.ErrUnknownOperator)

	bad = activeRule(domain.RuleMetricTotalSpent, domain.RuleOperatorGreater, math.NaN())
	assert.ErrorIs(t, analytics.ValidateSegment("x", []domain.SegmentRule{bad}), analytics.ErrNonFiniteValue)

	inverted := domain.SegmentRule{
		Metric:   domain.RuleMetricVisitCount,
		Operator: domain.RuleOperatorRange,
		Value:    10,
		Value2:   5,
		Active:   true,
	}
	assert.ErrorIs(t, analytics.ValidateSegment("x", []domain.SegmentRule{inverted}), analytics.ErrInvalidRange)

	// An inactive malformed rule is still rejected: rules are validated at
	// construction regardless of their active flag.
	bad = activeRule("lifetimeValue", domain.RuleOperatorGreater, 1)
	bad.Active = false
	assert.Error(t, analytics.ValidateSegment("x", []domain.SegmentRule{bad}))
}

func TestMatchesSegment_ConjunctiveRules(t *testing.T) {
	nine, seven := 9.0, 7.0
	seg := domain.Segment{
		Name: "Happy Spenders",
		Rules: domain.SegmentRules{
			activeRule(domain.RuleMetricTotalSpent, domain.RuleOperatorGreater, 2000),
			activeRule(domain.RuleMetricAvgNps, domain.RuleOperatorGreater, 8),
		},
	}

	matching := analytics.ClientProfile{TotalSpent: 2500, AvgNps: &nine}
	assert.True(t, analytics.MatchesSegment(matching, seg))

	unhappy := analytics.ClientProfile{TotalSpent: 2500, AvgNps: &seven}
	assert.False(t, analytics.MatchesSegment(unhappy, seg))
}

func TestMatchesSegment_RangeInclusive(t *testing.T) {
	seg := domain.Segment{
		Name: "Mid Frequency",
		Rules: domain.SegmentRules{{
			Metric:   domain.RuleMetricVisitCount,
			Operator: domain.RuleOperatorRange,
			Value:    5,
			Value2:   10,
			Active:   true,
		}},
	}

	assert.True(t, analytics.MatchesSegment(analytics.ClientProfile{VisitCount: 5}, seg))
	assert.True(t, analytics.MatchesSegment(analytics.ClientProfile{VisitCount: 10}, seg))
	assert.False(t, analytics.MatchesSegment(analytics.ClientProfile{VisitCount: 11}, seg))
	assert.False(t, analytics.MatchesSegment(analytics.ClientProfile{VisitCount: 4}, seg))
}

func TestMatchesSegment_InactiveAndEmptyRules(t *testing.T) {
	inactive := domain.Segment{
		Name: "Dormant Criteria",
		Rules: domain.SegmentRules{{
			Metric:   domain.RuleMetricTotalSpent,
			Operator: domain.RuleOperatorGreater,
			Value:    1e9,
			Active:   false,
		}},
	}
	everyone := domain.Segment{Name: "Everyone"}

	p := analytics.ClientProfile{TotalSpent: 10}
	// Inactive rules never constrain, and a segment with no active rules
	// matches every client.
	assert.True(t, analytics.MatchesSegment(p, inactive))
	assert.True(t, analytics.MatchesSegment(p, everyone))
}

func TestBuildProfiles_CustomSegmentOrder(t *testing.T) {
	recent := testNow.AddDate(0, 0, -2)
	visits := []domain.Visit{
		withNPS(testVisit("Ana", "Corte", domain.VisitCategoryHaircut, 3000, recent), 9),
	}
	segments := []domain.Segment{
		{Name: "Happy", Rules: domain.SegmentRules{activeRule(domain.RuleMetricAvgNps, domain.RuleOperatorGreater, 8)}},
		{Name: "Never", Rules: domain.SegmentRules{activeRule(domain.RuleMetricVisitCount, domain.RuleOperatorGreater, 100)}},
		{Name: "Big", Rules: domain.SegmentRules{activeRule(domain.RuleMetricTotalSpent, domain.RuleOperatorGreater, 2000)}},
	}

	profiles := analytics.BuildProfiles(visits, nil, segments, testNow)

	require.Len(t, profiles, 1)
	assert.Equal(t, []string{"Happy", "Big"}, profiles[0].CustomSegments)
}

func TestMatchesSegment_MissingNpsEvaluatesAsZero(t *testing.T) {
	seg := domain.Segment{
		Name:  "Low Satisfaction",
		Rules: domain.SegmentRules{activeRule(domain.RuleMetricAvgNps, domain.RuleOperatorLess, 5)},
	}

	noData := analytics.ClientProfile{}
	assert.True(t, analytics.MatchesSegment(noData, seg))
}
