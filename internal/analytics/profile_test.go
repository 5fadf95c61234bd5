package analytics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/solemia/studio-api/internal/analytics"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func testVisit(client, service string, category domain.VisitCategory, amount float64, date time.Time) domain.Visit {
	return domain.Visit{
		ClientName:  client,
		Date:        date,
		OccurredAt:  date,
		ServiceName: service,
		Category:    category,
		Amount:      amount,
		StaffName:   "Sofia",
	}
}

func withNPS(v domain.Visit, nps int) domain.Visit {
	v.NPS = &nps
	return v
}

func findProfile(t *testing.T, profiles []analytics.ClientProfile, name string) analytics.ClientProfile {
	t.Helper()
	for _, p := range profiles {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("profile %q not found", name)
	return analytics.ClientProfile{}
}

func TestBuildProfiles_SpendConservation(t *testing.T) {
	recent := testNow.AddDate(0, 0, -3)
	visits := []domain.Visit{
		testVisit("Ana", "Corte", domain.VisitCategoryHaircut, 120, recent),
		testVisit("Ana", "Color", domain.VisitCategoryColor, 340, recent),
		testVisit("Lucía", "Uñas", domain.VisitCategoryNails, 80, recent),
		testVisit("Carmen", "Shampoo", domain.VisitCategoryRetail, 45, recent),
	}

	profiles := analytics.BuildProfiles(visits, nil, nil, testNow)

	var total float64
	for _, p := range profiles {
		total += p.TotalSpent
	}
	assert.Equal(t, 120.0+340+80+45, total)
}

func TestBuildProfiles_SingleSegmentAndDeterminism(t *testing.T) {
	recent := testNow.AddDate(0, 0, -5)
	visits := []domain.Visit{
		testVisit("Ana", "Corte", domain.VisitCategoryHaircut, 120, recent),
		testVisit("Lucía", "Uñas", domain.VisitCategoryNails, 80, recent),
		testVisit("Lucía", "Uñas", domain.VisitCategoryNails, 80, recent),
	}

	first := analytics.BuildProfiles(visits, nil, nil, testNow)
	second := analytics.BuildProfiles(visits, nil, nil, testNow)

	labels := map[analytics.BuiltinSegment]bool{
		analytics.SegmentVIP:     true,
		analytics.SegmentChurned: true,
		analytics.SegmentNew:     true,
		analytics.SegmentLoyal:   true,
		analytics.SegmentRegular: true,
	}
	for _, p := range first {
		assert.True(t, labels[p.Segment], "unexpected segment %q", p.Segment)
	}
	assert.Equal(t, first, second)
}

func TestBuildProfiles_VIPThreshold(t *testing.T) {
	recent := testNow.AddDate(0, 0, -2)
	var visits []domain.Visit
	for i := 1; i <= 10; i++ {
		name := fmt.Sprintf("Client %02d", i)
		visits = append(visits, testVisit(name, "Corte", domain.VisitCategoryHaircut, float64(i*100), recent))
	}

	profiles := analytics.BuildProfiles(visits, nil, nil, testNow)

	// Descending spends are [1000, 900, ...]; the threshold sits at index
	// floor(10*0.1)=1, so 900. Spends at or above it classify as VIP.
	assert.Equal(t, analytics.SegmentVIP, findProfile(t, profiles, "Client 10").Segment)
	assert.Equal(t, analytics.SegmentVIP, findProfile(t, profiles, "Client 09").Segment)
	assert.NotEqual(t, analytics.SegmentVIP, findProfile(t, profiles, "Client 08").Segment)
}

func TestBuildProfiles_StubOnlyRosterHasNoVIPs(t *testing.T) {
	stubs := []domain.Client{
		{Name: "Isabel"},
		{Name: "Renata"},
		{Name: "Ximena"},
	}

	profiles := analytics.BuildProfiles(nil, stubs, nil, testNow)

	// With every spend at zero the ranked threshold would be zero too; the
	// fallback keeps clients without visits out of the VIP bucket.
	require.Len(t, profiles, 3)
	for _, p := range profiles {
		assert.Equal(t, analytics.SegmentRegular, p.Segment, "profile %q", p.Name)
	}
}

func TestBuildProfiles_SegmentPrecedence(t *testing.T) {
	old := testNow.AddDate(0, 0, -120)
	recent := testNow.AddDate(0, 0, -10)
	visits := []domain.Visit{
		// Top spender but inactive: VIP wins over Churned.
		testVisit("Valentina", "Color", domain.VisitCategoryColor, 5000, old),
		testVisit("Mariana", "Corte", domain.VisitCategoryHaircut, 100, old),
		testVisit("Paola", "Corte", domain.VisitCategoryHaircut, 90, recent),
	}
	for i := 0; i < 5; i++ {
		visits = append(visits, testVisit("Gabriela", "Uñas", domain.VisitCategoryNails, 60, recent))
	}

	profiles := analytics.BuildProfiles(visits, nil, nil, testNow)

	assert.Equal(t, analytics.SegmentVIP, findProfile(t, profiles, "Valentina").Segment)
	assert.Equal(t, analytics.SegmentChurned, findProfile(t, profiles, "Mariana").Segment)
	assert.Equal(t, analytics.SegmentNew, findProfile(t, profiles, "Paola").Segment)
	assert.Equal(t, analytics.SegmentLoyal, findProfile(t, profiles, "Gabriela").Segment)
}

func TestBuildProfiles_FavoriteServiceTieBreak(t *testing.T) {
	recent := testNow.AddDate(0, 0, -1)
	visits := []domain.Visit{
		testVisit("Ana", "Corte", domain.VisitCategoryHaircut, 100, recent),
		testVisit("Ana", "Color", domain.VisitCategoryColor, 200, recent),
		testVisit("Ana", "Color", domain.VisitCategoryColor, 200, recent),
		testVisit("Ana", "Corte", domain.VisitCategoryHaircut, 100, recent),
	}

	profiles := analytics.BuildProfiles(visits, nil, nil, testNow)

	// Both services occur twice; the first-seen one wins.
	assert.Equal(t, "Corte", findProfile(t, profiles, "Ana").FavoriteService)
}

func TestBuildProfiles_ManualStub(t *testing.T) {
	stubs := []domain.Client{{
		Name:  "Isabel",
		Phone: "555-0101",
		Email: "isabel@example.com",
		Notes: "prefers morning appointments",
	}}

	profiles := analytics.BuildProfiles(nil, stubs, nil, testNow)

	require.Len(t, profiles, 1)
	p := profiles[0]
	assert.Equal(t, "Isabel", p.Name)
	assert.Equal(t, "555-0101", p.Phone)
	assert.Zero(t, p.TotalSpent)
	assert.Zero(t, p.VisitCount)
	assert.Zero(t, p.AvgSpent)
	assert.Nil(t, p.AvgNps)
	assert.Equal(t, []string{"prefers morning appointments"}, p.Insights)
	// A fresh stub counts as visited today, so it is not churned.
	assert.Equal(t, 0, p.DaysSinceLastVisit)
}

func TestBuildProfiles_AvgNps(t *testing.T) {
	recent := testNow.AddDate(0, 0, -4)
	visits := []domain.Visit{
		withNPS(testVisit("Ana", "Corte", domain.VisitCategoryHaircut, 100, recent), 9),
		withNPS(testVisit("Ana", "Color", domain.VisitCategoryColor, 200, recent), 8),
		testVisit("Ana", "Uñas", domain.VisitCategoryNails, 50, recent), // no score
		testVisit("Lucía", "Corte", domain.VisitCategoryHaircut, 70, recent),
	}

	profiles := analytics.BuildProfiles(visits, nil, nil, testNow)

	ana := findProfile(t, profiles, "Ana")
	require.NotNil(t, ana.AvgNps)
	assert.Equal(t, 8.5, *ana.AvgNps)

	assert.Nil(t, findProfile(t, profiles, "Lucía").AvgNps)
}

func TestBuildProfiles_ChurnFromSentinel(t *testing.T) {
	old := testNow.AddDate(0, 0, -100)
	visits := []domain.Visit{
		testVisit("Rosa", "Corte", domain.VisitCategoryHaircut, 50, old),
		testVisit("Elena", "Corte", domain.VisitCategoryHaircut, 500, testNow.AddDate(0, 0, -1)),
	}

	profiles := analytics.BuildProfiles(visits, nil, nil, testNow)

	rosa := findProfile(t, profiles, "Rosa")
	assert.Equal(t, analytics.SegmentChurned, rosa.Segment)
	assert.Equal(t, 100, rosa.DaysSinceLastVisit)
}

func TestBuildProfiles_HistoryNewestFirst(t *testing.T) {
	older := testNow.AddDate(0, 0, -20)
	newer := testNow.AddDate(0, 0, -2)
	visits := []domain.Visit{
		testVisit("Ana", "Corte", domain.VisitCategoryHaircut, 100, older),
		testVisit("Ana", "Color", domain.VisitCategoryColor, 200, newer),
	}

	profiles := analytics.BuildProfiles(visits, nil, nil, testNow)

	ana := findProfile(t, profiles, "Ana")
	require.Len(t, ana.History, 2)
	assert.Equal(t, "Color", ana.History[0].ServiceName)
	assert.Equal(t, "Corte", ana.History[1].ServiceName)
}
