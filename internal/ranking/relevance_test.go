package ranking

import (
	"testing"
	"time"

	"leadradar_backend/internal/scoring"

	"github.com/google/uuid"
)

var baseTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// deficientAnalysis scores 89 overall with a 4800 deal value.
func deficientAnalysis() scoring.AnalysisRecord {
	return scoring.AnalysisRecord{}
}

// healthyAnalysis scores 0 overall with the 500 deal floor.
func healthyAnalysis() scoring.AnalysisRecord {
	return scoring.AnalysisRecord{
		"hasSSL":   true,
		"sslValid": true,
		"seo": map[string]any{
			"hasTitle": true, "hasMetaDescription": true, "hasH1": true, "hasCanonical": true,
			"hasStructuredData": true, "hasOpenGraph": true, "hasSitemap": true,
		},
		"performance": map[string]any{"speedScore": 95, "optimizationScore": 90, "loadTime": 700, "totalSize": 300000},
		"mobile": map[string]any{
			"isMobileFriendly": true, "hasViewportMeta": true, "hasResponsiveCSS": true,
			"hasHorizontalScroll": false, "touchTargetsOk": true,
		},
		"tracking": map[string]any{"hasAnalytics": true, "hasTagManager": true, "hasPixel": true, "hasConversionTracking": true},
		"gdpr":     map[string]any{"hasCookieBanner": true, "hasPrivacyPolicy": true, "hasContactInfo": true, "hasVatNumber": true},
		"content":  map[string]any{"hasContactForm": true, "wordCount": 900, "hasSocialLinks": true, "hasBusinessHours": true},
	}
}

func newLead(city, category string, analysis scoring.AnalysisRecord, createdAt time.Time) Lead {
	return Lead{
		ID:           uuid.New(),
		BusinessName: "Bakkerij " + city,
		WebsiteURL:   "https://example.nl",
		City:         city,
		Category:     category,
		Analysis:     analysis,
		CreatedAt:    createdAt,
	}
}

func matchingProfile() *UserProfile {
	return &UserProfile{
		PreferredIndustries: []string{"Bakery"},
		PreferredCities:     []string{"Utrecht"},
		ServiceOfferings:    []string{"SEO", "web design", "unknown service"},
		WeeklyCapacity:      5,
		BudgetMin:           1000,
		BudgetMax:           5000,
	}
}

func TestRelevancePerfectMatch(t *testing.T) {
	lead := newLead("Utrecht", "bakery", deficientAnalysis(), baseTime)
	behavior := SummarizeBehavior([]Action{
		{LeadID: uuid.New(), Type: ActionConverted, Category: "Bakery", City: "UTRECHT"},
	})
	result := scoring.Score(lead.Analysis)

	got := Relevance(lead, result, matchingProfile(), behavior)

	want := map[string]float64{
		FactorOpportunity:       13.35,
		FactorServiceMatch:      25,
		FactorBudgetFit:         15,
		FactorLocation:          20,
		FactorIndustry:          10,
		FactorConvertedCategory: 10,
		FactorConvertedCity:     5,
	}
	if len(got.ContributingFactors) != len(want) {
		t.Fatalf("factors = %v, want %v", got.ContributingFactors, want)
	}
	for k, v := range want {
		if got.ContributingFactors[k] != v {
			t.Fatalf("factor %s = %v, want %v", k, got.ContributingFactors[k], v)
		}
	}
	if got.Score != 98.35 {
		t.Fatalf("score = %v, want 98.35", got.Score)
	}
	if got.LeadID != lead.ID {
		t.Fatalf("lead id not carried over")
	}
}

func TestRelevanceWithoutProfile(t *testing.T) {
	lead := newLead("Utrecht", "bakery", deficientAnalysis(), baseTime)
	behavior := SummarizeBehavior([]Action{
		{LeadID: uuid.New(), Type: ActionConverted, Category: "bakery", City: "Zwolle"},
	})

	got := Relevance(lead, scoring.Score(lead.Analysis), nil, behavior)

	if len(got.ContributingFactors) != 2 {
		t.Fatalf("expected opportunity and converted_category only, got %v", got.ContributingFactors)
	}
	if got.Score != 23.35 {
		t.Fatalf("score = %v, want 23.35", got.Score)
	}
}

func TestRelevanceIsMonotonicInSignals(t *testing.T) {
	lead := newLead("Utrecht", "bakery", deficientAnalysis(), baseTime)
	result := scoring.Score(lead.Analysis)

	steps := []func(p *UserProfile, actions *[]Action){
		func(p *UserProfile, _ *[]Action) { p.ServiceOfferings = []string{"seo"} },
		func(p *UserProfile, _ *[]Action) { p.ServiceOfferings = append(p.ServiceOfferings, "mobile") },
		func(p *UserProfile, _ *[]Action) { p.BudgetMin, p.BudgetMax = 100, 1000 },
		func(p *UserProfile, _ *[]Action) { p.BudgetMin, p.BudgetMax = 1000, 6000 },
		func(p *UserProfile, _ *[]Action) { p.PreferredRegions = []string{"Utrechtse Heuvelrug"} },
		func(p *UserProfile, _ *[]Action) { p.PreferredCities = []string{"utrecht"} },
		func(p *UserProfile, _ *[]Action) { p.PreferredIndustries = []string{"bakery"} },
		func(_ *UserProfile, a *[]Action) {
			*a = append(*a, Action{LeadID: uuid.New(), Type: ActionConverted, Category: "bakery"})
		},
		func(_ *UserProfile, a *[]Action) {
			*a = append(*a, Action{LeadID: uuid.New(), Type: ActionConverted, City: "utrecht"})
		},
	}

	profile := &UserProfile{}
	var actions []Action
	prev := Relevance(lead, result, profile, SummarizeBehavior(actions)).Score
	for i, step := range steps {
		step(profile, &actions)
		got := Relevance(lead, result, profile, SummarizeBehavior(actions)).Score
		if got < prev {
			t.Fatalf("step %d lowered relevance from %v to %v", i, prev, got)
		}
		prev = got
	}
	if prev != 98.35 {
		t.Fatalf("expected every signal to end at 98.35, got %v", prev)
	}
}

func TestBudgetFit(t *testing.T) {
	tests := []struct {
		name    string
		deal    int
		profile UserProfile
		want    float64
	}{
		{"no range", 4800, UserProfile{}, 0},
		{"below", 500, UserProfile{BudgetMin: 1000, BudgetMax: 3000}, 0},
		{"lower edge", 1000, UserProfile{BudgetMin: 1000, BudgetMax: 3000}, 15},
		{"upper edge", 3000, UserProfile{BudgetMin: 1000, BudgetMax: 3000}, 15},
		{"above", 3001, UserProfile{BudgetMin: 1000, BudgetMax: 3000}, 8},
	}
	for _, tt := range tests {
		p := tt.profile
		if got := budgetFit(tt.deal, &p); got != tt.want {
			t.Fatalf("%s: budget fit = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLocationFit(t *testing.T) {
	tests := []struct {
		name    string
		city    string
		profile UserProfile
		want    float64
	}{
		{"remote only", "Groningen", UserProfile{RemoteOnly: true}, 20},
		{"city case insensitive", "AMSTERDAM", UserProfile{PreferredCities: []string{"amsterdam"}}, 20},
		{"city substring", "Amsterdam-Noord", UserProfile{PreferredCities: []string{"Amsterdam"}}, 20},
		{"region prefix", "Noordwijk", UserProfile{PreferredRegions: []string{"Noord-Holland"}}, 10},
		{"region miss", "Amsterdam", UserProfile{PreferredRegions: []string{"Noord-Holland"}}, 0},
		{"short region", "Ede", UserProfile{PreferredRegions: []string{"Ede"}}, 10},
		{"empty city", "", UserProfile{PreferredCities: []string{"Utrecht"}}, 0},
		{"no preference", "Utrecht", UserProfile{}, 0},
	}
	for _, tt := range tests {
		p := tt.profile
		if got := locationFit(tt.city, &p); got != tt.want {
			t.Fatalf("%s: location = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestServiceMatchCapsAtTwoGaps(t *testing.T) {
	b := scoring.Breakdown{SEO: 90, Performance: 90, Mobile: 90, Tracking: 51, Compliance: 50}
	tests := []struct {
		offerings []string
		want      float64
	}{
		{nil, 0},
		{[]string{"compliance"}, 0},
		{[]string{"analytics"}, 12.5},
		{[]string{" SEO ", "speed"}, 25},
		{[]string{"seo", "speed", "responsive", "tracking"}, 25},
	}
	for _, tt := range tests {
		if got := serviceMatch(b, tt.offerings); got != tt.want {
			t.Fatalf("serviceMatch(%v) = %v, want %v", tt.offerings, got, tt.want)
		}
	}
}

func TestRankTieBreakByRecency(t *testing.T) {
	older := newLead("Delft", "plumber", deficientAnalysis(), baseTime.Add(-48*time.Hour))
	newer := newLead("Delft", "plumber", deficientAnalysis(), baseTime)

	ranked := Rank([]Lead{older, newer}, nil, SummarizeBehavior(nil))

	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked leads, got %d", len(ranked))
	}
	if ranked[0].Relevance.Score != ranked[1].Relevance.Score {
		t.Fatalf("fixture leads should tie on relevance")
	}
	if ranked[0].Lead.ID != newer.ID {
		t.Fatalf("expected the newer lead first")
	}
}

func TestRankTieBreakByID(t *testing.T) {
	a := newLead("Delft", "plumber", healthyAnalysis(), baseTime)
	b := newLead("Delft", "plumber", healthyAnalysis(), baseTime)
	a.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b.ID = uuid.MustParse("00000000-0000-0000-0000-000000000002")

	ranked := Rank([]Lead{b, a}, nil, SummarizeBehavior(nil))
	if ranked[0].Lead.ID != a.ID {
		t.Fatalf("expected lower id first on a full tie")
	}
}

func TestRankOrdersByRelevanceAndDropsExcluded(t *testing.T) {
	weak := newLead("Delft", "bakery", healthyAnalysis(), baseTime)
	strong := newLead("Utrecht", "bakery", deficientAnalysis(), baseTime.Add(-72*time.Hour))
	excluded := newLead("Utrecht", "Casino", deficientAnalysis(), baseTime)

	profile := matchingProfile()
	profile.ExcludedIndustries = []string{"casino"}

	ranked := Rank([]Lead{weak, excluded, strong}, profile, SummarizeBehavior(nil))

	if len(ranked) != 2 {
		t.Fatalf("expected excluded lead to be dropped, got %d leads", len(ranked))
	}
	if ranked[0].Lead.ID != strong.ID || ranked[1].Lead.ID != weak.ID {
		t.Fatalf("unexpected order: %s, %s", ranked[0].Lead.City, ranked[1].Lead.City)
	}
	if ranked[0].Result.OverallScore != 89 {
		t.Fatalf("expected a freshly computed score of 89, got %d", ranked[0].Result.OverallScore)
	}
}

func TestRankEmptyPool(t *testing.T) {
	if got := Rank(nil, matchingProfile(), SummarizeBehavior(nil)); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
