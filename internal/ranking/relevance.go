package ranking

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"leadradar_backend/internal/scoring"

	"github.com/google/uuid"
)

// MaxPoolSize bounds the number of leads handed to Rank.
const MaxPoolSize = 500

// Signal weights. A lead matching every signal scores 100.
const (
	opportunityWeight       = 0.15
	serviceMatchPerGap      = 12.5
	maxServiceMatch         = 25.0
	budgetInRange           = 15.0
	budgetAboveRange        = 8.0
	locationMatch           = 20.0
	regionMatch             = 10.0
	industryMatch           = 10.0
	convertedCategoryWeight = 10.0
	convertedCityWeight     = 5.0

	gapThreshold = 50
	regionPrefix = 4
)

// Factor keys reported in RelevanceResult.ContributingFactors.
const (
	FactorOpportunity       = "opportunity"
	FactorServiceMatch      = "service_match"
	FactorBudgetFit         = "budget_fit"
	FactorLocation          = "location"
	FactorIndustry          = "industry"
	FactorConvertedCategory = "converted_category"
	FactorConvertedCity     = "converted_city"
)

var factorOrder = []string{
	FactorOpportunity,
	FactorServiceMatch,
	FactorBudgetFit,
	FactorLocation,
	FactorIndustry,
	FactorConvertedCategory,
	FactorConvertedCity,
}

// Lead is one entry of the candidate pool.
type Lead struct {
	ID           uuid.UUID
	BusinessName string
	WebsiteURL   string
	City         string
	Category     string
	// Score is the stored overall score. Ranking always uses a freshly computed one.
	Score     int
	Analysis  scoring.AnalysisRecord
	CreatedAt time.Time
}

// RelevanceResult explains how well a lead fits one user.
type RelevanceResult struct {
	LeadID              uuid.UUID          `json:"leadId"`
	Score               float64            `json:"score"`
	ContributingFactors map[string]float64 `json:"contributingFactors"`
}

// RankedLead pairs a lead with its scoring result and relevance.
type RankedLead struct {
	Lead      Lead
	Result    scoring.Result
	Relevance RelevanceResult
}

// serviceAliases maps offering names to the category they fix.
var serviceAliases = map[string]scoring.Category{
	"seo":                 scoring.CategorySEO,
	"search":              scoring.CategorySEO,
	"performance":         scoring.CategoryPerformance,
	"speed":               scoring.CategoryPerformance,
	"mobile":              scoring.CategoryMobile,
	"responsive":          scoring.CategoryMobile,
	"analytics":           scoring.CategoryTracking,
	"tracking":            scoring.CategoryTracking,
	"compliance":          scoring.CategoryCompliance,
	"gdpr":                scoring.CategoryCompliance,
	"privacy":             scoring.CategoryCompliance,
	"content":             scoring.CategoryContent,
	"copywriting":         scoring.CategoryContent,
	"security":            scoring.CategoryTechnical,
	"ssl":                 scoring.CategoryTechnical,
	"technical":           scoring.CategoryTechnical,
	"hosting":             scoring.CategoryTechnical,
	"webdesign":           scoring.CategoryMobile,
	"web design":          scoring.CategoryMobile,
	"online marketing":    scoring.CategoryTracking,
	"search engine":       scoring.CategorySEO,
	"website speed":       scoring.CategoryPerformance,
	"cookie consent":      scoring.CategoryCompliance,
	"content marketing":   scoring.CategoryContent,
	"website security":    scoring.CategoryTechnical,
	"mobile optimization": scoring.CategoryMobile,
}

// offeredCategories resolves free-form offerings to categories.
func offeredCategories(offerings []string) map[scoring.Category]struct{} {
	out := make(map[scoring.Category]struct{}, len(offerings))
	for _, o := range offerings {
		key := normalizeKey(o)
		if c, ok := serviceAliases[key]; ok {
			out[c] = struct{}{}
			continue
		}
		for _, c := range scoring.Categories {
			if key == string(c) {
				out[c] = struct{}{}
			}
		}
	}
	return out
}

// Relevance scores one lead for one user. A nil profile limits the result to
// the opportunity and behavior signals. Every signal is non-negative, so
// matching more signals never lowers the score.
func Relevance(lead Lead, result scoring.Result, profile *UserProfile, behavior BehaviorSummary) RelevanceResult {
	factors := make(map[string]float64)

	addFactor(factors, FactorOpportunity, float64(result.OverallScore)*opportunityWeight)

	if profile != nil {
		addFactor(factors, FactorServiceMatch, serviceMatch(result.Breakdown, profile.ServiceOfferings))
		addFactor(factors, FactorBudgetFit, budgetFit(result.EstimatedDealValue, profile))
		addFactor(factors, FactorLocation, locationFit(lead.City, profile))
		if containsFold(profile.PreferredIndustries, lead.Category) {
			addFactor(factors, FactorIndustry, industryMatch)
		}
	}

	if behavior.convertedCategory(lead.Category) {
		addFactor(factors, FactorConvertedCategory, convertedCategoryWeight)
	}
	if behavior.convertedCity(lead.City) {
		addFactor(factors, FactorConvertedCity, convertedCityWeight)
	}

	total := 0.0
	for _, key := range factorOrder {
		total += factors[key]
	}

	return RelevanceResult{
		LeadID:              lead.ID,
		Score:               round2(total),
		ContributingFactors: factors,
	}
}

func serviceMatch(b scoring.Breakdown, offerings []string) float64 {
	offered := offeredCategories(offerings)
	matched := 0.0
	for _, c := range scoring.Categories {
		if b.Get(c) <= gapThreshold {
			continue
		}
		if _, ok := offered[c]; ok {
			matched += serviceMatchPerGap
		}
	}
	return math.Min(matched, maxServiceMatch)
}

func budgetFit(dealValue int, p *UserProfile) float64 {
	if !p.HasBudget() {
		return 0
	}
	switch {
	case dealValue >= p.BudgetMin && dealValue <= p.BudgetMax:
		return budgetInRange
	case dealValue > p.BudgetMax:
		return budgetAboveRange
	default:
		return 0
	}
}

func locationFit(city string, p *UserProfile) float64 {
	switch {
	case p.RemoteOnly:
		return locationMatch
	case matchesAnyCity(city, p.PreferredCities):
		return locationMatch
	case matchesAnyRegion(city, p.PreferredRegions):
		return regionMatch
	default:
		return 0
	}
}

// matchesAnyCity reports whether the lead city contains a preferred city,
// ignoring case.
func matchesAnyCity(city string, preferred []string) bool {
	c := normalizeKey(city)
	if c == "" {
		return false
	}
	for _, p := range preferred {
		if p = normalizeKey(p); p != "" && strings.Contains(c, p) {
			return true
		}
	}
	return false
}

// matchesAnyRegion reports whether the lead city contains the first four
// letters of a preferred region. Without a city to region table this is a
// loose guess: "Noord-Holland" matches "Noordwijk" but not "Amsterdam".
// TODO: replace with a city to region lookup once province data is imported.
func matchesAnyRegion(city string, regions []string) bool {
	c := normalizeKey(city)
	if c == "" {
		return false
	}
	for _, r := range regions {
		prefix := runePrefix(normalizeKey(r), regionPrefix)
		if prefix != "" && strings.Contains(c, prefix) {
			return true
		}
	}
	return false
}

func runePrefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func containsFold(values []string, v string) bool {
	v = normalizeKey(v)
	if v == "" {
		return false
	}
	for _, candidate := range values {
		if normalizeKey(candidate) == v {
			return true
		}
	}
	return false
}

// addFactor records a contribution, skipping negligible values.
func addFactor(factors map[string]float64, key string, value float64) {
	if math.Abs(value) < 0.01 {
		return
	}
	factors[key] = round2(value)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rank scores every lead, drops excluded industries and sorts by relevance,
// newest first on ties, then by id.
func Rank(leads []Lead, profile *UserProfile, behavior BehaviorSummary) []RankedLead {
	ranked := make([]RankedLead, 0, len(leads))
	for _, lead := range leads {
		if profile != nil && containsFold(profile.ExcludedIndustries, lead.Category) {
			continue
		}
		result := scoring.Score(lead.Analysis)
		ranked = append(ranked, RankedLead{
			Lead:      lead,
			Result:    result,
			Relevance: Relevance(lead, result, profile, behavior),
		})
	}

	slices.SortFunc(ranked, compareRanked)
	return ranked
}

func compareRanked(a, b RankedLead) int {
	if c := cmp.Compare(b.Relevance.Score, a.Relevance.Score); c != 0 {
		return c
	}
	if c := b.Lead.CreatedAt.Compare(a.Lead.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.Lead.ID.String(), b.Lead.ID.String())
}
