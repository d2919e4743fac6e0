package ranking

import (
	"time"

	"leadradar_backend/internal/scoring"

	"github.com/google/uuid"
)

const (
	dailyTopSize      = 5
	perfectMatchSize  = 8
	highBudgetSize    = 6
	nearYouSize       = 6
	newTodaySize      = 10
	perfectMatchScore = 90.0

	highBudgetNum    = 6
	highBudgetDen    = 5
	defaultBudgetMax = 2000
	newLeadWindow    = 24 * time.Hour
)

// SectionEntry is one lead as shown in a section.
type SectionEntry struct {
	LeadID             uuid.UUID          `json:"leadId"`
	BusinessName       string             `json:"businessName"`
	WebsiteURL         string             `json:"websiteUrl"`
	City               string             `json:"city"`
	Category           string             `json:"category"`
	CreatedAt          time.Time          `json:"createdAt"`
	Relevance          float64            `json:"relevance"`
	Factors            map[string]float64 `json:"factors"`
	OverallScore       int                `json:"overallScore"`
	Quality            scoring.Quality    `json:"quality"`
	EstimatedDealValue int                `json:"estimatedDealValue"`
}

// Sections are the personalized views of a ranked pool. Every slice is
// non-nil so empty sections encode as [].
type Sections struct {
	DailyTop5    []SectionEntry `json:"daily_top_5"`
	PerfectMatch []SectionEntry `json:"perfect_match"`
	HighBudget   []SectionEntry `json:"high_budget"`
	NearYou      []SectionEntry `json:"near_you"`
	NewToday     []SectionEntry `json:"new_today"`
}

// EmptySections returns sections with no entries.
func EmptySections() Sections {
	return Sections{
		DailyTop5:    []SectionEntry{},
		PerfectMatch: []SectionEntry{},
		HighBudget:   []SectionEntry{},
		NearYou:      []SectionEntry{},
		NewToday:     []SectionEntry{},
	}
}

// AssembleSections splits a ranked pool into sections. ranked must already
// be in Rank order; each section keeps that order. Leads in daily_top_5
// never appear in new_today.
func AssembleSections(ranked []RankedLead, profile *UserProfile, behavior BehaviorSummary, now time.Time) Sections {
	s := EmptySections()

	inTop := make(map[uuid.UUID]struct{}, dailyTopSize)
	for _, r := range ranked {
		if len(s.DailyTop5) == dailyTopSize {
			break
		}
		if behavior.HasUnlocked(r.Lead.ID) {
			continue
		}
		s.DailyTop5 = append(s.DailyTop5, newEntry(r))
		inTop[r.Lead.ID] = struct{}{}
	}

	s.PerfectMatch = pick(ranked, perfectMatchSize, func(r RankedLead) bool {
		return r.Relevance.Score >= perfectMatchScore
	})

	budgetMax := defaultBudgetMax
	if profile.HasBudget() {
		budgetMax = profile.BudgetMax
	}
	s.HighBudget = pick(ranked, highBudgetSize, func(r RankedLead) bool {
		// deal >= 1.2 * budgetMax in integer arithmetic
		return r.Result.EstimatedDealValue*highBudgetDen >= budgetMax*highBudgetNum
	})

	if profile.HasLocationPreference() {
		s.NearYou = pick(ranked, nearYouSize, func(r RankedLead) bool {
			return matchesAnyCity(r.Lead.City, profile.PreferredCities) ||
				matchesAnyRegion(r.Lead.City, profile.PreferredRegions)
		})
	}

	cutoff := now.Add(-newLeadWindow)
	s.NewToday = pick(ranked, newTodaySize, func(r RankedLead) bool {
		if _, top := inTop[r.Lead.ID]; top {
			return false
		}
		return !r.Lead.CreatedAt.Before(cutoff)
	})

	return s
}

func pick(ranked []RankedLead, limit int, keep func(RankedLead) bool) []SectionEntry {
	out := make([]SectionEntry, 0, min(limit, len(ranked)))
	for _, r := range ranked {
		if len(out) == limit {
			break
		}
		if keep(r) {
			out = append(out, newEntry(r))
		}
	}
	return out
}

func newEntry(r RankedLead) SectionEntry {
	return SectionEntry{
		LeadID:             r.Lead.ID,
		BusinessName:       r.Lead.BusinessName,
		WebsiteURL:         r.Lead.WebsiteURL,
		City:               r.Lead.City,
		Category:           r.Lead.Category,
		CreatedAt:          r.Lead.CreatedAt,
		Relevance:          r.Relevance.Score,
		Factors:            r.Relevance.ContributingFactors,
		OverallScore:       r.Result.OverallScore,
		Quality:            r.Result.Quality,
		EstimatedDealValue: r.Result.EstimatedDealValue,
	}
}
