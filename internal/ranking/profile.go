// Package ranking orders a lead pool for one user and splits it into the
// personalized "for you" sections.
package ranking

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserProfile holds the lead preferences a user configured.
type UserProfile struct {
	UserID              uuid.UUID
	PreferredIndustries []string
	ExcludedIndustries  []string
	PreferredCities     []string
	PreferredRegions    []string
	RemoteOnly          bool
	SearchRadiusKm      int
	WeeklyCapacity      int
	InProgressProjects  int
	ServiceOfferings    []string
	// BudgetMin and BudgetMax are in euros. A zero BudgetMax means no range was set.
	BudgetMin int
	BudgetMax int
}

// HasLocationPreference reports whether the user named any city or region.
func (p *UserProfile) HasLocationPreference() bool {
	return p != nil && (len(p.PreferredCities) > 0 || len(p.PreferredRegions) > 0)
}

// HasBudget reports whether a preferred budget range is set.
func (p *UserProfile) HasBudget() bool {
	return p != nil && p.BudgetMax > 0
}

// Complete reports whether the profile carries every preference the ranker uses.
func (p *UserProfile) Complete() bool {
	if p == nil {
		return false
	}
	hasLocation := p.RemoteOnly || p.HasLocationPreference()
	return hasLocation &&
		len(p.ServiceOfferings) > 0 &&
		len(p.PreferredIndustries) > 0 &&
		p.HasBudget()
}

// CapacityRemaining is the number of projects the user can still take on this week.
func (p *UserProfile) CapacityRemaining() int {
	if p == nil {
		return 0
	}
	return max(p.WeeklyCapacity-p.InProgressProjects, 0)
}

// ActionType is a user interaction with a lead.
type ActionType string

const (
	ActionViewed    ActionType = "viewed"
	ActionUnlocked  ActionType = "unlocked"
	ActionContacted ActionType = "contacted"
	ActionConverted ActionType = "converted"
	ActionSkipped   ActionType = "skipped"
	ActionSaved     ActionType = "saved"
)

// ActionTypes lists every known action.
var ActionTypes = []ActionType{
	ActionViewed,
	ActionUnlocked,
	ActionContacted,
	ActionConverted,
	ActionSkipped,
	ActionSaved,
}

// Valid reports whether a is a known action type.
func (a ActionType) Valid() bool {
	for _, known := range ActionTypes {
		if a == known {
			return true
		}
	}
	return false
}

// Action is one entry of a user's lead action log. Category and City are
// the lead's values at the time of the action.
type Action struct {
	LeadID    uuid.UUID
	Type      ActionType
	Category  string
	City      string
	CreatedAt time.Time
}

// BehaviorSummary is the aggregated action log of one user.
type BehaviorSummary struct {
	Counts              map[ActionType]int
	ConvertedCategories map[string]struct{}
	ConvertedCities     map[string]struct{}
	// Unlocked holds every lead the user already has access to.
	Unlocked map[uuid.UUID]struct{}
}

// SummarizeBehavior folds an action log into counters and sets.
// Unknown action types are ignored. Contacting or converting a lead implies
// it was unlocked.
func SummarizeBehavior(actions []Action) BehaviorSummary {
	s := BehaviorSummary{
		Counts:              make(map[ActionType]int, len(ActionTypes)),
		ConvertedCategories: make(map[string]struct{}),
		ConvertedCities:     make(map[string]struct{}),
		Unlocked:            make(map[uuid.UUID]struct{}),
	}
	for _, t := range ActionTypes {
		s.Counts[t] = 0
	}

	for _, a := range actions {
		if !a.Type.Valid() {
			continue
		}
		s.Counts[a.Type]++

		switch a.Type {
		case ActionUnlocked, ActionContacted:
			s.Unlocked[a.LeadID] = struct{}{}
		case ActionConverted:
			s.Unlocked[a.LeadID] = struct{}{}
			if key := normalizeKey(a.Category); key != "" {
				s.ConvertedCategories[key] = struct{}{}
			}
			if key := normalizeKey(a.City); key != "" {
				s.ConvertedCities[key] = struct{}{}
			}
		}
	}
	return s
}

// HasUnlocked reports whether the user already unlocked the lead.
func (s BehaviorSummary) HasUnlocked(id uuid.UUID) bool {
	_, ok := s.Unlocked[id]
	return ok
}

func (s BehaviorSummary) convertedCategory(category string) bool {
	_, ok := s.ConvertedCategories[normalizeKey(category)]
	return ok && normalizeKey(category) != ""
}

func (s BehaviorSummary) convertedCity(city string) bool {
	_, ok := s.ConvertedCities[normalizeKey(city)]
	return ok && normalizeKey(city) != ""
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
