package ranking

import (
	"testing"

	"github.com/google/uuid"
)

func TestSummarizeBehavior(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	s := SummarizeBehavior([]Action{
		{LeadID: a, Type: ActionViewed},
		{LeadID: a, Type: ActionViewed},
		{LeadID: a, Type: ActionUnlocked},
		{LeadID: b, Type: ActionConverted, Category: " Bakery ", City: "Utrecht"},
		{LeadID: c, Type: ActionSkipped, Category: "Casino", City: "Zwolle"},
		{LeadID: c, Type: ActionType("liked")},
	})

	wantCounts := map[ActionType]int{
		ActionViewed:    2,
		ActionUnlocked:  1,
		ActionContacted: 0,
		ActionConverted: 1,
		ActionSkipped:   1,
		ActionSaved:     0,
	}
	for k, v := range wantCounts {
		if s.Counts[k] != v {
			t.Fatalf("count %s = %d, want %d", k, s.Counts[k], v)
		}
	}
	if len(s.Counts) != len(ActionTypes) {
		t.Fatalf("unknown action types must not be counted: %v", s.Counts)
	}
	if !s.HasUnlocked(a) || !s.HasUnlocked(b) || s.HasUnlocked(c) {
		t.Fatalf("unexpected unlocked set %v", s.Unlocked)
	}
	if !s.convertedCategory("BAKERY") || s.convertedCategory("casino") {
		t.Fatalf("unexpected converted categories %v", s.ConvertedCategories)
	}
	if !s.convertedCity("utrecht") || s.convertedCity("") {
		t.Fatalf("unexpected converted cities %v", s.ConvertedCities)
	}
}

func TestCapacityRemaining(t *testing.T) {
	tests := []struct {
		profile *UserProfile
		want    int
	}{
		{nil, 0},
		{&UserProfile{WeeklyCapacity: 5, InProgressProjects: 2}, 3},
		{&UserProfile{WeeklyCapacity: 2, InProgressProjects: 4}, 0},
	}
	for _, tt := range tests {
		if got := tt.profile.CapacityRemaining(); got != tt.want {
			t.Fatalf("CapacityRemaining() = %d, want %d", got, tt.want)
		}
	}
}

func TestProfileComplete(t *testing.T) {
	var missing *UserProfile
	if missing.Complete() {
		t.Fatalf("nil profile cannot be complete")
	}
	if !matchingProfile().Complete() {
		t.Fatalf("expected the matching profile to be complete")
	}

	noBudget := matchingProfile()
	noBudget.BudgetMax = 0
	if noBudget.Complete() {
		t.Fatalf("a profile without budget is incomplete")
	}

	remote := matchingProfile()
	remote.PreferredCities = nil
	remote.RemoteOnly = true
	if !remote.Complete() {
		t.Fatalf("remote only counts as a location choice")
	}
}
