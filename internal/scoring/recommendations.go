package scoring

// Priority ranks a recommendation for the sales pitch.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// Recommendation is one service that addresses a detected gap.
type Recommendation struct {
	Service  string   `json:"service"`
	Priority Priority `json:"priority"`
	Price    int      `json:"price"`
	Impact   string   `json:"impact"`
}

const (
	maxRecommendations    = 6
	maxQuickWins          = 5
	recommendThreshold    = 40
	highPriorityThreshold = 70
)

// recommendationRule emits a recommendation when fires reports true.
// Category rules derive their priority from the category score; a rule without
// a category is always high priority.
type recommendationRule struct {
	service  string
	price    int
	impact   string
	category Category
	fires    func(Breakdown, Indicators) bool
}

func categoryAbove(c Category) func(Breakdown, Indicators) bool {
	return func(b Breakdown, _ Indicators) bool { return b.Get(c) > recommendThreshold }
}

var recommendationRules = []recommendationRule{
	{
		service: "SSL certificate installation",
		price:   200,
		impact:  "Removes browser security warnings and restores visitor trust",
		fires:   func(_ Breakdown, ind Indicators) bool { return !ind.Technical.HasSSL },
	},
	{
		service:  "Performance optimization",
		price:    800,
		impact:   "Faster pages reduce bounce rate and improve search ranking",
		category: CategoryPerformance,
		fires:    categoryAbove(CategoryPerformance),
	},
	{
		service:  "SEO optimization",
		price:    1500,
		impact:   "Better visibility in search results brings more organic visitors",
		category: CategorySEO,
		fires:    categoryAbove(CategorySEO),
	},
	{
		service:  "Mobile optimization",
		price:    600,
		impact:   "A usable mobile site reaches the majority of visitors",
		category: CategoryMobile,
		fires:    categoryAbove(CategoryMobile),
	},
	{
		service:  "Analytics and tracking setup",
		price:    400,
		impact:   "Measured traffic and conversions make marketing spend accountable",
		category: CategoryTracking,
		fires:    categoryAbove(CategoryTracking),
	},
	{
		service:  "GDPR compliance",
		price:    500,
		impact:   "Cookie consent and privacy policy avoid regulatory fines",
		category: CategoryCompliance,
		fires:    categoryAbove(CategoryCompliance),
	},
}

// Recommendations evaluates the rules in order and keeps the first six that fire.
func Recommendations(b Breakdown, ind Indicators) []Recommendation {
	out := make([]Recommendation, 0, len(recommendationRules))
	for _, r := range recommendationRules {
		if len(out) == maxRecommendations {
			break
		}
		if !r.fires(b, ind) {
			continue
		}
		out = append(out, Recommendation{
			Service:  r.service,
			Priority: r.priority(b),
			Price:    r.price,
			Impact:   r.impact,
		})
	}
	return out
}

func (r recommendationRule) priority(b Breakdown) Priority {
	if r.category == "" || b.Get(r.category) > highPriorityThreshold {
		return PriorityHigh
	}
	return PriorityMedium
}

type quickWinRule struct {
	action string
	fires  func(Indicators) bool
}

var quickWinRules = []quickWinRule{
	{"Add a descriptive page title", func(i Indicators) bool { return !i.SEO.HasTitle }},
	{"Write a meta description", func(i Indicators) bool { return !i.SEO.HasMetaDescription }},
	{"Install website analytics", func(i Indicators) bool { return !i.Tracking.HasAnalytics }},
	{"Add a cookie consent banner", func(i Indicators) bool { return !i.Compliance.HasCookieBanner }},
	{"Add a contact form", func(i Indicators) bool { return !i.Content.HasContactForm }},
	{"Add a viewport meta tag", func(i Indicators) bool { return !i.Mobile.HasViewportMeta }},
}

// QuickWins lists cheap fixes for failing checks, at most five.
func QuickWins(ind Indicators) []string {
	out := make([]string, 0, maxQuickWins)
	for _, r := range quickWinRules {
		if len(out) == maxQuickWins {
			break
		}
		if r.fires(ind) {
			out = append(out, r.action)
		}
	}
	return out
}
