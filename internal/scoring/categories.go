package scoring

// Category identifies one analysis dimension.
type Category string

const (
	CategorySEO         Category = "seo"
	CategoryPerformance Category = "performance"
	CategoryMobile      Category = "mobile"
	CategoryTracking    Category = "tracking"
	CategoryCompliance  Category = "compliance"
	CategoryContent     Category = "content"
	CategoryTechnical   Category = "technical"
)

// Categories lists every dimension in breakdown order.
var Categories = []Category{
	CategorySEO,
	CategoryPerformance,
	CategoryMobile,
	CategoryTracking,
	CategoryCompliance,
	CategoryContent,
	CategoryTechnical,
}

const maxCategoryScore = 100

const (
	minWordCount      = 300
	maxLoadTimeMs     = 5000
	maxTotalSizeBytes = 3 * 1024 * 1024
	maxHighIssues     = 2
)

// Breakdown holds the deficiency score of each category. Higher means more
// problems were detected and therefore more sales opportunity.
type Breakdown struct {
	SEO         int `json:"seo"`
	Performance int `json:"performance"`
	Mobile      int `json:"mobile"`
	Tracking    int `json:"tracking"`
	Compliance  int `json:"compliance"`
	Content     int `json:"content"`
	Technical   int `json:"technical"`
}

// Get returns the score of a single category.
func (b Breakdown) Get(c Category) int {
	switch c {
	case CategorySEO:
		return b.SEO
	case CategoryPerformance:
		return b.Performance
	case CategoryMobile:
		return b.Mobile
	case CategoryTracking:
		return b.Tracking
	case CategoryCompliance:
		return b.Compliance
	case CategoryContent:
		return b.Content
	case CategoryTechnical:
		return b.Technical
	default:
		return 0
	}
}

// penalty is one deficiency check. Points are added when applies reports true.
type penalty struct {
	check   string
	points  int
	applies func(Indicators) bool
}

var seoPenalties = []penalty{
	{"missing_title", 25, func(i Indicators) bool { return !i.SEO.HasTitle }},
	{"missing_meta_description", 20, func(i Indicators) bool { return !i.SEO.HasMetaDescription }},
	{"missing_h1", 15, func(i Indicators) bool { return !i.SEO.HasH1 }},
	{"missing_canonical", 10, func(i Indicators) bool { return !i.SEO.HasCanonical }},
	{"missing_structured_data", 15, func(i Indicators) bool { return !i.SEO.HasStructuredData }},
	{"missing_open_graph", 10, func(i Indicators) bool { return !i.SEO.HasOpenGraph }},
	{"missing_sitemap", 5, func(i Indicators) bool { return !i.SEO.HasSitemap }},
}

var performancePenalties = []penalty{
	{"speed_poor", 30, func(i Indicators) bool { return i.Performance.SpeedScore < 50 }},
	{"speed_mediocre", 15, func(i Indicators) bool {
		return i.Performance.SpeedScore >= 50 && i.Performance.SpeedScore < 70
	}},
	{"optimization_poor", 25, func(i Indicators) bool { return i.Performance.OptimizationScore < 50 }},
	{"slow_load", 20, func(i Indicators) bool { return i.Performance.LoadTimeMs > maxLoadTimeMs }},
	{"heavy_page", 15, func(i Indicators) bool { return i.Performance.TotalSizeBytes > maxTotalSizeBytes }},
}

var mobilePenalties = []penalty{
	{"not_mobile_friendly", 40, func(i Indicators) bool { return !i.Mobile.IsMobileFriendly }},
	{"missing_viewport_meta", 20, func(i Indicators) bool { return !i.Mobile.HasViewportMeta }},
	{"missing_responsive_css", 20, func(i Indicators) bool { return !i.Mobile.HasResponsiveCSS }},
	{"horizontal_scroll", 10, func(i Indicators) bool { return i.Mobile.HasHorizontalScroll }},
	{"touch_targets", 10, func(i Indicators) bool { return !i.Mobile.TouchTargetsOK }},
}

var trackingPenalties = []penalty{
	{"missing_analytics", 35, func(i Indicators) bool { return !i.Tracking.HasAnalytics }},
	{"missing_tag_manager", 25, func(i Indicators) bool { return !i.Tracking.HasTagManager }},
	{"missing_pixel", 20, func(i Indicators) bool { return !i.Tracking.HasPixel }},
	{"missing_conversion_tracking", 20, func(i Indicators) bool { return !i.Tracking.HasConversionTracking }},
}

var compliancePenalties = []penalty{
	{"missing_cookie_banner", 30, func(i Indicators) bool { return !i.Compliance.HasCookieBanner }},
	{"missing_privacy_policy", 30, func(i Indicators) bool { return !i.Compliance.HasPrivacyPolicy }},
	{"missing_contact_info", 20, func(i Indicators) bool { return !i.Compliance.HasContactInfo }},
	{"missing_vat_number", 20, func(i Indicators) bool { return !i.Compliance.HasVATNumber }},
}

var contentPenalties = []penalty{
	{"missing_contact_form", 25, func(i Indicators) bool { return !i.Content.HasContactForm }},
	{"thin_content", 25, func(i Indicators) bool { return i.Content.WordCount < minWordCount }},
	{"missing_social_links", 15, func(i Indicators) bool { return !i.Content.HasSocialLinks }},
	{"missing_business_hours", 15, func(i Indicators) bool { return !i.Content.HasBusinessHours }},
}

var technicalPenalties = []penalty{
	{"missing_ssl", 30, func(i Indicators) bool { return !i.Technical.HasSSL }},
	{"invalid_ssl", 20, func(i Indicators) bool { return !i.Technical.SSLValid }},
	{"critical_issues", 30, func(i Indicators) bool { return i.Technical.Issues.Critical > 0 }},
	{"high_issues", 20, func(i Indicators) bool { return i.Technical.Issues.High > maxHighIssues }},
}

var penaltyTables = map[Category][]penalty{
	CategorySEO:         seoPenalties,
	CategoryPerformance: performancePenalties,
	CategoryMobile:      mobilePenalties,
	CategoryTracking:    trackingPenalties,
	CategoryCompliance:  compliancePenalties,
	CategoryContent:     contentPenalties,
	CategoryTechnical:   technicalPenalties,
}

// CategoryScore sums the penalties of one category, clamped to 100.
func CategoryScore(c Category, ind Indicators) int {
	score := 0
	for _, p := range penaltyTables[c] {
		if p.applies(ind) {
			score += p.points
		}
	}
	return clamp(score, 0, maxCategoryScore)
}

// Deficiencies returns the failed checks of one category in table order.
func Deficiencies(c Category, ind Indicators) []string {
	failed := make([]string, 0)
	for _, p := range penaltyTables[c] {
		if p.applies(ind) {
			failed = append(failed, p.check)
		}
	}
	return failed
}

// ComputeBreakdown scores every category.
func ComputeBreakdown(ind Indicators) Breakdown {
	return Breakdown{
		SEO:         CategoryScore(CategorySEO, ind),
		Performance: CategoryScore(CategoryPerformance, ind),
		Mobile:      CategoryScore(CategoryMobile, ind),
		Tracking:    CategoryScore(CategoryTracking, ind),
		Compliance:  CategoryScore(CategoryCompliance, ind),
		Content:     CategoryScore(CategoryContent, ind),
		Technical:   CategoryScore(CategoryTechnical, ind),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
