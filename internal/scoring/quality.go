package scoring

import "math"

// Quality is the coarse sales-priority bucket of a lead.
type Quality string

const (
	QualityHot         Quality = "hot"
	QualityWarm        Quality = "warm"
	QualityCold        Quality = "cold"
	QualityUnqualified Quality = "unqualified"
)

const (
	hotThreshold  = 70
	warmThreshold = 50
	coldThreshold = 30
)

// Classify buckets a lead by its overall score and critical issue count.
// Every input maps to exactly one bucket.
func Classify(overallScore, criticalIssues int) Quality {
	switch {
	case overallScore >= hotThreshold && criticalIssues > 0:
		return QualityHot
	case overallScore >= warmThreshold:
		return QualityWarm
	case overallScore >= coldThreshold:
		return QualityCold
	default:
		return QualityUnqualified
	}
}

var baseConversion = map[Quality]int{
	QualityHot:         35,
	QualityWarm:        20,
	QualityCold:        8,
	QualityUnqualified: 2,
}

const (
	conversionSignalBonus = 5
	maxConversion         = 50
)

// ConversionProbability estimates the chance, in percent, that the lead buys.
func ConversionProbability(q Quality, ind Indicators) int {
	p := baseConversion[q]
	if ind.HasPhone {
		p += conversionSignalBonus
	}
	if ind.Compliance.HasVATNumber {
		p += conversionSignalBonus
	}
	if !ind.Technical.HasSSL {
		p += conversionSignalBonus
	}
	return clamp(p, 0, maxConversion)
}

const (
	dealGapThreshold = 50
	minDealValue     = 500
)

// categoryDealValues is the service value of closing a gap in a category.
// Technical gaps are covered by the SSL recommendation and add no deal value.
var categoryDealValues = []struct {
	category Category
	value    int
}{
	{CategorySEO, 1500},
	{CategoryPerformance, 800},
	{CategoryMobile, 600},
	{CategoryTracking, 400},
	{CategoryCompliance, 500},
	{CategoryContent, 1000},
}

// EstimateDealValue sums the value of every category gap above 50.
// The result is never below 500.
func EstimateDealValue(b Breakdown) int {
	total := 0
	for _, d := range categoryDealValues {
		if b.Get(d.category) > dealGapThreshold {
			total += d.value
		}
	}
	if total < minDealValue {
		return minDealValue
	}
	return total
}

const (
	monthlyShare       = 0.05
	monthlyRetainerFee = 150
)

// EstimateMonthlyRevenue derives recurring revenue from the deal value.
func EstimateMonthlyRevenue(dealValue int) int {
	return int(math.Round(float64(dealValue)*monthlyShare)) + monthlyRetainerFee
}

const urgencyThreshold = 60

// UrgencyScore rates how pressing the detected problems are, in [0,100].
func UrgencyScore(b Breakdown, ind Indicators) int {
	u := 0
	if !ind.Technical.HasSSL {
		u += 25
	}
	// seven critical issues already saturate the scale
	u += 15 * min(ind.Technical.Issues.Critical, 7)
	if b.Compliance > urgencyThreshold {
		u += 20
	}
	if b.Mobile > urgencyThreshold {
		u += 15
	}
	if b.Performance > urgencyThreshold {
		u += 15
	}
	return clamp(u, 0, 100)
}
