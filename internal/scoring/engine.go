package scoring

// Version identifies the scoring model. Bump it when penalties, weights or
// thresholds change so stored scores and cached results can be told apart.
const Version = "2026-v1"

// Result is the full scoring output for one analysis record.
type Result struct {
	OverallScore            int              `json:"overallScore"`
	Breakdown               Breakdown        `json:"breakdown"`
	Quality                 Quality          `json:"quality"`
	ConversionProbability   int              `json:"conversionProbability"`
	EstimatedDealValue      int              `json:"estimatedDealValue"`
	EstimatedMonthlyRevenue int              `json:"estimatedMonthlyRevenue"`
	Recommendations         []Recommendation `json:"recommendations"`
	QuickWins               []string         `json:"quickWins"`
	UrgencyScore            int              `json:"urgencyScore"`
}

// Score normalizes and evaluates an analysis record.
func Score(rec AnalysisRecord) Result {
	return Evaluate(Normalize(rec))
}

// Evaluate scores already normalized indicators.
func Evaluate(ind Indicators) Result {
	breakdown := ComputeBreakdown(ind)
	overall := Aggregate(breakdown)
	quality := Classify(overall, ind.Technical.Issues.Critical)
	deal := EstimateDealValue(breakdown)

	return Result{
		OverallScore:            overall,
		Breakdown:               breakdown,
		Quality:                 quality,
		ConversionProbability:   ConversionProbability(quality, ind),
		EstimatedDealValue:      deal,
		EstimatedMonthlyRevenue: EstimateMonthlyRevenue(deal),
		Recommendations:         Recommendations(breakdown, ind),
		QuickWins:               QuickWins(ind),
		UrgencyScore:            UrgencyScore(breakdown, ind),
	}
}
