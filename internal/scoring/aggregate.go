package scoring

import (
	"fmt"
	"math"
)

const totalWeight = 100

// categoryWeights is the share of each category in the overall score.
var categoryWeights = map[Category]int{
	CategorySEO:         20,
	CategoryPerformance: 15,
	CategoryMobile:      15,
	CategoryTracking:    15,
	CategoryCompliance:  10,
	CategoryContent:     10,
	CategoryTechnical:   15,
}

func init() {
	if err := checkWeights(categoryWeights); err != nil {
		panic(err)
	}
}

func checkWeights(weights map[Category]int) error {
	sum := 0
	for _, c := range Categories {
		w, ok := weights[c]
		if !ok {
			return fmt.Errorf("scoring: no weight for category %q", c)
		}
		if w < 0 {
			return fmt.Errorf("scoring: negative weight %d for category %q", w, c)
		}
		sum += w
	}
	if sum != totalWeight {
		return fmt.Errorf("scoring: category weights sum to %d, want %d", sum, totalWeight)
	}
	return nil
}

// Aggregate combines a breakdown into the overall opportunity score.
func Aggregate(b Breakdown) int {
	return aggregateWith(categoryWeights, b)
}

func aggregateWith(weights map[Category]int, b Breakdown) int {
	weighted := 0
	for _, c := range Categories {
		weighted += b.Get(c) * weights[c]
	}
	overall := int(math.Round(float64(weighted) / totalWeight))
	return clamp(overall, 0, maxCategoryScore)
}
