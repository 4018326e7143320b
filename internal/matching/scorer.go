// internal/matching/scorer.go
package matching

import (
	"math"
	"time"

	"lostfound/internal/models"
)

// Factor weights. Each factor can earn at most its weight; the final score is
// normalized by the sum of weights of the factors that were actually
// evaluated.
const (
	WeightCategory = 30
	WeightName     = 25
	WeightColor    = 20
	WeightLocation = 20
	WeightDate     = 15
)

// Score tiers. The source of these numbers drifted across call sites
// (60/75/80); they are centralized here as the canonical values.
const (
	// ScoreEligible is the minimum score for a candidate to count as a match
	// and for a match notification to be built.
	ScoreEligible = 60
	// ScoreGood marks a match worth highlighting to the user.
	ScoreGood = 75
	// ScoreStrong marks a match strong enough for "contact immediately"
	// language. Strictly-greater comparison.
	ScoreStrong = 80
)

// Score computes the weighted similarity between two items as an integer in
// [0,100]. A factor is evaluated only when the relevant field is non-empty on
// both sides; missing fields drop the factor from both the earned points and
// the normalization denominator, so incomplete reports degrade gracefully
// instead of being dragged toward zero. When no factor can be evaluated the
// score is 0.
func Score(a, b models.Item) int {
	points := 0.0
	weights := 0

	// 1. Category: exact match earns full weight, same group earns half.
	// The exact comparison is deliberately case-sensitive; the group check
	// is not.
	if a.Category != "" && b.Category != "" {
		if a.Category == b.Category {
			points += WeightCategory
		} else if CategoriesRelated(a.Category, b.Category) {
			points += WeightCategory / 2
		}
		weights += WeightCategory
	}

	// 2. Item name, fuzzy.
	if a.Name != "" && b.Name != "" {
		points += math.Round(Similarity(a.Name, b.Name) * WeightName)
		weights += WeightName
	}

	// 3. Color overlap between descriptions, 10 points per shared color.
	if a.Description != "" && b.Description != "" {
		if overlap := commonColorCount(a.Description, b.Description); overlap > 0 {
			earned := overlap * 10
			if earned > WeightColor {
				earned = WeightColor
			}
			points += float64(earned)
		}
		weights += WeightColor
	}

	// 4. Location, fuzzy.
	if a.Location != "" && b.Location != "" {
		points += math.Round(Similarity(a.Location, b.Location) * WeightLocation)
		weights += WeightLocation
	}

	// 5. Date proximity. Malformed dates drop the factor entirely.
	dateA, okA := models.ParseDate(a.Date)
	dateB, okB := models.ParseDate(b.Date)
	if okA && okB {
		points += float64(dateProximityPoints(daysApart(dateA, dateB)))
		weights += WeightDate
	}

	if weights == 0 {
		return 0
	}
	return int(math.Round(points / float64(weights) * 100))
}

func dateProximityPoints(days int) int {
	switch {
	case days <= 1:
		return WeightDate
	case days <= 3:
		return 10
	case days <= 7:
		return 5
	default:
		return 0
	}
}

// daysApart returns the absolute whole-day difference between two calendar
// dates. Both inputs come from ParseDate and sit at midnight UTC, so the
// division is exact.
func daysApart(a, b time.Time) int {
	days := int(a.Sub(b).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}
