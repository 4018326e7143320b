// internal/analytics/predict.go
package analytics

import (
	"sort"
	"strings"
	"time"

	"lostfound/internal/models"
)

const (
	predictionWindowDays  = 7
	maxPredictedLocations = 3
)

// PredictedLocation is one candidate recovery spot for a lost item.
type PredictedLocation struct {
	Location          string `json:"location"`
	Confidence        int    `json:"confidence"`
	SimilarItemsFound int    `json:"similar_items_found"`
}

// LocationPrediction ranks the places where comparable found reports cluster.
type LocationPrediction struct {
	Predictions []PredictedLocation `json:"predictions"`
	Advice      string              `json:"advice"`
}

// PredictLocation suggests where a lost item might turn up: found reports in
// the same category filed within a week of the loss date, bucketed by
// location and ranked by frequency. Confidence is each bucket's share of the
// comparable reports. Returns nil when no comparable report exists, including
// when the lost item's own date cannot be parsed.
func PredictLocation(lostItem models.Item, items []models.Item) *LocationPrediction {
	lostDate, ok := models.ParseDate(lostItem.Date)
	if !ok {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	total := 0
	for _, item := range items {
		if item.Type != models.ItemTypeFound || !strings.EqualFold(item.Category, lostItem.Category) {
			continue
		}
		date, ok := models.ParseDate(item.Date)
		if !ok || daysBetween(lostDate, date) > predictionWindowDays {
			continue
		}
		if counts[item.Location] == 0 {
			order = append(order, item.Location)
		}
		counts[item.Location]++
		total++
	}
	if total == 0 {
		return nil
	}

	// Most frequent first; first-seen order breaks ties so output is stable.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxPredictedLocations {
		order = order[:maxPredictedLocations]
	}

	predictions := make([]PredictedLocation, len(order))
	for i, location := range order {
		predictions[i] = PredictedLocation{
			Location:          location,
			Confidence:        roundedPercent(counts[location], total),
			SimilarItemsFound: counts[location],
		}
	}

	return &LocationPrediction{
		Predictions: predictions,
		Advice:      "Based on similar items, these are likely places to search",
	}
}

func daysBetween(a, b time.Time) int {
	days := int(a.Sub(b).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}
