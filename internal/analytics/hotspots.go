// Package analytics derives corpus-level signals from the item history:
// per-location loss/recovery statistics and per-user behaviour analysis.
// All computations run on demand over a full snapshot; nothing is persisted
// or updated incrementally.
package analytics

import (
	"sort"

	"github.com/montanaflynn/stats"

	"lostfound/internal/models"
)

// Thresholds for classifying a location as risky or productive.
const (
	HighRiskLossProbability = 60
	HighRecoveryRate        = 50
)

// LocationStat aggregates all reports (any status) for one location.
// Grouping is by the exact location string: two spellings of the same place
// are distinct buckets. That is a known simplification, kept deliberately so
// reported statistics stay comparable over time.
type LocationStat struct {
	Location     string `json:"location"`
	LostCount    int    `json:"loss_count"`
	FoundCount   int    `json:"recovery_count"`
	TotalReports int    `json:"total_reports"`

	// LossProbability is lost/total*100, rounded.
	LossProbability int `json:"loss_probability"`
	// RecoveryRate is found/lost*100, rounded; defined as 0 when no lost
	// reports exist for the location.
	RecoveryRate int `json:"recovery_rate"`
}

// HotspotSummary carries corpus-wide aggregates for the reporting UI.
type HotspotSummary struct {
	Locations           int     `json:"locations"`
	MeanLossProbability float64 `json:"mean_loss_probability"`
	MedianReports       float64 `json:"median_reports"`
}

type HotspotReport struct {
	PerLocation  []LocationStat `json:"hotspots"`
	HighRisk     []LocationStat `json:"high_risk_locations"`
	HighRecovery []LocationStat `json:"high_recovery_locations"`
	Summary      HotspotSummary `json:"summary"`
}

// AnalyzeHotspots groups the full item corpus by location and computes loss
// and recovery statistics per bucket. Results are ordered by total report
// count, busiest first; equal counts fall back to location name so output is
// deterministic.
func AnalyzeHotspots(items []models.Item) HotspotReport {
	type bucket struct {
		lost  int
		found int
	}
	buckets := make(map[string]*bucket)
	for _, item := range items {
		b := buckets[item.Location]
		if b == nil {
			b = &bucket{}
			buckets[item.Location] = b
		}
		if item.Type == models.ItemTypeLost {
			b.lost++
		} else {
			b.found++
		}
	}

	perLocation := make([]LocationStat, 0, len(buckets))
	for location, b := range buckets {
		total := b.lost + b.found
		stat := LocationStat{
			Location:        location,
			LostCount:       b.lost,
			FoundCount:      b.found,
			TotalReports:    total,
			LossProbability: roundedPercent(b.lost, total),
		}
		if b.lost > 0 {
			stat.RecoveryRate = roundedPercent(b.found, b.lost)
		}
		perLocation = append(perLocation, stat)
	}

	sort.Slice(perLocation, func(i, j int) bool {
		if perLocation[i].TotalReports != perLocation[j].TotalReports {
			return perLocation[i].TotalReports > perLocation[j].TotalReports
		}
		return perLocation[i].Location < perLocation[j].Location
	})

	report := HotspotReport{PerLocation: perLocation}
	for _, stat := range perLocation {
		if stat.LossProbability > HighRiskLossProbability {
			report.HighRisk = append(report.HighRisk, stat)
		}
		if stat.RecoveryRate > HighRecoveryRate {
			report.HighRecovery = append(report.HighRecovery, stat)
		}
	}
	report.Summary = summarize(perLocation)
	return report
}

func summarize(perLocation []LocationStat) HotspotSummary {
	summary := HotspotSummary{Locations: len(perLocation)}
	if len(perLocation) == 0 {
		return summary
	}

	probabilities := make([]float64, len(perLocation))
	totals := make([]float64, len(perLocation))
	for i, stat := range perLocation {
		probabilities[i] = float64(stat.LossProbability)
		totals[i] = float64(stat.TotalReports)
	}

	summary.MeanLossProbability, _ = stats.Mean(probabilities)
	summary.MedianReports, _ = stats.Median(totals)
	return summary
}

// LocationRisk computes the loss-risk percentage for a single location:
// the share of its reports that are lost items, 0 when the location has no
// lost reports at all.
func LocationRisk(location string, items []models.Item) int {
	lost, found := 0, 0
	for _, item := range items {
		if item.Location != location {
			continue
		}
		if item.Type == models.ItemTypeLost {
			lost++
		} else {
			found++
		}
	}
	if lost == 0 {
		return 0
	}
	return roundedPercent(lost, lost+found)
}

func roundedPercent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(float64(part)/float64(whole)*100 + 0.5)
}
