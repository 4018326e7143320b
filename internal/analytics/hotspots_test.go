package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lostfound/internal/models"
)

func itemAt(location, itemType string) models.Item {
	return models.Item{Type: itemType, Location: location}
}

func TestAnalyzeHotspots(t *testing.T) {
	items := []models.Item{
		itemAt("Library", models.ItemTypeLost),
		itemAt("Library", models.ItemTypeLost),
		itemAt("Library", models.ItemTypeLost),
		itemAt("Library", models.ItemTypeFound),
		itemAt("Cafe", models.ItemTypeFound),
	}

	report := AnalyzeHotspots(items)
	require.Len(t, report.PerLocation, 2)

	// Busiest location first.
	library := report.PerLocation[0]
	assert.Equal(t, "Library", library.Location)
	assert.Equal(t, 3, library.LostCount)
	assert.Equal(t, 1, library.FoundCount)
	assert.Equal(t, 4, library.TotalReports)
	assert.Equal(t, 75, library.LossProbability)
	assert.Equal(t, 33, library.RecoveryRate)

	cafe := report.PerLocation[1]
	assert.Equal(t, "Cafe", cafe.Location)
	assert.Equal(t, 0, cafe.LossProbability)
	// No lost reports means recovery rate is defined as zero.
	assert.Equal(t, 0, cafe.RecoveryRate)

	require.Len(t, report.HighRisk, 1)
	assert.Equal(t, "Library", report.HighRisk[0].Location)
	assert.Empty(t, report.HighRecovery)

	assert.Equal(t, 2, report.Summary.Locations)
	assert.InDelta(t, 37.5, report.Summary.MeanLossProbability, 0.001)
	assert.InDelta(t, 2.5, report.Summary.MedianReports, 0.001)
}

func TestAnalyzeHotspotsEmpty(t *testing.T) {
	report := AnalyzeHotspots(nil)
	assert.Empty(t, report.PerLocation)
	assert.Equal(t, 0, report.Summary.Locations)
}

func TestAnalyzeHotspotsExactStringGrouping(t *testing.T) {
	items := []models.Item{
		itemAt("Central Park", models.ItemTypeLost),
		itemAt("central park", models.ItemTypeLost),
	}

	// Spelling variants are distinct buckets on purpose.
	report := AnalyzeHotspots(items)
	assert.Len(t, report.PerLocation, 2)
}

func TestLocationRisk(t *testing.T) {
	items := []models.Item{
		itemAt("Library", models.ItemTypeLost),
		itemAt("Library", models.ItemTypeLost),
		itemAt("Library", models.ItemTypeLost),
		itemAt("Library", models.ItemTypeFound),
		itemAt("Cafe", models.ItemTypeFound),
	}

	assert.Equal(t, 75, LocationRisk("Library", items))
	assert.Equal(t, 0, LocationRisk("Cafe", items))
	assert.Equal(t, 0, LocationRisk("Nowhere", items))
}

func TestHighRecoveryClassification(t *testing.T) {
	items := []models.Item{
		itemAt("Station", models.ItemTypeLost),
		itemAt("Station", models.ItemTypeFound),
		itemAt("Station", models.ItemTypeFound),
	}

	report := AnalyzeHotspots(items)
	require.Len(t, report.PerLocation, 1)
	// 2 found / 1 lost = 200% recovery, comfortably above the bar.
	assert.Equal(t, 200, report.PerLocation[0].RecoveryRate)
	assert.Len(t, report.HighRecovery, 1)
}
