// Package notifications builds notification records for the matching and
// broadcast pipelines and ranks batches before delivery. Builders are pure;
// persistence and the per-(recipient, item) uniqueness constraint live at the
// repository layer.
package notifications

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"lostfound/internal/analytics"
	"lostfound/internal/matching"
	"lostfound/internal/models"
)

// MinMatchScore is the floor below which no match notification is built.
// It happens to equal the finder's default threshold, but it is an
// independent knob: callers must not assume the two stay in sync.
const MinMatchScore = matching.ScoreEligible

// HotspotAlertMinProbability gates hotspot notifications: quieter locations
// are not worth an alert.
const HotspotAlertMinProbability = 50

// BuildMatch constructs a match_found notification for the recipient, or nil
// when the score is below MinMatchScore (low-quality matches are dropped, not
// delivered). The referenced item is always the found side of the pair; the
// lost side supplies context only. Messages above ScoreStrong switch to
// "strong match" wording.
func BuildMatch(recipient primitive.ObjectID, foundItem, lostItem models.Item, score int) *models.Notification {
	if score < MinMatchScore {
		return nil
	}

	confidence := ConfidenceLabel(score)

	var title, advice string
	if score > matching.ScoreStrong {
		title = fmt.Sprintf("%s match found for your report!", confidence)
		advice = "This is a strong match. Contact the reporter right away."
	} else {
		title = fmt.Sprintf("%s match found for your report", confidence)
		advice = "Review this match and get in touch if it looks right."
	}

	message := fmt.Sprintf(
		"A reported %s item matches your report.\nItem: %s\nLocation: %s\nDate: %s\nMatch confidence: %d%%\n%s",
		foundItem.Type, foundItem.Name, foundItem.Location, foundItem.Date, score, advice,
	)

	itemID := foundItem.ID
	return &models.Notification{
		UserID:          recipient,
		ItemID:          &itemID,
		ItemName:        foundItem.Name,
		Location:        foundItem.Location,
		Date:            foundItem.Date,
		Image:           foundItem.Image,
		Kind:            models.NotificationKindMatchFound,
		Title:           title,
		Message:         message,
		SimilarityScore: score,
		Confidence:      confidence,
		ActionRequired:  true,
		CreatedAt:       time.Now(),
	}
}

// BuildBroadcast constructs the plain "new item reported" notification used
// for the fan-out to all registered users. Unlike the match path it carries
// no score and is never action-required.
func BuildBroadcast(recipient primitive.ObjectID, item models.Item) *models.Notification {
	kind := models.NotificationKindLostReport
	if item.Type == models.ItemTypeFound {
		kind = models.NotificationKindFoundReport
	}

	itemID := item.ID
	return &models.Notification{
		UserID:    recipient,
		ItemID:    &itemID,
		ItemName:  item.Name,
		Location:  item.Location,
		Date:      item.Date,
		Image:     item.Image,
		Kind:      kind,
		Title:     fmt.Sprintf("New %s item reported", item.Type),
		Message:   fmt.Sprintf("A %s item has been reported: %s at %s", item.Type, item.Name, item.Location),
		CreatedAt: time.Now(),
	}
}

// BuildLocationRisk constructs a location_risk alert. These reference a
// location rather than an item.
func BuildLocationRisk(recipient primitive.ObjectID, location string, riskPercent int) *models.Notification {
	return &models.Notification{
		UserID:   recipient,
		Location: location,
		Kind:     models.NotificationKindLocation,
		Title:    "Location risk alert",
		Message: fmt.Sprintf(
			"High item loss reported in this area.\nLocation: %s\nLoss risk: %d%%\nKeep an eye on your belongings.",
			location, riskPercent,
		),
		CreatedAt: time.Now(),
	}
}

// BuildHotspot constructs a location_hotspot notification from an analyzer
// stat, or nil when the location is not significant enough to alert on.
func BuildHotspot(recipient primitive.ObjectID, stat analytics.LocationStat) *models.Notification {
	if stat.LossProbability < HotspotAlertMinProbability {
		return nil
	}

	return &models.Notification{
		UserID:   recipient,
		Location: stat.Location,
		Kind:     models.NotificationKindHotspot,
		Title:    fmt.Sprintf("Hotspot alert: %s", stat.Location),
		Message: fmt.Sprintf(
			"High item loss activity detected.\nLocation: %s\nLoss probability: %d%%\nRecent reports: %d",
			stat.Location, stat.LossProbability, stat.TotalReports,
		),
		CreatedAt: time.Now(),
	}
}

// BuildFraudAlert constructs a moderator-facing fraud_alert notification
// from a behaviour report. The flagged account goes into SubjectID so the
// alert can be traced (and deduplicated) per target.
func BuildFraudAlert(recipient primitive.ObjectID, report analytics.BehaviorReport) *models.Notification {
	action := "Monitor"
	if report.NeedsReview {
		action = "Manual review required"
	}

	subject := report.UserID
	return &models.Notification{
		UserID:    recipient,
		SubjectID: &subject,
		Kind:      models.NotificationKindFraud,
		Title:     "Suspicious activity detected",
		Message: fmt.Sprintf(
			"User activity flagged for review.\nRisk level: %s\nFlags: %d\nRecommended action: %s",
			report.RiskLevel, len(report.Flags), action,
		),
		ActionRequired: report.NeedsReview,
		CreatedAt:      time.Now(),
	}
}

// ConfidenceLabel maps a similarity score onto the user-facing confidence
// tiers.
func ConfidenceLabel(score int) string {
	switch {
	case score >= 90:
		return "Perfect"
	case score >= matching.ScoreStrong:
		return "High"
	case score >= 70:
		return "Good"
	case score >= matching.ScoreEligible:
		return "Fair"
	default:
		return "Low"
	}
}
