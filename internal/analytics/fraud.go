// internal/analytics/fraud.go
package analytics

import (
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"lostfound/internal/matching"
	"lostfound/internal/models"
)

// Flag severities and risk levels.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"

	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Behaviour heuristics. These are string/counting heuristics over the
// report history, not a trained model.
const (
	rapidReportMinItems  = 5
	rapidReportAvgGap    = time.Hour
	missingContactLimit  = 2
	excessiveClaimsLimit = 3

	copiedDescriptionSimilarity = 0.9
	suspiciousClaimWindow       = 5 * time.Minute
)

type BehaviorFlag struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type BehaviorReport struct {
	UserID      primitive.ObjectID `json:"user_id"`
	RiskLevel   string             `json:"risk_level"`
	Flags       []BehaviorFlag     `json:"flags"`
	NeedsReview bool               `json:"needs_review"`
}

// AnalyzeBehavior inspects one user's reports and notifications for
// suspicious patterns: bursts of reports, lost+found pairs at the same
// location, habitual missing contact info, and repeated claims on a single
// item. The output feeds fraud_alert notifications for moderators.
func AnalyzeBehavior(userID primitive.ObjectID, items []models.Item, notifications []models.Notification) BehaviorReport {
	var userItems []models.Item
	for _, item := range items {
		if item.OwnerID == userID {
			userItems = append(userItems, item)
		}
	}

	var flags []BehaviorFlag

	if flag, ok := rapidReportingFlag(userItems); ok {
		flags = append(flags, flag)
	}
	flags = append(flags, conflictingReportFlags(userItems)...)

	missingContact := 0
	for _, item := range userItems {
		if item.ContactInfo == "" {
			missingContact++
		}
	}
	if missingContact > missingContactLimit {
		flags = append(flags, BehaviorFlag{
			Type:     "missing_contact",
			Severity: SeverityLow,
			Message:  "Multiple reports with no contact info",
		})
	}

	claims := make(map[primitive.ObjectID]int)
	for _, n := range notifications {
		if n.UserID == userID && n.ItemID != nil {
			claims[*n.ItemID]++
		}
	}
	for _, count := range claims {
		if count > excessiveClaimsLimit {
			flags = append(flags, BehaviorFlag{
				Type:     "excessive_claims",
				Severity: SeverityHigh,
				Message:  "Multiple claims on a single item",
			})
			break
		}
	}

	report := BehaviorReport{UserID: userID, Flags: flags, RiskLevel: RiskLow}
	switch {
	case len(flags) > 2:
		report.RiskLevel = RiskHigh
	case len(flags) > 0:
		report.RiskLevel = RiskMedium
	}
	for _, flag := range flags {
		if flag.Severity == SeverityHigh {
			report.NeedsReview = true
			break
		}
	}
	return report
}

func rapidReportingFlag(userItems []models.Item) (BehaviorFlag, bool) {
	if len(userItems) < rapidReportMinItems {
		return BehaviorFlag{}, false
	}

	times := make([]time.Time, len(userItems))
	for i, item := range userItems {
		times[i] = item.CreatedAt
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	var total time.Duration
	for i := 1; i < len(times); i++ {
		total += times[i].Sub(times[i-1])
	}
	avg := total / time.Duration(len(times)-1)
	if avg >= rapidReportAvgGap {
		return BehaviorFlag{}, false
	}
	return BehaviorFlag{
		Type:     "rapid_reporting",
		Severity: SeverityMedium,
		Message:  "Multiple items reported in quick succession",
	}, true
}

func conflictingReportFlags(userItems []models.Item) []BehaviorFlag {
	type typesSeen struct{ lost, found bool }
	locations := make(map[string]*typesSeen)
	for _, item := range userItems {
		seen := locations[item.Location]
		if seen == nil {
			seen = &typesSeen{}
			locations[item.Location] = seen
		}
		if item.Type == models.ItemTypeLost {
			seen.lost = true
		} else {
			seen.found = true
		}
	}

	// Deterministic output order for tests and logs.
	names := make([]string, 0, len(locations))
	for name := range locations {
		names = append(names, name)
	}
	sort.Strings(names)

	var flags []BehaviorFlag
	for _, name := range names {
		if seen := locations[name]; seen.lost && seen.found {
			flags = append(flags, BehaviorFlag{
				Type:     "conflicting_reports",
				Severity: SeverityHigh,
				Message:  fmt.Sprintf("Reported both lost and found items at %s", name),
			})
		}
	}
	return flags
}

type ClaimCheck struct {
	Valid           bool           `json:"is_valid"`
	Issues          []BehaviorFlag `json:"issues"`
	RecommendReview bool           `json:"recommends_review"`
}

// ValidateClaim sanity-checks a claim report against the original item:
// a description lifted almost verbatim from the original, or a claim filed
// within minutes of the report, both point at someone working from the
// listing rather than from memory.
func ValidateClaim(claim, original models.Item) ClaimCheck {
	var issues []BehaviorFlag

	if matching.Similarity(claim.Description, original.Description) > copiedDescriptionSimilarity {
		issues = append(issues, BehaviorFlag{
			Type:     "copied_description",
			Severity: SeverityHigh,
			Message:  "Claim description is nearly identical to the original report",
		})
	}

	gap := claim.CreatedAt.Sub(original.CreatedAt)
	if gap >= 0 && gap < suspiciousClaimWindow {
		issues = append(issues, BehaviorFlag{
			Type:     "suspicious_timing",
			Severity: SeverityHigh,
			Message:  "Claim filed within minutes of the original report",
		})
	}

	return ClaimCheck{
		Valid:           len(issues) == 0,
		Issues:          issues,
		RecommendReview: len(issues) > 0,
	}
}
