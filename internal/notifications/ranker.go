// internal/notifications/ranker.go
package notifications

import (
	"sort"

	"lostfound/internal/models"
)

// DefaultDailyCap bounds how many notifications one fan-out may persist.
const DefaultDailyCap = 10

// Prioritize returns a copy of the batch ordered for delivery. The sort is
// stable and applies four keys in sequence: match_found notifications before
// everything else, higher similarity among matches, action-required before
// not, newest first otherwise.
func Prioritize(batch []models.Notification) []models.Notification {
	ordered := make([]models.Notification, len(batch))
	copy(ordered, batch)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]

		if a.IsMatch() != b.IsMatch() {
			return a.IsMatch()
		}
		if a.IsMatch() && b.IsMatch() && a.SimilarityScore != b.SimilarityScore {
			return a.SimilarityScore > b.SimilarityScore
		}
		if a.ActionRequired != b.ActionRequired {
			return a.ActionRequired
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return ordered
}

// Deduplicate drops notifications whose (recipient, kind, item-or-location)
// key was already seen, keeping the first occurrence. The result is order
// dependent, so the pipeline always prioritizes first: the surviving entry
// for each key is the highest-priority one.
func Deduplicate(batch []models.Notification) []models.Notification {
	seen := make(map[string]bool, len(batch))
	deduped := make([]models.Notification, 0, len(batch))
	for _, n := range batch {
		key := dedupKey(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, n)
	}
	return deduped
}

// Cap truncates an already-ranked batch to at most max entries.
func Cap(batch []models.Notification, max int) []models.Notification {
	if max < 0 {
		max = 0
	}
	if len(batch) <= max {
		return batch
	}
	return batch[:max]
}

// Pipeline applies the canonical batch treatment: prioritize, then
// deduplicate, then cap.
func Pipeline(batch []models.Notification, maxDaily int) []models.Notification {
	return Cap(Deduplicate(Prioritize(batch)), maxDaily)
}

func dedupKey(n models.Notification) string {
	ref := n.Location
	if n.ItemID != nil {
		ref = n.ItemID.Hex()
	}
	return n.UserID.Hex() + "|" + n.Kind + "|" + ref
}
