// internal/matching/finder.go
package matching

import (
	"fmt"
	"sort"

	"lostfound/internal/models"
)

// MaxMatches caps how many candidates a single match run may return.
const MaxMatches = 5

// Candidate pairs an existing item with its similarity score against the
// target. Candidates are ephemeral: they are computed per match run and
// consumed immediately to build notifications.
type Candidate struct {
	Item  models.Item `json:"item"`
	Score int         `json:"similarity"`
}

// FindMatches scores the target against every candidate and returns the top
// matches, best first, capped at MaxMatches. Only active items of the
// opposite type are considered; the target itself and same-type items are
// filtered out rather than scored low. Candidates scoring below the threshold
// are dropped. Ties keep the candidates' input order (stable sort); there is
// no secondary sort key.
//
// A threshold outside [0,100] is a caller error and is rejected outright.
func FindMatches(target models.Item, candidates []models.Item, threshold int) ([]Candidate, error) {
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("match threshold %d outside [0,100]", threshold)
	}

	var matches []Candidate
	for _, candidate := range candidates {
		if candidate.ID == target.ID {
			continue
		}
		if candidate.Type == target.Type {
			continue
		}
		if !candidate.IsActive() {
			continue
		}

		if score := Score(target, candidate); score >= threshold {
			matches = append(matches, Candidate{Item: candidate, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > MaxMatches {
		matches = matches[:MaxMatches]
	}
	return matches, nil
}
