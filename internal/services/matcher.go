// Package services orchestrates the matching engine against persistence and
// delivery. The engine packages (matching, notifications, analytics) stay
// pure; everything with a side effect happens here.
package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lostfound/internal/analytics"
	"lostfound/internal/matching"
	"lostfound/internal/models"
	"lostfound/internal/notifications"
	"lostfound/internal/repository"
)

// LocationRiskAlertMin gates the location_risk fan-out: only locations whose
// loss risk exceeds this percentage trigger an alert for everyone.
const LocationRiskAlertMin = 60

// Deliverer pushes a persisted notification toward the recipient in real
// time. Delivery is best effort; the stored notification is the durable copy.
type Deliverer interface {
	Deliver(n models.Notification)
}

// FanoutResult summarizes one match-and-notify run. Failed counts recipients
// whose notification could not be persisted; the run itself still succeeds.
type FanoutResult struct {
	Matches []matching.Candidate `json:"matches"`
	Created int                  `json:"created"`
	Skipped int                  `json:"skipped"`
	Failed  int                  `json:"failed"`
}

type MatchService struct {
	items         repository.ItemRepository
	notifications repository.NotificationRepository
	users         repository.UserRepository

	threshold int
	dailyCap  int

	deliverers []Deliverer
	log        *logrus.Entry
}

func NewMatchService(
	items repository.ItemRepository,
	notificationsRepo repository.NotificationRepository,
	users repository.UserRepository,
	threshold, dailyCap int,
	log *logrus.Entry,
	deliverers ...Deliverer,
) *MatchService {
	if dailyCap <= 0 {
		dailyCap = notifications.DefaultDailyCap
	}
	return &MatchService{
		items:         items,
		notifications: notificationsRepo,
		users:         users,
		threshold:     threshold,
		dailyCap:      dailyCap,
		deliverers:    deliverers,
		log:           log,
	}
}

// ProcessNewItem runs the full pipeline for a freshly reported item:
// match it against every active report of the opposite type, notify the
// owners of matched reports, broadcast the new report to everyone else, and
// raise a location risk alert when the item's location is running hot.
//
// The snapshot of candidates and recipients is taken once, up front; reports
// arriving during the run are picked up by their own runs. Persistence
// failures for individual recipients are logged and counted, never fatal.
func (s *MatchService) ProcessNewItem(ctx context.Context, item models.Item) (FanoutResult, error) {
	var result FanoutResult

	candidates, err := s.items.ListActive(ctx, item.ID)
	if err != nil {
		return result, fmt.Errorf("failed to load candidates: %w", err)
	}
	recipients, err := s.users.ListIDs(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load recipients: %w", err)
	}

	matches, err := matching.FindMatches(item, candidates, s.threshold)
	if err != nil {
		return result, fmt.Errorf("match run failed: %w", err)
	}
	result.Matches = matches

	batch := s.buildBatch(ctx, item, matches, recipients)
	batch = notifications.Pipeline(batch, s.dailyCap)

	for _, n := range batch {
		created, err := s.notifications.InsertUnique(ctx, &n)
		if err != nil {
			result.Failed++
			s.log.WithError(err).WithFields(logrus.Fields{
				"user_id": n.UserID.Hex(),
				"kind":    n.Kind,
			}).Error("Failed to persist notification")
			continue
		}
		if !created {
			result.Skipped++
			continue
		}
		result.Created++
		s.deliver(n)
	}

	s.log.WithFields(logrus.Fields{
		"item_id": item.ID.Hex(),
		"matches": len(matches),
		"created": result.Created,
		"skipped": result.Skipped,
		"failed":  result.Failed,
	}).Info("Match run complete")

	return result, nil
}

func (s *MatchService) buildBatch(ctx context.Context, item models.Item, matches []matching.Candidate, recipients []primitive.ObjectID) []models.Notification {
	var batch []models.Notification

	// Match notifications go to the owners of the matched existing reports.
	// The referenced item is always the found side of the pair.
	for _, match := range matches {
		foundItem, lostItem := item, match.Item
		if item.Type == models.ItemTypeLost {
			foundItem, lostItem = match.Item, item
		}
		if n := notifications.BuildMatch(match.Item.OwnerID, foundItem, lostItem, match.Score); n != nil {
			batch = append(batch, *n)
		}
	}

	// Broadcast to everyone except the reporter.
	for _, recipient := range recipients {
		if recipient == item.OwnerID {
			continue
		}
		batch = append(batch, *notifications.BuildBroadcast(recipient, item))
	}

	// Location risk is computed over the full corpus, resolved items included,
	// so one resolved burst of losses keeps the area flagged for a while.
	if item.Type == models.ItemTypeLost {
		corpus, err := s.items.ListAll(ctx)
		if err != nil {
			s.log.WithError(err).Warn("Skipping location risk check")
			return batch
		}
		if risk := analytics.LocationRisk(item.Location, corpus); risk > LocationRiskAlertMin {
			for _, recipient := range recipients {
				batch = append(batch, *notifications.BuildLocationRisk(recipient, item.Location, risk))
			}
		}
	}

	return batch
}

// NotifyHotspots analyzes the full corpus and alerts every user about
// locations currently classified as high risk. Intended to be triggered by a
// moderator, not on every report.
func (s *MatchService) NotifyHotspots(ctx context.Context) (FanoutResult, error) {
	var result FanoutResult

	corpus, err := s.items.ListAll(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load items: %w", err)
	}
	recipients, err := s.users.ListIDs(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load recipients: %w", err)
	}

	report := analytics.AnalyzeHotspots(corpus)

	var batch []models.Notification
	for _, stat := range report.HighRisk {
		for _, recipient := range recipients {
			if n := notifications.BuildHotspot(recipient, stat); n != nil {
				batch = append(batch, *n)
			}
		}
	}
	batch = notifications.Pipeline(batch, s.dailyCap)

	for _, n := range batch {
		created, err := s.notifications.InsertUnique(ctx, &n)
		if err != nil {
			result.Failed++
			s.log.WithError(err).Error("Failed to persist hotspot notification")
			continue
		}
		if !created {
			result.Skipped++
			continue
		}
		result.Created++
		s.deliver(n)
	}

	s.log.WithFields(logrus.Fields{
		"high_risk": len(report.HighRisk),
		"created":   result.Created,
	}).Info("Hotspot scan complete")

	return result, nil
}

func (s *MatchService) deliver(n models.Notification) {
	for _, d := range s.deliverers {
		d.Deliver(n)
	}
}
