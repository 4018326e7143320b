// internal/handlers/insights.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"lostfound/internal/analytics"
	"lostfound/internal/models"
	"lostfound/internal/notifications"
	"lostfound/internal/repository"
	"lostfound/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InsightsHandler exposes the analytics layer: location hotspots, per-location
// risk, recovery-location predictions, and the moderator-only behaviour
// analysis.
type InsightsHandler struct {
	items             repository.ItemRepository
	notificationsRepo repository.NotificationRepository
	matcher           *services.MatchService
	log               *logrus.Entry
}

func NewInsightsHandler(
	items repository.ItemRepository,
	notificationsRepo repository.NotificationRepository,
	matcher *services.MatchService,
	log *logrus.Entry,
) *InsightsHandler {
	return &InsightsHandler{
		items:             items,
		notificationsRepo: notificationsRepo,
		matcher:           matcher,
		log:               log,
	}
}

// GetHotspots returns the full hotspot report over every report ever filed.
func (h *InsightsHandler) GetHotspots(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	items, err := h.items.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error fetching items",
		})
		return
	}

	c.JSON(http.StatusOK, analytics.AnalyzeHotspots(items))
}

// GetLocationRisk returns the loss-risk percentage for one location.
func (h *InsightsHandler) GetLocationRisk(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Location is required",
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	items, err := h.items.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error fetching items",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"location":     location,
		"risk_percent": analytics.LocationRisk(location, items),
	})
}

// PredictLocations suggests where one of the caller's lost items might turn
// up, based on recent found reports in the same category. A null prediction
// means no comparable report exists yet.
func (h *InsightsHandler) PredictLocations(c *gin.Context) {
	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	item, err := h.items.FindByID(ctx, itemID)
	if err != nil {
		h.itemLookupError(c, err)
		return
	}
	if item.Type != models.ItemTypeLost {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Predictions are only available for lost items",
		})
		return
	}

	items, err := h.items.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error fetching items",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item_id":    itemID.Hex(),
		"prediction": analytics.PredictLocation(*item, items),
	})
}

// NotifyHotspots triggers the hotspot alert fan-out. Moderator only.
func (h *InsightsHandler) NotifyHotspots(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := h.matcher.NotifyHotspots(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error sending hotspot alerts",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Hotspot alerts sent",
		"created": result.Created,
		"skipped": result.Skipped,
		"failed":  result.Failed,
	})
}

// AnalyzeUser runs the behaviour heuristics for one user. Moderator only.
// When the report calls for manual review, a fraud_alert notification is
// stored for the requesting moderator so the case shows up in their feed.
func (h *InsightsHandler) AnalyzeUser(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID",
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	items, err := h.items.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error fetching items",
		})
		return
	}
	allNotifications, err := h.notificationsRepo.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error fetching notifications",
		})
		return
	}

	report := analytics.AnalyzeBehavior(targetID, items, allNotifications)

	if report.NeedsReview {
		moderatorID := c.MustGet("user_id").(primitive.ObjectID)
		h.storeFraudAlert(ctx, moderatorID, report)
	}

	c.JSON(http.StatusOK, report)
}

// storeFraudAlert files a fraud_alert into the moderator's feed. Fraud
// alerts carry no item reference, so the storage-layer uniqueness index
// cannot collapse repeats; instead an open (unread) alert for the same
// subject suppresses a new one. Failures are logged and swallowed: the
// analysis response is the primary result.
func (h *InsightsHandler) storeFraudAlert(ctx context.Context, moderatorID primitive.ObjectID, report analytics.BehaviorReport) {
	open, err := h.notificationsRepo.ListFor(ctx, moderatorID, repository.NotificationListOptions{
		UnreadOnly: true,
		Limit:      100,
	})
	if err != nil {
		h.log.WithError(err).Warn("could not check for open fraud alerts")
	}
	for _, n := range open {
		if n.Kind == models.NotificationKindFraud && n.SubjectID != nil && *n.SubjectID == report.UserID {
			return
		}
	}

	alert := notifications.BuildFraudAlert(moderatorID, report)
	if _, err := h.notificationsRepo.InsertUnique(ctx, alert); err != nil {
		h.log.WithError(err).
			WithField("subject_id", report.UserID.Hex()).
			Error("failed to store fraud alert")
	}
}

// ValidateClaim cross-checks a claim report against the original item it
// claims. Moderator only.
func (h *InsightsHandler) ValidateClaim(c *gin.Context) {
	type ValidateClaimRequest struct {
		ClaimItemID    string `json:"claim_item_id" binding:"required"`
		OriginalItemID string `json:"original_item_id" binding:"required"`
	}

	var req ValidateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	claimID, err := primitive.ObjectIDFromHex(req.ClaimItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid claim item ID",
		})
		return
	}
	originalID, err := primitive.ObjectIDFromHex(req.OriginalItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid original item ID",
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claim, err := h.items.FindByID(ctx, claimID)
	if err != nil {
		h.itemLookupError(c, err)
		return
	}
	original, err := h.items.FindByID(ctx, originalID)
	if err != nil {
		h.itemLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics.ValidateClaim(*claim, *original))
}

func (h *InsightsHandler) itemLookupError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Item not found",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Error fetching item",
	})
}
