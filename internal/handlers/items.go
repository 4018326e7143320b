// internal/handlers/items.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"lostfound/internal/models"
	"lostfound/internal/repository"
	"lostfound/internal/services"
	"lostfound/pkg/validator"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ItemHandler struct {
	items   repository.ItemRepository
	matcher *services.MatchService
}

type CreateItemRequest struct {
	Type        string `json:"type" binding:"required,oneof=lost found"`
	Category    string `json:"category" binding:"required,max=50"`
	Name        string `json:"item_name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=1000"`
	Location    string `json:"location" binding:"required,max=200"`
	Date        string `json:"date" binding:"required"`
	ContactInfo string `json:"contact_info" binding:"max=200"`
	Image       string `json:"image,omitempty"`
}

func NewItemHandler(items repository.ItemRepository, matcher *services.MatchService) *ItemHandler {
	return &ItemHandler{
		items:   items,
		matcher: matcher,
	}
}

// CreateItem stores a new report and runs the matching pipeline for it.
// The response carries the fan-out summary so the client can show "we found
// N possible matches" immediately.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	userID, _ := c.Get("user_id")

	item := models.Item{
		OwnerID:     userID.(primitive.ObjectID),
		Type:        req.Type,
		Category:    req.Category,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		ContactInfo: req.ContactInfo,
		Image:       req.Image,
		Status:      models.ItemStatusActive,
		CreatedAt:   time.Now(),
	}

	// Model-level validation catches what binding tags cannot, like the
	// date format.
	if err := validator.Validate(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid item data",
			"details": err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.items.Insert(ctx, &item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error creating item",
		})
		return
	}

	result, err := h.matcher.ProcessNewItem(ctx, item)
	if err != nil {
		// The report itself is saved; matching can be retried later.
		c.JSON(http.StatusCreated, gin.H{
			"item":          item,
			"match_warning": "Matching could not be completed",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"item":    item,
		"matches": result.Matches,
		"notifications": gin.H{
			"created": result.Created,
			"skipped": result.Skipped,
			"failed":  result.Failed,
		},
	})
}

// GetItems returns all active reports, newest first.
func (h *ItemHandler) GetItems(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	items, err := h.items.ListActive(ctx, primitive.NilObjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error fetching items",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetMyItems returns the caller's own reports, resolved ones included.
func (h *ItemHandler) GetMyItems(c *gin.Context) {
	userID, _ := c.Get("user_id")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	items, err := h.items.ListByOwner(ctx, userID.(primitive.ObjectID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error fetching items",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetMyStats returns the caller's lifetime report counters for the profile
// stats card.
func (h *ItemHandler) GetMyStats(c *gin.Context) {
	userID, _ := c.Get("user_id")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	items, err := h.items.ListByOwner(ctx, userID.(primitive.ObjectID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error fetching items",
		})
		return
	}

	lost, found, resolved := 0, 0, 0
	for _, item := range items {
		if item.Type == models.ItemTypeLost {
			lost++
		} else {
			found++
		}
		if item.Status == models.ItemStatusResolved {
			resolved++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"lost_items":     lost,
			"found_items":    found,
			"resolved_items": resolved,
			"total_reports":  len(items),
		},
	})
}

// ResolveItem marks one of the caller's reports as resolved. Resolved items
// drop out of future match runs.
func (h *ItemHandler) ResolveItem(c *gin.Context) {
	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	userID, _ := c.Get("user_id")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = h.items.Resolve(ctx, itemID, userID.(primitive.ObjectID))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Item not found",
		})
	case errors.Is(err, repository.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Only the owner can resolve an item",
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error resolving item",
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message": "Item resolved successfully",
		})
	}
}
