package handlers

// In-memory repository fakes and request helpers shared by the handler
// tests. They mirror the Mongo implementations' contracts, including the
// per-(recipient, item) uniqueness rule for notifications.

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lostfound/internal/models"
	"lostfound/internal/repository"
)

type fakeItemRepo struct {
	items []models.Item
}

func (f *fakeItemRepo) Insert(_ context.Context, item *models.Item) error {
	if item.ID == primitive.NilObjectID {
		item.ID = primitive.NewObjectID()
	}
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeItemRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Item, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			item := f.items[i]
			return &item, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeItemRepo) ListActive(_ context.Context, exclude primitive.ObjectID) ([]models.Item, error) {
	var out []models.Item
	for _, item := range f.items {
		if item.ID != exclude && item.IsActive() {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) ListAll(_ context.Context) ([]models.Item, error) {
	return append([]models.Item(nil), f.items...), nil
}

func (f *fakeItemRepo) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Item, error) {
	var out []models.Item
	for _, item := range f.items {
		if item.OwnerID == owner {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) Resolve(_ context.Context, id, owner primitive.ObjectID) error {
	for i := range f.items {
		if f.items[i].ID == id {
			if f.items[i].OwnerID != owner {
				return repository.ErrForbidden
			}
			f.items[i].Status = models.ItemStatusResolved
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeNotificationRepo struct {
	stored     []models.Notification
	seen       map[string]bool
	failInsert bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{seen: make(map[string]bool)}
}

func (f *fakeNotificationRepo) InsertUnique(_ context.Context, n *models.Notification) (bool, error) {
	if f.failInsert {
		return false, errors.New("injected failure")
	}
	if n.ItemID != nil {
		key := n.UserID.Hex() + "|" + n.ItemID.Hex()
		if f.seen[key] {
			return false, nil
		}
		f.seen[key] = true
	}
	n.ID = primitive.NewObjectID()
	f.stored = append(f.stored, *n)
	return true, nil
}

func (f *fakeNotificationRepo) ListFor(_ context.Context, user primitive.ObjectID, opts repository.NotificationListOptions) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.stored {
		if n.UserID != user {
			continue
		}
		if opts.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotificationRepo) UnreadCount(_ context.Context, user primitive.ObjectID) (int64, error) {
	var count int64
	for _, n := range f.stored {
		if n.UserID == user && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, user primitive.ObjectID) error {
	for i := range f.stored {
		if f.stored[i].ID == id && f.stored[i].UserID == user {
			f.stored[i].IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, user primitive.ObjectID) (int64, error) {
	var updated int64
	for i := range f.stored {
		if f.stored[i].UserID == user && !f.stored[i].IsRead {
			f.stored[i].IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (f *fakeNotificationRepo) ListAll(_ context.Context) ([]models.Notification, error) {
	return append([]models.Notification(nil), f.stored...), nil
}

// identityContext stands in for AuthMiddleware in handler tests.
func identityContext(userID primitive.ObjectID, moderator bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("is_moderator", moderator)
		c.Next()
	}
}

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
