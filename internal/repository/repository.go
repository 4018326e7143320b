// Package repository defines the persistence boundary of the matching
// engine. The engine and handlers depend on these interfaces only; the Mongo
// implementations live alongside them. The per-(recipient, item) uniqueness
// invariant for notifications is enforced here, at the storage layer, because
// the engine keeps no memory across invocations.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"lostfound/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("not owned by caller")
	ErrDuplicate = errors.New("already exists")
)

type ItemRepository interface {
	Insert(ctx context.Context, item *models.Item) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error)
	// ListActive returns active items, newest first, excluding the given ID.
	// Pass primitive.NilObjectID to exclude nothing.
	ListActive(ctx context.Context, exclude primitive.ObjectID) ([]models.Item, error)
	ListAll(ctx context.Context) ([]models.Item, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Item, error)
	// Resolve transitions an item from active to resolved. Only the owner may
	// do this; anyone else gets ErrForbidden.
	Resolve(ctx context.Context, id, owner primitive.ObjectID) error
}

// NotificationListOptions narrows a recipient's notification listing.
type NotificationListOptions struct {
	Page       int
	Limit      int
	UnreadOnly bool
	// Since hides notifications created before the recipient registered.
	Since time.Time
}

type NotificationRepository interface {
	// InsertUnique persists a notification unless one already exists for the
	// same (recipient, item) pair, in which case it reports false with no
	// error. Retried fan-outs are therefore safe to re-run.
	InsertUnique(ctx context.Context, n *models.Notification) (bool, error)
	ListFor(ctx context.Context, user primitive.ObjectID, opts NotificationListOptions) ([]models.Notification, error)
	UnreadCount(ctx context.Context, user primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, id, user primitive.ObjectID) error
	MarkAllRead(ctx context.Context, user primitive.ObjectID) (int64, error)
	ListAll(ctx context.Context) ([]models.Notification, error)
}

type UserRepository interface {
	Insert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ListIDs(ctx context.Context) ([]primitive.ObjectID, error)
}
