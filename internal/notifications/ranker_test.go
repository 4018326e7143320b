package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lostfound/internal/models"
)

func matchNotification(user primitive.ObjectID, score int) models.Notification {
	itemID := primitive.NewObjectID()
	return models.Notification{
		UserID:          user,
		ItemID:          &itemID,
		Kind:            models.NotificationKindMatchFound,
		SimilarityScore: score,
		ActionRequired:  true,
		CreatedAt:       time.Now(),
	}
}

func broadcastNotification(user primitive.ObjectID, createdAt time.Time) models.Notification {
	itemID := primitive.NewObjectID()
	return models.Notification{
		UserID:    user,
		ItemID:    &itemID,
		Kind:      models.NotificationKindFoundReport,
		CreatedAt: createdAt,
	}
}

func TestPrioritizeMatchesFirst(t *testing.T) {
	user := primitive.NewObjectID()
	batch := []models.Notification{
		broadcastNotification(user, time.Now()),
		matchNotification(user, 70),
		matchNotification(user, 90),
	}

	ordered := Prioritize(batch)
	require.Len(t, ordered, 3)

	assert.True(t, ordered[0].IsMatch())
	assert.Equal(t, 90, ordered[0].SimilarityScore)
	assert.Equal(t, 70, ordered[1].SimilarityScore)
	assert.False(t, ordered[2].IsMatch())
}

func TestPrioritizeDoesNotMutateInput(t *testing.T) {
	user := primitive.NewObjectID()
	batch := []models.Notification{
		broadcastNotification(user, time.Now()),
		matchNotification(user, 90),
	}

	Prioritize(batch)
	assert.False(t, batch[0].IsMatch())
}

func TestPrioritizeNewestFirstAmongEquals(t *testing.T) {
	user := primitive.NewObjectID()
	older := broadcastNotification(user, time.Now().Add(-time.Hour))
	newer := broadcastNotification(user, time.Now())

	ordered := Prioritize([]models.Notification{older, newer})
	assert.True(t, ordered[0].CreatedAt.After(ordered[1].CreatedAt))
}

func TestDeduplicateKeepsFirst(t *testing.T) {
	user := primitive.NewObjectID()
	first := matchNotification(user, 90)
	duplicate := first
	duplicate.SimilarityScore = 70

	deduped := Deduplicate([]models.Notification{first, duplicate})
	require.Len(t, deduped, 1)
	assert.Equal(t, 90, deduped[0].SimilarityScore)
}

func TestDeduplicateDistinguishesRecipients(t *testing.T) {
	itemID := primitive.NewObjectID()
	a := models.Notification{UserID: primitive.NewObjectID(), ItemID: &itemID, Kind: models.NotificationKindMatchFound}
	b := models.Notification{UserID: primitive.NewObjectID(), ItemID: &itemID, Kind: models.NotificationKindMatchFound}

	assert.Len(t, Deduplicate([]models.Notification{a, b}), 2)
}

func TestDeduplicateLocationAlerts(t *testing.T) {
	user := primitive.NewObjectID()
	a := models.Notification{UserID: user, Kind: models.NotificationKindLocation, Location: "Park"}
	b := models.Notification{UserID: user, Kind: models.NotificationKindLocation, Location: "Park"}
	c := models.Notification{UserID: user, Kind: models.NotificationKindLocation, Location: "Station"}

	deduped := Deduplicate([]models.Notification{a, b, c})
	assert.Len(t, deduped, 2)
}

func TestCap(t *testing.T) {
	user := primitive.NewObjectID()
	batch := []models.Notification{
		broadcastNotification(user, time.Now()),
		broadcastNotification(user, time.Now()),
		broadcastNotification(user, time.Now()),
	}

	assert.Len(t, Cap(batch, 2), 2)
	assert.Len(t, Cap(batch, 10), 3)
	assert.Empty(t, Cap(batch, 0))
	assert.Empty(t, Cap(batch, -1))
}

func TestPipelineOrderOfOperations(t *testing.T) {
	user := primitive.NewObjectID()

	match := matchNotification(user, 95)
	duplicate := match
	broadcasts := []models.Notification{
		broadcastNotification(user, time.Now()),
		broadcastNotification(user, time.Now()),
	}

	// The duplicate match is listed last, but prioritization runs before
	// deduplication, so the pair collapses and the match still wins the cap.
	batch := append(broadcasts, match, duplicate)
	result := Pipeline(batch, 2)

	require.Len(t, result, 2)
	assert.True(t, result[0].IsMatch())
	assert.False(t, result[1].IsMatch())
}
