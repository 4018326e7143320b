package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lostfound/internal/models"
)

func lostPhone() models.Item {
	return models.Item{
		ID:       primitive.NewObjectID(),
		Type:     models.ItemTypeLost,
		Category: "Electronics",
		Name:     "iPhone",
		Status:   models.ItemStatusActive,
	}
}

func foundPhone(name string) models.Item {
	return models.Item{
		ID:       primitive.NewObjectID(),
		Type:     models.ItemTypeFound,
		Category: "Electronics",
		Name:     name,
		Status:   models.ItemStatusActive,
	}
}

func TestFindMatchesInvalidThreshold(t *testing.T) {
	_, err := FindMatches(lostPhone(), nil, -1)
	assert.Error(t, err)

	_, err = FindMatches(lostPhone(), nil, 101)
	assert.Error(t, err)
}

func TestFindMatchesFilters(t *testing.T) {
	target := lostPhone()

	sameType := lostPhone()
	resolved := foundPhone("iPhone")
	resolved.Status = models.ItemStatusResolved
	self := foundPhone("iPhone")
	self.ID = target.ID

	matches, err := FindMatches(target, []models.Item{sameType, resolved, self}, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindMatchesThresholdAndOrder(t *testing.T) {
	target := lostPhone()

	perfect := foundPhone("iPhone")
	close := foundPhone("iPhane")
	far := foundPhone("Umbrella stand")

	matches, err := FindMatches(target, []models.Item{far, close, perfect}, 90)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, perfect.ID, matches[0].Item.ID)
	assert.Equal(t, close.ID, matches[1].Item.ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
	assert.Equal(t, 100, matches[0].Score)
}

func TestFindMatchesCap(t *testing.T) {
	target := lostPhone()

	var candidates []models.Item
	for i := 0; i < MaxMatches+3; i++ {
		candidates = append(candidates, foundPhone("iPhone"))
	}

	matches, err := FindMatches(target, candidates, 60)
	require.NoError(t, err)
	assert.Len(t, matches, MaxMatches)
}

func TestFindMatchesStableOnTies(t *testing.T) {
	target := lostPhone()

	first := foundPhone("iPhone")
	second := foundPhone("iPhone")

	matches, err := FindMatches(target, []models.Item{first, second}, 60)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Equal scores keep input order.
	assert.Equal(t, first.ID, matches[0].Item.ID)
	assert.Equal(t, second.ID, matches[1].Item.ID)
}
