package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lostfound/internal/models"
)

func statsRouter(h *ItemHandler, userID primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/users/me/stats", identityContext(userID, false), h.GetMyStats)
	return router
}

type statsResponse struct {
	Stats struct {
		LostItems     int `json:"lost_items"`
		FoundItems    int `json:"found_items"`
		ResolvedItems int `json:"resolved_items"`
		TotalReports  int `json:"total_reports"`
	} `json:"stats"`
}

func TestGetMyStats(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	items := &fakeItemRepo{items: []models.Item{
		{ID: primitive.NewObjectID(), OwnerID: owner, Type: models.ItemTypeLost, Status: models.ItemStatusActive},
		{ID: primitive.NewObjectID(), OwnerID: owner, Type: models.ItemTypeLost, Status: models.ItemStatusResolved},
		{ID: primitive.NewObjectID(), OwnerID: owner, Type: models.ItemTypeFound, Status: models.ItemStatusActive},
		{ID: primitive.NewObjectID(), OwnerID: other, Type: models.ItemTypeFound, Status: models.ItemStatusActive},
	}}
	h := NewItemHandler(items, nil)

	w := httptest.NewRecorder()
	statsRouter(h, owner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body statsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Stats.LostItems)
	assert.Equal(t, 1, body.Stats.FoundItems)
	assert.Equal(t, 1, body.Stats.ResolvedItems)
	assert.Equal(t, 3, body.Stats.TotalReports)
}

func TestGetMyStatsNoReports(t *testing.T) {
	h := NewItemHandler(&fakeItemRepo{}, nil)

	w := httptest.NewRecorder()
	statsRouter(h, primitive.NewObjectID()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body statsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Zero(t, body.Stats.TotalReports)
	assert.Zero(t, body.Stats.LostItems)
}
