package handlers

import (
	"context"
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

func insightsRouter(h *InsightsHandler, moderator primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(identityContext(moderator, true))
	router.GET("/insights/users/:id/behavior", h.AnalyzeUser)
	router.GET("/insights/items/:id/predictions", h.PredictLocations)
	return router
}

// conflictingItems makes the target trip the conflicting-reports heuristic,
// which forces NeedsReview.
func conflictingItems(target primitive.ObjectID) []models.Item {
	return []models.Item{
		{ID: primitive.NewObjectID(), OwnerID: target, Type: models.ItemTypeLost, Location: "Station", ContactInfo: "x"},
		{ID: primitive.NewObjectID(), OwnerID: target, Type: models.ItemTypeFound, Location: "Station", ContactInfo: "x"},
	}
}

func fraudAlerts(stored []models.Notification) []models.Notification {
	var alerts []models.Notification
	for _, n := range stored {
		if n.Kind == models.NotificationKindFraud {
			alerts = append(alerts, n)
		}
	}
	return alerts
}

func TestAnalyzeUserStoresSingleFraudAlert(t *testing.T) {
	moderator := primitive.NewObjectID()
	target := primitive.NewObjectID()

	items := &fakeItemRepo{items: conflictingItems(target)}
	notificationsRepo := newFakeNotificationRepo()
	h := NewInsightsHandler(items, notificationsRepo, nil, testLogger())

	router := insightsRouter(h, moderator)
	path := "/insights/users/" + target.Hex() + "/behavior"

	// Repeated analysis of the same user must not pile up alerts.
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	alerts := fraudAlerts(notificationsRepo.stored)
	require.Len(t, alerts, 1)
	assert.Equal(t, moderator, alerts[0].UserID)
	require.NotNil(t, alerts[0].SubjectID)
	assert.Equal(t, target, *alerts[0].SubjectID)
	assert.True(t, alerts[0].ActionRequired)
}

func TestAnalyzeUserReAlertsAfterRead(t *testing.T) {
	moderator := primitive.NewObjectID()
	target := primitive.NewObjectID()

	items := &fakeItemRepo{items: conflictingItems(target)}
	notificationsRepo := newFakeNotificationRepo()
	h := NewInsightsHandler(items, notificationsRepo, nil, testLogger())

	router := insightsRouter(h, moderator)
	path := "/insights/users/" + target.Hex() + "/behavior"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, fraudAlerts(notificationsRepo.stored), 1)

	// Once the moderator has handled the alert, a fresh analysis may raise
	// a new one.
	first := fraudAlerts(notificationsRepo.stored)[0]
	require.NoError(t, notificationsRepo.MarkRead(context.Background(), first.ID, moderator))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, fraudAlerts(notificationsRepo.stored), 2)
}

func TestAnalyzeUserSurvivesAlertInsertFailure(t *testing.T) {
	moderator := primitive.NewObjectID()
	target := primitive.NewObjectID()

	items := &fakeItemRepo{items: conflictingItems(target)}
	notificationsRepo := newFakeNotificationRepo()
	notificationsRepo.failInsert = true
	h := NewInsightsHandler(items, notificationsRepo, nil, testLogger())

	router := insightsRouter(h, moderator)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/insights/users/"+target.Hex()+"/behavior", nil))

	// The analysis is still the response; the alert is best effort.
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "needs_review")
	assert.Empty(t, notificationsRepo.stored)
}

func TestPredictLocationsEndpoint(t *testing.T) {
	owner := primitive.NewObjectID()
	lost := models.Item{
		ID:       primitive.NewObjectID(),
		OwnerID:  owner,
		Type:     models.ItemTypeLost,
		Category: "Electronics",
		Location: "Cafe",
		Date:     "2024-01-15",
		Status:   models.ItemStatusActive,
	}
	found := models.Item{
		ID:       primitive.NewObjectID(),
		OwnerID:  primitive.NewObjectID(),
		Type:     models.ItemTypeFound,
		Category: "Electronics",
		Location: "Station",
		Date:     "2024-01-16",
		Status:   models.ItemStatusActive,
	}

	items := &fakeItemRepo{items: []models.Item{lost, found}}
	h := NewInsightsHandler(items, newFakeNotificationRepo(), nil, testLogger())
	router := insightsRouter(h, owner)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/insights/items/"+lost.ID.Hex()+"/predictions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		ItemID     string `json:"item_id"`
		Prediction *struct {
			Predictions []struct {
				Location   string `json:"location"`
				Confidence int    `json:"confidence"`
			} `json:"predictions"`
		} `json:"prediction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, lost.ID.Hex(), body.ItemID)
	require.NotNil(t, body.Prediction)
	require.Len(t, body.Prediction.Predictions, 1)
	assert.Equal(t, "Station", body.Prediction.Predictions[0].Location)
	assert.Equal(t, 100, body.Prediction.Predictions[0].Confidence)
}

func TestPredictLocationsRejectsFoundItem(t *testing.T) {
	found := models.Item{
		ID:       primitive.NewObjectID(),
		OwnerID:  primitive.NewObjectID(),
		Type:     models.ItemTypeFound,
		Category: "Electronics",
		Location: "Station",
		Date:     "2024-01-16",
		Status:   models.ItemStatusActive,
	}

	items := &fakeItemRepo{items: []models.Item{found}}
	h := NewInsightsHandler(items, newFakeNotificationRepo(), nil, testLogger())
	router := insightsRouter(h, primitive.NewObjectID())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/insights/items/"+found.ID.Hex()+"/predictions", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictLocationsUnknownItem(t *testing.T) {
	h := NewInsightsHandler(&fakeItemRepo{}, newFakeNotificationRepo(), nil, testLogger())
	router := insightsRouter(h, primitive.NewObjectID())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/insights/items/"+primitive.NewObjectID().Hex()+"/predictions", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
