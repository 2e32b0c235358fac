package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touristique/touristique/internal/app/models"
)

func TestRequestPlanPostsProfileDerivedBody(t *testing.T) {
	var got planRequestBody
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/plan", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"itinerary":[{"day":1,"city":"Delhi","cost":1000}],"total_cost":1000}`))
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, nil)
	profile := models.UserProfile{
		Interests:    []string{"Historical", "Adventure"},
		DurationDays: 3,
		Budget:       20000,
		StartCity:    "Mumbai",
	}

	resp, err := c.RequestPlan(context.Background(), profile)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Len(t, resp.Itinerary, 1)

	assert.Equal(t, []string{"Historical", "Adventure"}, got.Preferences)
	assert.Equal(t, 3, got.Duration)
	assert.Equal(t, 20000.0, got.Budget)
	assert.Equal(t, "Mumbai", got.StartCity)
}

func TestRequestPlanWithoutBaseURLIsOffline(t *testing.T) {
	c := NewHTTPClient("", nil)

	resp, err := c.RequestPlan(context.Background(), models.DefaultProfile())
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestRequestPlanNonOKStatusIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, nil)
	_, err := c.RequestPlan(context.Background(), models.DefaultProfile())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestAskQuestionReturnsAnswer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ask", r.URL.Path)
		var body askRequestBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "best month for Jaipur?", body.Question)
		w.Write([]byte(`{"answer":"October to March."}`))
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, nil)
	resp, err := c.AskQuestion(context.Background(), "best month for Jaipur?", models.DefaultProfile())
	require.NoError(t, err)
	assert.Equal(t, "October to March.", resp.Answer)
}

func TestFetchRecommendationsPassesUserID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recommendations", r.URL.Path)
		assert.Equal(t, "sub-1", r.URL.Query().Get("userId"))
		w.Write([]byte(`[{"id":"r1","day":1,"place":"Qutub Minar","cost":500}]`))
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, nil)
	items, err := c.FetchRecommendations(context.Background(), "sub-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Qutub Minar", items[0].Place)
}

func TestFetchTripsDecodesFeed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/trips", r.URL.Path)
		w.Write([]byte(`[{"id":"t1","title":"Golden Triangle","subtitle":"Delhi, Agra, Jaipur"}]`))
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, nil)
	items, err := c.FetchTrips(context.Background(), "sub-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Golden Triangle", items[0].Title)
}
