package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nege373/namazingo/internal/types/campaign"
	"github.com/nege373/namazingo/internal/types/progress"
	"github.com/nege373/namazingo/services"
	"github.com/nege373/namazingo/storage"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	store := storage.NewMemoryStore()
	ctx := context.Background()

	progressHandler := NewProgressHandler(services.NewProgressService(ctx, store))
	campaignHandler := NewCampaignHandler(services.NewCampaignService(ctx, store))
	profileHandler := NewProfileHandler(services.NewProfileService(store))

	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/progress", progressHandler.GetProgress).Methods("GET")
	api.HandleFunc("/progress/prayer/toggle", progressHandler.TogglePrayer).Methods("POST")
	api.HandleFunc("/progress/prayer/undo", progressHandler.UndoPrayer).Methods("POST")
	api.HandleFunc("/progress/action", progressHandler.PerformAction).Methods("POST")
	api.HandleFunc("/progress/percent", progressHandler.GetDailyPercent).Methods("GET")
	api.HandleFunc("/campaigns", campaignHandler.ListCampaigns).Methods("GET")
	api.HandleFunc("/campaigns", campaignHandler.CreateCampaign).Methods("POST")
	api.HandleFunc("/campaigns/lookup", campaignHandler.LookupByCode).Methods("GET")
	api.HandleFunc("/campaigns/{id}", campaignHandler.GetCampaign).Methods("GET")
	api.HandleFunc("/campaigns/{id}/slots/claim", campaignHandler.ClaimSlot).Methods("POST")
	api.HandleFunc("/user/theme", profileHandler.GetTheme).Methods("GET")
	api.HandleFunc("/user/theme", profileHandler.SetTheme).Methods("PUT")

	return r
}

func doJSON(t *testing.T, r *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTogglePrayerEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/api/v1/progress/prayer/toggle", map[string]string{
		"date":   "2024-01-01",
		"prayer": "fajr",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var state progress.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, 20, state.User.TotalXP)
	require.Len(t, state.DailyRecords, 1)
	assert.True(t, state.DailyRecords[0].Prayers[progress.Fajr])
}

func TestTogglePrayerEndpointRejectsUnknownPrayer(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/api/v1/progress/prayer/toggle", map[string]string{
		"date":   "2024-01-01",
		"prayer": "brunch",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActionEndpointDefaultsAmount(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/api/v1/progress/action", map[string]interface{}{
		"date":   "2024-01-01",
		"action": "duaCount",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var state progress.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, 1, state.DailyRecords[0].Actions.DuaCount)
	assert.Equal(t, 5, state.User.TotalXP)
}

func TestActionEndpointExplicitZeroAmount(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/api/v1/progress/action", map[string]interface{}{
		"date":   "2024-01-01",
		"action": "duaCount",
		"amount": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var state progress.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, 0, state.DailyRecords[0].Actions.DuaCount)
	assert.Equal(t, 0, state.User.TotalXP)
}

func TestCampaignEndpoints(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/api/v1/campaigns", map[string]interface{}{
		"title": "Hatim",
		"type":  "QURAN",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created campaign.Campaign
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created.Slots, 30)

	claimPath := fmt.Sprintf("/api/v1/campaigns/%s/slots/claim", created.ID)
	rec = doJSON(t, r, "POST", claimPath, map[string]interface{}{"slotIndex": 1, "name": "Ahmet"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Claiming the same slot again conflicts and leaves state alone.
	rec = doJSON(t, r, "POST", claimPath, map[string]interface{}{"slotIndex": 1, "name": "Ayşe"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, r, "GET", "/api/v1/campaigns/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched campaign.Campaign
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "Ahmet", fetched.Slots[0].TakenByName)

	rec = doJSON(t, r, "GET", "/api/v1/campaigns/lookup?code="+created.ShareCode, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, "GET", "/api/v1/campaigns/lookup?code=ZZZZZZ", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, r, "GET", "/api/v1/campaigns/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCampaignValidationStatus(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/api/v1/campaigns", map[string]interface{}{
		"title": "",
		"type":  "QURAN",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestThemeEndpoints(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "GET", "/api/v1/user/theme", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"theme":"light"}`, rec.Body.String())

	rec = doJSON(t, r, "PUT", "/api/v1/user/theme", map[string]string{"theme": "dark"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, "GET", "/api/v1/user/theme", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"theme":"dark"}`, rec.Body.String())

	rec = doJSON(t, r, "PUT", "/api/v1/user/theme", map[string]string{"theme": "sepia"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
