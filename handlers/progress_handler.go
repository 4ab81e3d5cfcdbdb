package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/nege373/namazingo/services"
)

type ProgressHandler struct {
	progressService *services.ProgressService
}

func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
	}
}

type prayerRequest struct {
	Date   string `json:"date"`
	Prayer string `json:"prayer"`
}

type qadhaRequest struct {
	Date   string `json:"date"`
	Prayer string `json:"prayer"`
	Count  int    `json:"count"`
}

type actionRequest struct {
	Date   string `json:"date"`
	Action string `json:"action"`
	Amount *int   `json:"amount"`
}

func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.progressService.State())
}

func (h *ProgressHandler) TogglePrayer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req prayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := h.progressService.TogglePrayer(ctx, req.Date, req.Prayer)
	if err != nil {
		respondWithError(w, statusFromError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, state)
}

func (h *ProgressHandler) UndoPrayer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req prayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := h.progressService.UndoPrayer(ctx, req.Date, req.Prayer)
	if err != nil {
		respondWithError(w, statusFromError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, state)
}

func (h *ProgressHandler) AddQadha(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req qadhaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := h.progressService.AddQadha(ctx, req.Date, req.Prayer, req.Count)
	if err != nil {
		respondWithError(w, statusFromError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, state)
}

func (h *ProgressHandler) PerformAction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	// The amount defaults to 1 only when the field is absent; an explicit
	// zero is passed through as-is.
	amount := 1
	if req.Amount != nil {
		amount = *req.Amount
	}

	state, err := h.progressService.PerformAction(ctx, req.Date, req.Action, amount)
	if err != nil {
		respondWithError(w, statusFromError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, state)
}

func (h *ProgressHandler) GetDailyPercent(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'date' must be YYYY-MM-DD")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"date":    date,
		"percent": h.progressService.DailyPercent(date),
	})
}

func (h *ProgressHandler) GetLastPercents(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 366 {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'days' must be between 1 and 366")
			return
		}
		days = parsed
	}

	respondWithJSON(w, http.StatusOK, h.progressService.LastNPercents(days))
}

func (h *ProgressHandler) GetWeeklyStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.progressService.WeeklyStats())
}

func (h *ProgressHandler) GetMonthlyStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.progressService.MonthlyStats())
}

func (h *ProgressHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.progressService.Leaderboard())
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrCampaignNotFound),
		errors.Is(err, services.ErrSlotNotFound),
		errors.Is(err, services.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSlotTaken),
		errors.Is(err, services.ErrAlreadyJoined):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
