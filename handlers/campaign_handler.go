package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nege373/namazingo/internal/types/campaign"
	"github.com/nege373/namazingo/services"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
}

func NewCampaignHandler(campaignService *services.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
	}
}

func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.campaignService.Campaigns())
}

func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req campaign.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.campaignService.CreateCampaign(ctx, &req)
	if err != nil {
		respondWithError(w, statusFromError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	c, err := h.campaignService.CampaignByID(id)
	if err != nil {
		respondWithError(w, statusFromError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

func (h *CampaignHandler) ClaimSlot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := mux.Vars(r)["id"]

	var req campaign.ClaimSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.campaignService.ClaimSlot(ctx, id, req.SlotIndex, req.Name)
	if err != nil {
		respondWithError(w, statusFromError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

func (h *CampaignHandler) AddContribution(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := mux.Vars(r)["id"]

	var req campaign.AddContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.campaignService.AddContribution(ctx, id, req.Name, req.Count)
	if err != nil {
		respondWithError(w, statusFromError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

func (h *CampaignHandler) LookupByCode(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'code' is required")
		return
	}

	c, err := h.campaignService.FindByShareCode(code)
	if err != nil {
		respondWithError(w, statusFromError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

func (h *CampaignHandler) JoinByCode(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req campaign.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.campaignService.JoinByShareCode(ctx, req.Code)
	if err != nil {
		respondWithError(w, statusFromError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}
