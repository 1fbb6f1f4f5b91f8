package handlers

import (
	"context"
	"net/http"
	"time"

	"skillConnectAPI/internal/donation"
	"skillConnectAPI/services"
)

type DonationHandler struct {
	donationService *services.DonationService
}

func NewDonationHandler(donationService *services.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

func (h *DonationHandler) GetOrphanages(w http.ResponseWriter, r *http.Request) {
	h.listCauses(w, r, donation.TypeOrphan)
}

func (h *DonationHandler) GetOldAgeHomes(w http.ResponseWriter, r *http.Request) {
	h.listCauses(w, r, donation.TypeOldAge)
}

func (h *DonationHandler) listCauses(w http.ResponseWriter, r *http.Request, causeType string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	causes, err := h.donationService.GetCauses(ctx, causeType)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"causes":  causes,
	})
}

func (h *DonationHandler) Donate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req donation.DonateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	d, err := h.donationService.Donate(ctx, &req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"message":  "Donation recorded. Thank you!",
		"donation": d,
	})
}
