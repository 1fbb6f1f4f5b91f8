package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"skillConnectAPI/internal/apperr"
	"skillConnectAPI/internal/subscription"
	"skillConnectAPI/middleware"
	"skillConnectAPI/services"
)

type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
	emailService        *services.EmailService
}

func NewSubscriptionHandler(subscriptionService *services.SubscriptionService, emailService *services.EmailService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		emailService:        emailService,
	}
}

func (h *SubscriptionHandler) GetPlans(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	plans, err := h.subscriptionService.GetPlans(ctx)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"plans":   plans,
	})
}

func (h *SubscriptionHandler) RequestSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req subscription.RequestSubscription
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sub, paymentQR, err := h.subscriptionService.RequestSubscription(ctx, &req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success":      true,
		"message":      "Subscription request submitted for approval",
		"subscription": sub,
		"paymentQr":    paymentQR,
	})
}

func (h *SubscriptionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	subscriptionID := mux.Vars(r)["id"]
	adminID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "adminId is required")
		return
	}

	email, sub, err := h.subscriptionService.Approve(ctx, subscriptionID, adminID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	// The approval email is quota-gated and best-effort; the approval
	// itself has already committed.
	if err := h.emailService.SendLogged(ctx, email,
		"Your Skill Connect premium is active",
		"Your subscription request was approved. Premium features are now unlocked.",
	); err != nil {
		log.Printf("SubscriptionHandler: approval email to %s failed: %v", email, err)
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      "Subscription approved",
		"subscription": sub,
		"userEmail":    email,
	})
}

func (h *SubscriptionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	subscriptionID := mux.Vars(r)["id"]
	adminID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "adminId is required")
		return
	}

	req := subscription.RejectRequest{AdminID: adminID}
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.subscriptionService.Reject(ctx, subscriptionID, req.AdminID, req.Reason); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Subscription rejected",
	})
}

func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "userId is required")
		return
	}

	if err := h.subscriptionService.Cancel(ctx, userID); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Subscription cancelled",
	})
}

func (h *SubscriptionHandler) CheckPremium(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "userId is required")
		return
	}

	isPremium, sub, err := h.subscriptionService.CheckPremium(ctx, userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"isPremium":    isPremium,
		"subscription": sub,
	})
}
