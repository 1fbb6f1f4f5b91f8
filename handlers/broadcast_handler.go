package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"skillConnectAPI/internal/apperr"
	"skillConnectAPI/internal/notification"
	"skillConnectAPI/middleware"
	"skillConnectAPI/services"
)

type BroadcastHandler struct {
	broadcastService *services.BroadcastService
}

func NewBroadcastHandler(broadcastService *services.BroadcastService) *BroadcastHandler {
	return &BroadcastHandler{broadcastService: broadcastService}
}

// SendMessage is the admin broadcast endpoint. The whole fan-out runs
// synchronously within this request; a bulk send is bounded by the
// per-batch cap so the 30s timeout is comfortable.
func (h *BroadcastHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	adminID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "adminId is required")
		return
	}

	var req notification.BroadcastRequest
	req.AdminID = adminID
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.broadcastService.Broadcast(ctx, &req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *BroadcastHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "userId is required")
		return
	}

	notifications, err := h.broadcastService.GetNotifications(ctx, userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"notifications": notifications,
	})
}

func (h *BroadcastHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "userId is required")
		return
	}

	if err := h.broadcastService.MarkAllRead(ctx, userID); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "All notifications marked read",
	})
}
