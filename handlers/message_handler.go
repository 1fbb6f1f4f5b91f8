package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"skillConnectAPI/internal/apperr"
	"skillConnectAPI/internal/message"
	"skillConnectAPI/services"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) SendUserMessage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req message.SendMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	msg, err := h.messageService.SendUserMessage(ctx, &req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Message sent",
		"data":    msg,
	})
}

func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	senderID := vars["senderId"]
	receiverID := vars["receiverId"]
	if senderID == "" || receiverID == "" {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "senderId and receiverId are required")
		return
	}

	messages, err := h.messageService.GetMessages(ctx, senderID, receiverID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"messages": messages,
	})
}

func (h *MessageHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "userId is required")
		return
	}

	conversations, err := h.messageService.GetConversations(ctx, userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"conversations": conversations,
	})
}
