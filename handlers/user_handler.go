package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"skillConnectAPI/internal/apperr"
	"skillConnectAPI/internal/user"
	"skillConnectAPI/middleware"
	"skillConnectAPI/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	email := mux.Vars(r)["email"]
	if email == "" {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "email is required")
		return
	}

	u, err := h.userService.GetUserByEmail(ctx, email)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    u,
	})
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	email := mux.Vars(r)["email"]
	if email == "" {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "email is required")
		return
	}

	// A user may only edit their own profile; admins can edit any.
	tokenEmail, _ := middleware.GetEmail(ctx)
	role, _ := middleware.GetRole(ctx)
	if tokenEmail != email && role != user.RoleAdmin {
		respondWithError(w, http.StatusForbidden, apperr.CodePolicy, "You can only update your own profile")
		return
	}

	var req user.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.userService.UpdateProfileByEmail(ctx, email, &req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile updated successfully",
		"user":    u,
	})
}
