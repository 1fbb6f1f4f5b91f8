package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"skillConnectAPI/internal/apperr"
	"skillConnectAPI/internal/upload"
	"skillConnectAPI/services"
)

// maxUploadSize caps multipart bodies at 10 MB.
const maxUploadSize = 10 << 20

type UploadHandler struct {
	uploadService *services.UploadService
	userService   *services.UserService
}

func NewUploadHandler(uploadService *services.UploadService, userService *services.UserService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		userService:   userService,
	}
}

func (h *UploadHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, upload.KindResume)
}

func (h *UploadHandler) UploadProfilePhoto(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, upload.KindProfilePhoto)
}

func (h *UploadHandler) UploadPaymentScreenshot(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, upload.KindPaymentScreenshot)
}

func (h *UploadHandler) UploadQRCode(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, upload.KindQRCode)
}

func (h *UploadHandler) handleUpload(w http.ResponseWriter, r *http.Request, kind string) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "Invalid multipart form or file too large")
		return
	}

	email := r.FormValue("email")
	if email == "" {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "email is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "No file uploaded")
		return
	}
	defer file.Close()

	up, err := h.uploadService.Save(ctx, kind, email, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if kind == upload.KindProfilePhoto {
		if err := h.userService.SetPhotoURL(ctx, email, up.MinioURL); err != nil {
			log.Printf("UploadHandler: failed to set photo url for %s: %v", email, err)
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "File uploaded successfully",
		"url":     up.MinioURL,
	})
}

func (h *UploadHandler) GetResume(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	email := mux.Vars(r)["email"]
	if email == "" {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "email is required")
		return
	}

	up, err := h.uploadService.GetResume(ctx, email)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"resume":  up,
	})
}
