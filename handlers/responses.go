package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"skillConnectAPI/internal/apperr"
)

var validate = validator.New()

// Helper functions shared by all handlers.

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false, "error": "INTERNAL_ERROR", "message": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, errCode, message string) {
	respondWithJSON(w, code, map[string]interface{}{
		"success": false,
		"error":   errCode,
		"message": message,
	})
}

// respondWithAppError maps the service error taxonomy onto the wire.
// Unknown errors collapse to a generic 500 with the detail logged, not
// leaked.
func respondWithAppError(w http.ResponseWriter, err error) {
	appErr := apperr.From(err)
	if appErr.Code == apperr.CodeInternal {
		log.Printf("internal error: %v", err)
	}

	body := map[string]interface{}{
		"success": false,
		"error":   appErr.Code,
		"message": appErr.Message,
	}
	for k, v := range appErr.Data {
		body[k] = v
	}
	respondWithJSON(w, appErr.Status, body)
}

// decodeAndValidate parses a JSON body into req and runs struct
// validation. Returns false after writing the 400 response.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, "Invalid request body")
		return false
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, apperr.CodeValidation, err.Error())
		return false
	}
	return true
}
