package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillConnectAPI/middleware"
)

// These tests cover the validation layer, which rejects bad input
// before any service or database call is made.

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestSignupRejectsMalformedJSON(t *testing.T) {
	h := NewAuthHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	h.Signup(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "VALIDATION_ERROR", body["error"])
}

func TestSignupRejectsUnknownStatus(t *testing.T) {
	h := NewAuthHandler(nil)

	payload := `{"email":"dev@example.com","password":"secret123","fullName":"Dev One","status":"studying"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	h.Signup(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	h := NewAuthHandler(nil)

	payload := `{"email":"dev@example.com","password":"abc","fullName":"Dev One","status":"employed"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	h.Signup(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoginRejectsMissingPassword(t *testing.T) {
	h := NewAuthHandler(nil)

	payload := `{"email":"dev@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSendMessageRejectsMissingFields(t *testing.T) {
	h := NewMessageHandler(nil)

	payload := `{"senderId":"u1","content":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/user-message/send", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	h.SendUserMessage(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "VALIDATION_ERROR", body["error"])
}

func TestDonateRejectsUnknownCauseType(t *testing.T) {
	h := NewDonationHandler(nil)

	payload := `{"type":"school","causeId":"c1","amount":100,"donorName":"Dev","donorEmail":"dev@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/donate", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	h.Donate(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDonateRejectsNonPositiveAmount(t *testing.T) {
	h := NewDonationHandler(nil)

	payload := `{"type":"orphan","causeId":"c1","amount":0,"donorName":"Dev","donorEmail":"dev@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/donate", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	h.Donate(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateProfileForbidsEditingOtherUsers(t *testing.T) {
	h := NewUserHandler(nil)

	req := httptest.NewRequest(http.MethodPut, "/user/other@example.com", strings.NewReader(`{"headline":"x"}`))
	req = mux.SetURLVars(req, map[string]string{"email": "other@example.com"})

	ctx := context.WithValue(req.Context(), middleware.EmailKey, "me@example.com")
	ctx = context.WithValue(ctx, middleware.RoleKey, "user")
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	h.UpdateProfile(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "POLICY_ERROR", body["error"])
}

func TestUpdateProfileAllowsAdminOnAnyProfile(t *testing.T) {
	h := NewUserHandler(nil)

	// Malformed body fails validation after the ownership check passes,
	// proving the admin role cleared the gate without a service call.
	req := httptest.NewRequest(http.MethodPut, "/user/other@example.com", strings.NewReader("{bad"))
	req = mux.SetURLVars(req, map[string]string{"email": "other@example.com"})

	ctx := context.WithValue(req.Context(), middleware.EmailKey, "admin@example.com")
	ctx = context.WithValue(ctx, middleware.RoleKey, "admin")
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	h.UpdateProfile(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "VALIDATION_ERROR", body["error"])
}

func TestRejectSubscriptionRequiresReason(t *testing.T) {
	h := NewSubscriptionHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/subscriptions/s1/reject", strings.NewReader(`{}`))
	req = mux.SetURLVars(req, map[string]string{"id": "s1"})

	ctx := context.WithValue(req.Context(), middleware.UserIDKey, "a1")
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	h.Reject(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBroadcastRequiresAdminID(t *testing.T) {
	h := NewBroadcastHandler(nil)

	payload := `{"title":"Update","content":"New features","status":"all"}`
	req := httptest.NewRequest(http.MethodPost, "/send-message", strings.NewReader(payload))

	rr := httptest.NewRecorder()
	h.SendMessage(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadRejectsMissingFile(t *testing.T) {
	h := NewUploadHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/upload-resume", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

	rr := httptest.NewRecorder()
	h.UploadResume(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
