package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopcore/internal/handlers"
	"shopcore/internal/routes"
	"shopcore/internal/services"
)

type stubResets struct {
	requestErr error
	verifyErr  error
	resetErr   error

	gotEmail    string
	gotOTP      string
	gotToken    string
	gotPassword string
}

func (s *stubResets) RequestReset(email string) (int, error) {
	s.gotEmail = email
	if s.requestErr != nil {
		return 0, s.requestErr
	}
	return 600, nil
}

func (s *stubResets) VerifyOTP(email, otp string) (string, int, error) {
	s.gotEmail, s.gotOTP = email, otp
	if s.verifyErr != nil {
		return "", 0, s.verifyErr
	}
	return "token123", 900, nil
}

func (s *stubResets) ResetPassword(email, token, password string) error {
	s.gotEmail, s.gotToken, s.gotPassword = email, token, password
	return s.resetErr
}

type stubInvoices struct {
	err error
}

func (s *stubInvoices) EmailInvoice(id int64, recipient string) error { return s.err }

func newRouter(resets services.PasswordResetService, invoices services.InvoiceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	return routes.SetupRoutes(r,
		handlers.NewPasswordResetHandler(resets),
		handlers.NewInvoiceHandler(invoices),
	)
}

func doJSON(t *testing.T, r *gin.Engine, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestRequestReset_OK(t *testing.T) {
	stub := &stubResets{}
	r := newRouter(stub, &stubInvoices{})

	w, resp := doJSON(t, r, "/api/v1/auth/request-password-reset", gin.H{"email": "user@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(600), data["expiresIn"])
	assert.Equal(t, "user@example.com", stub.gotEmail)
}

func TestRequestReset_Cooldown(t *testing.T) {
	stub := &stubResets{requestErr: &services.RateLimitedError{Msg: "wait", RetryAfterSeconds: 42}}
	r := newRouter(stub, &stubInvoices{})

	w, resp := doJSON(t, r, "/api/v1/auth/request-password-reset", gin.H{"email": "user@example.com"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, false, resp["success"])
	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(42), data["retryAfter"])
}

func TestRequestReset_MissingEmail(t *testing.T) {
	stub := &stubResets{requestErr: &services.ValidationError{Msg: "email is required"}}
	r := newRouter(stub, &stubInvoices{})

	w, resp := doJSON(t, r, "/api/v1/auth/request-password-reset", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email is required", resp["message"])
}

func TestResendOTP_SameAsRequest(t *testing.T) {
	stub := &stubResets{}
	r := newRouter(stub, &stubInvoices{})

	w, resp := doJSON(t, r, "/api/v1/auth/resend-otp", gin.H{"email": "user@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
}

func TestVerifyOTP_OK(t *testing.T) {
	stub := &stubResets{}
	r := newRouter(stub, &stubInvoices{})

	w, resp := doJSON(t, r, "/api/v1/auth/verify-otp", gin.H{"email": "user@example.com", "otp": "123456"})
	assert.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "token123", data["resetToken"])
	assert.Equal(t, float64(900), data["expiresIn"])
}

func TestVerifyOTP_NumericCodeCoerced(t *testing.T) {
	stub := &stubResets{}
	r := newRouter(stub, &stubInvoices{})

	// clients send the code as a bare JSON number too
	w, _ := doJSON(t, r, "/api/v1/auth/verify-otp", gin.H{"email": "user@example.com", "otp": 123456})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "123456", stub.gotOTP)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	stub := &stubResets{verifyErr: &services.InvalidCodeError{RemainingAttempts: 3}}
	r := newRouter(stub, &stubInvoices{})

	w, resp := doJSON(t, r, "/api/v1/auth/verify-otp", gin.H{"email": "user@example.com", "otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(3), data["remainingAttempts"])
}

func TestVerifyOTP_AttemptsExhausted(t *testing.T) {
	stub := &stubResets{verifyErr: &services.RateLimitedError{Msg: "too many attempts"}}
	r := newRouter(stub, &stubInvoices{})

	w, _ := doJSON(t, r, "/api/v1/auth/verify-otp", gin.H{"email": "user@example.com", "otp": "000000"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestVerifyOTP_Expired(t *testing.T) {
	stub := &stubResets{verifyErr: services.ErrInvalidOrExpired}
	r := newRouter(stub, &stubInvoices{})

	w, _ := doJSON(t, r, "/api/v1/auth/verify-otp", gin.H{"email": "user@example.com", "otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPassword_OK(t *testing.T) {
	stub := &stubResets{}
	r := newRouter(stub, &stubInvoices{})

	w, resp := doJSON(t, r, "/api/v1/auth/reset-password",
		gin.H{"email": "user@example.com", "resetToken": "token123", "newPassword": "Valid123"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "token123", stub.gotToken)
	assert.Equal(t, "Valid123", stub.gotPassword)
}

func TestResetPassword_WeakPassword(t *testing.T) {
	stub := &stubResets{resetErr: &services.WeakPasswordError{
		Violations: []string{"must be at least 8 characters", "must contain a digit"},
	}}
	r := newRouter(stub, &stubInvoices{})

	w, resp := doJSON(t, r, "/api/v1/auth/reset-password",
		gin.H{"email": "user@example.com", "resetToken": "token123", "newPassword": "weak"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	data := resp["data"].(map[string]any)
	assert.Len(t, data["violations"], 2)
}

func TestResetPassword_UserVanished(t *testing.T) {
	stub := &stubResets{resetErr: services.ErrUserNotFound}
	r := newRouter(stub, &stubInvoices{})

	w, _ := doJSON(t, r, "/api/v1/auth/reset-password",
		gin.H{"email": "user@example.com", "resetToken": "token123", "newPassword": "Valid123"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmailInvoice_NotFound(t *testing.T) {
	r := newRouter(&stubResets{}, &stubInvoices{err: services.ErrInvoiceNotFound})

	w, resp := doJSON(t, r, "/api/v1/invoices/42/email", gin.H{})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, resp["success"])
}

func TestEmailInvoice_BadID(t *testing.T) {
	r := newRouter(&stubResets{}, &stubInvoices{})

	w, _ := doJSON(t, r, "/api/v1/invoices/abc/email", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
