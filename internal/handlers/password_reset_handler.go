package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopcore/internal/services"
)

type PasswordResetHandler struct {
	resets services.PasswordResetService
}

func NewPasswordResetHandler(resets services.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{resets: resets}
}

// @Summary      Request a password reset code
// @Description  Sends a one-time code by email. Always answers success for unknown accounts.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      object{email=string}  true  "Account email"
// @Success      200      {object}  handlers.Response
// @Failure      400      {object}  handlers.Response
// @Failure      429      {object}  handlers.Response
// @Router       /auth/request-password-reset [post]
func (h *PasswordResetHandler) RequestReset(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	expiresIn, err := h.resets.RequestReset(req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, "if the account exists, a verification code has been sent", gin.H{"expiresIn": expiresIn})
}

// @Summary      Resend the password reset code
// @Description  Same behavior and limits as requesting a code.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      object{email=string}  true  "Account email"
// @Success      200      {object}  handlers.Response
// @Failure      400      {object}  handlers.Response
// @Failure      429      {object}  handlers.Response
// @Router       /auth/resend-otp [post]
func (h *PasswordResetHandler) ResendOTP(c *gin.Context) {
	h.RequestReset(c)
}

// @Summary      Verify the reset code
// @Description  Exchanges a valid one-time code for a short-lived reset token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      object{email=string,otp=string}  true  "Email and code"
// @Success      200      {object}  handlers.Response
// @Failure      400      {object}  handlers.Response
// @Failure      429      {object}  handlers.Response
// @Router       /auth/verify-otp [post]
func (h *PasswordResetHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		OTP   any    `json:"otp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	token, expiresIn, err := h.resets.VerifyOTP(req.Email, coerceString(req.OTP))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, "code verified", gin.H{"resetToken": token, "expiresIn": expiresIn})
}

// @Summary      Set a new password
// @Description  Consumes the reset token issued by verify-otp. Single use.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      object{email=string,resetToken=string,newPassword=string}  true  "Email, token, new password"
// @Success      200      {object}  handlers.Response
// @Failure      400      {object}  handlers.Response
// @Failure      404      {object}  handlers.Response
// @Router       /auth/reset-password [post]
func (h *PasswordResetHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email"`
		ResetToken  string `json:"resetToken"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := h.resets.ResetPassword(req.Email, req.ResetToken, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, "password has been reset", nil)
}
