package routes

import (
	"github.com/gin-gonic/gin"

	"shopcore/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	passwordResetHandler *handlers.PasswordResetHandler,
	invoiceHandler *handlers.InvoiceHandler,
) *gin.Engine {
	api := r.Group("/api/v1")

	// ---- public recovery flow
	auth := api.Group("/auth")
	{
		auth.POST("/request-password-reset", passwordResetHandler.RequestReset)
		auth.POST("/verify-otp", passwordResetHandler.VerifyOTP)
		auth.POST("/reset-password", passwordResetHandler.ResetPassword)
		auth.POST("/resend-otp", passwordResetHandler.ResendOTP)
	}

	// INVOICES
	invoices := api.Group("/invoices")
	{
		invoices.POST("/:id/email", invoiceHandler.EmailInvoice)
	}

	return r
}
