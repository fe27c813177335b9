package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopcore/internal/services"
)

// Response is the uniform envelope for every JSON endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: false, Message: message, Data: data})
}

// respondServiceError translates the service error taxonomy into HTTP
// statuses; anything unrecognized is a 500 with a generic message so
// internal store or provider errors never leak wording to clients.
func respondServiceError(c *gin.Context, err error) {
	var (
		validation *services.ValidationError
		rateLimit  *services.RateLimitedError
		badCode    *services.InvalidCodeError
		weakPass   *services.WeakPasswordError
		delivery   *services.DeliveryError
	)
	switch {
	case errors.As(err, &validation):
		respondError(c, http.StatusBadRequest, validation.Msg, nil)
	case errors.As(err, &rateLimit):
		var data any
		if rateLimit.RetryAfterSeconds > 0 {
			data = gin.H{"retryAfter": rateLimit.RetryAfterSeconds}
		}
		respondError(c, http.StatusTooManyRequests, rateLimit.Msg, data)
	case errors.As(err, &badCode):
		respondError(c, http.StatusBadRequest, badCode.Error(), gin.H{"remainingAttempts": badCode.RemainingAttempts})
	case errors.As(err, &weakPass):
		respondError(c, http.StatusBadRequest, "password does not meet policy", gin.H{"violations": weakPass.Violations})
	case errors.Is(err, services.ErrInvalidOrExpired):
		respondError(c, http.StatusBadRequest, "code is invalid or has expired, please start over", nil)
	case errors.Is(err, services.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "account not found", nil)
	case errors.As(err, &delivery):
		respondError(c, http.StatusInternalServerError, "failed to send email, please try again later", nil)
	default:
		respondError(c, http.StatusInternalServerError, "something went wrong", nil)
	}
}

// coerceString accepts string or numeric JSON values; clients send OTP
// codes both quoted and bare.
func coerceString(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%.0f", t))
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
