package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidOrExpired covers every "no live record matched" case; the
	// caller has to restart the flow from the beginning.
	ErrInvalidOrExpired = errors.New("code is invalid or has expired")

	// ErrUserNotFound is only reachable when a user disappears between
	// verification and the actual password change.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// RateLimitedError covers both the request cooldown and the exhausted
// attempts cap. RetryAfterSeconds is zero for the attempts case.
type RateLimitedError struct {
	Msg               string
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string { return e.Msg }

// InvalidCodeError is a wrong OTP with attempts still left.
type InvalidCodeError struct {
	RemainingAttempts int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid code, %d attempts remaining", e.RemainingAttempts)
}

// WeakPasswordError lists every policy rule the candidate password broke,
// not just the first one.
type WeakPasswordError struct {
	Violations []string
}

func (e *WeakPasswordError) Error() string {
	return "password does not meet policy: " + strings.Join(e.Violations, "; ")
}

// DeliveryError means every configured email provider was exhausted.
type DeliveryError struct {
	Cause error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("email delivery failed: %v", e.Cause)
}

func (e *DeliveryError) Unwrap() error { return e.Cause }
