package models

import "time"

// Reset record phases. The same row carries first a short-lived OTP and,
// after verification, a longer-lived opaque reset token; Phase says which
// one Code currently holds.
const (
	ResetPhaseOTP   = "otp"
	ResetPhaseToken = "reset"
)

// ResetRecord is one password-recovery attempt. There is no status column:
// whether a record is live follows from Used, Attempts and ExpiresAt at
// read time.
type ResetRecord struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"` // stored normalized (lower-case, trimmed)
	Phase     string    `json:"phase"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
}
