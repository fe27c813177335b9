package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"shopcore/internal/models"
)

type ResetRecordRepository interface {
	Create(email, code string, expiresAt time.Time) (*models.ResetRecord, error)
	GetLatestActive(email, phase string) (*models.ResetRecord, error)
	GetLatestSince(email string, since time.Time) (*models.ResetRecord, error)
	InvalidateActive(email string) error
	Update(rec *models.ResetRecord) error
	GetActiveResetToken(email, token string) (*models.ResetRecord, error)
	ConsumePasswordReset(recordID int64, userID int, passwordHash string) error
	DeleteStale(email string) error
}

type resetRecordRepository struct {
	DB *sql.DB
}

func NewResetRecordRepository(db *sql.DB) ResetRecordRepository {
	return &resetRecordRepository{DB: db}
}

const resetRecordColumns = `id, email, phase, code, expires_at, used, attempts, created_at`

func scanResetRecord(row *sql.Row) (*models.ResetRecord, error) {
	rec := &models.ResetRecord{}
	err := row.Scan(&rec.ID, &rec.Email, &rec.Phase, &rec.Code, &rec.ExpiresAt, &rec.Used, &rec.Attempts, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Create inserts a fresh OTP-phase record. Every request is a new row.
func (r *resetRecordRepository) Create(email, code string, expiresAt time.Time) (*models.ResetRecord, error) {
	const q = `
                INSERT INTO password_reset_records (email, phase, code, expires_at, used, attempts)
                VALUES ($1, $2, $3, $4, FALSE, 0)
                RETURNING ` + resetRecordColumns
	rec, err := scanResetRecord(r.DB.QueryRow(q, email, models.ResetPhaseOTP, code, expiresAt))
	if err != nil {
		return nil, fmt.Errorf("reset_record create: %w", err)
	}
	return rec, nil
}

// GetLatestActive returns the newest not-used, not-expired record in the
// given phase, or nil when there is none.
func (r *resetRecordRepository) GetLatestActive(email, phase string) (*models.ResetRecord, error) {
	const q = `
                SELECT ` + resetRecordColumns + `
                FROM password_reset_records
                WHERE email = $1 AND phase = $2 AND used = FALSE AND expires_at > NOW()
                ORDER BY created_at DESC
                LIMIT 1
        `
	rec, err := scanResetRecord(r.DB.QueryRow(q, email, phase))
	if err != nil {
		return nil, fmt.Errorf("reset_record latest active: %w", err)
	}
	return rec, nil
}

// GetLatestSince returns the newest record created at or after `since`,
// used or not. Feeds the request cooldown check.
func (r *resetRecordRepository) GetLatestSince(email string, since time.Time) (*models.ResetRecord, error) {
	const q = `
                SELECT ` + resetRecordColumns + `
                FROM password_reset_records
                WHERE email = $1 AND created_at >= $2
                ORDER BY created_at DESC
                LIMIT 1
        `
	rec, err := scanResetRecord(r.DB.QueryRow(q, email, since))
	if err != nil {
		return nil, fmt.Errorf("reset_record latest since: %w", err)
	}
	return rec, nil
}

// InvalidateActive burns every not-yet-used record for the email so that
// only the record created right after stays authoritative.
func (r *resetRecordRepository) InvalidateActive(email string) error {
	const q = `UPDATE password_reset_records SET used = TRUE WHERE email = $1 AND used = FALSE`
	if _, err := r.DB.Exec(q, email); err != nil {
		return fmt.Errorf("reset_record invalidate: %w", err)
	}
	return nil
}

func (r *resetRecordRepository) Update(rec *models.ResetRecord) error {
	const q = `
                UPDATE password_reset_records
                SET phase = $2, code = $3, expires_at = $4, used = $5, attempts = $6
                WHERE id = $1
        `
	if _, err := r.DB.Exec(q, rec.ID, rec.Phase, rec.Code, rec.ExpiresAt, rec.Used, rec.Attempts); err != nil {
		return fmt.Errorf("reset_record update: %w", err)
	}
	return nil
}

// GetActiveResetToken matches a live token-phase record by exact token value.
func (r *resetRecordRepository) GetActiveResetToken(email, token string) (*models.ResetRecord, error) {
	const q = `
                SELECT ` + resetRecordColumns + `
                FROM password_reset_records
                WHERE email = $1 AND phase = $2 AND code = $3 AND used = FALSE AND expires_at > NOW()
                ORDER BY created_at DESC
                LIMIT 1
        `
	rec, err := scanResetRecord(r.DB.QueryRow(q, email, models.ResetPhaseToken, token))
	if err != nil {
		return nil, fmt.Errorf("reset_record by token: %w", err)
	}
	return rec, nil
}

// ConsumePasswordReset updates the user's password hash and marks the
// record used inside one transaction; neither side lands without the other.
func (r *resetRecordRepository) ConsumePasswordReset(recordID int64, userID int, passwordHash string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("reset_record consume begin: %w", err)
	}
	if _, err := tx.Exec(`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID); err != nil {
		tx.Rollback()
		return fmt.Errorf("reset_record consume password: %w", err)
	}
	if _, err := tx.Exec(`UPDATE password_reset_records SET used = TRUE WHERE id = $1`, recordID); err != nil {
		tx.Rollback()
		return fmt.Errorf("reset_record consume mark used: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reset_record consume commit: %w", err)
	}
	return nil
}

// DeleteStale sweeps records that are used or expired. Abandoned flows are
// only cleaned up here, opportunistically after a successful reset.
func (r *resetRecordRepository) DeleteStale(email string) error {
	const q = `DELETE FROM password_reset_records WHERE email = $1 AND (used = TRUE OR expires_at <= NOW())`
	if _, err := r.DB.Exec(q, email); err != nil {
		return fmt.Errorf("reset_record delete stale: %w", err)
	}
	return nil
}
