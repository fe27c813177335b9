package repositories

import (
	"database/sql"
	"fmt"

	"shopcore/internal/models"
)

type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

// GetByEmail returns (nil, nil) when no such user exists; callers decide
// whether absence is an error.
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	const q = `
                SELECT id, store_name, email, password_hash, is_active
                FROM users
                WHERE email = $1
        `
	u := &models.User{}
	err := r.DB.QueryRow(q, email).Scan(&u.ID, &u.StoreName, &u.Email, &u.PasswordHash, &u.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user by email: %w", err)
	}
	return u, nil
}
