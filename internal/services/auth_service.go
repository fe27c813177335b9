package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt work factor, fixed so hashes stay comparable across deploys.
const passwordHashCost = 12

type AuthService interface {
	HashPassword(password string) (string, error)
}

type authService struct{}

func NewAuthService() AuthService {
	return &authService{}
}

func (s *authService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt generate: %w", err)
	}
	return string(hash), nil
}
