package models

type User struct {
	ID           int    `json:"id"`
	StoreName    string `json:"store_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"is_active"`
}
