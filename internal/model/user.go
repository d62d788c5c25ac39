package model

import "time"

// User represents a registered respondent or admin
type User struct {
	ID           string    `json:"id"`
	Nome         string    `json:"nome"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never exposed in JSON responses
	Telefone     string    `json:"telefone,omitempty"`
	CPF          string    `json:"cpf,omitempty"`
	Foto         string    `json:"foto,omitempty"` // Photo reference (object key, URL or inline data URL)
	IsAdmin      bool      `json:"isAdmin"`
	Pontos       float64   `json:"pontos"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Nome     string `json:"nome"`
	Email    string `json:"email" binding:"required,email"`
	Senha    string `json:"senha" binding:"required,max=72"`
	Telefone string `json:"telefone"`
	CPF      string `json:"cpf"`
	Foto     string `json:"foto"`
	IsAdmin  bool   `json:"isAdmin"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email string `json:"email" binding:"required"`
	Senha string `json:"senha" binding:"required"`
}

// UpdateUserRequest carries a partial profile update. Nil fields are left untouched.
// Identity, admin flag and points cannot be changed here.
type UpdateUserRequest struct {
	Nome     *string `json:"nome,omitempty"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Senha    *string `json:"senha,omitempty" binding:"omitempty,min=1,max=72"`
	Telefone *string `json:"telefone,omitempty"`
	CPF      *string `json:"cpf,omitempty"`
	Foto     *string `json:"foto,omitempty"`
}

// UserUpdate is the storage-level form of a profile update
type UserUpdate struct {
	Nome         *string
	Email        *string
	PasswordHash *string
	Telefone     *string
	CPF          *string
	Foto         *string
}

// IsEmpty reports whether the update changes nothing
func (u UserUpdate) IsEmpty() bool {
	return u.Nome == nil && u.Email == nil && u.PasswordHash == nil &&
		u.Telefone == nil && u.CPF == nil && u.Foto == nil
}
