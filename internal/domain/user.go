package domain

import "time"

// User es una cuenta de MindFolk. Clientes y terapeutas entran por el proveedor
// de identidad (Provider/Subject); los admins se provisionan con password.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name,omitempty"`
	Role         Role       `json:"role"`
	Provider     string     `json:"provider,omitempty"`
	Subject      string     `json:"-"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`
}
