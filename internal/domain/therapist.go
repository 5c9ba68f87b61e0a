package domain

import "time"

const (
	TherapistStatusPending   = "pending"
	TherapistStatusApproved  = "approved"
	TherapistStatusSuspended = "suspended"
)

// ValidTherapistStatus indica si el estado de moderacion es conocido.
func ValidTherapistStatus(status string) bool {
	switch status {
	case TherapistStatusPending, TherapistStatusApproved, TherapistStatusSuspended:
		return true
	}
	return false
}

// TherapistProfile es el perfil publico de un terapeuta.
type TherapistProfile struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Name             string    `json:"name"`
	Bio              string    `json:"bio,omitempty"`
	Approach         string    `json:"approach,omitempty"`
	Personality      []string  `json:"personality"`
	Specialties      []string  `json:"specialties"`
	Modalities       []string  `json:"modalities"`
	Languages        []string  `json:"languages"`
	Identity         []string  `json:"identity"`
	CulturalIdentity []string  `json:"cultural_identity"`
	AgeGroups        []string  `json:"age_groups"`
	Availability     []string  `json:"availability"`
	HourlyRate       float64   `json:"hourly_rate"`
	YearsExperience  int       `json:"years_experience"`
	Status           string    `json:"status"`
	StyleEmbedding   []float32 `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
