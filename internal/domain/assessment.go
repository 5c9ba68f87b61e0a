package domain

import "time"

// AssessmentPreferences guarda las respuestas del cuestionario del cliente.
// Las etiquetas se persisten siempre en formato canonico ("&").
type AssessmentPreferences struct {
	UserID               string    `json:"user_id"`
	CommunicationStyle   []string  `json:"communication_style"`
	Languages            []string  `json:"languages"`
	LanguageRequired     bool      `json:"language_required"`
	Identity             []string  `json:"identity"`
	TherapyGoals         []string  `json:"therapy_goals"`
	Modalities           []string  `json:"modalities"`
	BudgetRange          []string  `json:"budget_range"`
	AgeGroup             string    `json:"age_group,omitempty"`
	CulturalIdentity     []string  `json:"cultural_identity"`
	Availability         []string  `json:"availability"`
	PrefersExperienced   bool      `json:"prefers_experienced"`
	ExcludedTherapistIDs []string  `json:"excluded_therapist_ids,omitempty"`
	GoalsEmbedding       []float32 `json:"-"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// AssessmentDraft es el estado parcial del onboarding mientras el cliente
// avanza por los pasos. No se usa para matching.
type AssessmentDraft struct {
	Step        int                   `json:"step"`
	Completed   []int                 `json:"completed_steps"`
	Preferences AssessmentPreferences `json:"preferences"`
	UpdatedAt   time.Time             `json:"updated_at"`
}
