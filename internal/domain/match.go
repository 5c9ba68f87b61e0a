package domain

// ScoredTherapist es un perfil anotado con su compatibilidad para un cliente.
type ScoredTherapist struct {
	Therapist          TherapistProfile   `json:"therapist"`
	CompatibilityScore int                `json:"compatibility_score"`
	Breakdown          map[string]float64 `json:"breakdown,omitempty"`
}

// Overlay es el tratamiento visual decorativo del retrato.
type Overlay struct {
	Rule        string  `json:"rule"`
	Secondary   string  `json:"secondary,omitempty"`
	Fill        string  `json:"fill"`
	FillColor   string  `json:"fillColor"`
	Line        string  `json:"line"`
	LineOpacity float64 `json:"lineOpacity"`
}

// DiscoverCard es lo que recibe el feed Discover por cada terapeuta.
type DiscoverCard struct {
	ScoredTherapist
	Overlay Overlay `json:"overlay"`
}
