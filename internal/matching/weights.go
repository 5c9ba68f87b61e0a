package matching

import (
	"errors"
	"fmt"
)

// Nombres de dimension usados en el desglose del puntaje.
const (
	DimCommunication = "communication_style"
	DimGoals         = "therapy_goals"
	DimModalities    = "modalities"
	DimLanguages     = "languages"
	DimIdentity      = "identity"
	DimCulture       = "cultural_identity"
	DimAgeGroup      = "age_group"
	DimAvailability  = "availability"
	DimExperience    = "experience"
	DimBudget        = "budget"
	DimSemantic      = "semantic_goals"
)

var dimensionOrder = [...]string{
	DimCommunication,
	DimGoals,
	DimModalities,
	DimLanguages,
	DimIdentity,
	DimCulture,
	DimAgeGroup,
	DimAvailability,
	DimExperience,
	DimBudget,
	DimSemantic,
}

// Weights define el peso relativo de cada dimension. Se cargan desde config
// para poder ajustar el ranking sin cambiar codigo.
type Weights struct {
	Communication float64 `env:"COMMUNICATION" envDefault:"3"`
	Goals         float64 `env:"GOALS" envDefault:"3"`
	Modalities    float64 `env:"MODALITIES" envDefault:"2"`
	Languages     float64 `env:"LANGUAGES" envDefault:"2"`
	Identity      float64 `env:"IDENTITY" envDefault:"1.5"`
	Culture       float64 `env:"CULTURE" envDefault:"1.5"`
	AgeGroup      float64 `env:"AGE_GROUP" envDefault:"1"`
	Availability  float64 `env:"AVAILABILITY" envDefault:"1"`
	Experience    float64 `env:"EXPERIENCE" envDefault:"1"`
	Budget        float64 `env:"BUDGET" envDefault:"1"`
	Semantic      float64 `env:"SEMANTIC" envDefault:"2"`

	// ExperienceCap son los anos a partir de los cuales la experiencia puntua completo.
	ExperienceCap int `env:"EXPERIENCE_CAP" envDefault:"10"`
}

// DefaultWeights replica los valores por defecto de config.
func DefaultWeights() Weights {
	return Weights{
		Communication: 3,
		Goals:         3,
		Modalities:    2,
		Languages:     2,
		Identity:      1.5,
		Culture:       1.5,
		AgeGroup:      1,
		Availability:  1,
		Experience:    1,
		Budget:        1,
		Semantic:      2,
		ExperienceCap: 10,
	}
}

var ErrInvalidWeights = errors.New("invalid match weights")

func (w Weights) byDimension() map[string]float64 {
	return map[string]float64{
		DimCommunication: w.Communication,
		DimGoals:         w.Goals,
		DimModalities:    w.Modalities,
		DimLanguages:     w.Languages,
		DimIdentity:      w.Identity,
		DimCulture:       w.Culture,
		DimAgeGroup:      w.AgeGroup,
		DimAvailability:  w.Availability,
		DimExperience:    w.Experience,
		DimBudget:        w.Budget,
		DimSemantic:      w.Semantic,
	}
}

// Validate rechaza pesos negativos o un conjunto sin ningun peso positivo.
func (w Weights) Validate() error {
	total := 0.0
	byDim := w.byDimension()
	for _, dim := range dimensionOrder {
		v := byDim[dim]
		if v < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalidWeights, dim)
		}
		total += v
	}
	if total == 0 {
		return fmt.Errorf("%w: all weights are zero", ErrInvalidWeights)
	}
	if w.ExperienceCap < 0 {
		return fmt.Errorf("%w: experience cap is negative", ErrInvalidWeights)
	}
	return nil
}
