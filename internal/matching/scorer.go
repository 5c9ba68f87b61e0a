package matching

import (
	"math"
	"sort"
	"strings"

	"mindfolk/internal/domain"
)

// Rank puntua y ordena los perfiles para un cliente. Es una funcion pura:
// no accede a red ni a base y no modifica sus argumentos.
// Los perfiles que no pasan un filtro duro no aparecen en el resultado.
func Rank(prefs domain.AssessmentPreferences, profiles []domain.TherapistProfile, w Weights) []domain.ScoredTherapist {
	excluded := make(map[string]struct{}, len(prefs.ExcludedTherapistIDs))
	for _, id := range prefs.ExcludedTherapistIDs {
		excluded[id] = struct{}{}
	}
	ceiling, hasBudget := budgetCeiling(prefs.BudgetRange)

	out := make([]domain.ScoredTherapist, 0, len(profiles))
	for _, p := range profiles {
		if _, ok := excluded[p.ID]; ok {
			continue
		}
		if p.Status != domain.TherapistStatusApproved {
			continue
		}
		if hasBudget && p.HourlyRate > 0 && p.HourlyRate > ceiling {
			continue
		}
		if prefs.LanguageRequired && len(prefs.Languages) > 0 && overlap(prefs.Languages, p.Languages, false) == 0 {
			continue
		}
		score, breakdown := Score(prefs, p, w)
		out = append(out, domain.ScoredTherapist{
			Therapist:          p,
			CompatibilityScore: score,
			Breakdown:          breakdown,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CompatibilityScore != out[j].CompatibilityScore {
			return out[i].CompatibilityScore > out[j].CompatibilityScore
		}
		return out[i].Therapist.ID < out[j].Therapist.ID
	})
	return out
}

// Score calcula la compatibilidad 0-100 de un par sin aplicar filtros duros.
// Solo cuentan las dimensiones donde el cliente expreso una preferencia.
func Score(prefs domain.AssessmentPreferences, p domain.TherapistProfile, w Weights) (int, map[string]float64) {
	weights := w.byDimension()
	sub := make(map[string]float64, len(weights))

	if len(prefs.CommunicationStyle) > 0 {
		sub[DimCommunication] = overlap(prefs.CommunicationStyle, p.Personality, true)
	}
	if len(prefs.TherapyGoals) > 0 {
		sub[DimGoals] = overlap(prefs.TherapyGoals, p.Specialties, false)
	}
	if len(prefs.Modalities) > 0 {
		sub[DimModalities] = overlap(prefs.Modalities, p.Modalities, false)
	}
	if len(prefs.Languages) > 0 {
		sub[DimLanguages] = overlap(prefs.Languages, p.Languages, false)
	}
	if len(prefs.Identity) > 0 {
		sub[DimIdentity] = overlap(prefs.Identity, p.Identity, false)
	}
	if len(prefs.CulturalIdentity) > 0 {
		sub[DimCulture] = overlap(prefs.CulturalIdentity, p.CulturalIdentity, false)
	}
	if strings.TrimSpace(prefs.AgeGroup) != "" {
		sub[DimAgeGroup] = overlap([]string{prefs.AgeGroup}, p.AgeGroups, false)
	}
	if len(prefs.Availability) > 0 {
		sub[DimAvailability] = overlap(prefs.Availability, p.Availability, false)
	}
	if w.ExperienceCap > 0 {
		sub[DimExperience] = experienceScore(p.YearsExperience, w.ExperienceCap, prefs.PrefersExperienced)
	}
	if ceiling, ok := budgetCeiling(prefs.BudgetRange); ok {
		sub[DimBudget] = budgetScore(p.HourlyRate, ceiling)
	}
	if sim, ok := cosine(prefs.GoalsEmbedding, p.StyleEmbedding); ok {
		sub[DimSemantic] = sim
	}

	// Orden fijo de suma para que el redondeo sea reproducible.
	var num, den float64
	for _, dim := range dimensionOrder {
		s, ok := sub[dim]
		if !ok {
			continue
		}
		wt := weights[dim]
		if wt <= 0 {
			delete(sub, dim)
			continue
		}
		num += wt * s
		den += wt
	}
	if den == 0 {
		return 0, sub
	}
	score := int(math.Round(100 * num / den))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, sub
}

// overlap devuelve la fraccion de etiquetas del cliente presentes en el terapeuta.
// Con loose=true tambien coinciden etiquetas que comparten la primera palabra.
func overlap(client, therapist []string, loose bool) float64 {
	if len(client) == 0 {
		return 0
	}
	have := make(map[string]struct{}, len(therapist)*2)
	for _, t := range therapist {
		have[matchKey(t)] = struct{}{}
		if loose {
			have["~"+NormalizeTag(t)] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(client))
	total, matched := 0, 0
	for _, c := range client {
		key := matchKey(c)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		total++
		if _, ok := have[key]; ok {
			matched++
			continue
		}
		if loose {
			if _, ok := have["~"+NormalizeTag(c)]; ok {
				matched++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

// matchKey lleva una etiqueta a su forma canonica comparable, sin descripcion.
func matchKey(tag string) string {
	key := ToDbFormat(tag)
	if m := trailingParen.FindStringSubmatch(key); m != nil && m[1] != "" {
		key = m[1]
	}
	return strings.ToLower(strings.TrimSpace(key))
}

func experienceScore(years, full int, prefersExperienced bool) float64 {
	if years <= 0 {
		return 0
	}
	s := float64(years) / float64(full)
	if !prefersExperienced {
		// Sin preferencia explicita basta la mitad del tope para puntuar completo.
		s *= 2
	}
	return math.Min(s, 1)
}

func budgetScore(rate, ceiling float64) float64 {
	if rate <= 0 || math.IsInf(ceiling, 1) || ceiling <= 0 {
		return 1
	}
	if rate > ceiling {
		return 0
	}
	return 1 - 0.5*(rate/ceiling)
}

// cosine devuelve la similitud coseno recortada a [0,1].
func cosine(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(0, math.Min(1, sim)), true
}
