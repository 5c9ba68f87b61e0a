package service

import (
	"strings"

	"mindfolk/internal/domain"
	"mindfolk/internal/matching"
)

// canonicalTags limpia, convierte a formato "&" y elimina duplicados conservando el orden.
func canonicalTags(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		c := matching.ToDbFormat(v)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func canonicalPreferences(p domain.AssessmentPreferences) domain.AssessmentPreferences {
	p.CommunicationStyle = canonicalTags(p.CommunicationStyle)
	p.Languages = canonicalTags(p.Languages)
	p.Identity = canonicalTags(p.Identity)
	p.TherapyGoals = canonicalTags(p.TherapyGoals)
	p.Modalities = canonicalTags(p.Modalities)
	p.BudgetRange = canonicalTags(p.BudgetRange)
	p.AgeGroup = matching.ToDbFormat(p.AgeGroup)
	p.CulturalIdentity = canonicalTags(p.CulturalIdentity)
	p.Availability = canonicalTags(p.Availability)
	p.ExcludedTherapistIDs = canonicalIDs(p.ExcludedTherapistIDs)
	return p
}

func displayPreferences(p domain.AssessmentPreferences) domain.AssessmentPreferences {
	p.CommunicationStyle = matching.ToDisplayFormatAll(p.CommunicationStyle)
	p.Languages = matching.ToDisplayFormatAll(p.Languages)
	p.Identity = matching.ToDisplayFormatAll(p.Identity)
	p.TherapyGoals = matching.ToDisplayFormatAll(p.TherapyGoals)
	p.Modalities = matching.ToDisplayFormatAll(p.Modalities)
	p.BudgetRange = matching.ToDisplayFormatAll(p.BudgetRange)
	p.AgeGroup = matching.ToDisplayFormat(p.AgeGroup)
	p.CulturalIdentity = matching.ToDisplayFormatAll(p.CulturalIdentity)
	p.Availability = matching.ToDisplayFormatAll(p.Availability)
	return p
}

func canonicalProfile(p domain.TherapistProfile) domain.TherapistProfile {
	p.Personality = canonicalTags(p.Personality)
	p.Specialties = canonicalTags(p.Specialties)
	p.Modalities = canonicalTags(p.Modalities)
	p.Languages = canonicalTags(p.Languages)
	p.Identity = canonicalTags(p.Identity)
	p.CulturalIdentity = canonicalTags(p.CulturalIdentity)
	p.AgeGroups = canonicalTags(p.AgeGroups)
	p.Availability = canonicalTags(p.Availability)
	return p
}

func displayProfile(p domain.TherapistProfile) domain.TherapistProfile {
	p.Personality = matching.ToDisplayFormatAll(p.Personality)
	p.Specialties = matching.ToDisplayFormatAll(p.Specialties)
	p.Modalities = matching.ToDisplayFormatAll(p.Modalities)
	p.Languages = matching.ToDisplayFormatAll(p.Languages)
	p.Identity = matching.ToDisplayFormatAll(p.Identity)
	p.CulturalIdentity = matching.ToDisplayFormatAll(p.CulturalIdentity)
	p.AgeGroups = matching.ToDisplayFormatAll(p.AgeGroups)
	p.Availability = matching.ToDisplayFormatAll(p.Availability)
	return p
}

func canonicalIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
