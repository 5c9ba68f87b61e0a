package matching

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"mindfolk/internal/domain"
)

const defaultOverlayKey = "_default"

const (
	lineOpacityPrimary   = 0.80
	lineOpacitySecondary = 0.95
)

type overlayRule struct {
	fill      string
	fillColor string
	line      string
}

// overlayPriority fija el orden de desempate: gana la primera clave presente.
var overlayPriority = [...]string{
	"empathetic",
	"calm",
	"structured",
	"exploratory",
	"pragmatic",
	"motivational",
	"direct",
	"flexible",
}

var overlayRules = map[string]overlayRule{
	"empathetic":      {fill: "blob", fillColor: "accent-rose", line: "wave"},
	"calm":            {fill: "circle", fillColor: "accent-sky", line: "smooth"},
	"structured":      {fill: "grid", fillColor: "accent-slate", line: "straight"},
	"exploratory":     {fill: "spiral", fillColor: "accent-violet", line: "dashed"},
	"pragmatic":       {fill: "square", fillColor: "accent-sand", line: "straight"},
	"motivational":    {fill: "burst", fillColor: "accent-amber", line: "zigzag"},
	"direct":          {fill: "triangle", fillColor: "accent-coral", line: "straight"},
	"flexible":        {fill: "wave", fillColor: "accent-sage", line: "dotted"},
	defaultOverlayKey: {fill: "dots", fillColor: "accent-neutral", line: "smooth"},
}

var nonWord = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// NormalizeTag reduce una etiqueta a su primera palabra en minusculas.
// "Empathetic & Warm" -> "empathetic", "Calm (grounded)" -> "calm".
func NormalizeTag(tag string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), tag)
	if err != nil {
		folded = tag
	}
	for _, tok := range nonWord.Split(strings.ToLower(folded), -1) {
		if tok != "" {
			return tok
		}
	}
	return ""
}

// PickOverlay elige la regla decorativa segun la interseccion de preferencias
// del cliente y personalidad del terapeuta. El orden de los slices no importa.
func PickOverlay(clientPrefs, therapistTags []string) domain.Overlay {
	client := make(map[string]struct{}, len(clientPrefs))
	for _, t := range clientPrefs {
		client[NormalizeTag(t)] = struct{}{}
	}
	shared := make(map[string]struct{}, len(therapistTags))
	for _, t := range therapistTags {
		key := NormalizeTag(t)
		if _, ok := client[key]; ok {
			shared[key] = struct{}{}
		}
	}

	var primary, secondary string
	for _, key := range overlayPriority {
		if _, ok := shared[key]; !ok {
			continue
		}
		if primary == "" {
			primary = key
			continue
		}
		secondary = key
		break
	}
	if primary == "" {
		primary = defaultOverlayKey
	}

	rule := overlayRules[primary]
	opacity := lineOpacityPrimary
	if secondary != "" {
		opacity = lineOpacitySecondary
	}
	return domain.Overlay{
		Rule:        primary,
		Secondary:   secondary,
		Fill:        rule.fill,
		FillColor:   rule.fillColor,
		Line:        rule.line,
		LineOpacity: opacity,
	}
}
