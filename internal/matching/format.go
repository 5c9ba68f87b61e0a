package matching

import (
	"regexp"
	"strings"
)

// displayToDB es el vocabulario cerrado de etiquetas compuestas.
// La base guarda siempre la forma "&"; la UI muestra la forma "and".
var displayToDB = map[string]string{
	// Estilos de comunicacion.
	"Supportive and Relational": "Supportive & Relational",
	"Supportive and Relational (I focus on creating safety, trust, and emotional validation)": "Supportive & Relational (I focus on creating safety, trust, & emotional validation)",
	"Direct and Structured": "Direct & Structured",
	"Direct and Structured (I offer clear guidance, goals, and practical tools)":              "Direct & Structured (I offer clear guidance, goals, & practical tools)",
	"Insight-Oriented and Exploratory":                                                        "Insight-Oriented & Exploratory",
	"Insight-Oriented and Exploratory (I help you understand patterns, history, and meaning)": "Insight-Oriented & Exploratory (I help you understand patterns, history, & meaning)",
	"Motivational and Encouraging":                                                            "Motivational & Encouraging",
	"Motivational and Encouraging (I help you build momentum, confidence, and change)":        "Motivational & Encouraging (I help you build momentum, confidence, & change)",
	"Flexible and Adaptive":                                                                   "Flexible & Adaptive",
	"Flexible and Adaptive (I adjust my approach to your needs and pace)":                     "Flexible & Adaptive (I adjust my approach to your needs & pace)",
	"Calm and Grounding": "Calm & Grounding",
	"Calm and Grounding (I bring a steady presence, breathing space, and perspective)": "Calm & Grounding (I bring a steady presence, breathing space, & perspective)",

	// Especialidades y objetivos.
	"Anxiety and Stress":          "Anxiety & Stress",
	"Depression and Mood":         "Depression & Mood",
	"Trauma and PTSD":             "Trauma & PTSD",
	"Grief and Loss":              "Grief & Loss",
	"Relationships and Intimacy":  "Relationships & Intimacy",
	"Family and Parenting":        "Family & Parenting",
	"Work and Career":             "Work & Career",
	"Identity and Self-Esteem":    "Identity & Self-Esteem",
	"LGBTQ+ and Gender Identity":  "LGBTQ+ & Gender Identity",
	"Addiction and Recovery":      "Addiction & Recovery",
	"Eating and Body Image":       "Eating & Body Image",
	"Sleep and Insomnia":          "Sleep & Insomnia",
	"Life Transitions and Change": "Life Transitions & Change",

	// Modalidades.
	"Acceptance and Commitment Therapy (ACT)": "Acceptance & Commitment Therapy (ACT)",
	"Mindfulness and Somatic Practices":       "Mindfulness & Somatic Practices",
	"Psychodynamic and Psychoanalytic":        "Psychodynamic & Psychoanalytic",
	"Art and Expressive Therapies":            "Art & Expressive Therapies",
	"Couples and Family Systems":              "Couples & Family Systems",

	// Identidad y cultura.
	"Black and African Diaspora":       "Black & African Diaspora",
	"Asian and Pacific Islander":       "Asian & Pacific Islander",
	"Middle Eastern and North African": "Middle Eastern & North African",
	"Faith and Spirituality":           "Faith & Spirituality",
	"Neurodivergent and ADHD":          "Neurodivergent & ADHD",
}

// dbToDisplay se deriva una sola vez de displayToDB.
var dbToDisplay = invert(displayToDB)

var (
	displayConjunction = regexp.MustCompile(`(?i)\s+and\s+`)
	dbConjunction      = regexp.MustCompile(`\s+&\s+`)
	trailingParen      = regexp.MustCompile(`^(.*?)\s*(\([^()]*\))\s*$`)
	containsDisplayAnd = regexp.MustCompile(`(?i)\sand\s`)
	containsDBAmp      = regexp.MustCompile(`\s&\s`)
)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// ToDbFormat convierte una etiqueta de la UI a su forma canonica.
// Nunca falla: si la etiqueta no esta en el vocabulario aplica la sustitucion generica.
func ToDbFormat(display string) string {
	return convert(display, displayToDB, displayConjunction, " & ")
}

// ToDisplayFormat convierte una etiqueta canonica a su forma visible.
func ToDisplayFormat(db string) string {
	return convert(db, dbToDisplay, dbConjunction, " and ")
}

func convert(s string, table map[string]string, conj *regexp.Regexp, repl string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if v, ok := table[s]; ok {
		return v
	}
	if m := trailingParen.FindStringSubmatch(s); m != nil {
		if base, ok := table[m[1]]; ok {
			return base + " " + conj.ReplaceAllString(m[2], repl)
		}
	}
	return conj.ReplaceAllString(s, repl)
}

// ToDbFormatAll aplica ToDbFormat a cada elemento. Nil devuelve un slice vacio.
func ToDbFormatAll(values []string) []string {
	return mapAll(values, ToDbFormat)
}

// ToDisplayFormatAll aplica ToDisplayFormat a cada elemento.
func ToDisplayFormatAll(values []string) []string {
	return mapAll(values, ToDisplayFormat)
}

func mapAll(values []string, fn func(string) string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fn(v))
	}
	return out
}

// IsDbFormat es una heuristica: vocabulario conocido o ausencia de " and ".
// Un texto sin ninguna conjuncion valida en ambos formatos.
func IsDbFormat(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if _, ok := dbToDisplay[s]; ok {
		return true
	}
	return !containsDisplayAnd.MatchString(s)
}

// IsDisplayFormat es la heuristica simetrica de IsDbFormat.
func IsDisplayFormat(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if _, ok := displayToDB[s]; ok {
		return true
	}
	return !containsDBAmp.MatchString(s)
}

// Vocabulary devuelve las entradas conocidas como pares display/db.
func Vocabulary() map[string]string {
	out := make(map[string]string, len(displayToDB))
	for k, v := range displayToDB {
		out[k] = v
	}
	return out
}
