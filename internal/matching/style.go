package matching

import (
	"regexp"
	"strings"
)

// StyleDisplay separa una etiqueta de estilo en titulo corto y descripcion.
type StyleDisplay struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

var anyAmpersand = regexp.MustCompile(`\s*&\s*`)

// ParseStyleForDisplay no altera el valor guardado; solo lo prepara para mostrar.
// Devuelve nil si no hay texto.
func ParseStyleForDisplay(s string) *StyleDisplay {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	open := strings.Index(s, "(")
	if open < 0 || !strings.HasSuffix(s, ")") {
		return &StyleDisplay{Label: andify(s)}
	}
	return &StyleDisplay{
		Label:       andify(s[:open]),
		Description: andify(s[open+1 : len(s)-1]),
	}
}

func andify(s string) string {
	return strings.TrimSpace(anyAmpersand.ReplaceAllString(strings.TrimSpace(s), " and "))
}
