package matching

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	budgetNumber   = regexp.MustCompile(`\d+(?:\.\d+)?`)
	thousandsGroup = regexp.MustCompile(`(\d),(\d{3})\b`)
)

// parseBudgetCeiling interpreta rangos como "$50-$100", "Under $75" o "$200+".
// Devuelve el tope superior; +Inf si el rango es abierto. ok=false si no hay numeros.
func parseBudgetCeiling(label string) (ceiling float64, ok bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	for thousandsGroup.MatchString(l) {
		l = thousandsGroup.ReplaceAllString(l, "$1$2")
	}
	nums := budgetNumber.FindAllString(l, -1)
	if len(nums) == 0 {
		if strings.Contains(l, "sliding") || strings.Contains(l, "flexible") || strings.Contains(l, "no limit") {
			return math.Inf(1), true
		}
		return 0, false
	}
	if strings.HasSuffix(l, "+") || strings.Contains(l, "over") || strings.Contains(l, "above") {
		return math.Inf(1), true
	}
	highest := 0.0
	for _, n := range nums {
		v, err := strconv.ParseFloat(n, 64)
		if err != nil {
			continue
		}
		if v > highest {
			highest = v
		}
	}
	return highest, true
}

// budgetCeiling devuelve el tope mas alto entre los rangos del cliente.
// ok=false significa que no hay restriccion de presupuesto interpretable.
func budgetCeiling(ranges []string) (float64, bool) {
	found := false
	ceiling := 0.0
	for _, r := range ranges {
		v, ok := parseBudgetCeiling(r)
		if !ok {
			continue
		}
		found = true
		if v > ceiling {
			ceiling = v
		}
	}
	return ceiling, found
}
