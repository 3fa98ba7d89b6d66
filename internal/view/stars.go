package view

import (
	"math"
	"strconv"
	"strings"
)

const maxStars = 5

// Stars dibuja un rating como estrellas llenas/vacías seguido del valor, p. ej. "★★★★☆ (3.7)".
func Stars(rating float64) string {
	filled := int(math.Round(rating))
	if filled < 0 {
		filled = 0
	}
	if filled > maxStars {
		filled = maxStars
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("★", filled))
	b.WriteString(strings.Repeat("☆", maxStars-filled))
	b.WriteString(" (")
	b.WriteString(strconv.FormatFloat(rating, 'f', -1, 64))
	b.WriteString(")")
	return b.String()
}
