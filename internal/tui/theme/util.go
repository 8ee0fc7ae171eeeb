package theme

import (
	"fmt"
	"strings"
)

// ApplyGradient colors each rune of text by interpolating between two hex
// colors. Used for the logo.
func ApplyGradient(text, from, to string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	var b strings.Builder
	for i, r := range runes {
		pos := 0.0
		if len(runes) > 1 {
			pos = float64(i) / float64(len(runes)-1)
		}
		cr, cg, cb := parseHexColor(InterpolateColor(from, to, pos))
		fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm%c", cr, cg, cb, r)
	}
	b.WriteString("\x1b[0m")
	return b.String()
}

// InterpolateColor blends between two hex colors based on position (0.0 to 1.0)
func InterpolateColor(colorA, colorB string, pos float64) string {
	r1, g1, b1 := parseHexColor(colorA)
	r2, g2, b2 := parseHexColor(colorB)

	r := uint8(float64(r1)*(1-pos) + float64(r2)*pos)
	g := uint8(float64(g1)*(1-pos) + float64(g2)*pos)
	b := uint8(float64(b1)*(1-pos) + float64(b2)*pos)

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// parseHexColor extracts RGB values from a #RRGGBB string.
func parseHexColor(hex string) (uint8, uint8, uint8) {
	hex = strings.TrimPrefix(hex, "#")

	var r, g, b uint8
	if len(hex) == 6 {
		_, _ = fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	}
	return r, g, b
}
