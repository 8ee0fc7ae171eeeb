package theme

import (
	"strings"
	"testing"
)

func TestInterpolateColor(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		pos  float64
		want string
	}{
		{"start", "#000000", "#ffffff", 0.0, "#000000"},
		{"end", "#000000", "#ffffff", 1.0, "#ffffff"},
		{"midpoint", "#000000", "#fefefe", 0.5, "#7f7f7f"},
		{"same color", "#cba6f7", "#cba6f7", 0.3, "#cba6f7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterpolateColor(tt.a, tt.b, tt.pos)
			if got != tt.want {
				t.Errorf("InterpolateColor(%q, %q, %v) = %q, want %q", tt.a, tt.b, tt.pos, got, tt.want)
			}
		})
	}
}

func TestApplyGradient(t *testing.T) {
	out := ApplyGradient("abc", "#000000", "#ffffff")

	if !strings.Contains(out, "a") || !strings.Contains(out, "c") {
		t.Errorf("gradient output should contain the original runes, got %q", out)
	}
	if !strings.HasSuffix(out, "\x1b[0m") {
		t.Error("gradient output should end with a reset sequence")
	}
	if ApplyGradient("", "#000000", "#ffffff") != "" {
		t.Error("empty input should produce empty output")
	}
}

func TestCurrentDefaultsToMocha(t *testing.T) {
	if Current().Name != "catppuccin-mocha" {
		t.Errorf("default theme = %q, want catppuccin-mocha", Current().Name)
	}
}
