package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewPalette_ShiftedTint(t *testing.T) {
	base := &Theme{
		Bg:       "#101010",
		Fg:       "#ffffff",
		Accent:   "#ff0000",
		Shifted:  "#f0c000",
		Selected: "#00ff00",
	}
	base.applyDefaults()

	palette := NewPalette(base)

	if palette.ShiftedBg != lipgloss.Color(darkenColor(base.Shifted)) {
		t.Fatalf("ShiftedBg = %q, want %q", palette.ShiftedBg, darkenColor(base.Shifted))
	}
	if palette.Chain != lipgloss.Color(base.Accent) {
		t.Fatalf("Chain = %q, want accent fallback", palette.Chain)
	}
}

func TestNewPalette_LightThemeBlendsTowardsBackground(t *testing.T) {
	base := &Theme{
		Bg:      "#f5f5f5",
		Fg:      "#222222",
		Accent:  "#2f6feb",
		Shifted: "#c97b00",
	}
	base.applyDefaults()

	palette := NewPalette(base)
	if relativeLuminance(string(palette.ShiftedBg)) <= relativeLuminance(base.Shifted) {
		t.Fatalf("light theme tint %q should be lighter than %q", palette.ShiftedBg, base.Shifted)
	}
}

func TestNewPalette_NilUsesMocha(t *testing.T) {
	palette := NewPalette(nil)
	mocha, _ := Load("mocha")
	if palette.Bg != lipgloss.Color(mocha.Bg) {
		t.Errorf("Bg = %q, want mocha bg %q", palette.Bg, mocha.Bg)
	}
}

func TestChooseTextColor(t *testing.T) {
	if got := chooseTextColor("#000000", "#ffffff", "#111111"); got != "#ffffff" {
		t.Errorf("dark background should pick light text, got %q", got)
	}
	if got := chooseTextColor("#ffffff", "#eeeeee", "#111111"); got != "#111111" {
		t.Errorf("light background should pick dark text, got %q", got)
	}
}

func TestBlendColors(t *testing.T) {
	tests := []struct {
		a, b  string
		ratio float64
		want  string
	}{
		{"#000000", "#ffffff", 0, "#000000"},
		{"#000000", "#ffffff", 1, "#ffffff"},
		{"#000000", "#ffffff", 2, "#ffffff"},
		{"bad", "#ffffff", 0.5, "bad"},
	}
	for _, tt := range tests {
		if got := blendColors(tt.a, tt.b, tt.ratio); got != tt.want {
			t.Errorf("blendColors(%q, %q, %v) = %q, want %q", tt.a, tt.b, tt.ratio, got, tt.want)
		}
	}
}
