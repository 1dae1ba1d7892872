package tui

import (
	"strings"
	"testing"

	"github.com/pders01/newshub/internal/config"
)

func TestBanner(t *testing.T) {
	out := Banner("1.0.0-test")

	if !strings.Contains(out, "Terminal News Reader") {
		t.Errorf("Expected banner to contain tagline, got: %s", out)
	}
	if !strings.Contains(out, "╔") || !strings.Contains(out, "╝") {
		t.Errorf("Expected banner to contain border characters, got: %s", out)
	}
	if !strings.Contains(out, "v1.0.0-test") {
		t.Errorf("Expected banner to contain version 'v1.0.0-test', got: %s", out)
	}
	if strings.Contains(Banner("dev"), "vdev") {
		t.Error("dev builds should not get a version tag")
	}
}

func TestGetCompactBanner(t *testing.T) {
	styles := NewStyles(DarkPalette(config.TestConfig().UI.Colors))
	result := styles.GetCompactBanner("Test message")

	if !strings.Contains(result, "Test message") {
		t.Errorf("Expected compact banner to contain message, got: %s", result)
	}
	if !strings.Contains(result, "█▄ █") {
		t.Errorf("Expected compact banner to contain logo elements, got: %s", result)
	}
}

func TestPalettes(t *testing.T) {
	colors := config.TestConfig().UI.Colors
	dark := DarkPalette(colors)
	if string(dark.Primary) != colors.Primary {
		t.Errorf("dark palette primary = %s, want %s", dark.Primary, colors.Primary)
	}
	if LightPalette().Background == dark.Background {
		t.Error("light and dark palettes should differ")
	}
	if len(BannerColors) == 0 || len(LogoLines) != 3 {
		t.Error("branding constants malformed")
	}
}
