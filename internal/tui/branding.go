package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/newshub/internal/config"
)

const AppName = "newshub"

// LogoLines is the canonical block logo.
var LogoLines = []string{
	"█▄ █ █▀▀ █   █ █▀▀ █ █ █ █ █▀▄",
	"█ ▀█ █▀▀ █ █ █ ▀▀█ █▀█ █ █ █▀▄",
	"▀  ▀ ▀▀▀  ▀ ▀  ▀▀▀ ▀ ▀ ▀▀▀ ▀▀ ",
}

const CompactLogo = "newshub ›"

// BannerColors is the gradient applied to the banner lines.
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#3B82F6"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#FFE66D"),
}

// Palette is one colour scheme. The dark scheme comes from the config, the
// light one is fixed.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Mark       lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
}

func DarkPalette(c config.UIColors) Palette {
	return Palette{
		Primary:    lipgloss.Color(c.Primary),
		Secondary:  lipgloss.Color(c.Secondary),
		Accent:     lipgloss.Color(c.Accent),
		Background: lipgloss.Color(c.Background),
		Surface:    lipgloss.Color(c.Surface),
		Text:       lipgloss.Color(c.Text),
		Muted:      lipgloss.Color(c.Muted),
		Mark:       lipgloss.Color("#FFE66D"),
		Error:      lipgloss.Color(c.Error),
		Success:    lipgloss.Color(c.Success),
	}
}

func LightPalette() Palette {
	return Palette{
		Primary:    lipgloss.Color("#1D4ED8"),
		Secondary:  lipgloss.Color("#0F766E"),
		Accent:     lipgloss.Color("#0E7490"),
		Background: lipgloss.Color("#FFFFFF"),
		Surface:    lipgloss.Color("#E2E8F0"),
		Text:       lipgloss.Color("#1E293B"),
		Muted:      lipgloss.Color("#64748B"),
		Mark:       lipgloss.Color("#B45309"),
		Error:      lipgloss.Color("#DC2626"),
		Success:    lipgloss.Color("#15803D"),
	}
}

// Styles holds every style the views use, derived from one palette.
type Styles struct {
	Palette Palette

	Logo         lipgloss.Style
	Title        lipgloss.Style
	Header       lipgloss.Style
	Tab          lipgloss.Style
	ActiveTab    lipgloss.Style
	Card         lipgloss.Style
	SelectedCard lipgloss.Style
	CardTitle    lipgloss.Style
	Meta         lipgloss.Style
	Description  lipgloss.Style
	Mark         lipgloss.Style
	Selected     lipgloss.Style
	Help         lipgloss.Style
	Separator    lipgloss.Style
	Muted        lipgloss.Style

	StatusInfo    lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarn    lipgloss.Style
	StatusError   lipgloss.Style
}

func NewStyles(p Palette) Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Surface).
		Padding(0, 1)

	return Styles{
		Palette: p,

		Logo: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),
		Title: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface).
			Bold(true).
			Padding(0, 2),
		Header: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Bold(true),
		Tab: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Foreground(p.Background).
			Background(p.Accent).
			Bold(true).
			Padding(0, 1),
		Card:         card,
		SelectedCard: card.BorderForeground(p.Accent),
		CardTitle: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true),
		Meta: lipgloss.NewStyle().
			Foreground(p.Muted).
			Faint(true),
		Description: lipgloss.NewStyle().
			Foreground(p.Text),
		Mark: lipgloss.NewStyle().
			Foreground(p.Mark).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(p.Background).
			Background(p.Accent).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
		Separator: lipgloss.NewStyle().
			Foreground(p.Muted),
		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),

		StatusInfo: lipgloss.NewStyle().
			Foreground(p.Muted),
		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.Success),
		StatusWarn: lipgloss.NewStyle().
			Foreground(p.Mark),
		StatusError: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),
	}
}

func (s Styles) status(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusSuccess:
		return s.StatusSuccess
	case StatusWarn:
		return s.StatusWarn
	case StatusError:
		return s.StatusError
	default:
		return s.StatusInfo
	}
}

func (s Styles) GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, s.Logo.Render(line))
	}

	return lipgloss.JoinVertical(
		lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, coloredLines...),
		"",
		s.Help.Render(message),
	)
}

// Banner renders the logo with a version tagline for `newshub version`.
func Banner(version string) string {
	lines := make([]string, len(LogoLines), len(LogoLines)+2)
	copy(lines, LogoLines)
	lines = append(lines, "")

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("Terminal News Reader %s", versionTag))
	} else {
		lines = append(lines, "Terminal News Reader")
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	borderChars := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}

	output := lipgloss.NewStyle().
		Border(borderChars).
		BorderForeground(BannerColors[1]).
		Padding(1, 3).
		MarginTop(1).
		Render(lipgloss.JoinVertical(lipgloss.Center, coloredLines...))

	return lipgloss.NewStyle().
		Width(60).
		Align(lipgloss.Center).
		Render(output)
}
