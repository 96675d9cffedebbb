package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/CaptShanks/msrdoc/internal/parser"
)

// palette holds the theme colors
type palette struct {
	single   lipgloss.Color
	rng      lipgloss.Color
	family   lipgloss.Color
	header   lipgloss.Color
	muted    lipgloss.Color
	text     lipgloss.Color
	selected lipgloss.Color
	match    lipgloss.Color
}

// Soft, low-contrast palette inspired by Tokyo Night / Catppuccin
var darkPalette = palette{
	single:   lipgloss.Color("#9ece6a"), // Soft sage green
	rng:      lipgloss.Color("#e0af68"), // Warm amber
	family:   lipgloss.Color("#bb9af7"), // Soft lavender
	header:   lipgloss.Color("#7aa2f7"), // Soft periwinkle
	muted:    lipgloss.Color("#565f89"), // Soft gray-blue
	text:     lipgloss.Color("#a9b1d6"), // Soft lavender gray
	selected: lipgloss.Color("#292e42"), // Deep navy selection
	match:    lipgloss.Color("#3b4261"),
}

var lightPalette = palette{
	single:   lipgloss.Color("#40a02b"),
	rng:      lipgloss.Color("#df8e1d"),
	family:   lipgloss.Color("#8839ef"),
	header:   lipgloss.Color("#1e66f5"),
	muted:    lipgloss.Color("#8c8fa1"),
	text:     lipgloss.Color("#4c4f69"),
	selected: lipgloss.Color("#dce0e8"),
	match:    lipgloss.Color("#ccd0da"),
}

var (
	colors palette

	appStyle      lipgloss.Style
	headerStyle   lipgloss.Style
	summaryStyle  lipgloss.Style
	singleStyle   lipgloss.Style
	rangeStyle    lipgloss.Style
	familyStyle   lipgloss.Style
	textStyle     lipgloss.Style
	mutedStyle    lipgloss.Style
	matchStyle    lipgloss.Style
	helpStyle     lipgloss.Style
	searchStyle   lipgloss.Style
	selectedStyle lipgloss.Style
)

func init() {
	applyPalette(darkPalette)
}

// SetLightPalette switches to colors readable on light terminals.
func SetLightPalette() {
	applyPalette(lightPalette)
}

// SetDarkPalette switches to the default dark palette.
func SetDarkPalette() {
	applyPalette(darkPalette)
}

func applyPalette(p palette) {
	colors = p

	appStyle = lipgloss.NewStyle().Padding(1, 2)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(p.header)
	summaryStyle = lipgloss.NewStyle().Foreground(p.text)
	singleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.single)
	rangeStyle = lipgloss.NewStyle().Bold(true).Foreground(p.rng)
	familyStyle = lipgloss.NewStyle().Bold(true).Foreground(p.family)
	textStyle = lipgloss.NewStyle().Foreground(p.text)
	mutedStyle = lipgloss.NewStyle().Foreground(p.muted)
	matchStyle = lipgloss.NewStyle().Background(p.match).Foreground(p.single).Bold(true)
	helpStyle = lipgloss.NewStyle().Foreground(p.muted).MarginTop(1)
	searchStyle = lipgloss.NewStyle().Foreground(p.header).Bold(true)
	selectedStyle = lipgloss.NewStyle().Background(p.selected).Bold(true)
}

// KindSymbol returns the marker drawn before a row of the given kind
func KindSymbol(kind parser.TokenKind) string {
	switch kind {
	case parser.KindRange:
		return KindStyle(kind).Render("↔")
	case parser.KindFamily:
		return KindStyle(kind).Render("+")
	default:
		return KindStyle(kind).Render("•")
	}
}

// KindStyle returns the style used for addresses of the given kind
func KindStyle(kind parser.TokenKind) lipgloss.Style {
	switch kind {
	case parser.KindRange:
		return rangeStyle
	case parser.KindFamily:
		return familyStyle
	default:
		return singleStyle
	}
}

func kindColor(kind parser.TokenKind) lipgloss.Color {
	switch kind {
	case parser.KindRange:
		return colors.rng
	case parser.KindFamily:
		return colors.family
	default:
		return colors.single
	}
}
