package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/timeprojec/internal/model"
)

// accentHex maps every palette entry to a terminal color. Gradient swatches
// use their dominant hue.
var accentHex = map[model.AccentColor]string{
	model.ColorRed:         "#EF4444",
	model.ColorOrange:      "#F97316",
	model.ColorYellow:      "#EAB308",
	model.ColorGreen:       "#22C55E",
	model.ColorCyan:        "#06B6D4",
	model.ColorBlue:        "#3B82F6",
	model.ColorPurple:      "#A855F7",
	model.ColorPink:        "#EC4899",
	model.ColorRose:        "#F43F5E",
	model.ColorIndigo:      "#6366F1",
	model.ColorTeal:        "#14B8A6",
	model.ColorLime:        "#84CC16",
	model.ColorAmber:       "#F59E0B",
	model.ColorEmerald:     "#10B981",
	model.ColorViolet:      "#8B5CF6",
	model.ColorFuchsia:     "#D946EF",
	model.ColorSky:         "#0EA5E9",
	model.ColorMint:        "#6EE7B7",
	model.ColorCoral:       "#FF7F50",
	model.ColorLavender:    "#C4B5FD",
	model.ColorSlate:       "#64748B",
	model.ColorRainbow:     "#FF6B6B",
	model.ColorAurora:      "#34D399",
	model.ColorNeon:        "#39FF14",
	model.ColorHologram:    "#A5F3FC",
	model.ColorSunset:      "#FB923C",
	model.ColorOcean:       "#0284C7",
	model.ColorFire:        "#DC2626",
	model.ColorElectric:    "#7DF9FF",
	model.ColorCosmic:      "#7C3AED",
	model.ColorChromatic:   "#E879F9",
	model.ColorRadioactive: "#A3E635",
	model.ColorPrism:       "#F0ABFC",
	model.ColorVaporwave:   "#FF71CE",
	model.ColorNova:        "#FDE047",
	model.ColorLiquid:      "#38BDF8",
}

// AccentStyle returns the foreground style for a project or tag color.
func AccentStyle(c model.AccentColor) lipgloss.Style {
	hex, ok := accentHex[c]
	if !ok {
		hex = accentHex[model.DefaultColor]
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// themeHeader holds the header background per app theme.
var themeHeader = map[string]lipgloss.AdaptiveColor{
	"dark":     {Dark: "#334155", Light: "#CBD5E1"},
	"marathon": {Dark: "#B91C1C", Light: "#FCA5A5"},
	"green":    {Dark: "#15803D", Light: "#86EFAC"},
	"neon":     {Dark: "#7E22CE", Light: "#F0ABFC"},
	"earth":    {Dark: "#78350F", Light: "#FCD34D"},
}

var (
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle returns the title bar style for theme.
func HeaderStyle(theme string) lipgloss.Style {
	bg, ok := themeHeader[theme]
	if !ok {
		bg = themeHeader["dark"]
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWhite).
		Background(bg).
		Padding(0, 1)
}

var (
	rowStyle = lipgloss.NewStyle().PaddingLeft(2)

	selectedRowStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Bold(true).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(colorBorder)

	runningStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(colorGray)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	helpStyle    = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
)
