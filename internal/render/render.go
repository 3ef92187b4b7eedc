// Package render styles terminal output with lipgloss, following the theme
// stored in the settings.
package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/shiftbase/internal/model"
)

// Palette holds the theme colours.
type Palette struct {
	Primary lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var palettes = map[model.Theme]Palette{
	model.ThemeLight: {"#0a7ea4", "#11181C", "#687076", "#22C55E", "#F59E0B", "#EF4444"},
	model.ThemeDark:  {"#0a7ea4", "#ECEDEE", "#9BA1A6", "#4ADE80", "#FBBF24", "#F87171"},
	model.ThemeOnyx:  {"#06b6d4", "#f1f5f9", "#94a3b8", "#10b981", "#f59e0b", "#ef4444"},
}

// PaletteFor returns the palette of theme, defaulting to light.
func PaletteFor(theme model.Theme) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[model.ThemeLight]
}

// Styles are the lipgloss styles used across commands.
type Styles struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Bar     lipgloss.Style
}

// New builds the styles for theme.
func New(theme model.Theme) Styles {
	p := PaletteFor(theme)
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Heading: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(p.Text),
		Label:   lipgloss.NewStyle().Foreground(p.Muted),
		Value:   lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		Muted:   lipgloss.NewStyle().Foreground(p.Muted),
		Success: lipgloss.NewStyle().Foreground(p.Success),
		Warning: lipgloss.NewStyle().Foreground(p.Warning).Italic(true),
		Error:   lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		Bar:     lipgloss.NewStyle().Foreground(p.Primary),
	}
}

// Swatch renders a small block in a project colour.
func (s Styles) Swatch(hex string) string {
	if hex == "" {
		return s.Muted.Render("□")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}

// KeyValue renders "label  value" with the label padded to width.
func (s Styles) KeyValue(label, value string, width int) string {
	return s.Label.Width(width).Render(label) + s.Value.Render(value)
}

// BarLength scales value against limit onto width cells. Any positive value
// gets at least one cell.
func BarLength(value, limit float64, width int) int {
	if limit <= 0 || value <= 0 || width <= 0 {
		return 0
	}
	n := int(math.Round(value / limit * float64(width)))
	return min(max(n, 1), width)
}

// HBar renders a horizontal bar for value relative to limit, padded to width.
func (s Styles) HBar(value, limit float64, width int) string {
	width = max(width, 0)
	n := BarLength(value, limit, width)
	return s.Bar.Render(strings.Repeat("█", n)) + strings.Repeat(" ", width-n)
}
