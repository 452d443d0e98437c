// Package theme holds the lipgloss styles used for terminal output.
package theme

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Theme names accepted by New.
const (
	NameDefault = "default"
	NamePlain   = "plain"
)

// Theme is a set of styles bound to one output.
type Theme struct {
	r *lipgloss.Renderer

	// Header is used for table headers and section titles.
	Header lipgloss.Style
	// Help is used for hints and empty-state messages.
	Help lipgloss.Style
	// Border colors table borders.
	Border lipgloss.Style
	// Dimmed renders completed tasks and subtasks.
	Dimmed lipgloss.Style
	// Important marks starred tasks.
	Important lipgloss.Style
	// Done marks completed items.
	Done lipgloss.Style
	// Overdue, Today and Upcoming color due dates relative to today.
	Overdue  lipgloss.Style
	Today    lipgloss.Style
	Upcoming lipgloss.Style
	// DefaultBadge tags the default list.
	DefaultBadge lipgloss.Style
	// Success and Error prefix command feedback.
	Success lipgloss.Style
	Error   lipgloss.Style
}

// New builds a Theme rendering to out. The plain theme never emits color;
// any other name uses the default palette, downgraded automatically when
// out is not a terminal.
func New(out io.Writer, name string) *Theme {
	r := lipgloss.NewRenderer(out)
	if name == NamePlain {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Theme{
		r: r,

		Header: r.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorBlue).
			Padding(0, 1),
		Help: r.NewStyle().
			Foreground(ColorGray).
			Italic(true),
		Border:       r.NewStyle().Foreground(ColorBorder),
		Dimmed:       r.NewStyle().Foreground(ColorGray).Strikethrough(true),
		Important:    r.NewStyle().Bold(true).Foreground(ColorYellow),
		Done:         r.NewStyle().Foreground(ColorGreen),
		Overdue:      r.NewStyle().Bold(true).Foreground(ColorRed),
		Today:        r.NewStyle().Bold(true).Foreground(ColorYellow),
		Upcoming:     r.NewStyle().Foreground(ColorBlue),
		DefaultBadge: r.NewStyle().Foreground(ColorMagenta),
		Success:      r.NewStyle().Foreground(ColorGreen),
		Error:        r.NewStyle().Bold(true).Foreground(ColorRed),
	}
}

// Renderer returns the renderer the styles are bound to.
func (t *Theme) Renderer() *lipgloss.Renderer {
	return t.r
}

// ListColor returns a style in the list's own color, or the plain base
// style when the list has none.
func (t *Theme) ListColor(color *string) lipgloss.Style {
	s := t.r.NewStyle().Bold(true)
	if color == nil || *color == "" {
		return s
	}
	return s.Foreground(lipgloss.Color(*color))
}

// DueStyle picks the due date style for a YYYY-MM-DD date compared with
// today, both in the same format.
func (t *Theme) DueStyle(date, today string) lipgloss.Style {
	switch {
	case date < today:
		return t.Overdue
	case date == today:
		return t.Today
	default:
		return t.Upcoming
	}
}
