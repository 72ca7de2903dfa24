package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/presence-pulse/pkg/components"
)

var (
	statusBarStyle   = lipgloss.NewStyle().Faint(true)
	helpHeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
)

// renderColumn stacks all widgets vertically, each wrapped in a bordered
// box with its title. The focused widget gets a highlighted border. Height
// is divided evenly among widgets, with the remainder going to the first.
func (m AppModel) renderColumn(width, height int) string {
	n := len(m.widgetOrder)
	if n == 0 || width <= 0 || height <= 0 {
		return ""
	}

	each := height / n
	rem := height % n

	var parts []string
	for i, id := range m.widgetOrder {
		h := each
		if i == 0 {
			h += rem
		}
		if h < 3 {
			h = 3
		}

		w := m.widgets[id]
		borderColor := "#6B7280" // dim gray
		if id == m.focusedWidget {
			borderColor = "#7C3AED" // purple accent
		}

		innerW := width - 2
		innerH := h - 2
		if innerW < 1 {
			innerW = 1
		}
		if innerH < 1 {
			innerH = 1
		}

		style := components.BoxStyle{
			Title:      w.Title(),
			TitleAlign: components.AlignLeft,
			FG:         borderColor,
		}
		parts = append(parts, components.RenderBox(w.View(innerW, innerH), width, h, style))
	}

	return strings.Join(parts, "\n")
}

// renderExpanded renders a single widget at full size, wrapped in a
// bordered box with the widget's title.
func renderExpanded(widget Widget, width, height int) string {
	if widget == nil || width <= 0 || height <= 0 {
		return ""
	}

	innerW := width - 2
	innerH := height - 2
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}

	content := widget.View(innerW, innerH)

	style := components.BoxStyle{
		Title:      widget.Title(),
		TitleAlign: components.AlignLeft,
		FG:         "#7C3AED", // always accent colored when expanded
	}

	return components.RenderBox(content, width, height, style)
}

// renderStatusBar renders a one-line status bar at the bottom of the
// terminal with key hints. It pads or truncates to exactly width characters.
func renderStatusBar(msg string, width int) string {
	hints := "Tab:focus  Enter:expand  c:cursor  n:anim  ?:help  q:quit"
	if msg != "" {
		hints = msg + "  |  " + hints
	}

	if width <= 0 {
		return ""
	}

	return statusBarStyle.Render(components.PadRight(components.Truncate(hints, width), width))
}

// renderHelp renders the keybinding reference panel shown by the '?' key.
func renderHelp(width, height int) string {
	lines := []string{
		"",
		"  " + helpHeadingStyle.Render("Keybindings"),
		"",
		"  tab / shift+tab   cycle widget focus",
		"  enter             expand focused widget",
		"  esc               collapse expanded widget",
		"  a                 toggle secondary activities",
		"  c                 toggle cursor blink",
		"  n                 toggle progress animation",
		"  ?                 toggle this help",
		"  q / ctrl+c        quit",
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	if len(lines) > height-2 {
		lines = lines[:max(height-2, 0)]
	}

	style := components.BoxStyle{
		Title:      "Help",
		TitleAlign: components.AlignCenter,
		FG:         "#7C3AED",
	}

	return components.RenderBox(strings.Join(lines, "\n"), width, height, style)
}
