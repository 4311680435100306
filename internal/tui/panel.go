package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Panel is a bordered box with an optional title set into the top border.
type Panel struct {
	Title       string
	Content     string
	Width       int
	Height      int
	BorderColor lipgloss.Color
	Focused     bool // unfocused content is dimmed
}

var DefaultBorderColor = lipgloss.Color("#808080")

// RenderPanel renders p at exactly p.Width x p.Height cells.
func RenderPanel(p Panel) string {
	width := p.Width
	if width <= 0 {
		width = 10
	}
	height := p.Height
	if height <= 0 {
		height = 3
	}

	// lipgloss Width/Height on a bordered style size the inner area.
	contentWidth := max(width-2, 1)
	contentHeight := max(height-2, 1)

	content := fitContent(p.Content, contentWidth, contentHeight)
	if !p.Focused {
		content = lipgloss.NewStyle().Faint(true).Render(content)
	}

	rendered := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.BorderColor).
		Width(contentWidth).
		Height(contentHeight).
		Render(content)

	if p.Title != "" {
		rendered = insertTitleInBorder(rendered, p.Title, width)
	}
	return rendered
}

// fitContent truncates each line to maxWidth cells and keeps at most
// maxHeight lines. Widths are measured ANSI-aware.
func fitContent(content string, maxWidth, maxHeight int) string {
	if content == "" {
		return ""
	}

	truncate := lipgloss.NewStyle().MaxWidth(maxWidth)
	lines := strings.Split(content, "\n")
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}
	for i, line := range lines {
		if lipgloss.Width(line) > maxWidth {
			lines[i] = truncate.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// insertTitleInBorder rewrites the top border as "╭─ title ───╮".
func insertTitleInBorder(rendered, title string, totalWidth int) string {
	lines := strings.Split(rendered, "\n")
	if len(lines) == 0 {
		return rendered
	}

	top := lines[0]
	prefix := ansiPrefix(top)
	suffix := ""
	if strings.HasSuffix(top, "\x1b[0m") {
		suffix = "\x1b[0m"
	}

	label := " " + truncateRunes(title, max(totalWidth-6, 0)) + " "
	dashes := max(totalWidth-lipgloss.Width(label)-3, 0)

	lines[0] = prefix + "╭─" + label + strings.Repeat("─", dashes) + "╮" + suffix
	return strings.Join(lines, "\n")
}

// truncateRunes shortens s to at most n cells, ending in "…" when cut.
func truncateRunes(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	if n <= 1 {
		return ""
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// ansiPrefix returns the escape sequences at the start of s.
func ansiPrefix(s string) string {
	var prefix strings.Builder
	inEscape := false

	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' {
			inEscape = true
		}
		if !inEscape {
			break
		}
		prefix.WriteByte(s[i])
		if s[i] == 'm' {
			inEscape = false
		}
	}

	return prefix.String()
}
