package tui

import (
	"strings"
)

// RenderError renders a red box with a heading and the wrapped error text.
// Example:
// ╭────────────────────────────────────╮
// │ PICK FAILED                        │
// │ picked index out of range: 7       │
// ╰────────────────────────────────────╯
func RenderError(heading string, err error, width int) string {
	innerWidth := max(width-4, 20)

	var content strings.Builder
	content.WriteString(errorHeaderStyle.Render(heading))
	if err != nil {
		for _, line := range wrapText(err.Error(), innerWidth) {
			content.WriteString("\n")
			content.WriteString(errorTextStyle.Render(line))
		}
	}

	return errorBoxStyle.Width(innerWidth).Render(content.String())
}

// wrapText wraps text at word boundaries where it can, hard-wrapping words
// longer than width.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	remaining := []rune(text)

	for len(remaining) > 0 {
		if len(remaining) <= width {
			lines = append(lines, string(remaining))
			break
		}

		breakPoint := width
		for i := width - 1; i >= width/2; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, strings.TrimSpace(string(remaining[:breakPoint])))
		remaining = []rune(strings.TrimSpace(string(remaining[breakPoint:])))
	}

	return lines
}
