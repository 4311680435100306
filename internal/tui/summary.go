package tui

import (
	"fmt"
	"luckywheel/internal/history"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const topLabels = 5

// RenderSummary renders the session statistics.
// Example:
// ╭──────────────────────────────────────╮
// │             LUCKY WHEEL              │
// │      12 spins • 11 landed • 1 ✗      │
// ╰──────────────────────────────────────╯
//
//	Results
//	─────────────────────────────────────────
//	    5 Jackpot     ████████░░░░░░░░░░░░  45%
//	    4 100         ███████░░░░░░░░░░░░░  36%
func RenderSummary(s history.Summary, width int) string {
	var b strings.Builder

	b.WriteString(renderHeaderBox(s, width))
	b.WriteString("\n")

	top := s.Top(topLabels)
	if len(top) == 0 {
		b.WriteString(summaryStatStyle.Render("  No results yet"))
		return b.String()
	}

	b.WriteString(summaryStatStyle.Render("  Results"))
	b.WriteString("\n")
	b.WriteString(summaryStatStyle.Render("  " + strings.Repeat("─", 41)))

	labelWidth := 0
	for _, lc := range top {
		labelWidth = max(labelWidth, lipgloss.Width(lc.Label))
	}
	labelWidth = min(labelWidth, 16)

	for _, lc := range top {
		percent := float64(lc.Count) / float64(max(s.Landed, 1)) * 100
		b.WriteString("\n")
		b.WriteString(renderStatLine(lc.Count, lc.Label, labelWidth, percent))
	}

	return b.String()
}

func renderHeaderBox(s history.Summary, width int) string {
	boxWidth := min(max(width, 30), 60)

	stats := []string{pluralize(s.Spins, "spin"), fmt.Sprintf("%d landed", s.Landed)}
	if s.Cancelled > 0 {
		stats = append(stats, fmt.Sprintf("%d cancelled", s.Cancelled))
	}
	content := "LUCKY WHEEL\n" + strings.Join(stats, " • ")

	return summaryBoxStyle.
		Width(boxWidth - 4).
		Align(lipgloss.Center).
		Render(content)
}

func renderStatLine(count int, label string, labelWidth int, percent float64) string {
	const barWidth = 20

	label = truncateRunes(label, labelWidth)
	pad := strings.Repeat(" ", max(labelWidth-lipgloss.Width(label), 0))

	return fmt.Sprintf("  %s %s   %s  %s",
		landedStyle.Render(fmt.Sprintf("%3d", count)),
		summaryStatStyle.Render(label+pad),
		renderMiniBar(percent, barWidth),
		summaryStatStyle.Render(fmt.Sprintf("%3.0f%%", percent)))
}

func renderMiniBar(percent float64, width int) string {
	filled := min(max(int(math.Round(percent/100*float64(width))), 0), width)

	return summaryBarStyle.Render(strings.Repeat("█", filled)) +
		summaryBarEmptyStyle.Render(strings.Repeat("░", width-filled))
}
