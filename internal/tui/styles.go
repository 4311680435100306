package tui

import "github.com/charmbracelet/lipgloss"

var (
	gold   = lipgloss.Color("#FACC15")
	green  = lipgloss.Color("#00FF00")
	red    = lipgloss.Color("#FF0000")
	purple = lipgloss.Color("#8B5CF6")
	gray   = lipgloss.Color("#808080")

	FocusedBorderColor   = lipgloss.Color("14")
	UnfocusedBorderColor = lipgloss.Color("8")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(gold).
			MarginBottom(1)

	pointerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(gold)

	stripStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	railStyle = lipgloss.NewStyle().
			Foreground(purple)

	selectedSliceStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(gold)

	landedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(green)

	spinningStyle = lipgloss.NewStyle().
			Foreground(gold)

	idleStyle = lipgloss.NewStyle().
			Foreground(gray).
			Faint(true)

	cancelledStyle = lipgloss.NewStyle().
			Foreground(gray)

	helpStyle = lipgloss.NewStyle().
			Foreground(gray).
			MarginTop(1)

	historyIndexStyle = lipgloss.NewStyle().
				Foreground(gray).
				Faint(true)

	historyLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(gold)

	historyTimeStyle = lipgloss.NewStyle().
				Foreground(gray)

	progressFilledStyle = lipgloss.NewStyle().
				Foreground(gold)

	progressEmptyStyle = lipgloss.NewStyle().
				Foreground(gray).
				Faint(true)

	progressTextStyle = lipgloss.NewStyle().
				Foreground(gold)

	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(red).
			Padding(0, 1).
			MarginTop(1)

	errorHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(red).
				Background(lipgloss.Color("#330000"))

	errorTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6666"))

	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(gold).
			Foreground(gold).
			Bold(true).
			Padding(0, 2).
			MarginBottom(1)

	summaryStatStyle = lipgloss.NewStyle().
				Foreground(gray)

	summaryBarStyle = lipgloss.NewStyle().
			Foreground(gold)

	summaryBarEmptyStyle = lipgloss.NewStyle().
				Foreground(gray).
				Faint(true)

	appContainerStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)
)
