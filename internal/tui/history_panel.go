package tui

import (
	"fmt"
	"luckywheel/internal/history"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// HistoryPanelModel lists past spins, newest first, in a scrollable viewport.
type HistoryPanelModel struct {
	viewport viewport.Model
	records  []history.Record
	width    int
	height   int
}

func NewHistoryPanel() HistoryPanelModel {
	return HistoryPanelModel{viewport: viewport.New(0, 0)}
}

func (h HistoryPanelModel) Update(msg tea.Msg) (HistoryPanelModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j", "down":
			h.viewport.ScrollDown(1)
		case "k", "up":
			h.viewport.ScrollUp(1)
		case "g", "home":
			h.viewport.GotoTop()
		}
	}
	return h, nil
}

func (h *HistoryPanelModel) SetSize(width, height int) {
	h.width = width
	h.height = height
	h.viewport = viewport.New(width, height)
	h.refresh()
}

// SetRecords replaces the list. The view jumps back to the newest entry.
func (h *HistoryPanelModel) SetRecords(records []history.Record) {
	h.records = records
	h.refresh()
	h.viewport.GotoTop()
}

func (h *HistoryPanelModel) refresh() {
	h.viewport.SetContent(renderHistory(h.records))
}

func (h HistoryPanelModel) Len() int {
	return len(h.records)
}

func (h HistoryPanelModel) ScrollPercent() float64 {
	return h.viewport.ScrollPercent()
}

func (h HistoryPanelModel) View() string {
	if len(h.records) == 0 {
		return idleStyle.Render("No spins yet")
	}
	return h.viewport.View()
}

func renderHistory(records []history.Record) string {
	var b strings.Builder
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		b.WriteString(historyIndexStyle.Render(fmt.Sprintf("#%-3d", i+1)))
		b.WriteString(" ")
		if r.Cancelled {
			b.WriteString(cancelledStyle.Render("✗ cancelled"))
		} else {
			b.WriteString(historyLabelStyle.Render(LandedIndicator + " " + r.Label))
			b.WriteString(" ")
			b.WriteString(historyTimeStyle.Render(fmt.Sprintf("slice %d • %s", r.Index+1, formatSeconds(r.Duration()))))
		}
		if i > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
