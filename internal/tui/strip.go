package tui

import (
	"luckywheel/internal/wheel"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	PointerIndicator = "▼"
	LandedIndicator  = "★"

	minCellWidth = 7
	maxCellWidth = 16
)

// Strip is the terminal stand-in for the drawn wheel: the rim around the
// pointer unrolled into a row of cells. Slice i+1 sits to the right of slice
// i, so a forward spin scrolls the row to the right under a fixed pointer.
type Strip struct {
	model *wheel.Model
	width int
}

func NewStrip(model *wheel.Model) *Strip {
	return &Strip{model: model, width: 40}
}

func (s *Strip) SetWidth(width int) {
	s.width = max(width, minCellWidth)
}

func (s *Strip) cellWidth() int {
	n := max(s.model.SliceCount(), 1)
	// Aim for at least five visible cells.
	return min(max(s.width/min(n, 5), minCellWidth), maxCellWidth)
}

// Row returns the unstyled cell row as it looks at rotation, exactly width
// runes wide, and the index of the slice under the pointer.
func (s *Strip) Row(rotation float64) (string, int) {
	n := s.model.SliceCount()
	if n == 0 {
		return strings.Repeat(" ", s.width), -1
	}

	idx, _ := s.model.SliceAt(rotation)
	span, _ := s.model.SliceSpan()
	start, _ := s.model.SliceStartAngle(idx)
	// How far the pointer has travelled into the slice, in [0,1).
	frac := wheel.Normalize(-rotation-start) / span
	if frac >= 1 {
		frac = 0
	}

	cw := s.cellWidth()
	side := s.width/(2*cw) + 2

	var row []rune
	for k := -side; k <= side; k++ {
		i := ((idx+k)%n + n) % n
		row = append(row, []rune(cell(s.model, i, cw))...)
	}

	// Column of the pointer inside the row.
	pointer := side*cw + int(math.Floor(frac*float64(cw)))
	from := pointer - s.width/2
	return string(row[from : from+s.width]), idx
}

func cell(m *wheel.Model, i, width int) string {
	it, _ := m.Item(i)
	label := []rune(it.Label)
	if len(label) > width-2 {
		label = append(label[:width-3], '…')
	}
	pad := width - 1 - len(label)
	left := pad / 2
	return "│" + strings.Repeat(" ", left) + string(label) + strings.Repeat(" ", pad-left)
}

// View renders the pointer marker, the row, and the rail beneath it.
func (s *Strip) View(rotation float64) string {
	row, idx := s.Row(rotation)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", s.width/2))
	b.WriteString(pointerStyle.Render(PointerIndicator))
	b.WriteString("\n")
	b.WriteString(stripStyle.Render(row))
	b.WriteString("\n")
	b.WriteString(railStyle.Render(strings.Repeat("═", s.width)))

	if idx >= 0 {
		it, _ := s.model.Item(idx)
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(s.width, lipgloss.Center, selectedSliceStyle.Render(it.Label)))
	}
	return b.String()
}
