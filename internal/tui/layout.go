package tui

type LayoutMode int

const (
	LayoutSingleColumn LayoutMode = iota

	// LayoutTwoColumn puts the wheel on the left and history on the right.
	LayoutTwoColumn
)

type Layout struct {
	Mode         LayoutMode
	Width        int
	Height       int
	WheelWidth   int
	HistoryWidth int
}

const (
	minWidthTwoColumn = 70

	wideTerminalWidth = 120

	mediumWheelPercent = 60

	wideWheelPercent = 65
)

func NewLayout(width, height int) Layout {
	if width <= 0 {
		return Layout{Mode: LayoutSingleColumn, Width: width, Height: height}
	}

	if width < minWidthTwoColumn {
		return Layout{
			Mode:       LayoutSingleColumn,
			Width:      width,
			Height:     height,
			WheelWidth: width,
		}
	}

	percent := mediumWheelPercent
	if width >= wideTerminalWidth {
		percent = wideWheelPercent
	}
	wheelWidth := width * percent / 100

	return Layout{
		Mode:         LayoutTwoColumn,
		Width:        width,
		Height:       height,
		WheelWidth:   wheelWidth,
		HistoryWidth: width - wheelWidth,
	}
}

func (l Layout) IsTwoColumn() bool {
	return l.Mode == LayoutTwoColumn
}
