package tui

import (
	"fmt"
	"strings"
	"time"
)

// ProgressOptions holds optional parameters for progress rendering.
type ProgressOptions struct {
	// Spinner is the current spinner frame, shown before the stats.
	Spinner string
	// Rounds is the number of full turns of the running spin.
	Rounds int
}

// RenderProgress renders the time progress of a spin.
// Example output:
// "⣾ Spinning  •  8 rounds  •  42%  •  2.1s of 5.0s"
// "████████░░░░░░░░░░░░"
//
// A zero total counts as complete. The bar uses at most half of width.
func RenderProgress(elapsed, total time.Duration, width int, opts ProgressOptions) string {
	if elapsed < 0 {
		elapsed = 0
	}
	ratio := 1.0
	if total > 0 {
		ratio = min(float64(elapsed)/float64(total), 1)
	}

	var parts []string
	if ratio >= 1 {
		parts = append(parts, "Complete", formatSeconds(total))
	} else {
		head := "Spinning"
		if opts.Spinner != "" {
			head = opts.Spinner + " " + head
		}
		parts = append(parts, head)
		if opts.Rounds > 0 {
			parts = append(parts, pluralize(opts.Rounds, "round"))
		}
		parts = append(parts,
			fmt.Sprintf("%d%%", int(ratio*100)),
			formatSeconds(elapsed)+" of "+formatSeconds(total))
	}
	statsLine := strings.Join(parts, "  •  ")

	barWidth := width / 2
	if barWidth <= 0 {
		barWidth = len([]rune(statsLine))
	}
	filledCount := min(max(int(ratio*float64(barWidth)), 0), barWidth)

	bar := progressFilledStyle.Render(strings.Repeat("█", filledCount)) +
		progressEmptyStyle.Render(strings.Repeat("░", barWidth-filledCount))

	return progressTextStyle.Render(statsLine) + "\n" + bar
}

func formatSeconds(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
