package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name       string
		elapsed    time.Duration
		total      time.Duration
		width      int
		opts       ProgressOptions
		wantText   string
		wantFilled int
	}{
		{
			name:       "just started",
			elapsed:    0,
			total:      5 * time.Second,
			width:      40,
			wantText:   "Spinning  •  0%  •  0.0s of 5.0s",
			wantFilled: 0,
		},
		{
			name:       "halfway with rounds",
			elapsed:    2500 * time.Millisecond,
			total:      5 * time.Second,
			width:      40,
			opts:       ProgressOptions{Rounds: 8},
			wantText:   "Spinning  •  8 rounds  •  50%  •  2.5s of 5.0s",
			wantFilled: 10,
		},
		{
			name:     "one round with spinner",
			elapsed:  time.Second,
			total:    4 * time.Second,
			width:    40,
			opts:     ProgressOptions{Spinner: "⣾", Rounds: 1},
			wantText: "⣾ Spinning  •  1 round  •  25%",
		},
		{
			name:       "complete",
			elapsed:    6 * time.Second,
			total:      5 * time.Second,
			width:      40,
			wantText:   "Complete  •  5.0s",
			wantFilled: 20,
		},
		{
			name:       "zero duration is complete",
			total:      0,
			width:      10,
			wantText:   "Complete",
			wantFilled: 5,
		},
		{
			name:     "minutes",
			elapsed:  30 * time.Second,
			total:    90 * time.Second,
			width:    40,
			wantText: "30.0s of 1m30s",
		},
		{
			name:     "negative elapsed clamps",
			elapsed:  -time.Second,
			total:    time.Second,
			width:    40,
			wantText: "0%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderProgress(tt.elapsed, tt.total, tt.width, tt.opts)

			lines := strings.Split(result, "\n")
			assert.Len(t, lines, 2, "should have 2 lines: stats and bar")
			assert.Contains(t, stripANSI(lines[0]), tt.wantText)

			bar := stripANSI(lines[1])
			assert.Equal(t, tt.width/2, len([]rune(bar)), "bar uses half the width")
			if tt.wantFilled > 0 || tt.elapsed == 0 {
				assert.Equal(t, tt.wantFilled, strings.Count(bar, "█"))
			}
		})
	}
}

func TestRenderProgress_ZeroWidthUsesStatsWidth(t *testing.T) {
	result := RenderProgress(time.Second, 2*time.Second, 0, ProgressOptions{})
	lines := strings.Split(stripANSI(result), "\n")
	assert.Equal(t, len([]rune(lines[0])), len([]rune(lines[1])))
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "0.0s", formatSeconds(-time.Second))
	assert.Equal(t, "1.5s", formatSeconds(1500*time.Millisecond))
	assert.Equal(t, "59.9s", formatSeconds(59900*time.Millisecond))
	assert.Equal(t, "2m5s", formatSeconds(125*time.Second))
}
