package tui

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func AssertShowsTitle(t *testing.T, view string) {
	t.Helper()
	assert.Contains(t, view, "LUCKY WHEEL", "View should contain title")
}

func AssertLanded(t *testing.T, view, label string) {
	t.Helper()
	assert.Contains(t, stripANSI(view), LandedIndicator+" "+label, "View should show landed label: %s", label)
}

func AssertSpinning(t *testing.T, view string) {
	t.Helper()
	assert.Contains(t, stripANSI(view), "Spinning", "View should show a running spin")
}

func AssertIdle(t *testing.T, view string) {
	t.Helper()
	assert.NotContains(t, stripANSI(view), "Spinning", "View should not show a running spin")
}

func AssertHasError(t *testing.T, view, errorText string) {
	t.Helper()
	assert.Contains(t, stripANSI(view), errorText, "View should show error message: %s", errorText)
}
