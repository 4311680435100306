package anim

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
)

var ErrUnknownEasing = errors.New("unknown easing")

// Easing maps linear progress t in [0,1] to eased progress. Every easing
// here returns exactly 0 at t=0 and exactly 1 at t=1.
type Easing func(t float64) float64

func Linear(t float64) float64 {
	return clamp(t, 0, 1)
}

// Decelerate starts fast and slows to a stop: 1-(1-t)^2.
func Decelerate(t float64) float64 {
	t = clamp(t, 0, 1)
	return 1 - (1-t)*(1-t)
}

func EaseOutCubic(t float64) float64 {
	t = clamp(t, 0, 1)
	u := 1 - t
	return 1 - u*u*u
}

func EaseInOutQuad(t float64) float64 {
	t = clamp(t, 0, 1)
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

var easings = map[string]Easing{
	"linear":         Linear,
	"decelerate":     Decelerate,
	"ease-out":       Decelerate,
	"ease-out-cubic": EaseOutCubic,
	"ease-in-out":    EaseInOutQuad,
}

// ParseEasing looks up an easing by name. The empty name means Decelerate.
func ParseEasing(name string) (Easing, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Decelerate, nil
	}
	e, ok := easings[key]
	if !ok {
		return nil, fmt.Errorf("%w %q, must be one of: %s", ErrUnknownEasing, name, strings.Join(EasingNames(), ", "))
	}
	return e, nil
}

// EasingNames lists accepted easing names in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func clamp[T constraints.Ordered](v, low, high T) T {
	return max(low, min(v, high))
}
