package tui

import (
	"errors"
	"fmt"
	"io"
	"luckywheel/internal/wheel"

	"github.com/charmbracelet/huh"
)

// TargetChooser asks which slice the next spin should land on.
type TargetChooser struct {
	input      io.Reader
	output     io.Writer
	accessible bool
}

func NewTargetChooser() *TargetChooser {
	return &TargetChooser{}
}

// WithInput reads answers from r in accessible (line based) mode, for tests
// and non-interactive use.
func (c *TargetChooser) WithInput(r io.Reader) *TargetChooser {
	c.input = r
	c.accessible = true
	return c
}

func (c *TargetChooser) WithOutput(w io.Writer) *TargetChooser {
	c.output = w
	return c
}

// Choose returns the index of the selected slice.
func (c *TargetChooser) Choose(m *wheel.Model) (int, error) {
	items := m.Items()
	if len(items) == 0 {
		return 0, wheel.ErrEmptyModel
	}

	options := make([]huh.Option[int], len(items))
	for i, it := range items {
		options[i] = huh.NewOption(fmt.Sprintf("%d. %s", i+1, it.Label), i)
	}

	var index int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Land on which slice?").
				Options(options...).
				Value(&index),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if c.input != nil {
		form = form.WithInput(c.input)
	}
	if c.output != nil {
		form = form.WithOutput(c.output)
	}
	if c.accessible {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return 0, fmt.Errorf("target prompt cancelled: %w", err)
		}
		return 0, fmt.Errorf("target prompt: %w", err)
	}

	return index, nil
}
