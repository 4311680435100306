// Package wheel holds the ordered slice items of a lucky wheel and derives
// their angular geometry.
//
// Angles are in degrees. Slice i spans [BaseOffset + i*span, BaseOffset + (i+1)*span)
// where span = 360/n, and slices proceed clockwise. The pointer sits at angle
// 0, so with the default offset of -90 slice 0 starts a quarter turn before
// the pointer.
package wheel

import (
	"errors"
	"fmt"
	"math"
)

// DefaultBaseOffset starts slice 0 a quarter turn before the pointer.
const DefaultBaseOffset = -90.0

var (
	ErrIndexOutOfRange = errors.New("slice index out of range")
	ErrEmptyModel      = errors.New("wheel has no slices")
)

// Item is one wheel segment. Two items with identical fields are still
// distinct slices; identity is the position in the model.
type Item struct {
	Label string
	Icon  string
	Color string
}

// Model owns the ordered slice items.
type Model struct {
	items      []Item
	baseOffset float64

	// OnChange is called after SetItems. It is a redraw signal only.
	OnChange func()
}

func New(items ...Item) *Model {
	m := &Model{baseOffset: DefaultBaseOffset}
	m.items = append([]Item(nil), items...)
	return m
}

// SetItems replaces the whole sequence.
func (m *Model) SetItems(items []Item) {
	m.items = append([]Item(nil), items...)
	if m.OnChange != nil {
		m.OnChange()
	}
}

func (m *Model) Items() []Item {
	return append([]Item(nil), m.items...)
}

func (m *Model) Item(i int) (Item, error) {
	if err := m.checkIndex(i); err != nil {
		return Item{}, err
	}
	return m.items[i], nil
}

func (m *Model) SliceCount() int {
	return len(m.items)
}

func (m *Model) BaseOffset() float64 {
	return m.baseOffset
}

func (m *Model) SetBaseOffset(deg float64) {
	m.baseOffset = deg
	if m.OnChange != nil {
		m.OnChange()
	}
}

func (m *Model) SliceSpan() (float64, error) {
	if len(m.items) == 0 {
		return 0, ErrEmptyModel
	}
	return 360 / float64(len(m.items)), nil
}

// SliceStartAngle returns the unnormalized start angle of slice i, suitable
// for handing to an arc drawing routine.
func (m *Model) SliceStartAngle(i int) (float64, error) {
	if err := m.checkIndex(i); err != nil {
		return 0, err
	}
	span := 360 / float64(len(m.items))
	return m.baseOffset + float64(i)*span, nil
}

// SliceCenterAngle returns the center of slice i normalized into [0,360).
func (m *Model) SliceCenterAngle(i int) (float64, error) {
	start, err := m.SliceStartAngle(i)
	if err != nil {
		return 0, err
	}
	span := 360 / float64(len(m.items))
	return Normalize(start + span/2), nil
}

// SliceAt reports which slice sits under the pointer when the wheel is
// rotated clockwise by rotation degrees. The pointer is fixed at the
// reference angle 0, measured the same way as BaseOffset.
func (m *Model) SliceAt(rotation float64) (int, error) {
	n := len(m.items)
	if n == 0 {
		return 0, ErrEmptyModel
	}
	span := 360 / float64(n)
	// A wheel point at angle a is drawn at a+rotation. Find a with a+rotation == 0.
	rel := Normalize(-rotation - m.baseOffset)
	i := int(math.Floor(rel / span))
	// Guard against rel/span rounding up to n for values just below 360.
	if i >= n {
		i = n - 1
	}
	return i, nil
}

func (m *Model) checkIndex(i int) error {
	n := len(m.items)
	if n == 0 {
		// Both sentinels match: an index can never be in range of an empty wheel.
		return fmt.Errorf("%w: %w", ErrEmptyModel, ErrIndexOutOfRange)
	}
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, n)
	}
	return nil
}

// Normalize wraps any finite angle into [0,360).
func Normalize(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	// math.Mod of a tiny negative value plus 360 can round to exactly 360.
	if r >= 360 {
		r = 0
	}
	return r
}
