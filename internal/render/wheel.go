// Package render draws the wheel and its pointer onto raster images.
//
// The wheel model measures angles with the pointer at 0. On screen the
// pointer sits at the top, so model angle a on a wheel rotated by r is drawn
// at screen angle a + r + PointerAngle (screen angles grow clockwise).
//
// With the default base offset of -90, slice 0 starts at 9 o'clock and ends
// under the pointer when the rotation is 0. A base offset of 0 starts slice
// 0 under the pointer instead.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"luckywheel/internal/wheel"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

// PointerAngle is the screen angle of the fixed pointer: straight up.
const PointerAngle = -90.0

const (
	defaultSize   = 600
	wheelPadding  = 20.0
	innerStroke   = 4.0
	outerStroke   = 16.0
	ringSegments  = 180
	textRadius    = 0.75
	iconRadius    = 0.45
	iconHalfSize  = 0.10
	textSizeRatio = 0.14
)

// Layout is the geometry of a wheel fitted into a square canvas.
type Layout struct {
	Size    int
	CenterX float64
	CenterY float64
	Radius  float64
}

// NewLayout fits the wheel into size x size pixels.
func NewLayout(size int) Layout {
	if size <= 0 {
		size = defaultSize
	}
	half := float64(size) / 2
	return Layout{
		Size:    size,
		CenterX: half,
		CenterY: half,
		Radius:  max(half-wheelPadding, 1),
	}
}

// Wheel draws a wheel.Model.
type Wheel struct {
	model   *wheel.Model
	palette palette
	layout  Layout
	font    *truetype.Font
	icons   map[string]image.Image
}

func NewWheel(model *wheel.Model, theme Theme, size int) (*Wheel, error) {
	p, err := theme.palette()
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Wheel{
		model:   model,
		palette: p,
		layout:  NewLayout(size),
		font:    f,
		icons:   make(map[string]image.Image),
	}, nil
}

func (w *Wheel) Layout() Layout {
	return w.layout
}

// LoadIcons reads every icon referenced by the model. Icons that fail to
// load are skipped when drawing; the joined error lists them.
func (w *Wheel) LoadIcons() error {
	var errs []error
	side := int(math.Round(w.layout.Radius * iconHalfSize * 2))
	for _, it := range w.model.Items() {
		if it.Icon == "" {
			continue
		}
		if _, ok := w.icons[it.Icon]; ok {
			continue
		}
		img, err := gg.LoadImage(it.Icon)
		if err != nil {
			errs = append(errs, fmt.Errorf("icon %s: %w", it.Icon, err))
			continue
		}
		w.icons[it.Icon] = scaleIcon(img, side)
	}
	return errors.Join(errs...)
}

func scaleIcon(src image.Image, side int) image.Image {
	if side <= 0 {
		side = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

func (w *Wheel) fontFace() font.Face {
	return truetype.NewFace(w.font, &truetype.Options{
		Size:    w.layout.Radius * textSizeRatio,
		Hinting: font.HintingFull,
	})
}

// Draw paints the wheel rotated by rotation degrees. An empty model draws
// only the rings.
func (w *Wheel) Draw(dc *gg.Context, rotation float64) {
	if w.model.SliceCount() > 0 {
		dc.SetFontFace(w.fontFace())
		span, _ := w.model.SliceSpan()
		for i, it := range w.model.Items() {
			start, _ := w.model.SliceStartAngle(i)
			screenStart := start + rotation + PointerAngle
			w.drawSlice(dc, i, it, screenStart, span)
		}
	}

	w.drawRings(dc)
}

func (w *Wheel) drawSlice(dc *gg.Context, i int, it wheel.Item, start, span float64) {
	l := w.layout
	light := i%2 == 0

	fill := w.palette.sliceDark
	text := w.palette.textGold
	if light {
		fill = w.palette.sliceLight
		text = w.palette.textPrimary
	}
	if it.Color != "" {
		if c, err := ParseColor(it.Color); err == nil {
			fill = c
			text = w.palette.textOn
		}
	}

	dc.NewSubPath()
	dc.MoveTo(l.CenterX, l.CenterY)
	dc.DrawArc(l.CenterX, l.CenterY, l.Radius, gg.Radians(start), gg.Radians(start+span))
	dc.ClosePath()
	dc.SetColor(fill)
	dc.Fill()

	mid := gg.Radians(start + span/2)

	if it.Label != "" {
		x := l.CenterX + l.Radius*textRadius*math.Cos(mid)
		y := l.CenterY + l.Radius*textRadius*math.Sin(mid)
		dc.SetColor(w.palette.textShadow)
		dc.DrawStringAnchored(it.Label, x, y+3, 0.5, 0.5)
		dc.SetColor(text)
		dc.DrawStringAnchored(it.Label, x, y, 0.5, 0.5)
	}

	if icon, ok := w.icons[it.Icon]; ok && it.Icon != "" {
		x := l.CenterX + l.Radius*iconRadius*math.Cos(mid)
		y := l.CenterY + l.Radius*iconRadius*math.Sin(mid)
		dc.Push()
		dc.RotateAbout(mid+math.Pi/2, x, y)
		dc.DrawImageAnchored(icon, int(math.Round(x)), int(math.Round(y)), 0.5, 0.5)
		dc.Pop()
	}
}

func (w *Wheel) drawRings(dc *gg.Context) {
	l := w.layout

	// Inner gold ring: a sweep gradient approximated by short arcs.
	innerR := l.Radius + innerStroke/2
	dc.SetLineWidth(innerStroke)
	dc.SetLineCapButt()
	step := 2 * math.Pi / ringSegments
	for s := 0; s < ringSegments; s++ {
		a0 := float64(s) * step
		dc.NewSubPath()
		// Overlap by a hair so segments leave no seams.
		dc.DrawArc(l.CenterX, l.CenterY, innerR, a0, a0+step*1.05)
		dc.SetColor(w.palette.sweep((float64(s) + 0.5) / ringSegments))
		dc.Stroke()
	}

	outerR := innerR + innerStroke/2 + outerStroke/2 - 2
	grad := gg.NewLinearGradient(l.CenterX-l.Radius, l.CenterY, l.CenterX+l.Radius, l.CenterY)
	grad.AddColorStop(0, w.palette.border[0])
	grad.AddColorStop(0.5, w.palette.border[1])
	grad.AddColorStop(1, w.palette.border[2])
	dc.SetLineWidth(outerStroke)
	dc.SetStrokeStyle(grad)
	dc.DrawCircle(l.CenterX, l.CenterY, outerR)
	dc.Stroke()
}

// background fills the canvas with the theme background, if it is not
// fully transparent.
func (w *Wheel) background(dc *gg.Context) {
	if _, _, _, a := w.palette.background.RGBA(); a == 0 {
		return
	}
	dc.SetColor(w.palette.background)
	dc.Clear()
}

// opaqueBackground is used where the output format has no alpha.
func (w *Wheel) opaqueBackground() color.Color {
	if _, _, _, a := w.palette.background.RGBA(); a == 0 {
		return w.palette.sliceDark
	}
	return w.palette.background
}
