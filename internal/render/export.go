package render

import (
	"fmt"
	"image"
	"image/color"
	cpalette "image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"luckywheel/internal/wheel"
	"runtime"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// Scene is a wheel with its pointer on one canvas.
type Scene struct {
	Wheel   *Wheel
	Pointer *Pointer
}

func NewScene(model *wheel.Model, theme Theme, size int) (*Scene, error) {
	w, err := NewWheel(model, theme, size)
	if err != nil {
		return nil, fmt.Errorf("build wheel: %w", err)
	}
	p, err := NewPointer(theme)
	if err != nil {
		return nil, fmt.Errorf("build pointer: %w", err)
	}
	return &Scene{Wheel: w, Pointer: p}, nil
}

// Frame renders the scene at one rotation. Frame is safe for concurrent use
// once icons are loaded.
func (s *Scene) Frame(rotation float64) image.Image {
	l := s.Wheel.Layout()
	dc := gg.NewContext(l.Size, l.Size)
	s.Wheel.background(dc)
	s.Wheel.Draw(dc, rotation)
	x, y, w, h := s.Pointer.Bounds(l)
	s.Pointer.Draw(dc, x, y, w, h)
	return dc.Image()
}

// Frames renders every rotation, at most one frame per CPU at a time, and
// keeps the input order.
func (s *Scene) Frames(rotations []float64) []image.Image {
	out := make([]image.Image, len(rotations))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, r := range rotations {
		g.Go(func() error {
			out[i] = s.Frame(r)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// EncodeGIF writes frames as an animated GIF. delay is per frame in 100ths
// of a second; the last frame is held for hold 100ths.
func (s *Scene) EncodeGIF(w io.Writer, frames []image.Image, delay, hold int) error {
	if len(frames) == 0 {
		return fmt.Errorf("encode gif: no frames")
	}

	bg := s.Wheel.opaqueBackground()
	anim := &gif.GIF{
		Image: make([]*image.Paletted, len(frames)),
		Delay: make([]int, len(frames)),
	}
	for i, f := range frames {
		anim.Image[i] = quantize(f, bg)
		anim.Delay[i] = delay
	}
	if hold > 0 {
		anim.Delay[len(frames)-1] = hold
	}

	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

// quantize flattens src onto bg and dithers it to the Plan9 palette.
func quantize(src image.Image, bg color.Color) *image.Paletted {
	b := src.Bounds()
	flat := image.NewRGBA(b)
	xdraw.Draw(flat, b, image.NewUniform(bg), image.Point{}, xdraw.Src)
	xdraw.Draw(flat, b, src, b.Min, xdraw.Over)

	dst := image.NewPaletted(b, cpalette.Plan9)
	xdraw.FloydSteinberg.Draw(dst, b, flat, b.Min)
	return dst
}
