package render

import (
	"image/color"

	"github.com/fogleman/gg"
)

// Pointer is the teardrop cursor drawn over the top of the wheel. It is
// decoration only and never moves.
type Pointer struct {
	palette palette
}

func NewPointer(theme Theme) (*Pointer, error) {
	p, err := theme.palette()
	if err != nil {
		return nil, err
	}
	return &Pointer{palette: p}, nil
}

// Bounds returns the box the pointer occupies for a wheel layout: centered
// horizontally, tip reaching just inside the rim.
func (p *Pointer) Bounds(l Layout) (x, y, w, h float64) {
	w = float64(l.Size) * 0.14
	h = w * 1.35
	x = l.CenterX - w/2
	y = max(l.CenterY-l.Radius-innerStroke-outerStroke/2-h*0.35, 0)
	return x, y, w, h
}

// Draw paints the pointer into the box (x, y, w, h). The tip points down.
func (p *Pointer) Draw(dc *gg.Context, x, y, w, h float64) {
	pad := w * 0.1

	// Drop shadow: the same outline offset downwards.
	p.path(dc, x, y+h*0.05, w, h, pad)
	dc.SetColor(p.palette.dropShadow)
	dc.Fill()

	p.path(dc, x, y, w, h, pad)
	dc.SetColor(p.palette.pointerBody)
	dc.FillPreserve()

	dc.SetLineWidth(w * 0.07)
	dc.SetLineJoinRound()
	dc.SetLineCapRound()
	if p.palette.pointerBorder != nil {
		dc.SetColor(p.palette.pointerBorder)
	} else {
		grad := gg.NewLinearGradient(x, y, x, y+h)
		grad.AddColorStop(0, p.palette.pointerGold)
		grad.AddColorStop(1, p.palette.pointerGoldShadow)
		dc.SetStrokeStyle(grad)
	}
	dc.Stroke()

	cx := x + w/2
	cy := y + h*0.30
	r := w * 0.13

	dc.DrawCircle(cx, cy+r*0.25, r)
	dc.SetColor(p.palette.dropShadow)
	dc.Fill()

	dc.DrawCircle(cx, cy, r)
	if p.palette.pointerCenter != nil {
		dc.SetColor(p.palette.pointerCenter)
		dc.Fill()
		return
	}
	grad := gg.NewRadialGradient(cx, cy, 0, cx, cy, r)
	grad.AddColorStop(0, p.palette.pointerGold)
	grad.AddColorStop(1, p.palette.pointerGoldShadow)
	dc.SetFillStyle(grad)
	dc.Fill()

	dc.DrawCircle(cx-r*0.3, cy-r*0.3, r*0.35)
	dc.SetColor(color.NRGBA{R: 255, G: 255, B: 255, A: 140})
	dc.Fill()
}

func (p *Pointer) path(dc *gg.Context, x, y, w, h, pad float64) {
	dc.NewSubPath()
	dc.MoveTo(x+w/2, y+pad)
	dc.CubicTo(
		x+w+pad*2, y+h*0.32,
		x+w*0.62, y+h*0.62,
		x+w/2, y+h-pad,
	)
	dc.CubicTo(
		x+w*0.38, y+h*0.62,
		x-pad*2, y+h*0.32,
		x+w/2, y+pad,
	)
	dc.ClosePath()
}
