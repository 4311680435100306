package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Default theme: navy slices, white/gold labels, gold inner ring, purple rim.
const (
	DefaultSliceLight  = "#0F1C36"
	DefaultSliceDark   = "#051124"
	DefaultTextPrimary = "#FFFFFF"
	DefaultTextGold    = "#FACC15"
	DefaultTextOnColor = "#FFFFFF"
	DefaultTextShadow  = "#90000000"

	DefaultGold1 = "#FFF3B0"
	DefaultGold2 = "#FACC15"
	DefaultGold3 = "#B58A00"

	DefaultBorder1 = "#200E35"
	DefaultBorder2 = "#381B5D"
	DefaultBorder3 = "#582C8E"

	DefaultPointerBody   = "#FFFFFF"
	DefaultPointerGold   = "#FDF8A7"
	DefaultPointerShadow = "#977335"
	DefaultDropShadow    = "#70000000"

	DefaultBackground = "#00000000"
)

// Theme holds optional colors as hex strings (#RGB, #RRGGBB or #AARRGGBB).
// Empty fields use the defaults above. PointerBorder and PointerCenter have
// no single default: when unset the pointer uses gold gradients instead.
type Theme struct {
	SliceLight  string `yaml:"slice_light,omitempty"`
	SliceDark   string `yaml:"slice_dark,omitempty"`
	TextPrimary string `yaml:"text_primary,omitempty"`
	TextGold    string `yaml:"text_gold,omitempty"`
	TextOnColor string `yaml:"text_on_color,omitempty"`

	Gold1 string `yaml:"gold_1,omitempty"`
	Gold2 string `yaml:"gold_2,omitempty"`
	Gold3 string `yaml:"gold_3,omitempty"`

	Border1 string `yaml:"border_1,omitempty"`
	Border2 string `yaml:"border_2,omitempty"`
	Border3 string `yaml:"border_3,omitempty"`

	PointerBody   string `yaml:"pointer_body,omitempty"`
	PointerBorder string `yaml:"pointer_border,omitempty"`
	PointerCenter string `yaml:"pointer_center,omitempty"`

	Background string `yaml:"background,omitempty"`
}

// palette is a Theme with every color parsed.
type palette struct {
	sliceLight, sliceDark          color.Color
	textPrimary, textGold, textOn  color.Color
	textShadow, dropShadow         color.Color
	gold                           [3]colorful.Color
	border                         [3]color.Color
	pointerBody                    color.Color
	pointerBorder, pointerCenter   color.Color // nil = gradient
	pointerGold, pointerGoldShadow color.Color
	background                     color.Color
}

// Validate reports the first color that does not parse.
func (t Theme) Validate() error {
	_, err := t.palette()
	return err
}

func (t Theme) palette() (palette, error) {
	var p palette
	var err error

	parse := func(field, value, def string) color.Color {
		if err != nil {
			return nil
		}
		if value == "" {
			value = def
		}
		c, perr := ParseColor(value)
		if perr != nil {
			err = fmt.Errorf("theme %s: %w", field, perr)
			return nil
		}
		return c
	}
	optional := func(field, value string) color.Color {
		if value == "" {
			return nil
		}
		return parse(field, value, "")
	}
	gold := func(field, value, def string) colorful.Color {
		c := parse(field, value, def)
		if c == nil {
			return colorful.Color{}
		}
		cf, _ := colorful.MakeColor(c)
		return cf
	}

	p.sliceLight = parse("slice_light", t.SliceLight, DefaultSliceLight)
	p.sliceDark = parse("slice_dark", t.SliceDark, DefaultSliceDark)
	p.textPrimary = parse("text_primary", t.TextPrimary, DefaultTextPrimary)
	p.textGold = parse("text_gold", t.TextGold, DefaultTextGold)
	p.textOn = parse("text_on_color", t.TextOnColor, DefaultTextOnColor)
	p.textShadow = parse("text_shadow", "", DefaultTextShadow)
	p.dropShadow = parse("drop_shadow", "", DefaultDropShadow)
	p.gold = [3]colorful.Color{
		gold("gold_1", t.Gold1, DefaultGold1),
		gold("gold_2", t.Gold2, DefaultGold2),
		gold("gold_3", t.Gold3, DefaultGold3),
	}
	p.border = [3]color.Color{
		parse("border_1", t.Border1, DefaultBorder1),
		parse("border_2", t.Border2, DefaultBorder2),
		parse("border_3", t.Border3, DefaultBorder3),
	}
	p.pointerBody = parse("pointer_body", t.PointerBody, DefaultPointerBody)
	p.pointerBorder = optional("pointer_border", t.PointerBorder)
	p.pointerCenter = optional("pointer_center", t.PointerCenter)
	p.pointerGold = parse("pointer_gold", "", DefaultPointerGold)
	p.pointerGoldShadow = parse("pointer_gold_shadow", "", DefaultPointerShadow)
	p.background = parse("background", t.Background, DefaultBackground)

	if err != nil {
		return palette{}, err
	}
	return p, nil
}

// ParseColor parses #RGB, #RRGGBB and #AARRGGBB.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[1:3], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q: %w", s, err)
		}
		c, err := colorful.Hex("#" + s[3:])
		if err != nil {
			return nil, fmt.Errorf("invalid color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: uint8(a)}, nil
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// sweep samples the three-stop gold sweep at position t in [0,1]:
// gold1 at 0, gold2 at 0.25, gold3 at 0.55, back to gold1 at 1.
func (p palette) sweep(t float64) colorful.Color {
	switch {
	case t < 0.25:
		return p.gold[0].BlendRgb(p.gold[1], t/0.25)
	case t < 0.55:
		return p.gold[1].BlendRgb(p.gold[2], (t-0.25)/0.30)
	default:
		return p.gold[2].BlendRgb(p.gold[0], (t-0.55)/0.45)
	}
}
