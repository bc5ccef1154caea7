package ttyl

import (
	"fmt"
	"math"
)

// ColorCode identifies one of the 16 named terminal colors.
type ColorCode uint8

// The 8 standard colors followed by their bright variants.
const (
	Black ColorCode = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

type colorKind uint8

const (
	kindNamed colorKind = iota
	kindCube
	kindGrayscale
	kindRGB
)

// Color is an abstract terminal color as selected by SGR sequences.
// It is one of Named(0..15), Cube(16..231), Grayscale(232..255) or RGB(r,g,b).
// Use Resolve to turn it into something that can be drawn.
type Color struct {
	kind    colorKind
	index   uint8
	r, g, b uint8
}

var (
	// DefaultForeground is the color used for text when no SGR color is active.
	DefaultForeground = Named(White)
	// DefaultBackground is the color used behind text when no SGR color is active.
	DefaultBackground = Named(Black)
)

// Named returns one of the 16 base colors. Codes above 15 wrap into range.
func Named(code ColorCode) Color {
	return Color{kind: kindNamed, index: uint8(code) & 0x0f}
}

// Cube returns a color from the 6x6x6 portion of the 256 color table.
// Indexes outside 16..231 are decoded as Decode256 would.
func Cube(n uint8) Color {
	if n < 16 || n > 231 {
		return Decode256(n)
	}
	return Color{kind: kindCube, index: n}
}

// Grayscale returns one of the 24 gray steps (232..255) of the 256 color table.
// Indexes below 232 are decoded as Decode256 would.
func Grayscale(n uint8) Color {
	if n < 232 {
		return Decode256(n)
	}
	return Color{kind: kindGrayscale, index: n}
}

// RGBColor returns a 24 bit color.
func RGBColor(r, g, b uint8) Color {
	return Color{kind: kindRGB, r: r, g: g, b: b}
}

// Decode256 maps an index of the xterm 256 color table to a Color.
func Decode256(n uint8) Color {
	switch {
	case n < 16:
		return Named(ColorCode(n))
	case n < 232:
		return Color{kind: kindCube, index: n}
	default:
		return Color{kind: kindGrayscale, index: n}
	}
}

// EncodeCube returns the 256 color index of the cube entry with the given components.
// Each component is in 0..5, larger values are treated as 5.
func EncodeCube(r, g, b uint8) uint8 {
	return 16 + 36*min(r, 5) + 6*min(g, 5) + min(b, 5)
}

// NamedCode returns the base color code if this is a named color.
func (c Color) NamedCode() (ColorCode, bool) {
	return ColorCode(c.index), c.kind == kindNamed
}

// Index returns the position of this color in the 256 color table.
// It reports false for 24 bit colors.
func (c Color) Index() (uint8, bool) {
	return c.index, c.kind != kindRGB
}

// CubeComponents returns the base 6 components of a cube color.
func (c Color) CubeComponents() (r, g, b uint8, ok bool) {
	if c.kind != kindCube {
		return 0, 0, 0, false
	}
	n := c.index - 16
	b = n % 6
	n = (n - b) / 6
	g = n % 6
	r = (n - g) / 6
	return r, g, b, true
}

// TrueColor returns the channels of a 24 bit color.
func (c Color) TrueColor() (r, g, b uint8, ok bool) {
	return c.r, c.g, c.b, c.kind == kindRGB
}

func (c Color) String() string {
	switch c.kind {
	case kindCube:
		return fmt.Sprintf("cube(%d)", c.index)
	case kindGrayscale:
		return fmt.Sprintf("grayscale(%d)", c.index)
	case kindRGB:
		return fmt.Sprintf("rgb(%d,%d,%d)", c.r, c.g, c.b)
	default:
		return fmt.Sprintf("named(%d)", c.index)
	}
}

// RGB is a resolved color with each channel normalised to 0..1.
// It satisfies image/color.Color so it can be handed straight to a renderer.
type RGB struct {
	R, G, B float64
}

// RGBA implements color.Color, the result is always opaque.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return channel16(c.R), channel16(c.G), channel16(c.B), 0xffff
}

func channel16(v float64) uint32 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xffff
	}
	return uint32(math.Round(v * 0xffff))
}

// Palette overrides the RGB value of some or all of the 16 named colors.
type Palette map[ColorCode]RGB

// Copy returns an independent copy of the palette.
func (p Palette) Copy() Palette {
	if p == nil {
		return nil
	}
	c := make(Palette, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

var defaultColorTable = [16]RGB{
	Black:         {0, 0, 0},
	Red:           {1, 0.23, 0.19},
	Green:         {0.2, 0.78, 0.35},
	Yellow:        {1, 0.8, 0},
	Blue:          {0, 0.48, 1},
	Magenta:       {0.83, 0.22, 0.83},
	Cyan:          {0.2, 0.73, 0.78},
	White:         {0.8, 0.8, 0.8},
	BrightBlack:   {0.51, 0.51, 0.51},
	BrightRed:     {0.99, 0.22, 0.12},
	BrightGreen:   {0.19, 0.91, 0.13},
	BrightYellow:  {0.92, 0.93, 0.14},
	BrightBlue:    {0.35, 0.2, 1},
	BrightMagenta: {0.98, 0.21, 0.97},
	BrightCyan:    {0.08, 0.94, 0.94},
	BrightWhite:   {1, 1, 1},
}

// DefaultColor returns the built in RGB value of a named color.
func DefaultColor(code ColorCode) RGB {
	if int(code) >= len(defaultColorTable) {
		return RGB{}
	}
	return defaultColorTable[code]
}

// Resolve maps an abstract color to RGB.
// Named colors are looked up in override first, then in the built in table, then fall back to black.
func Resolve(c Color, override Palette) RGB {
	switch c.kind {
	case kindCube:
		r, g, b, _ := c.CubeComponents()
		return RGB{float64(r) / 5, float64(g) / 5, float64(b) / 5}
	case kindGrayscale:
		v := float64(c.index-232) / 23
		return RGB{v, v, v}
	case kindRGB:
		return RGB{float64(c.r) / 255, float64(c.g) / 255, float64(c.b) / 255}
	}

	code := ColorCode(c.index)
	if rgb, ok := override[code]; ok {
		return rgb
	}
	return DefaultColor(code)
}
