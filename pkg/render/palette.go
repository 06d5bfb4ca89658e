package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/palette"
)

// Gradient is a continuous colour map interpolated in CIE L*a*b* space
// between evenly spaced stops. It implements palette.ColorMap.
type Gradient struct {
	stops    []colorful.Color
	min, max float64
	alpha    float64
}

// NewGradient returns a gradient over [0, 1] through the given stops.
// At least two stops are required; a single stop is repeated.
func NewGradient(stops ...colorful.Color) *Gradient {
	if len(stops) == 1 {
		stops = append(stops, stops[0])
	}
	return &Gradient{stops: stops, min: 0, max: 1, alpha: 1}
}

// At returns the colour for v. Values a hair outside [Min, Max] from
// floating-point rounding are clamped; anything further out is an error.
func (g *Gradient) At(v float64) (color.Color, error) {
	if math.IsNaN(v) {
		return nil, palette.ErrNaN
	}
	span := g.max - g.min
	tol := 1e-9 * math.Max(math.Abs(span), 1)
	switch {
	case v < g.min-tol:
		return nil, palette.ErrUnderflow
	case v > g.max+tol:
		return nil, palette.ErrOverflow
	}
	var t float64
	if span > 0 {
		t = math.Min(math.Max((v-g.min)/span, 0), 1)
	}
	return g.colorAt(t), nil
}

// Max returns the value mapped to the high end.
func (g *Gradient) Max() float64 { return g.max }

// Min returns the value mapped to the low end.
func (g *Gradient) Min() float64 { return g.min }

// SetMax sets the value mapped to the high end.
func (g *Gradient) SetMax(v float64) { g.max = v }

// SetMin sets the value mapped to the low end.
func (g *Gradient) SetMin(v float64) { g.min = v }

// Alpha returns the opacity applied to every colour.
func (g *Gradient) Alpha() float64 { return g.alpha }

// SetAlpha sets the opacity applied to every colour.
func (g *Gradient) SetAlpha(alpha float64) { g.alpha = alpha }

// Palette samples n evenly spaced colours from the low to the high end.
func (g *Gradient) Palette(n int) palette.Palette {
	out := make(colors, n)
	for i := range out {
		var t float64
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = g.colorAt(t)
	}
	return out
}

func (g *Gradient) colorAt(t float64) color.Color {
	seg := t * float64(len(g.stops)-1)
	i := int(seg)
	if i >= len(g.stops)-1 {
		i = len(g.stops) - 2
	}
	c := g.stops[i].BlendLab(g.stops[i+1], seg-float64(i)).Clamped()
	r, gr, b := c.RGB255()
	return color.NRGBA{R: r, G: gr, B: b, A: uint8(math.Round(255 * g.alpha))}
}

type colors []color.Color

func (c colors) Colors() []color.Color { return c }

// CubehelixParams configures a cubehelix colour map (Green, 2011).
type CubehelixParams struct {
	Start, Rot, Gamma, Hue, Light, Dark float64
}

// LogPalette is the rotating-hue map used for log-scaled heatmaps: light at
// low values, dark at high values.
var LogPalette = CubehelixParams{Start: 0, Rot: 1, Gamma: 0.65, Hue: 0.9, Light: 0.9, Dark: 0.05}

// Cubehelix builds a 256-stop gradient that runs from lightness Light at the
// low end to Dark at the high end.
func Cubehelix(p CubehelixParams) *Gradient {
	const n = 256
	stops := make([]colorful.Color, n)
	for i := range stops {
		x := p.Light + (p.Dark-p.Light)*float64(i)/float64(n-1)
		stops[i] = cubehelixAt(p, x)
	}
	return NewGradient(stops...)
}

func cubehelixAt(p CubehelixParams, x float64) colorful.Color {
	xg := math.Pow(x, p.Gamma)
	a := p.Hue * xg * (1 - xg) / 2
	phi := 2 * math.Pi * (p.Start/3 + p.Rot*x)
	cos, sin := math.Cos(phi), math.Sin(phi)
	return colorful.Color{
		R: clamp01(xg + a*(-0.14861*cos+1.78277*sin)),
		G: clamp01(xg + a*(-0.29227*cos-0.90649*sin)),
		B: clamp01(xg + a*(1.97294*cos)),
	}
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

// flareStops run from pale orange through red to dark purple.
var flareStops = []string{
	"#edb081", "#e98d6b", "#e3685c", "#d14a61",
	"#b13c6c", "#8f3371", "#6c2b6d", "#4b2362",
}

// Flare returns the fixed warm gradient used for linear heatmaps.
func Flare() *Gradient {
	stops := make([]colorful.Color, len(flareStops))
	for i, h := range flareStops {
		c, err := colorful.Hex(h)
		if err != nil {
			panic("render: bad flare stop " + h)
		}
		stops[i] = c
	}
	return NewGradient(stops...)
}
