package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	errs "github.com/apopov/latfig/pkg/errors"
)

// Output formats understood by [Figure.Save].
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatEPS  = "eps"
	FormatTeX  = "tex"
	FormatJPEG = "jpg"
	FormatTIFF = "tiff"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatEPS:  true,
	FormatTeX:  true,
	FormatJPEG: true,
	FormatTIFF: true,
}

// DefaultDPI is the raster resolution used when none is given.
const DefaultDPI = 300

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, pdf, eps, tex, jpg, tiff)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Figure is the drawing context of one output figure. It owns its plots
// and is released with Close once every format has been saved; nothing is
// shared between figures.
type Figure struct {
	Width, Height vg.Length
	DPI           int

	main   *plot.Plot
	bar    *plot.Plot
	series int // data series drawn in main, excluding markers

	// Grid size of a heatmap; when set, the main plot is cropped so data
	// cells are square.
	cols, rows int
}

// Save writes the figure to path, picking the backend from the extension.
func (f *Figure) Save(path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "jpeg" {
		format = FormatJPEG
	}
	if format == "tif" {
		format = FormatTIFF
	}
	if err := ValidateFormat(format); err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeOutputWrite, err, "create %s", path)
	}
	if _, err := f.WriteTo(out, format); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeOutputWrite, err, "close %s", path)
	}
	return nil
}

// WriteTo renders the figure in the given format to w.
func (f *Figure) WriteTo(w io.Writer, format string) (int64, error) {
	if f.main == nil {
		return 0, errs.New(errs.ErrCodeInternal, "figure already closed")
	}
	c, err := f.canvas(format)
	if err != nil {
		return 0, err
	}
	// The vgtex and vgeps backends cannot embed the colour bar's raster image.
	f.draw(draw.New(c), format != FormatTeX && format != FormatEPS)

	n, err := c.WriteTo(w)
	if err != nil {
		return n, errs.Wrap(errs.ErrCodeOutputWrite, err, "write %s", format)
	}
	return n, nil
}

// Series returns the number of data series (heatmaps or trajectory lines)
// drawn in the figure.
func (f *Figure) Series() int {
	return f.series
}

// Close releases the plots held by the figure. It is safe to call twice.
func (f *Figure) Close() {
	f.main = nil
	f.bar = nil
}

func (f *Figure) canvas(format string) (vg.CanvasWriterTo, error) {
	dpi := f.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	switch format {
	case FormatPNG:
		return vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(f.Width, f.Height), vgimg.UseDPI(dpi))}, nil
	case FormatJPEG:
		return vgimg.JpegCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(f.Width, f.Height), vgimg.UseDPI(dpi))}, nil
	case FormatTIFF:
		return vgimg.TiffCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(f.Width, f.Height), vgimg.UseDPI(dpi))}, nil
	}
	c, err := draw.NewFormattedCanvas(f.Width, f.Height, format)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "format %s", format)
	}
	return c, nil
}

// barFraction is the share of the figure width given to the colour bar.
const barFraction = 0.2

func (f *Figure) draw(dc draw.Canvas, withBar bool) {
	mainCanvas, barCanvas := f.layout(dc, withBar)
	f.main.Draw(mainCanvas)

	if withBar && f.bar != nil {
		// Line the bar up with the heatmap's data area.
		da := f.main.DataCanvas(mainCanvas)
		bottom := da.Min.Y - barCanvas.Min.Y
		top := da.Max.Y - barCanvas.Max.Y
		f.bar.Draw(draw.Crop(barCanvas, 0, 0, bottom, top))
	}
}

// layout splits dc into the main plot area and, when the bar is drawn, the
// strip to its right.
func (f *Figure) layout(dc draw.Canvas, withBar bool) (mainCanvas, barCanvas draw.Canvas) {
	mainCanvas = dc
	if withBar && f.bar != nil {
		w := dc.Rectangle.Size().X
		barW := w * barFraction
		mainCanvas = draw.Crop(dc, 0, -barW, 0, 0)
		barCanvas = draw.Crop(dc, w-barW, 0, 0, 0)
	}
	if f.cols > 0 && f.rows > 0 {
		mainCanvas = squareCells(f.main, mainCanvas, f.cols, f.rows)
	}
	return mainCanvas, barCanvas
}

// squareCells shrinks c along one axis so that a cols×rows grid drawn in the
// plot's data area has square cells. The grid spans exactly cols units in x
// and rows units in y.
func squareCells(p *plot.Plot, c draw.Canvas, cols, rows int) draw.Canvas {
	size := p.DataCanvas(c).Rectangle.Size()
	cw := size.X / vg.Length(cols)
	ch := size.Y / vg.Length(rows)
	switch {
	case cw > ch:
		excess := (cw - ch) * vg.Length(cols)
		return draw.Crop(c, excess/2, -excess/2, 0, 0)
	case ch > cw:
		excess := (ch - cw) * vg.Length(rows)
		return draw.Crop(c, 0, 0, excess/2, -excess/2)
	}
	return c
}

// OutputPath joins dir, base and format into "<dir>/<base>.<format>".
func OutputPath(dir, base, format string) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%s", base, format))
}
