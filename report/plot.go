// Package report renders cross-validation results: a chart with one panel per
// trait, and terminal tables and curves.
package report

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/classifier"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/evaluation"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// PlotOptions controls the chart layout.
type PlotOptions struct {
	// Axis labels the hyperparameter axis, e.g. "C".
	Axis string
	// Log plots against ln(value); every value must then be positive.
	Log bool
	// Cols is the number of panels per row.
	Cols int
	// Panel is the size of one square panel.
	Panel vg.Length
}

// DefaultPlotOptions lays the panels out three per row, with the x axis
// scaled the way the family's grid is.
func DefaultPlotOptions(family classifier.Family) PlotOptions {
	return PlotOptions{Axis: family.Axis(), Log: family.LogScale(), Cols: 3, Panel: 3 * vg.Inch}
}

// Plot draws mean accuracy with a band of one standard deviation across
// folds against the hyperparameter (or its logarithm when opts.Log is set),
// one panel per trait, and saves the chart to path. The image format follows the file extension (png, jpg, tiff).
func Plot(tensor *evaluation.ScoreTensor, path string, opts PlotOptions) error {
	if len(tensor.Traits) == 0 {
		return errors.Configf("nothing to plot")
	}
	for _, v := range tensor.Values {
		if opts.Log && !(v > 0) {
			return errors.Configf("hyperparameter value %v has no logarithm", v)
		}
	}
	if opts.Cols < 1 {
		opts.Cols = 1
	}
	if opts.Cols > len(tensor.Traits) {
		opts.Cols = len(tensor.Traits)
	}
	mean, std := tensor.Summary()

	rows := (len(tensor.Traits) + opts.Cols - 1) / opts.Cols
	plots := make([][]*plot.Plot, rows)
	for j := range plots {
		plots[j] = make([]*plot.Plot, opts.Cols)
		for i := range plots[j] {
			t := j*opts.Cols + i
			if t >= len(tensor.Traits) {
				p := plot.New()
				p.HideAxes()
				plots[j][i] = p
				continue
			}
			p, err := panel(tensor.Traits[t], tensor.Values, mean[t], std[t], opts)
			if err != nil {
				return err
			}
			plots[j][i] = p
		}
	}

	img := vgimg.New(vg.Length(opts.Cols)*opts.Panel, vg.Length(rows)*opts.Panel)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      opts.Cols,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(2),
		PadBottom: vg.Points(2),
		PadLeft:   vg.Points(2),
		PadRight:  vg.Points(2),
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			plots[j][i].Draw(canvases[j][i])
		}
	}
	return save(img, path)
}

func panel(trait string, values, mean, std []float64, opts PlotOptions) (*plot.Plot, error) {
	xs := make([]float64, len(values))
	for c, v := range values {
		xs[c] = v
		if opts.Log {
			xs[c] = math.Log(v)
		}
	}
	line := make(plotter.XYs, len(values))
	band := make(plotter.XYs, 0, 2*len(values))
	for c, x := range xs {
		line[c].X = x
		line[c].Y = mean[c]
		band = append(band, plotter.XY{X: x, Y: mean[c] + std[c]})
	}
	for c := len(xs) - 1; c >= 0; c-- {
		band = append(band, plotter.XY{X: xs[c], Y: mean[c] - std[c]})
	}

	p := plot.New()
	p.Title.Text = trait
	p.X.Label.Text = opts.Axis
	if opts.Log {
		p.X.Label.Text = "ln " + opts.Axis
	}
	p.Y.Label.Text = "accuracy"
	p.Add(plotter.NewGrid())

	poly, err := plotter.NewPolygon(band)
	if err != nil {
		return nil, errors.Wrapf(err, "building band for %s", trait)
	}
	poly.Color = color.RGBA{B: 255, A: 128}
	poly.LineStyle.Width = 0
	l, err := plotter.NewLine(line)
	if err != nil {
		return nil, errors.Wrapf(err, "building curve for %s", trait)
	}
	l.LineStyle.Width = vg.Points(1)
	p.Add(poly, l)
	return p, nil
}

func save(img *vgimg.Canvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		_, err = vgimg.JpegCanvas{Canvas: img}.WriteTo(f)
	case ".tif", ".tiff":
		_, err = vgimg.TiffCanvas{Canvas: img}.WriteTo(f)
	default:
		_, err = vgimg.PngCanvas{Canvas: img}.WriteTo(f)
	}
	if err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return f.Close()
}
