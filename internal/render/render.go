// Package render draws scatter figures for selected variable pairs, colored
// by taxon, with optional log-log axes and a least-squares regression
// overlay. It produces PNG bytes; naming and persistence belong to figstore.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/JackIHill/CerebellumProject/internal/combos"
	"github.com/JackIHill/CerebellumProject/internal/dataset"
)

// TaxonColumn labels each row with its taxonomic group; it drives point
// colors and the legend.
const TaxonColumn = "Taxon"

// Axis tick positions used for logged plots. The last x tick only suits the
// volume-against-volume value range.
var (
	loggedYTicks = []float64{10, 25, 50, 100, 250, 500, 1000}
	loggedXTicks = []float64{5, 10, 25, 50, 100, 200, 400, 1000}
)

const tileSize = 4 * vg.Inch

// Figure renders one scatter plot per pair into a single tiled PNG. Rows
// where either variable is missing are skipped pairwise.
func Figure(t *dataset.Table, pairs []combos.Pair, colors map[string]string, logged bool) ([]byte, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no variable pairs to plot")
	}
	plots := make([]*plot.Plot, 0, len(pairs))
	for _, pair := range pairs {
		p, err := Scatter(t, pair, colors, logged)
		if err != nil {
			return nil, err
		}
		plots = append(plots, p)
	}
	return tile(plots)
}

// Scatter builds one plot: points for each taxon in its configured color,
// a taxon legend, and log-log axes with fixed ticks when logged.
func Scatter(t *dataset.Table, pair combos.Pair, colors map[string]string, logged bool) (*plot.Plot, error) {
	xs, ys, taxa := t.PairedFloats(pair.X, pair.Y, TaxonColumn)
	if len(xs) == 0 {
		return nil, fmt.Errorf("no rows with values for both %q and %q", pair.X, pair.Y)
	}

	p := plot.New()
	prefix := ""
	if logged {
		prefix = "Log "
	}
	p.Title.Text = fmt.Sprintf("%sPrimate %s against %s", loggedWord(logged), pair.X, pair.Y)
	p.X.Label.Text = prefix + pair.X
	p.Y.Label.Text = prefix + pair.Y
	p.Legend.Top = true
	p.Legend.Left = true

	// One scatter per taxon so the legend carries the color mapping.
	byTaxon := make(map[string]plotter.XYs)
	for i := range xs {
		byTaxon[taxa[i]] = append(byTaxon[taxa[i]], plotter.XY{X: xs[i], Y: ys[i]})
	}
	names := make([]string, 0, len(byTaxon))
	for name := range byTaxon {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sc, err := plotter.NewScatter(byTaxon[name])
		if err != nil {
			return nil, fmt.Errorf("scatter %q: %w", name, err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(2.5)
		sc.GlyphStyle.Color = taxonColor(colors, name)
		p.Add(sc)
		p.Legend.Add(name, sc)
	}

	if logged {
		p.X.Scale = plot.LogScale{}
		p.Y.Scale = plot.LogScale{}
		xt := loggedXTicks
		if !(pair.X == "Cerebrum Volume" && pair.Y == "Cerebellum Volume") {
			xt = xt[:len(xt)-1]
		}
		p.X.Tick.Marker = constTicks(xt)
		p.Y.Tick.Marker = constTicks(loggedYTicks)
	}
	return p, nil
}

func loggedWord(logged bool) string {
	if logged {
		return "Logged "
	}
	return ""
}

// regressionXMax bounds the x range the fit line is drawn over; it covers
// the largest cerebrum volumes in the dataset.
const regressionXMax = 1600.0

// Regression renders the volume-against-volume scatter with a least-squares
// fit line evaluated over [0, regressionXMax].
func Regression(t *dataset.Table, colors map[string]string) ([]byte, error) {
	pair := combos.Pair{X: "Cerebrum Volume", Y: "Cerebellum Volume"}
	p, err := Scatter(t, pair, colors, false)
	if err != nil {
		return nil, err
	}

	xs, ys, _ := t.PairedFloats(pair.X, pair.Y, TaxonColumn)
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	line, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: alpha},
		{X: regressionXMax, Y: alpha + beta*regressionXMax},
	})
	if err != nil {
		return nil, fmt.Errorf("regression line: %w", err)
	}
	line.LineStyle.Color = color.Black
	p.Add(line)

	return tile([]*plot.Plot{p})
}

// tile lays plots out like the source figures: up to 3 across in one row,
// two rows beyond that.
func tile(plots []*plot.Plot) ([]byte, error) {
	n := len(plots)
	rows, cols := 1, n
	if n > 3 {
		rows = 2
		cols = (n + 1) / 2
	}

	img := vgimg.New(vg.Length(cols)*tileSize, vg.Length(rows)*tileSize)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Millimeter * 2, PadY: vg.Millimeter * 2,
		PadTop: vg.Millimeter, PadBottom: vg.Millimeter,
		PadLeft: vg.Millimeter, PadRight: vg.Millimeter,
	}

	grid := make([][]*plot.Plot, rows)
	for r := 0; r < rows; r++ {
		grid[r] = make([]*plot.Plot, cols)
		for c := 0; c < cols; c++ {
			if i := r*cols + c; i < n {
				grid[r][c] = plots[i]
			}
		}
	}
	canvases := plot.Align(grid, tiles, dc)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if grid[r][c] != nil {
				grid[r][c].Draw(canvases[r][c])
			}
		}
	}

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// taxonColor parses the configured hex color for a taxon; rows from taxa
// without a configured color fall back to gray so they stay visible.
func taxonColor(colors map[string]string, taxon string) color.Color {
	if hex, ok := colors[taxon]; ok {
		if c, err := ParseHexColor(hex); err == nil {
			return c
		}
	}
	return color.Gray{Y: 128}
}

// ParseHexColor parses "#rrggbb" (or "rrggbb") into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

func constTicks(vals []float64) plot.ConstantTicks {
	ticks := make([]plot.Tick, len(vals))
	for i, v := range vals {
		ticks[i] = plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)}
	}
	return ticks
}
