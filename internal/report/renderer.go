// Package report renders the calibration figures: per-observation photometry
// against the modeled error envelope, and the magnitude distribution with
// its kernel-density overlay.
package report

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/jcmartel/wdcal/internal/photometry"
	"github.com/jcmartel/wdcal/pkg/models"
)

// Renderer writes the diagnostic figures for one target. Output names are
// deterministic functions of (target, band, source).
type Renderer struct {
	OutDir string
	// Target is the target identifier, e.g. "LDS749B_90as". Titles use the
	// part before the first underscore.
	Target string
	// Scale multiplies the base 8x4 inch figure size.
	Scale float64
	// TMin and TMax bound the exposure-time axis in seconds.
	TMin, TMax float64
}

var (
	faintBlack  = color.NRGBA{A: 28}
	maskedBlack = color.NRGBA{A: 56}
	solidBlack  = color.NRGBA{A: 255}
	envelopeRed = color.NRGBA{R: 214, G: 39, B: 40, A: 255}
	refGreen    = color.NRGBA{G: 128, A: 255}
	kdeBlue     = color.NRGBA{R: 31, G: 119, B: 180, A: 255}
)

type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

// TimeSeries renders corrected magnitude against exposure time with the
// reference line and dashed sigma envelope, and returns the written path.
func (r *Renderer) TimeSeries(res *models.AnalysisResult) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: %s Photometry of %s (n=%d)",
		res.Band, sourceLabel(res.Source), r.targetName(), res.Mask.Count())
	p.X.Label.Text = "Effective Exposure Depth (s)"
	p.Y.Label.Text = fmt.Sprintf("%s Magnitude", sourceLabel(res.Source))

	// Brighter magnitudes plot toward the top.
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	p.X.Min, p.X.Max = r.TMin, r.TMax
	p.Y.Min, p.Y.Max = res.RefMag-0.5, res.RefMag+1

	all := errPoints{}
	for i := range res.Mags {
		if !finite(res.ExpTime[i]) || !finite(res.Mags[i]) {
			continue
		}
		all.XYs = append(all.XYs, plotter.XY{X: res.ExpTime[i], Y: res.Mags[i]})
		all.YErrors = append(all.YErrors, struct{ Low, High float64 }{
			Low: res.ErrLow[i], High: res.ErrHigh[i],
		})
	}
	bars, err := plotter.NewYErrorBars(all)
	if err != nil {
		return "", fmt.Errorf("report: error bars: %w", err)
	}
	bars.LineStyle.Color = faintBlack
	p.Add(bars)

	faintPts, err := scatter(all.XYs, faintBlack)
	if err != nil {
		return "", err
	}
	p.Add(faintPts)

	var masked plotter.XYs
	for i, ok := range res.Mask {
		if ok && finite(res.ExpTime[i]) && finite(res.Mags[i]) {
			masked = append(masked, plotter.XY{X: res.ExpTime[i], Y: res.Mags[i]})
		}
	}
	maskedPts, err := scatter(masked, maskedBlack)
	if err != nil {
		return "", err
	}
	p.Add(maskedPts)

	refLine, err := plotter.NewLine(plotter.XYs{
		{X: r.TMin + 1, Y: res.RefMag},
		{X: r.TMax, Y: res.RefMag},
	})
	if err != nil {
		return "", fmt.Errorf("report: reference line: %w", err)
	}
	refLine.Color = solidBlack
	p.Add(refLine)

	faintEnv, brightEnv, err := r.envelope(res)
	if err != nil {
		return "", err
	}
	for _, env := range []plotter.XYs{faintEnv, brightEnv} {
		l, err := plotter.NewLine(env)
		if err != nil {
			return "", fmt.Errorf("report: envelope line: %w", err)
		}
		l.Color = envelopeRed
		l.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(l)
	}

	note, err := plotter.NewLabels(plotter.XYLabels{
		XYs: plotter.XYs{{X: (r.TMin + r.TMax) / 2, Y: res.RefMag + 0.7}},
		Labels: []string{fmt.Sprintf("%.0f%% within %g-sigma",
			res.Containment.Percent, res.Containment.Sigma)},
	})
	if err != nil {
		return "", fmt.Errorf("report: annotation: %w", err)
	}
	p.Add(note)

	return r.save(p, timeSeriesName(r.Target, res.Band, res.Source), 8, 4)
}

// Distribution renders the normalized magnitude histogram with the density
// curve and reference/peak/median markers, and returns the written path.
func (r *Renderer) Distribution(res *models.AnalysisResult) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: %s Photometry of %s (n=%d)",
		res.Band, sourceLabel(res.Source), r.targetName(), res.Mask.Count())
	p.X.Label.Text = fmt.Sprintf("%s Magnitude", sourceLabel(res.Source))

	// Brighter magnitudes plot toward the right; the density axis carries
	// no meaningful scale.
	p.X.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	p.X.Min, p.X.Max = res.MagRange[0], res.MagRange[1]
	p.Y.Tick.Marker = plot.ConstantTicks(nil)

	outline, err := plotter.NewLine(histOutline(res.Histogram))
	if err != nil {
		return "", fmt.Errorf("report: histogram outline: %w", err)
	}
	outline.Color = solidBlack
	p.Add(outline)

	kdeXYs := make(plotter.XYs, len(res.Density.X))
	for i := range res.Density.X {
		kdeXYs[i] = plotter.XY{X: res.Density.X[i], Y: res.Density.Y[i]}
	}
	kdeLine, err := plotter.NewLine(kdeXYs)
	if err != nil {
		return "", fmt.Errorf("report: density curve: %w", err)
	}
	kdeLine.Color = kdeBlue
	p.Add(kdeLine)

	top := 1.05 * math.Max(maxOf(res.Density.Y), maxOf(res.Histogram.Density))

	refMark, err := vline(res.RefMag, top, refGreen, vg.Points(2.5), nil)
	if err != nil {
		return "", err
	}
	peakMark, err := vline(res.Density.Peak, top, solidBlack, vg.Points(1),
		[]vg.Length{vg.Points(1.5), vg.Points(3)})
	if err != nil {
		return "", err
	}
	medianMark, err := vline(res.Median, top, envelopeRed, vg.Points(2.5),
		[]vg.Length{vg.Points(6), vg.Points(4)})
	if err != nil {
		return "", err
	}
	p.Add(refMark, peakMark, medianMark)

	p.Legend.Add(fmt.Sprintf("Ref: %.2f AB Mag", res.RefMag), refMark)
	p.Legend.Add(fmt.Sprintf("KDE Peak: %.2f", res.Density.Peak), peakMark)
	p.Legend.Add(fmt.Sprintf("Median: %.2f", res.Median), medianMark)
	p.Legend.Top = true
	p.Legend.Left = true

	return r.save(p, distributionName(r.Target, res.Band, res.Source), 8, 4)
}

func (r *Renderer) save(p *plot.Plot, name string, w, h float64) (string, error) {
	path := filepath.Join(r.OutDir, name)
	width := vg.Length(w*r.Scale) * vg.Inch
	height := vg.Length(h*r.Scale) * vg.Inch
	if err := p.Save(width, height, path); err != nil {
		return "", fmt.Errorf("report: write %s: %w", path, err)
	}
	return path, nil
}

// envelope samples the error bounds at one-second spacing across the time
// domain.
func (r *Renderer) envelope(res *models.AnalysisResult) (faint, bright plotter.XYs, err error) {
	for t := r.TMin + 1; t <= r.TMax; t++ {
		f, b, err := photometry.ErrorBounds(res.RefMag, res.Band, t, res.Containment.Sigma)
		if err != nil {
			return nil, nil, err
		}
		if finite(f) {
			faint = append(faint, plotter.XY{X: t, Y: f})
		}
		if finite(b) {
			bright = append(bright, plotter.XY{X: t, Y: b})
		}
	}
	return faint, bright, nil
}

func (r *Renderer) targetName() string {
	name, _, _ := strings.Cut(r.Target, "_")
	return name
}

func timeSeriesName(target string, band models.Band, source models.DataSource) string {
	name := fmt.Sprintf("%s_ABMag_%s", target, band)
	if source == models.SourceMCAT {
		name += "_MCAT"
	}
	return name + ".pdf"
}

func distributionName(target string, band models.Band, source models.DataSource) string {
	name := fmt.Sprintf("%s_ABMag_dist_%s", target, band)
	if source == models.SourceMCAT {
		name += "_MCAT"
	}
	return name + ".pdf"
}

func sourceLabel(source models.DataSource) string {
	if source == models.SourceMCAT {
		return "MCAT"
	}
	return "gAperture"
}

func scatter(xys plotter.XYs, c color.Color) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("report: scatter: %w", err)
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(1.2)
	s.GlyphStyle.Color = c
	return s, nil
}

// vline draws a vertical marker from the axis floor to just above the
// tallest curve.
func vline(x, top float64, c color.Color, width vg.Length, dashes []vg.Length) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: top}})
	if err != nil {
		return nil, fmt.Errorf("report: marker at %g: %w", x, err)
	}
	l.Color = c
	l.Width = width
	l.Dashes = dashes
	return l, nil
}

// histOutline converts bin edges and densities to a step outline anchored at
// zero on both ends.
func histOutline(h models.Histogram) plotter.XYs {
	if len(h.Counts) == 0 {
		return nil
	}
	xys := plotter.XYs{{X: h.Edges[0], Y: 0}}
	for i, d := range h.Density {
		xys = append(xys,
			plotter.XY{X: h.Edges[i], Y: d},
			plotter.XY{X: h.Edges[i+1], Y: d})
	}
	return append(xys, plotter.XY{X: h.Edges[len(h.Edges)-1], Y: 0})
}

func maxOf(vals []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
