// Package analysis compares aperture-corrected photometry of a standard star
// against its literature magnitude: envelope containment statistics, the
// magnitude distribution, and its kernel-density peak.
package analysis

import (
	"fmt"
	"sort"

	"github.com/jcmartel/wdcal/internal/photometry"
	"github.com/jcmartel/wdcal/pkg/models"
)

// Params configures one analysis pass over a measurement table.
type Params struct {
	// RefMag is the literature AB magnitude for the table's band.
	RefMag float64
	// ApertureRadius is the measurement aperture in decimal degrees, used
	// for the gaperture source. The mcat source always corrects for the
	// catalog aperture-4 radius.
	ApertureRadius float64
	// Sigma is the envelope width in standard deviations.
	Sigma float64
	// Source selects the magnitude column under study.
	Source models.DataSource
	// Bins is the distribution histogram bin count.
	Bins int
}

// Magnitude span of the distribution figures, relative to the reference
// magnitude. The catalog photometry scatters slightly tighter.
const (
	magRangeBelow        = 0.2
	magRangeAboveGAper   = 0.7
	magRangeAboveCatalog = 0.6
)

// Service runs calibration analyses with a fixed density-estimation setup.
type Service struct {
	kde KDEOptions
}

// NewService returns a Service using the given density-estimation options.
func NewService(kde KDEOptions) *Service {
	return &Service{kde: kde}
}

// Analyze produces the full calibration comparison for one (band, source)
// pair. The table is not mutated.
func (s *Service) Analyze(table *models.MeasurementTable, p Params) (*models.AnalysisResult, error) {
	corr, err := apertureCorrection(table.Band, p)
	if err != nil {
		return nil, err
	}

	res := &models.AnalysisResult{
		Band:    table.Band,
		Source:  p.Source,
		RefMag:  p.RefMag,
		ApCorr:  corr,
		ExpTime: table.ExpTime,
		Mask:    models.NewValidityMask(table),
	}

	var raw []float64
	switch p.Source {
	case models.SourceGAperture:
		raw = table.MagMCATBgSub
		res.ErrLow = table.MagMCATBgSubErr1
		res.ErrHigh = table.MagMCATBgSubErr2
		res.MagRange = [2]float64{p.RefMag - magRangeBelow, p.RefMag + magRangeAboveGAper}
	case models.SourceMCAT:
		raw = table.Aper4
		res.ErrLow = table.MagBgSubErr1
		res.ErrHigh = table.MagBgSubErr2
		res.MagRange = [2]float64{p.RefMag - magRangeBelow, p.RefMag + magRangeAboveCatalog}
	default:
		return nil, fmt.Errorf("analysis: unknown data source %q", p.Source)
	}

	res.Mags = make([]float64, len(raw))
	for i, m := range raw {
		res.Mags[i] = m - corr
	}

	masked := res.Mask.Select(res.Mags)
	if len(masked) == 0 {
		return nil, &InsufficientDataError{Msg: "validity mask selects no observations"}
	}

	cont, err := containment(res, p.Sigma)
	if err != nil {
		return nil, err
	}
	res.Containment = cont
	res.Median = Median(masked)
	res.Histogram = buildHistogram(masked, res.MagRange[0], res.MagRange[1], p.Bins)

	density, err := EstimateDensity(masked, res.MagRange[0], res.MagRange[1], s.kde)
	if err != nil {
		return nil, err
	}
	res.Density = density
	return res, nil
}

// apertureCorrection resolves the additive correction for the source's
// magnitude column.
func apertureCorrection(band models.Band, p Params) (float64, error) {
	radius := p.ApertureRadius
	if p.Source == models.SourceMCAT {
		r, err := photometry.AperRadius(4)
		if err != nil {
			return 0, err
		}
		radius = r
	}
	return photometry.ApCorrect(radius, band)
}

// containment evaluates the envelope at each masked observation's own
// exposure time, not the continuous curve.
func containment(res *models.AnalysisResult, sigma float64) (models.Containment, error) {
	count, total := 0, 0
	for i, ok := range res.Mask {
		if !ok {
			continue
		}
		total++
		faint, bright, err := photometry.ErrorBounds(res.RefMag, res.Band, res.ExpTime[i], sigma)
		if err != nil {
			return models.Containment{}, err
		}
		if res.Mags[i] >= bright && res.Mags[i] <= faint {
			count++
		}
	}
	return models.Containment{
		Count:   count,
		Total:   total,
		Percent: 100 * float64(count) / float64(total),
		Sigma:   sigma,
	}, nil
}

// Median returns the median of vals without mutating it.
func Median(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
