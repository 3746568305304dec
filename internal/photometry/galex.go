// Package photometry holds the GALEX calibration constants and conversions:
// AB zero points, the Morrissey et al. (2007) aperture-correction curve, and
// the Poisson error envelope around a reference magnitude.
package photometry

import (
	"fmt"
	"math"

	"github.com/jcmartel/wdcal/pkg/models"
)

// ConfigurationError reports a calibration parameter outside the domain of
// the calibration tables.
type ConfigurationError struct {
	Param string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("photometry: invalid %s: %s", e.Param, e.Msg)
}

// ZeroPoint returns the AB zero point for the band.
func ZeroPoint(b models.Band) (float64, error) {
	switch b {
	case models.BandFUV:
		return 18.82, nil
	case models.BandNUV:
		return 20.08, nil
	}
	return 0, &ConfigurationError{Param: "band", Msg: fmt.Sprintf("unknown band %q", b)}
}

// CountsToMag converts a count rate in counts per second to an AB magnitude.
// Non-positive rates map to +Inf (arbitrarily faint).
func CountsToMag(cps float64, b models.Band) (float64, error) {
	zp, err := ZeroPoint(b)
	if err != nil {
		return 0, err
	}
	if cps <= 0 {
		return math.Inf(1), nil
	}
	return -2.5*math.Log10(cps) + zp, nil
}

// MagToCounts converts an AB magnitude to a count rate in counts per second.
func MagToCounts(mag float64, b models.Band) (float64, error) {
	zp, err := ZeroPoint(b)
	if err != nil {
		return 0, err
	}
	return math.Pow(10, -(mag-zp)/2.5), nil
}

// MCAT SExtractor aperture radii, decimal degrees.
var aperRadii = [7]float64{
	1.5 / 3600, 2.3 / 3600, 3.8 / 3600, 6.0 / 3600,
	9.0 / 3600, 12.8 / 3600, 17.3 / 3600,
}

// AperRadius converts an MCAT aperture index (1..7) to a radius in decimal
// degrees.
func AperRadius(index int) (float64, error) {
	if index < 1 || index > len(aperRadii) {
		return 0, &ConfigurationError{
			Param: "aperture index",
			Msg:   fmt.Sprintf("%d outside 1..%d", index, len(aperRadii)),
		}
	}
	return aperRadii[index-1], nil
}

// Aperture-correction curve from Morrissey et al. (2007), Figure 4. The
// trailing node anchors the correction at zero for a 90 arcsecond aperture.
var (
	apCorrRadii = [8]float64{
		1.5 / 3600, 2.3 / 3600, 3.8 / 3600, 6.0 / 3600,
		9.0 / 3600, 12.8 / 3600, 17.3 / 3600, 90.0 / 3600,
	}
	apCorrFUV = [8]float64{1.65, 0.96, 0.36, 0.15, 0.10, 0.09, 0.07, 0}
	apCorrNUV = [8]float64{2.09, 1.33, 0.59, 0.23, 0.13, 0.09, 0.07, 0}
)

// ApCorrect returns the additive aperture correction in magnitudes for a
// measurement aperture of the given radius (decimal degrees). The radius
// must lie within the domain of the correction curve.
func ApCorrect(radius float64, b models.Band) (float64, error) {
	var curve *[8]float64
	switch b {
	case models.BandFUV:
		curve = &apCorrFUV
	case models.BandNUV:
		curve = &apCorrNUV
	default:
		return 0, &ConfigurationError{Param: "band", Msg: fmt.Sprintf("unknown band %q", b)}
	}
	if radius < apCorrRadii[0] || radius > apCorrRadii[len(apCorrRadii)-1] {
		return 0, &ConfigurationError{
			Param: "aperture radius",
			Msg: fmt.Sprintf("%g deg outside correction curve domain [%g, %g]",
				radius, apCorrRadii[0], apCorrRadii[len(apCorrRadii)-1]),
		}
	}
	for i := 1; i < len(apCorrRadii); i++ {
		if radius <= apCorrRadii[i] {
			frac := (radius - apCorrRadii[i-1]) / (apCorrRadii[i] - apCorrRadii[i-1])
			return curve[i-1] + frac*(curve[i]-curve[i-1]), nil
		}
	}
	return curve[len(curve)-1], nil
}

// ErrorBounds evaluates the n-sigma Poisson envelope around refMag at
// effective exposure depth t seconds. Magnitudes are inverted, so the faint
// bound is numerically larger than the bright bound for all t > 0. When the
// envelope reaches zero counts the faint bound is +Inf: the band contains
// arbitrarily faint magnitudes.
func ErrorBounds(refMag float64, b models.Band, t, sigma float64) (faint, bright float64, err error) {
	if t <= 0 {
		return 0, 0, &ConfigurationError{
			Param: "exposure time",
			Msg:   fmt.Sprintf("%g s is not positive", t),
		}
	}
	cps, err := MagToCounts(refMag, b)
	if err != nil {
		return 0, 0, err
	}
	spread := sigma * math.Sqrt(cps*t) / t
	faint, err = CountsToMag(cps-spread, b)
	if err != nil {
		return 0, 0, err
	}
	bright, err = CountsToMag(cps+spread, b)
	if err != nil {
		return 0, 0, err
	}
	return faint, bright, nil
}
