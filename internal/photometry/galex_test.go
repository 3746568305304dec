package photometry

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmartel/wdcal/pkg/models"
)

func TestZeroPoints(t *testing.T) {
	fuv, err := ZeroPoint(models.BandFUV)
	require.NoError(t, err)
	assert.Equal(t, 18.82, fuv)

	nuv, err := ZeroPoint(models.BandNUV)
	require.NoError(t, err)
	assert.Equal(t, 20.08, nuv)

	_, err = ZeroPoint(models.Band("XUV"))
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestMagCountsRoundTrip(t *testing.T) {
	for _, band := range []models.Band{models.BandFUV, models.BandNUV} {
		for _, mag := range []float64{12.0, 15.6, 14.76, 18.0} {
			cps, err := MagToCounts(mag, band)
			require.NoError(t, err)
			back, err := CountsToMag(cps, band)
			require.NoError(t, err)
			assert.InDelta(t, mag, back, 1e-12, "band %s mag %g", band, mag)
		}
	}
}

func TestCountsToMagNonPositive(t *testing.T) {
	mag, err := CountsToMag(0, models.BandFUV)
	require.NoError(t, err)
	assert.True(t, math.IsInf(mag, 1))

	mag, err = CountsToMag(-3, models.BandNUV)
	require.NoError(t, err)
	assert.True(t, math.IsInf(mag, 1))
}

func TestAperRadius(t *testing.T) {
	r, err := AperRadius(4)
	require.NoError(t, err)
	assert.InDelta(t, 6.0/3600, r, 1e-15)

	for _, index := range []int{0, -1, 8} {
		_, err := AperRadius(index)
		var cfgErr *ConfigurationError
		assert.True(t, errors.As(err, &cfgErr), "index %d", index)
	}
}

func TestApCorrectAtCurveNodes(t *testing.T) {
	tests := []struct {
		band   models.Band
		radius float64
		want   float64
	}{
		{models.BandFUV, 6.0 / 3600, 0.15},
		{models.BandNUV, 6.0 / 3600, 0.23},
		{models.BandFUV, 1.5 / 3600, 1.65},
		{models.BandNUV, 17.3 / 3600, 0.07},
		{models.BandFUV, 90.0 / 3600, 0},
	}
	for _, tc := range tests {
		got, err := ApCorrect(tc.radius, tc.band)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, got, 1e-12, "%s radius %g", tc.band, tc.radius)
	}
}

func TestApCorrectInterpolates(t *testing.T) {
	// Midway between the 1.5 and 2.3 arcsecond nodes.
	mid := (1.5 + 2.3) / 2 / 3600
	got, err := ApCorrect(mid, models.BandFUV)
	require.NoError(t, err)
	assert.InDelta(t, (1.65+0.96)/2, got, 1e-12)
}

func TestApCorrectOutsideDomain(t *testing.T) {
	var cfgErr *ConfigurationError
	for _, radius := range []float64{1.0 / 3600, 91.0 / 3600, 0, -0.01} {
		_, err := ApCorrect(radius, models.BandNUV)
		assert.True(t, errors.As(err, &cfgErr), "radius %g", radius)
	}
}

// The catalog code path derives its correction radius from the aperture
// index; the same pairing must give the same correction every time.
func TestApCorrectConsistentForAperture4(t *testing.T) {
	r, err := AperRadius(4)
	require.NoError(t, err)
	for _, band := range []models.Band{models.BandFUV, models.BandNUV} {
		first, err := ApCorrect(r, band)
		require.NoError(t, err)
		second, err := ApCorrect(r, band)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestErrorBoundsInverted(t *testing.T) {
	refs := map[models.Band]float64{models.BandFUV: 15.6, models.BandNUV: 14.76}
	for band, ref := range refs {
		for tSec := 1.0; tSec <= 300; tSec++ {
			faint, bright, err := ErrorBounds(ref, band, tSec, 3)
			require.NoError(t, err)
			assert.Greater(t, faint, bright, "%s t=%g", band, tSec)
			assert.Greater(t, faint, ref)
			assert.Less(t, bright, ref)
		}
	}
}

func TestErrorBoundsScenario(t *testing.T) {
	faint, bright, err := ErrorBounds(15.6, models.BandFUV, 100, 3)
	require.NoError(t, err)
	assert.Greater(t, faint, bright)
	assert.False(t, math.IsNaN(faint) || math.IsNaN(bright))
}

func TestErrorBoundsWidenWithSigma(t *testing.T) {
	f1, b1, err := ErrorBounds(15.6, models.BandFUV, 50, 1)
	require.NoError(t, err)
	f3, b3, err := ErrorBounds(15.6, models.BandFUV, 50, 3)
	require.NoError(t, err)
	assert.Greater(t, f3, f1)
	assert.Less(t, b3, b1)
}

func TestErrorBoundsNonPositiveTime(t *testing.T) {
	var cfgErr *ConfigurationError
	for _, tSec := range []float64{0, -10} {
		_, _, err := ErrorBounds(15.6, models.BandFUV, tSec, 3)
		assert.True(t, errors.As(err, &cfgErr), "t %g", tSec)
	}
}

func TestErrorBoundsShortExposureUnboundedFaint(t *testing.T) {
	// At sub-second depths the sigma band reaches zero counts; the faint
	// bound opens up instead of going NaN.
	faint, bright, err := ErrorBounds(15.6, models.BandFUV, 0.1, 3)
	require.NoError(t, err)
	assert.True(t, math.IsInf(faint, 1))
	assert.False(t, math.IsNaN(bright))
}
