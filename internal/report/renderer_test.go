package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmartel/wdcal/pkg/models"
)

func testResult(t *testing.T, source models.DataSource) *models.AnalysisResult {
	t.Helper()

	res := &models.AnalysisResult{
		Band:     models.BandFUV,
		Source:   source,
		RefMag:   15.6,
		ApCorr:   0.0,
		MagRange: [2]float64{15.4, 16.3},
		Containment: models.Containment{
			Count: 18, Total: 20, Percent: 90, Sigma: 3,
		},
		Median: 15.62,
	}
	for i := 0; i < 20; i++ {
		res.ExpTime = append(res.ExpTime, 60+float64(i)*10)
		res.Mags = append(res.Mags, 15.55+0.01*float64(i%8))
		res.ErrLow = append(res.ErrLow, 0.02)
		res.ErrHigh = append(res.ErrHigh, 0.02)
		res.Mask = append(res.Mask, i%10 != 9)
	}

	res.Histogram = models.Histogram{
		Edges:   []float64{15.4, 15.7, 16.0, 16.3},
		Counts:  []int{4, 10, 4},
		Density: []float64{4.0 / (18 * 0.3), 10.0 / (18 * 0.3), 4.0 / (18 * 0.3)},
	}
	for x := 15.4; x <= 16.3; x += 0.01 {
		res.Density.X = append(res.Density.X, x)
		res.Density.Y = append(res.Density.Y, 1)
	}
	res.Density.Peak = 15.63
	res.Density.Bandwidth = 0.08
	return res
}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	return &Renderer{
		OutDir: t.TempDir(),
		Target: "LDS749B_90as",
		Scale:  1.4,
		TMin:   0,
		TMax:   300,
	}
}

func assertWritten(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestTimeSeriesWritesFigure(t *testing.T) {
	r := testRenderer(t)

	path, err := r.TimeSeries(testResult(t, models.SourceGAperture))
	require.NoError(t, err)
	assert.Equal(t, "LDS749B_90as_ABMag_FUV.pdf", filepath.Base(path))
	assertWritten(t, path)
}

func TestTimeSeriesCatalogSuffix(t *testing.T) {
	r := testRenderer(t)

	path, err := r.TimeSeries(testResult(t, models.SourceMCAT))
	require.NoError(t, err)
	assert.Equal(t, "LDS749B_90as_ABMag_FUV_MCAT.pdf", filepath.Base(path))
	assertWritten(t, path)
}

func TestDistributionWritesFigure(t *testing.T) {
	r := testRenderer(t)

	path, err := r.Distribution(testResult(t, models.SourceGAperture))
	require.NoError(t, err)
	assert.Equal(t, "LDS749B_90as_ABMag_dist_FUV.pdf", filepath.Base(path))
	assertWritten(t, path)

	mcat, err := r.Distribution(testResult(t, models.SourceMCAT))
	require.NoError(t, err)
	assert.Equal(t, "LDS749B_90as_ABMag_dist_FUV_MCAT.pdf", filepath.Base(mcat))
}

func TestSaveFailsOnMissingDirectory(t *testing.T) {
	r := testRenderer(t)
	r.OutDir = filepath.Join(r.OutDir, "does", "not", "exist")

	_, err := r.TimeSeries(testResult(t, models.SourceGAperture))
	assert.Error(t, err)
}

func TestHistOutlineAnchorsAtZero(t *testing.T) {
	h := models.Histogram{
		Edges:   []float64{0, 1, 2},
		Counts:  []int{1, 3},
		Density: []float64{0.25, 0.75},
	}
	xys := histOutline(h)

	require.Len(t, xys, 6)
	assert.Equal(t, 0.0, xys[0].Y)
	assert.Equal(t, 0.0, xys[len(xys)-1].Y)
	assert.Equal(t, 0.25, xys[1].Y)
	assert.Equal(t, 0.75, xys[4].Y)
}
