package models

// DataSource selects which photometric reduction a figure reports on.
type DataSource string

const (
	// SourceGAperture is the processed (background-subtracted gAperture)
	// photometry.
	SourceGAperture DataSource = "gaperture"
	// SourceMCAT is the catalog aperture-4 photometry.
	SourceMCAT DataSource = "mcat"
)

// DensityEstimate is a Gaussian-kernel density fit over a magnitude sample.
type DensityEstimate struct {
	// X holds the evaluation grid in ascending order; Y the density values.
	X []float64
	Y []float64
	// Peak is the grid point with the highest density (first on ties).
	Peak float64
	// Bandwidth is the cross-validation-selected smoothing scale.
	Bandwidth float64
}

// Histogram is a fixed-range magnitude histogram with its normalized form.
type Histogram struct {
	// Edges has len(Counts)+1 entries; bin i spans [Edges[i], Edges[i+1]),
	// with the final bin closed on the right.
	Edges  []float64
	Counts []int
	// Density is Counts normalized so the histogram integrates to one over
	// the in-range sample.
	Density []float64
}

// Total returns the number of in-range samples binned into the histogram.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// Containment summarizes how many valid observations fall inside the modeled
// sigma envelope around the reference magnitude.
type Containment struct {
	Count   int
	Total   int
	Percent float64
	Sigma   float64
}

// AnalysisResult carries everything the renderer needs for one
// (band, source) pair.
type AnalysisResult struct {
	Band   Band
	Source DataSource

	// RefMag is the literature AB magnitude for the band.
	RefMag float64
	// ApCorr is the additive aperture correction applied to every row.
	ApCorr float64

	// Per-observation series, parallel to the loaded table.
	ExpTime []float64
	// Mags are aperture-corrected magnitudes for all rows.
	Mags []float64
	// ErrLow and ErrHigh are the asymmetric per-observation errors.
	ErrLow  []float64
	ErrHigh []float64
	Mask    ValidityMask

	// MagRange is the fixed magnitude span used for the histogram, the
	// density grid, and the distribution figure's x axis.
	MagRange [2]float64

	Containment Containment
	Histogram   Histogram
	Density     DensityEstimate
	// Median is the median aperture-corrected magnitude of the masked rows.
	Median float64
}
