package models

// Band identifies a GALEX detector channel.
type Band string

const (
	BandFUV Band = "FUV"
	BandNUV Band = "NUV"
)

// Valid reports whether b names a known detector channel.
func (b Band) Valid() bool {
	return b == BandFUV || b == BandNUV
}

// MeasurementTable is a column-oriented view of one band's light-curve file,
// one entry per observation in acquisition order. Tables are never mutated
// after loading.
type MeasurementTable struct {
	Path string
	Band Band

	// ExpTime is the effective exposure depth in seconds.
	ExpTime []float64
	// Aper4 is the MCAT aperture-4 instrumental magnitude.
	Aper4 []float64
	// MagMCATBgSub is the background-subtracted gAperture magnitude.
	MagMCATBgSub []float64
	// Asymmetric per-observation magnitude errors for each source.
	MagMCATBgSubErr1 []float64
	MagMCATBgSubErr2 []float64
	MagBgSubErr1     []float64
	MagBgSubErr2     []float64
	// Flags is the pipeline artifact flag column; zero means clean.
	Flags []int
}

// Len returns the number of observations in the table.
func (t *MeasurementTable) Len() int {
	return len(t.ExpTime)
}

// ValidityMask selects the observations usable for calibration statistics.
type ValidityMask []bool

// NewValidityMask marks rows with a zero artifact flag and a positive
// aperture-4 magnitude.
func NewValidityMask(t *MeasurementTable) ValidityMask {
	m := make(ValidityMask, t.Len())
	for i := range m {
		m[i] = t.Flags[i] == 0 && t.Aper4[i] > 0
	}
	return m
}

// Count returns the number of selected rows.
func (m ValidityMask) Count() int {
	n := 0
	for _, ok := range m {
		if ok {
			n++
		}
	}
	return n
}

// Select returns the subset of vals at selected indices, preserving order.
func (m ValidityMask) Select(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for i, ok := range m {
		if ok {
			out = append(out, vals[i])
		}
	}
	return out
}
