package analysis

import "github.com/jcmartel/wdcal/pkg/models"

// buildHistogram bins samples into bins even-width bins over [lo, hi]. The
// final bin is closed on the right so hi itself is counted. Out-of-range
// samples are excluded, and the normalized density integrates to one over
// the in-range sample.
func buildHistogram(samples []float64, lo, hi float64, bins int) models.Histogram {
	width := (hi - lo) / float64(bins)
	h := models.Histogram{
		Edges:   make([]float64, bins+1),
		Counts:  make([]int, bins),
		Density: make([]float64, bins),
	}
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[bins] = hi

	total := 0
	for _, v := range samples {
		if v < lo || v > hi {
			continue
		}
		i := int((v - lo) / width)
		if i == bins {
			i = bins - 1
		}
		h.Counts[i]++
		total++
	}
	if total > 0 {
		for i, c := range h.Counts {
			h.Density[i] = float64(c) / (float64(total) * width)
		}
	}
	return h
}
