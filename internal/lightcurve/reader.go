// Package lightcurve loads the per-band measurement tables produced by the
// photometric pipeline.
package lightcurve

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jcmartel/wdcal/pkg/models"
)

// ParseError reports a malformed or incomplete measurement file. A malformed
// row aborts the load; partial tables are never returned.
type ParseError struct {
	Path   string
	Line   int
	Column string
	Msg    string
}

func (e *ParseError) Error() string {
	where := e.Path
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Column != "" {
		return fmt.Sprintf("lightcurve: %s: column %q: %s", where, e.Column, e.Msg)
	}
	return fmt.Sprintf("lightcurve: %s: %s", where, e.Msg)
}

// Columns the analyzer depends on. Anything else in the file is ignored.
var requiredColumns = []string{
	"exptime",
	"aper4",
	"mag_mcatbgsub",
	"mag_mcatbgsub_err_1",
	"mag_mcatbgsub_err_2",
	"mag_bgsub_err_1",
	"mag_bgsub_err_2",
	"flags",
}

// Load reads the light-curve file at path into a MeasurementTable for the
// given band.
func Load(path string, band models.Band) (*models.MeasurementTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lightcurve: open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, path, band)
}

// Read parses a header-labeled CSV light curve. The path is used only for
// error reporting.
func Read(r io.Reader, path string, band models.Band) (*models.MeasurementTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, &ParseError{Path: path, Msg: fmt.Sprintf("reading header: %v", err)}
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	cols := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		i, ok := idx[name]
		if !ok {
			return nil, &ParseError{Path: path, Column: name, Msg: "required column missing"}
		}
		cols[name] = i
	}

	table := &models.MeasurementTable{Path: path, Band: band}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var ce *csv.ParseError
			if errors.As(err, &ce) {
				line = ce.Line
			}
			return nil, &ParseError{Path: path, Line: line, Msg: err.Error()}
		}

		field := func(name string) (float64, error) {
			v, err := strconv.ParseFloat(record[cols[name]], 64)
			if err != nil {
				return 0, &ParseError{
					Path: path, Line: line, Column: name,
					Msg: fmt.Sprintf("bad numeric value %q", record[cols[name]]),
				}
			}
			return v, nil
		}

		var vals [8]float64
		for i, name := range requiredColumns {
			if vals[i], err = field(name); err != nil {
				return nil, err
			}
		}
		table.ExpTime = append(table.ExpTime, vals[0])
		table.Aper4 = append(table.Aper4, vals[1])
		table.MagMCATBgSub = append(table.MagMCATBgSub, vals[2])
		table.MagMCATBgSubErr1 = append(table.MagMCATBgSubErr1, vals[3])
		table.MagMCATBgSubErr2 = append(table.MagMCATBgSubErr2, vals[4])
		table.MagBgSubErr1 = append(table.MagBgSubErr1, vals[5])
		table.MagBgSubErr2 = append(table.MagBgSubErr2, vals[6])
		table.Flags = append(table.Flags, int(vals[7]))
	}
	return table, nil
}
