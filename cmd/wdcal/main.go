// Command wdcal generates the absolute-photometry calibration figures for a
// GALEX white-dwarf standard star from precomputed light-curve tables.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jcmartel/wdcal/internal/analysis"
	"github.com/jcmartel/wdcal/internal/config"
	"github.com/jcmartel/wdcal/internal/lightcurve"
	"github.com/jcmartel/wdcal/internal/report"
	"github.com/jcmartel/wdcal/pkg/models"
)

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := log.With().
		Str("run_id", uuid.New().String()).
		Str("target", cfg.Target.Name).
		Logger()

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("calibration report failed")
	}
	logger.Info().Msg("calibration report complete")
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	if err := os.MkdirAll(cfg.Figures.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	svc := analysis.NewService(analysis.DefaultKDEOptions())
	renderer := &report.Renderer{
		OutDir: cfg.Figures.OutputDir,
		Target: cfg.Target.Name,
		Scale:  cfg.Figures.Scale,
		TMin:   cfg.Figures.TMin,
		TMax:   cfg.Figures.TMax,
	}
	sources := []models.DataSource{models.SourceGAperture, models.SourceMCAT}

	for _, input := range cfg.Target.Inputs {
		table, err := lightcurve.Load(input.Path, input.Band)
		if err != nil {
			return err
		}

		mask := models.NewValidityMask(table)
		flagged := 0
		for _, f := range table.Flags {
			if f != 0 {
				flagged++
			}
		}
		loaded := logger.Info().
			Str("band", string(input.Band)).
			Int("observations", table.Len()).
			Int("flagged", flagged).
			Int("valid", mask.Count())
		if mask.Count() > 0 {
			loaded = loaded.Float64("median_aper4", analysis.Median(mask.Select(table.Aper4)))
		}
		loaded.Msg("light curve loaded")

		for _, source := range sources {
			res, err := svc.Analyze(table, analysis.Params{
				RefMag:         input.RefMag,
				ApertureRadius: cfg.Analysis.ApertureRadius,
				Sigma:          cfg.Analysis.Sigma,
				Source:         source,
				Bins:           cfg.Analysis.Bins,
			})
			if err != nil {
				return err
			}

			logger.Info().
				Str("band", string(res.Band)).
				Str("source", string(res.Source)).
				Int("within", res.Containment.Count).
				Int("total", res.Containment.Total).
				Float64("percent", res.Containment.Percent).
				Float64("sigma", res.Containment.Sigma).
				Msg("envelope containment")
			logger.Info().
				Str("band", string(res.Band)).
				Str("source", string(res.Source)).
				Float64("peak", res.Density.Peak).
				Float64("bandwidth", res.Density.Bandwidth).
				Float64("median", res.Median).
				Msg("magnitude distribution")

			tsPath, err := renderer.TimeSeries(res)
			if err != nil {
				return err
			}
			distPath, err := renderer.Distribution(res)
			if err != nil {
				return err
			}
			logger.Info().
				Str("band", string(res.Band)).
				Str("source", string(res.Source)).
				Str("time_series", tsPath).
				Str("distribution", distPath).
				Msg("figures written")
		}
	}
	return nil
}
