package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/jcmartel/wdcal/pkg/models"
)

// Config holds all configuration for one report run. Defaults reproduce the
// LDS749B reference analysis, so the binary runs with no flags at all.
type Config struct {
	Target   TargetConfig
	Analysis AnalysisConfig
	Figures  FigureConfig
}

// TargetConfig identifies the star and its input light curves.
type TargetConfig struct {
	// Name is the target identifier used in output file names.
	Name string
	// Inputs lists one light-curve file per band, in processing order.
	Inputs []BandInput
}

// BandInput pairs a band's light-curve path with its literature magnitude.
type BandInput struct {
	Band   models.Band
	Path   string
	RefMag float64
}

// AnalysisConfig holds the calibration comparison parameters.
type AnalysisConfig struct {
	// ApertureRadius is the gAperture measurement radius in decimal degrees.
	ApertureRadius float64
	// Sigma is the error-envelope width.
	Sigma float64
	// Bins is the distribution histogram bin count.
	Bins int
}

// FigureConfig holds figure layout parameters.
type FigureConfig struct {
	OutputDir string
	// Scale multiplies the base figure size.
	Scale float64
	// TMin and TMax bound the exposure-time axis in seconds.
	TMin float64
	TMax float64
}

// Load loads configuration from environment variables and .env files.
func Load() (*Config, error) {
	viper.SetDefault("TARGET", "LDS749B_90as")
	viper.SetDefault("FUV_LC_PATH", "LDS749B_dm_FUV_90as.csv")
	viper.SetDefault("NUV_LC_PATH", "LDS749B_dm_NUV_90as.csv")
	// Literature values, Camarota & Holberg (2014).
	viper.SetDefault("REFMAG_FUV", 15.6)
	viper.SetDefault("REFMAG_NUV", 14.76)
	viper.SetDefault("APERTURE_RADIUS", 0.025)
	viper.SetDefault("SIGMA", 3.0)
	viper.SetDefault("HIST_BINS", 50)
	viper.SetDefault("OUTPUT_DIR", ".")
	viper.SetDefault("FIGURE_SCALE", 1.4)
	viper.SetDefault("TIME_MIN", 0.0)
	viper.SetDefault("TIME_MAX", 300.0)

	env := viper.GetString("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	viper.SetConfigName(".env." + env)
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // Ignore error - file may not exist

	viper.AutomaticEnv()

	viper.BindEnv("TARGET")
	viper.BindEnv("FUV_LC_PATH")
	viper.BindEnv("NUV_LC_PATH")
	viper.BindEnv("REFMAG_FUV")
	viper.BindEnv("REFMAG_NUV")
	viper.BindEnv("APERTURE_RADIUS")
	viper.BindEnv("SIGMA")
	viper.BindEnv("HIST_BINS")
	viper.BindEnv("OUTPUT_DIR")
	viper.BindEnv("FIGURE_SCALE")
	viper.BindEnv("TIME_MIN")
	viper.BindEnv("TIME_MAX")

	var config Config
	config.Target.Name = viper.GetString("TARGET")
	config.Target.Inputs = []BandInput{
		{
			Band:   models.BandFUV,
			Path:   viper.GetString("FUV_LC_PATH"),
			RefMag: viper.GetFloat64("REFMAG_FUV"),
		},
		{
			Band:   models.BandNUV,
			Path:   viper.GetString("NUV_LC_PATH"),
			RefMag: viper.GetFloat64("REFMAG_NUV"),
		},
	}
	config.Analysis.ApertureRadius = viper.GetFloat64("APERTURE_RADIUS")
	config.Analysis.Sigma = viper.GetFloat64("SIGMA")
	config.Analysis.Bins = viper.GetInt("HIST_BINS")
	config.Figures.OutputDir = viper.GetString("OUTPUT_DIR")
	config.Figures.Scale = viper.GetFloat64("FIGURE_SCALE")
	config.Figures.TMin = viper.GetFloat64("TIME_MIN")
	config.Figures.TMax = viper.GetFloat64("TIME_MAX")

	log.Debug().
		Str("target", config.Target.Name).
		Str("output_dir", config.Figures.OutputDir).
		Float64("sigma", config.Analysis.Sigma).
		Msg("configuration loaded")

	return &config, nil
}
