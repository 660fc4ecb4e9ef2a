package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/nearhire/internal/geo"
)

const (
	app       = "nearhire"
	envPrefix = "NEARHIRE"
)

type Config struct {
	RosterFile       string          `mapstructure:"roster-file"`
	PlacesFile       string          `mapstructure:"places-file"`
	FallbackOrigin   geo.Coordinates `mapstructure:"fallback-origin"`
	Location         *LocationConfig `mapstructure:"location"`
	LocationFallback geo.Coordinates `mapstructure:"location-fallback"`
	Jobs             *JobsConfig     `mapstructure:"jobs"`
	Geocoder         *GeocoderConfig `mapstructure:"geocoder"`
}

// LocationConfig describes the simulated device location.
type LocationConfig struct {
	Lat    float64       `mapstructure:"lat"`
	Lon    float64       `mapstructure:"lon"`
	Denied bool          `mapstructure:"denied"`
	Delay  time.Duration `mapstructure:"delay"`
}

type JobsConfig struct {
	Count         int     `mapstructure:"count"`
	SpreadDegrees float64 `mapstructure:"spread-degrees"`
	RadiusKm      float64 `mapstructure:"radius-km"`
	Seed          uint64  `mapstructure:"seed"`
}

type GeocoderConfig struct {
	RatePerSecond float64       `mapstructure:"rate-per-second"`
	Burst         int           `mapstructure:"burst"`
	Delay         time.Duration `mapstructure:"delay"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "nearhire finds skilled workers and jobs around you",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is nearhire.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("roster-file", "")
	v.SetDefault("places-file", "")

	v.SetDefault("fallback-origin.lat", 28.6139)
	v.SetDefault("fallback-origin.lon", 77.2090)

	v.SetDefault("location.lat", 28.6139)
	v.SetDefault("location.lon", 77.2090)
	v.SetDefault("location.denied", false)
	v.SetDefault("location.delay", "0s")

	v.SetDefault("location-fallback.lat", 40.7128)
	v.SetDefault("location-fallback.lon", -74.0060)

	v.SetDefault("jobs.count", 15)
	v.SetDefault("jobs.spread-degrees", 0.15)
	v.SetDefault("jobs.radius-km", 10)
	v.SetDefault("jobs.seed", 0)

	v.SetDefault("geocoder.rate-per-second", 1)
	v.SetDefault("geocoder.burst", 1)
	v.SetDefault("geocoder.delay", "0s")
}

func initConfig() {
	// .env is optional, values already present in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Without an explicit --config the defaults are enough.
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return config, err
	}

	if err := config.FallbackOrigin.Validate(); err != nil {
		return config, fmt.Errorf("fallback-origin: %w", err)
	}
	if err := config.LocationFallback.Validate(); err != nil {
		return config, fmt.Errorf("location-fallback: %w", err)
	}

	return config, nil
}
