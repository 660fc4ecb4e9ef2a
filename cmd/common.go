package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/nearhire/internal/explorer"
	"github.com/spigell/nearhire/internal/geo"
	"github.com/spigell/nearhire/internal/logger"
	"github.com/spigell/nearhire/internal/lookup"
	"github.com/spigell/nearhire/internal/roster"
)

const (
	PromptExit             = "Exit"
	PromptReportByCategory = "Report by category"
	PromptDumpToFile       = "Dump results to file"
	PromptInstantHire      = "Instant hire"
	PromptHireListed       = "Hire a listed worker"
	PromptBack             = "back"
	PromptCallNow          = "Call now"
	PromptCancel           = "Cancel"

	fullStar  = "★"
	halfStar  = "⯪"
	emptyStar = "☆"
)

var errExit = errors.New("exit requested")

// setup builds the logger and reads the configuration or exits.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting with config", zap.Any("config", config))
	return logger, config
}

func newResolver(config *Config) lookup.Resolver {
	if config.Location == nil {
		return lookup.StaticResolver{Position: config.FallbackOrigin}
	}
	return lookup.StaticResolver{
		Position: geo.Coordinates{Lat: config.Location.Lat, Lon: config.Location.Lon},
		Denied:   config.Location.Denied,
		Delay:    config.Location.Delay,
	}
}

func newGeocoder(config *Config, logger *zap.Logger) (lookup.Geocoder, error) {
	gazetteer, err := lookup.LoadGazetteerFile(config.PlacesFile, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("places loaded", zap.Int("count", gazetteer.Len()))

	cfg := config.Geocoder
	if cfg == nil {
		cfg = &GeocoderConfig{}
	}

	delayed := lookup.Delayed{Next: gazetteer, Delay: cfg.Delay}
	return lookup.NewThrottled(delayed, cfg.RatePerSecond, cfg.Burst), nil
}

// locate moves the explorer to the device position, or to the configured
// fallback city when the position is unavailable.
func locate[T roster.Entity](ctx context.Context, ex *explorer.Explorer[T], config *Config, logger *zap.Logger) {
	out := ex.Locate(ctx, newResolver(config))
	if out.Changed {
		return
	}

	logger.Warn("using fallback location",
		zap.Stringer("fallback", config.LocationFallback),
		zap.NamedError("reason", out.Reason),
	)
	if err := ex.SetOrigin(config.LocationFallback); err != nil {
		logger.Fatal("setting fallback location", zap.Error(err))
	}
}

func parseSkill(value string) (roster.Category, error) {
	category, ok := roster.ParseCategory(value)
	if !ok {
		return "", fmt.Errorf("unknown skill %q, expected one of %v", value, roster.Categories())
	}
	return category, nil
}

// promptCategory asks the user to pick one of the offered categories.
func promptCategory(label string, categories []roster.Category) (roster.Category, error) {
	items := make([]string, 0, len(categories))
	for _, c := range categories {
		items = append(items, c.String())
	}

	selector := promptui.Select{Label: label, Items: items}
	_, selected, err := selector.Run()
	if err != nil {
		return "", err
	}
	return roster.Category(selected), nil
}

// formatScore renders score as five stars. A star is full when score reaches
// its position and half when score is within half a point of it.
func formatScore(score float64) string {
	var b strings.Builder
	for i := 1; i <= 5; i++ {
		position := float64(i)
		switch {
		case score >= position:
			b.WriteString(fullStar)
		case score >= position-0.5:
			b.WriteString(halfStar)
		default:
			b.WriteString(emptyStar)
		}
	}
	fmt.Fprintf(&b, " %.1f", score)
	return b.String()
}

func viewportFields(v geo.Viewport) []zap.Field {
	fields := []zap.Field{
		zap.String("mode", string(v.Mode)),
		zap.Stringer("center", v.Center),
	}
	if v.Box != nil {
		fields = append(fields,
			zap.String("south_west", geo.Coordinates{Lat: v.Box.MinLat, Lon: v.Box.MinLon}.String()),
			zap.String("north_east", geo.Coordinates{Lat: v.Box.MaxLat, Lon: v.Box.MaxLon}.String()),
		)
	}
	return fields
}
