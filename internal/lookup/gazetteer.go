package lookup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/nearhire/internal/geo"
)

//go:embed data/places.yaml
var defaultPlaces []byte

type placeRecord struct {
	Name    string   `mapstructure:"name"`
	Aliases []string `mapstructure:"aliases"`
	Lat     float64  `mapstructure:"lat"`
	Lon     float64  `mapstructure:"lon"`
}

type entry struct {
	place   Place
	aliases []string
}

// Gazetteer is an offline Geocoder over a fixed list of places.
type Gazetteer struct {
	entries []entry
	logger  *zap.Logger
}

// LoadGazetteerFile reads places from path, or the built-in list when path is empty.
func LoadGazetteerFile(path string, logger *zap.Logger) (*Gazetteer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return LoadGazetteer(bytes.NewReader(defaultPlaces), logger)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open places file: %w", err)
	}
	defer file.Close()

	return LoadGazetteer(file, logger)
}

func LoadGazetteer(r io.Reader, logger *zap.Logger) (*Gazetteer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var doc struct {
		Places []map[string]any `yaml:"places"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse places: %w", err)
	}

	g := &Gazetteer{logger: logger}
	for idx, item := range doc.Places {
		var rec placeRecord
		if err := mapstructure.WeakDecode(item, &rec); err != nil {
			logger.Warn("skipping invalid place", zap.Int("index", idx), zap.Error(err))
			continue
		}

		name := strings.TrimSpace(rec.Name)
		coords := geo.Coordinates{Lat: rec.Lat, Lon: rec.Lon}
		if name == "" {
			logger.Warn("skipping place without a name", zap.Int("index", idx))
			continue
		}
		if err := coords.Validate(); err != nil {
			logger.Warn("skipping place", zap.String("name", name), zap.Error(err))
			continue
		}

		aliases := make([]string, 0, len(rec.Aliases)+1)
		aliases = append(aliases, strings.ToLower(name))
		for _, alias := range rec.Aliases {
			if alias = strings.ToLower(strings.TrimSpace(alias)); alias != "" {
				aliases = append(aliases, alias)
			}
		}

		g.entries = append(g.entries, entry{
			place:   Place{Name: name, Coordinates: coords},
			aliases: aliases,
		})
	}

	logger.Debug("gazetteer loaded", zap.Int("places", len(g.entries)))
	return g, nil
}

// Search returns the place whose name or alias equals text, falling back to the
// first place whose name contains it. The result has zero or one element.
func (g *Gazetteer) Search(ctx context.Context, text string) ([]Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if needle == "" {
		return nil, nil
	}

	for _, e := range g.entries {
		for _, alias := range e.aliases {
			if alias == needle {
				return []Place{e.place}, nil
			}
		}
	}
	for _, e := range g.entries {
		if strings.Contains(e.aliases[0], needle) {
			return []Place{e.place}, nil
		}
	}

	g.logger.Debug("place not found", zap.String("text", needle))
	return nil, nil
}

func (g *Gazetteer) Len() int {
	return len(g.entries)
}
