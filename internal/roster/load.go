package roster

import (
	"bytes"
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

//go:embed data/workers.yaml
var defaultWorkers []byte

type workerFile struct {
	Workers []map[string]any `yaml:"workers"`
}

type workerRecord struct {
	ID       string   `mapstructure:"id" validate:"required"`
	Name     string   `mapstructure:"name" validate:"required"`
	Skill    string   `mapstructure:"skill" validate:"trade"`
	Location string   `mapstructure:"location"`
	Lat      *float64 `mapstructure:"lat"`
	Lng      *float64 `mapstructure:"lng"`
	Score    float64  `mapstructure:"score" validate:"gte=0,lte=5"`
	Verified bool     `mapstructure:"verified"`
	Image    string   `mapstructure:"image"`
}

// LoadWorkersFile reads a worker roster from path, or the built-in mock roster when path is empty.
func LoadWorkersFile(path string, fallback geo.Coordinates, logger *zap.Logger) ([]*Worker, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return LoadWorkers(bytes.NewReader(defaultWorkers), fallback, logger)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster file: %w", err)
	}
	defer file.Close()

	return LoadWorkers(file, fallback, logger)
}

// LoadWorkers decodes a YAML roster. Records with missing or out-of-range
// coordinates get fallback instead; records that fail validation otherwise are
// skipped. Only a malformed document is an error.
func LoadWorkers(r io.Reader, fallback geo.Coordinates, logger *zap.Logger) ([]*Worker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var doc workerFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	validate := newValidator()
	workers := make([]*Worker, 0, len(doc.Workers))

	seen := make(map[string]struct{}, len(doc.Workers))
	for idx, item := range doc.Workers {
		dropBlank(item, "lat", "lng")

		var rec workerRecord
		cfg := &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &rec,
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(item); err != nil {
			logger.Warn("skipping undecodable roster record", zap.Int("index", idx), zap.Error(err))
			continue
		}

		if err := validate.Struct(rec); err != nil {
			logger.Warn("skipping invalid roster record",
				zap.Int("index", idx),
				zap.String("id", rec.ID),
				zap.Error(err),
			)
			continue
		}

		if _, dup := seen[rec.ID]; dup {
			logger.Warn("skipping roster record with duplicate id",
				zap.Int("index", idx),
				zap.String("id", rec.ID),
			)
			continue
		}
		seen[rec.ID] = struct{}{}

		worker := &Worker{
			ID:            rec.ID,
			Name:          rec.Name,
			Category:      Category(rec.Skill),
			LocationLabel: rec.Location,
			Score:         rec.Score,
			Verified:      rec.Verified,
			ImageRef:      rec.Image,
		}

		var raw *geo.Coordinates
		if rec.Lat != nil && rec.Lng != nil {
			raw = &geo.Coordinates{Lat: *rec.Lat, Lon: *rec.Lng}
		}

		coords, ok := geo.Normalize(raw, fallback)
		if !ok {
			logger.Warn("roster record has no usable coordinates, using fallback origin",
				zap.String("worker", describe(worker)),
				zap.Stringer("fallback", fallback),
			)
		}
		worker.Coordinates = coords

		workers = append(workers, worker)
	}

	logger.Debug("roster loaded", zap.Int("records", len(doc.Workers)), zap.Int("workers", len(workers)))

	return workers, nil
}

// dropBlank removes keys holding empty strings so weak decoding does not turn
// them into zero coordinates.
func dropBlank(item map[string]any, keys ...string) {
	for _, key := range keys {
		if v, ok := item[key].(string); ok && strings.TrimSpace(v) == "" {
			delete(item, key)
		}
	}
}
