package explorer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/nearhire/internal/filtering"
	"github.com/spigell/nearhire/internal/geo"
	"github.com/spigell/nearhire/internal/lookup"
	"github.com/spigell/nearhire/internal/roster"
	"github.com/spigell/nearhire/internal/utils"
)

// ErrInvalidRadius is returned for negative or NaN radii.
var ErrInvalidRadius = errors.New("invalid radius")

// Provider supplies a roster snapshot for the current origin.
type Provider[T roster.Entity] interface {
	Snapshot(origin *geo.Coordinates) []T
}

// Outcome reports what an external lookup did to the query state. Reason
// is set when the lookup was a no-op because of a failure.
type Outcome struct {
	Changed bool
	Reason  error
}

// View is the result of one query pass.
type View[T roster.Entity] struct {
	Items    []T
	Viewport geo.Viewport
	Steps    []filtering.Step
	Filters  []filtering.Status
	Origin   *geo.Coordinates
}

type Config struct {
	// Fallback centers the viewport when there is neither a result nor an origin.
	Fallback geo.Coordinates
	// RadiusKm enables the proximity filter when positive.
	RadiusKm float64
}

// Explorer holds the query inputs pushed by the presentation layer and
// derives result views from them. The roster itself is never modified.
type Explorer[T roster.Entity] struct {
	mu       sync.Mutex
	provider Provider[T]
	fallback geo.Coordinates
	logger   *zap.Logger

	text     string
	category roster.Category
	radiusKm *float64
	origin   *geo.Coordinates
}

func New[T roster.Entity](provider Provider[T], cfg Config, logger *zap.Logger) (*Explorer[T], error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Fallback.Validate(); err != nil {
		return nil, fmt.Errorf("fallback: %w", err)
	}

	e := &Explorer[T]{
		provider: provider,
		fallback: cfg.Fallback,
		logger:   logger,
		category: roster.Wildcard,
	}
	if cfg.RadiusKm > 0 {
		if err := e.SetRadius(cfg.RadiusKm); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SetQuery stores text as typed. Surrounding spaces are part of the substring.
func (e *Explorer[T]) SetQuery(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
}

func (e *Explorer[T]) SetCategory(category roster.Category) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if category == "" {
		category = roster.Wildcard
	}
	e.category = category
}

// SetRadius activates the proximity filter. Invalid values leave the state unchanged.
func (e *Explorer[T]) SetRadius(km float64) error {
	if math.IsNaN(km) || km < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRadius, km)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.radiusKm = &km
	return nil
}

func (e *Explorer[T]) ClearRadius() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.radiusKm = nil
}

// SetOrigin moves the search origin. Invalid coordinates leave the state unchanged.
func (e *Explorer[T]) SetOrigin(c geo.Coordinates) error {
	if err := c.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.origin = &c
	return nil
}

func (e *Explorer[T]) Origin() (geo.Coordinates, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.origin == nil {
		return geo.Coordinates{}, false
	}
	return *e.origin, true
}

// Locate sets the origin to the resolved device position.
func (e *Explorer[T]) Locate(ctx context.Context, resolver lookup.Resolver) Outcome {
	pos, err := resolver.Resolve(ctx)
	if err != nil {
		e.logger.Info("location unavailable, origin unchanged", zap.Error(err))
		return Outcome{Reason: err}
	}
	if err := e.SetOrigin(pos); err != nil {
		e.logger.Warn("resolver returned invalid position", zap.Error(err))
		return Outcome{Reason: err}
	}

	e.logger.Debug("origin resolved", zap.Stringer("origin", pos))
	return Outcome{Changed: true}
}

// SearchPlace moves the origin to the geocoded place. Blank text and empty
// results are no-ops.
func (e *Explorer[T]) SearchPlace(ctx context.Context, geocoder lookup.Geocoder, text string) Outcome {
	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{}
	}

	places, err := geocoder.Search(ctx, text)
	if err != nil {
		e.logger.Info("place search failed, origin unchanged", zap.String("text", text), zap.Error(err))
		return Outcome{Reason: err}
	}
	if len(places) == 0 {
		e.logger.Info("place not found, origin unchanged", zap.String("text", text))
		return Outcome{Reason: lookup.ErrNoResult}
	}

	if err := e.SetOrigin(places[0].Coordinates); err != nil {
		e.logger.Warn("geocoder returned invalid position", zap.String("place", places[0].Name), zap.Error(err))
		return Outcome{Reason: err}
	}

	e.logger.Debug("origin moved to place",
		zap.String("place", places[0].Name),
		zap.Stringer("origin", places[0].Coordinates),
	)
	return Outcome{Changed: true}
}

// Listen uses a transcript as the text query. An unsupported source is a silent no-op.
func (e *Explorer[T]) Listen(ctx context.Context, source lookup.SpeechSource) Outcome {
	text, err := source.Transcribe(ctx)
	if errors.Is(err, lookup.ErrUnsupported) {
		return Outcome{}
	}
	if err != nil {
		e.logger.Info("speech capture failed, query unchanged", zap.Error(err))
		return Outcome{Reason: err}
	}

	e.SetQuery(text)
	e.logger.Debug("query set from speech", zap.String("text", utils.TruncateForLog(text, 64)))
	return Outcome{Changed: true}
}

// Categories lists the wildcard followed by the categories present in the
// current snapshot, in order of first appearance.
func (e *Explorer[T]) Categories() []roster.Category {
	e.mu.Lock()
	origin := e.origin
	e.mu.Unlock()

	return append([]roster.Category{roster.Wildcard}, roster.DistinctCategories(e.provider.Snapshot(origin))...)
}

// View runs the search and proximity steps, followed by extra, over a fresh
// snapshot and fits the viewport to the result.
func (e *Explorer[T]) View(ctx context.Context, extra ...filtering.Filter[T]) (View[T], error) {
	e.mu.Lock()
	text, category := e.text, e.category
	var origin *geo.Coordinates
	if e.origin != nil {
		o := *e.origin
		origin = &o
	}
	var radius *float64
	if e.radiusKm != nil {
		r := *e.radiusKm
		radius = &r
	}
	e.mu.Unlock()

	radiusKm := 0.0
	if radius != nil {
		radiusKm = *radius
	}

	steps := append([]filtering.Filter[T]{
		filtering.NewSearch[T](text, category),
		filtering.NewRadius[T](origin, radiusKm),
	}, extra...)
	pipeline := filtering.New(steps, e.logger)
	if radius == nil {
		pipeline.DisableByName("radius", "no radius")
	}

	items, executed, err := pipeline.RunFilters(ctx, e.provider.Snapshot(origin))
	if err != nil {
		return View[T]{}, err
	}

	fallback := e.fallback
	if origin != nil {
		fallback = *origin
	}

	return View[T]{
		Items:    items,
		Viewport: geo.FitViewport(items, fallback),
		Steps:    executed,
		Filters:  pipeline.Describe(),
		Origin:   origin,
	}, nil
}
