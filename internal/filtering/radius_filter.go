package filtering

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/spigell/nearhire/internal/geo"
	"github.com/spigell/nearhire/internal/roster"
)

type radiusFilter[T roster.Entity] struct {
	enabled  bool
	reason   string
	origin   geo.Coordinates
	radiusKm float64
}

// NewRadius creates the proximity step. It is disabled when origin is nil.
func NewRadius[T roster.Entity](origin *geo.Coordinates, radiusKm float64) Filter[T] {
	if origin == nil {
		return &radiusFilter[T]{reason: "no origin", radiusKm: radiusKm}
	}

	return &radiusFilter[T]{
		enabled:  true,
		origin:   *origin,
		radiusKm: radiusKm,
	}
}

func (f *radiusFilter[T]) Name() string { return "radius" }

func (f *radiusFilter[T]) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *radiusFilter[T]) IsEnabled() bool { return f.enabled }

func (f *radiusFilter[T]) Validate() error {
	if math.IsNaN(f.radiusKm) || f.radiusKm < 0 {
		return fmt.Errorf("radius must be a non-negative number of km, got %v", f.radiusKm)
	}
	return f.origin.Validate()
}

func (f *radiusFilter[T]) Apply(_ context.Context, items []T) ([]T, Step, error) {
	result := geo.FilterByRadius(f.origin, items, f.radiusKm)
	return result, newStep(items, result), nil
}

func (f *radiusFilter[T]) Status() Status {
	details := map[string]string{
		"radius_km": strconv.FormatFloat(f.radiusKm, 'f', -1, 64),
	}
	if f.enabled {
		details["origin"] = f.origin.String()
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}
