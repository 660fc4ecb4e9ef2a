package lookup

import (
	"context"
	"time"

	"github.com/spigell/nearhire/internal/geo"
	"github.com/spigell/nearhire/internal/utils"
)

// StaticResolver answers with a configured position after an optional delay.
type StaticResolver struct {
	Position geo.Coordinates
	Denied   bool
	Delay    time.Duration
}

func (r StaticResolver) Resolve(ctx context.Context) (geo.Coordinates, error) {
	if err := utils.WaitFor(ctx, r.Delay); err != nil {
		return geo.Coordinates{}, err
	}
	if r.Denied {
		return geo.Coordinates{}, ErrDenied
	}
	if err := r.Position.Validate(); err != nil {
		return geo.Coordinates{}, err
	}
	return r.Position, nil
}
