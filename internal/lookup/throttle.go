package lookup

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/spigell/nearhire/internal/utils"
)

// Throttled limits how often the wrapped Geocoder is called. Public
// geocoding services typically allow one request per second.
type Throttled struct {
	next    Geocoder
	limiter *rate.Limiter
}

func NewThrottled(next Geocoder, perSecond float64, burst int) *Throttled {
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (t *Throttled) Search(ctx context.Context, text string) ([]Place, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.next.Search(ctx, text)
}

// Delayed simulates network latency in front of the wrapped Geocoder.
type Delayed struct {
	Next  Geocoder
	Delay time.Duration
}

func (d Delayed) Search(ctx context.Context, text string) ([]Place, error) {
	if err := utils.WaitFor(ctx, d.Delay); err != nil {
		return nil, err
	}
	return d.Next.Search(ctx, text)
}
