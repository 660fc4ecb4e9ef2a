package lookup

import (
	"context"
	"errors"

	"github.com/spigell/nearhire/internal/geo"
)

var (
	// ErrDenied reports that the user refused to share a position.
	ErrDenied = errors.New("location permission denied")
	// ErrUnsupported reports that a capability is not available on this client.
	ErrUnsupported = errors.New("not supported")
	// ErrNoResult reports that a lookup completed without a usable answer.
	ErrNoResult = errors.New("no result")
)

// Place is a named point returned by a Geocoder.
type Place struct {
	Name        string          `json:"name" yaml:"name"`
	Coordinates geo.Coordinates `json:"coordinates" yaml:"coordinates"`
}

func (p Place) Position() geo.Coordinates { return p.Coordinates }

// Resolver provides the current device position.
type Resolver interface {
	Resolve(ctx context.Context) (geo.Coordinates, error)
}

// Geocoder turns free text into at most one place.
type Geocoder interface {
	Search(ctx context.Context, text string) ([]Place, error)
}

// SpeechSource produces one transcript per call.
type SpeechSource interface {
	Transcribe(ctx context.Context) (string, error)
}
