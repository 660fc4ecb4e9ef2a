package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidCoordinates is returned when a latitude/longitude pair is not finite or out of range.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

var validate = validator.New()

// Coordinates is a WGS 84 point in degrees.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat" mapstructure:"lat" validate:"latitude"`
	Lon float64 `json:"lon" yaml:"lon" mapstructure:"lon" validate:"longitude"`
}

// Located is implemented by anything that has a position on the map.
type Located interface {
	Position() Coordinates
}

// Position lets a bare point be used wherever a Located is expected.
func (c Coordinates) Position() Coordinates { return c }

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

// Validate reports ErrInvalidCoordinates for NaN, infinite or out-of-range values.
func (c Coordinates) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidCoordinates, c, err)
	}
	return nil
}

// Normalize returns c when it is valid and fallback otherwise.
// The boolean is false when the fallback was substituted.
func Normalize(c *Coordinates, fallback Coordinates) (Coordinates, bool) {
	if c == nil {
		return fallback, false
	}
	if err := c.Validate(); err != nil {
		return fallback, false
	}
	return *c, true
}

// Offset moves c by the given degrees, clamping latitude to the poles and
// wrapping longitude across the antimeridian.
func Offset(c Coordinates, dLat, dLon float64) Coordinates {
	lat := math.Max(-90, math.Min(90, c.Lat+dLat))

	lon := math.Mod(c.Lon+dLon+180, 360)
	if lon < 0 {
		lon += 360
	}

	return Coordinates{Lat: lat, Lon: lon - 180}
}
