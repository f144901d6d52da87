package integrator

import (
	"github.com/df07/go-rayjay/pkg/core"
	"github.com/df07/go-rayjay/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance carried back along ray
	RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Color
}

// Sky holds the two colors of the vertical background gradient
type Sky struct {
	Top    core.Color // Color when looking straight up
	Bottom core.Color // Color when looking straight down
}

// DefaultSky returns the white-to-light-blue gradient
func DefaultSky() Sky {
	return Sky{
		Top:    core.NewColor(0.5, 0.7, 1.0),
		Bottom: core.NewColor(1.0, 1.0, 1.0),
	}
}

// Background returns the gradient color for a ray that escapes the scene
func (s Sky) Background(ray core.Ray) core.Color {
	unitDirection := ray.Direction.Normalize()
	a := 0.5 * (unitDirection.Y + 1.0)
	return s.Bottom.Lerp(s.Top, a)
}
