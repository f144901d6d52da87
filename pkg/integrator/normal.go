package integrator

import (
	"math"

	"github.com/df07/go-rayjay/pkg/core"
	"github.com/df07/go-rayjay/pkg/geometry"
)

// NormalIntegrator shades the first hit by its surface normal mapped into [0,1].
// Used for debugging geometry and for regression fixtures.
type NormalIntegrator struct {
	Sky Sky
}

// NewNormalIntegrator creates a normal-shading integrator with the default sky
func NewNormalIntegrator() *NormalIntegrator {
	return &NormalIntegrator{Sky: DefaultSky()}
}

// RayColor returns 0.5*(n+1) for the closest hit, or the sky gradient
func (n *NormalIntegrator) RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Color {
	hit, isHit := world.Hit(ray, core.NewInterval(0, math.Inf(1)))
	if !isHit {
		return n.Sky.Background(ray)
	}
	return hit.Normal.Add(core.NewColor(1, 1, 1)).Multiply(0.5)
}
