package integrator

import (
	"math"

	"github.com/df07/go-rayjay/pkg/core"
	"github.com/df07/go-rayjay/pkg/geometry"
)

// SelfIntersectionEpsilon is the minimum t accepted for secondary hits.
// Scattered rays start on the surface, and floating point error would otherwise
// let them hit that same surface again.
const SelfIntersectionEpsilon = 0.001

// PathTracingIntegrator recursively follows scattered rays until they escape to the sky,
// are absorbed, or exhaust the bounce budget
type PathTracingIntegrator struct {
	MaxDepth int
	Sky      Sky
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		MaxDepth: maxDepth,
		Sky:      DefaultSky(),
	}
}

// RayColor computes the color for a single ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Color {
	return pt.rayColor(ray, world, sampler, pt.MaxDepth)
}

func (pt *PathTracingIntegrator) rayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler, depth int) core.Color {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Color{}
	}

	hit, isHit := world.Hit(ray, core.NewInterval(SelfIntersectionEpsilon, math.Inf(1)))
	if !isHit {
		return pt.Sky.Background(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Color{}
	}

	return scatter.Attenuation.MultiplyVec(pt.rayColor(scatter.Scattered, world, sampler, depth-1))
}
