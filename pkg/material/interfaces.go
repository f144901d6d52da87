package material

import (
	"github.com/df07/go-rayjay/pkg/core"
)

// Material interface for objects that can scatter rays
type Material interface {
	// Scatter returns the outgoing ray and its attenuation, or false if the ray is absorbed
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray   // The scattered ray
	Attenuation core.Color // Color attenuation
}

// HitRecord contains information about a ray-object intersection.
// It is built once per successful intersection and not modified afterwards.
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, always facing the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the outward-facing side
	Material  Material  // Material of the hit object, shared with the shape
}

// NewHitRecord builds a hit record, orienting the normal against the incoming ray.
// outwardNormal must point out of the surface and be unit length.
func NewHitRecord(ray core.Ray, t float64, point, outwardNormal core.Vec3, mat Material) HitRecord {
	frontFace := ray.Direction.Dot(outwardNormal) < 0
	normal := outwardNormal
	if !frontFace {
		normal = outwardNormal.Negate()
	}
	return HitRecord{
		Point:     point,
		Normal:    normal,
		T:         t,
		FrontFace: frontFace,
		Material:  mat,
	}
}
