package material

import (
	"math/rand"
	"testing"

	"github.com/df07/go-rayjay/pkg/core"
)

func TestNewMetal_FuzzClamp(t *testing.T) {
	tests := []struct {
		name         string
		inputFuzz    float64
		expectedFuzz float64
	}{
		{"Valid fuzz 0.0", 0.0, 0.0},
		{"Valid fuzz 0.5", 0.5, 0.5},
		{"Valid fuzz 1.0", 1.0, 1.0},
		{"Clamp above 1.0", 1.5, 1.0},
		{"Clamp below 0.0", -0.5, 0.0},
	}

	albedo := core.NewColor(0.8, 0.8, 0.8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(albedo, tt.inputFuzz)
			if metal.Fuzz != tt.expectedFuzz {
				t.Errorf("Expected fuzz %f, got %f", tt.expectedFuzz, metal.Fuzz)
			}
		})
	}
}

func TestMetal_PerfectReflection(t *testing.T) {
	albedo := core.NewColor(0.9, 0.9, 0.9)
	metal := NewMetal(albedo, 0.0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	// Ray hitting surface at 45 degrees
	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: true,
	}

	scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
	if !didScatter {
		t.Fatal("Metal should scatter")
	}

	expected := core.NewVec3(0, -1, 1).Normalize()
	actual := scatter.Scattered.Direction

	if actual.Subtract(expected).Length() > 1e-10 {
		t.Errorf("Perfect reflection failed: expected %v, got %v", expected, actual)
	}
	if scatter.Attenuation != albedo {
		t.Errorf("Expected attenuation %v, got %v", albedo, scatter.Attenuation)
	}
}

func TestMetal_FuzzyReflectionStaysUnitLength(t *testing.T) {
	metal := NewMetal(core.NewColor(0.8, 0.6, 0.2), 0.3)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1))
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 0, 1), FrontFace: true}
	mirror := core.NewVec3(0, -1, 1).Normalize()

	for i := 0; i < 200; i++ {
		scatter, _ := metal.Scatter(rayIn, hit, sampler)
		dir := scatter.Scattered.Direction
		if d := dir.Length(); d < 1-1e-9 || d > 1+1e-9 {
			t.Fatalf("Expected unit direction, got length %f", d)
		}
		// A fuzz of 0.3 can deviate from the mirror direction by at most asin(0.3)
		if dir.Dot(mirror) < 0.95 {
			t.Fatalf("Fuzzed direction %v strays too far from mirror %v", dir, mirror)
		}
	}
}

func TestMetal_AbsorbsReflectionsBelowSurface(t *testing.T) {
	metal := NewMetal(core.NewColor(1, 1, 1), 1.0)

	// Grazing ray: the mirror direction barely leaves the surface
	rayIn := core.NewRay(core.NewVec3(-1, 0.01, 0), core.NewVec3(1, -0.01, 0))
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), FrontFace: true}

	// Perturbation (0, -1, 0) drags the reflection under the surface
	sampler := &sequenceSampler{values: []float64{0.5, 0, 0.5}}

	scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
	if didScatter {
		t.Errorf("Expected absorption, got scattered direction %v", scatter.Scattered.Direction)
	}
	if scatter.Scattered.Direction.Dot(hit.Normal) > 0 {
		t.Errorf("Absorbed ray should point into the surface, got %v", scatter.Scattered.Direction)
	}
}

func TestMetal_ScatterMatchesNormalSign(t *testing.T) {
	metal := NewMetal(core.NewColor(1, 1, 1), 1.0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(3)))

	rayIn := core.NewRay(core.NewVec3(-1, 0.2, 0), core.NewVec3(1, -0.2, 0))
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), FrontFace: true}

	for i := 0; i < 500; i++ {
		scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
		above := scatter.Scattered.Direction.Dot(hit.Normal) > 0
		if didScatter != above {
			t.Fatalf("didScatter=%v but dot with normal is %f", didScatter, scatter.Scattered.Direction.Dot(hit.Normal))
		}
	}
}
