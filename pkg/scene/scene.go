// Package scene describes what to render: the world, the camera and the sampling budget.
package scene

import (
	"fmt"

	"github.com/df07/go-rayjay/pkg/core"
	"github.com/df07/go-rayjay/pkg/geometry"
	"github.com/df07/go-rayjay/pkg/integrator"
	"github.com/df07/go-rayjay/pkg/renderer"
)

// Shading selects how rays are turned into colors
type Shading string

const (
	ShadingPath    Shading = "path"    // Recursive material scattering
	ShadingNormals Shading = "normals" // First-hit surface normals
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	World          *geometry.ShapeList
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
	Shading        Shading
}

// NewIntegrator returns the integrator matching the scene's shading mode
func (s *Scene) NewIntegrator() (integrator.Integrator, error) {
	switch s.Shading {
	case "", ShadingPath:
		return integrator.NewPathTracingIntegrator(s.SamplingConfig.MaxDepth), nil
	case ShadingNormals:
		return integrator.NewNormalIntegrator(), nil
	default:
		return nil, fmt.Errorf("unknown shading %q", s.Shading)
	}
}

// NewRaytracer builds the camera and raytracer for this scene
func (s *Scene) NewRaytracer(logger core.Logger) (*renderer.Raytracer, error) {
	camera, err := renderer.NewCamera(s.CameraConfig)
	if err != nil {
		return nil, fmt.Errorf("scene %q camera: %w", s.Name, err)
	}

	integ, err := s.NewIntegrator()
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}

	rt, err := renderer.NewRaytracer(camera, s.World, integ, s.SamplingConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("scene %q sampling: %w", s.Name, err)
	}
	return rt, nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}
