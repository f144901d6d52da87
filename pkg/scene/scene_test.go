package scene

import (
	"context"
	"errors"
	"testing"

	"github.com/df07/go-rayjay/pkg/integrator"
	"github.com/df07/go-rayjay/pkg/renderer"
)

type silentLogger struct{}

func (silentLogger) Printf(format string, args ...interface{}) {}

func TestNewIntegrator(t *testing.T) {
	tests := []struct {
		shading Shading
		want    string
		wantErr bool
	}{
		{"", "*integrator.PathTracingIntegrator", false},
		{ShadingPath, "*integrator.PathTracingIntegrator", false},
		{ShadingNormals, "*integrator.NormalIntegrator", false},
		{"ambient-occlusion", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.shading), func(t *testing.T) {
			s := &Scene{Shading: tt.shading, SamplingConfig: renderer.DefaultSamplingConfig()}
			integ, err := s.NewIntegrator()
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewIntegrator() error = %v", err)
			}
			switch integ.(type) {
			case *integrator.PathTracingIntegrator:
				if tt.want != "*integrator.PathTracingIntegrator" {
					t.Errorf("Got path tracer, want %s", tt.want)
				}
			case *integrator.NormalIntegrator:
				if tt.want != "*integrator.NormalIntegrator" {
					t.Errorf("Got normal integrator, want %s", tt.want)
				}
			default:
				t.Errorf("Unexpected integrator %T", integ)
			}
		})
	}
}

func TestSceneNewRaytracer(t *testing.T) {
	s, err := ByName("normals")
	if err != nil {
		t.Fatalf("ByName() error = %v", err)
	}
	s.CameraConfig.Width = 8
	s.CameraConfig.Height = 4
	s.SamplingConfig.SamplesPerPixel = 1

	rt, err := s.NewRaytracer(silentLogger{})
	if err != nil {
		t.Fatalf("NewRaytracer() error = %v", err)
	}

	frame, err := rt.Render(context.Background(), nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if frame.Width != 8 || frame.Height != 4 {
		t.Errorf("Frame size = %dx%d, want 8x4", frame.Width, frame.Height)
	}
}

func TestSceneNewRaytracerInvalidConfig(t *testing.T) {
	s, err := ByName("default")
	if err != nil {
		t.Fatalf("ByName() error = %v", err)
	}
	s.CameraConfig.VFov = 180

	if _, err := s.NewRaytracer(silentLogger{}); !errors.Is(err, renderer.ErrInvalidFOV) {
		t.Errorf("NewRaytracer() error = %v, want ErrInvalidFOV", err)
	}

	s.CameraConfig.VFov = 90
	s.SamplingConfig.SamplesPerPixel = 0
	if _, err := s.NewRaytracer(silentLogger{}); !errors.Is(err, renderer.ErrInvalidSamples) {
		t.Errorf("NewRaytracer() error = %v, want ErrInvalidSamples", err)
	}
}
