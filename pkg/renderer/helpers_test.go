package renderer

import (
	"fmt"
	"math"
	"sync"

	"github.com/df07/go-rayjay/pkg/core"
	"github.com/df07/go-rayjay/pkg/geometry"
	"github.com/df07/go-rayjay/pkg/material"
)

// constantSampler returns the same value for every dimension
type constantSampler struct {
	value float64
}

func (c constantSampler) Get1D() float64   { return c.value }
func (c constantSampler) Get2D() core.Vec2 { return core.NewVec2(c.value, c.value) }
func (c constantSampler) Get3D() core.Vec3 { return core.NewVec3(c.value, c.value, c.value) }

// MockIntegrator returns a fixed color and counts calls
type MockIntegrator struct {
	returnColor core.Color
	callCount   int
}

func (m *MockIntegrator) RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Color {
	m.callCount++
	return m.returnColor
}

// createTestWorld builds a small world with every material type
func createTestWorld() *geometry.ShapeList {
	return geometry.NewShapeList(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewColor(0.8, 0.8, 0))),
		geometry.NewSphere(core.NewVec3(0, 0, -1.2), 0.5, material.NewLambertian(core.NewColor(0.1, 0.2, 0.5))),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewColor(0.8, 0.6, 0.2), 0.3)),
	)
}

// createTestCamera builds a small camera aimed at the test world
func createTestCamera(width, height int) *Camera {
	config := MergeCameraConfig(DefaultCameraConfig(), CameraConfig{
		Width:         width,
		Height:        height,
		FocusDistance: 1.0,
	})
	camera, err := NewCamera(config)
	if err != nil {
		panic(err)
	}
	return camera
}

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

// recordingLogger keeps every formatted line
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}
