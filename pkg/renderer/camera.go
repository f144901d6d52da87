package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-rayjay/pkg/core"
)

// Configuration errors returned before any rendering starts
var (
	ErrInvalidResolution = errors.New("invalid resolution")
	ErrInvalidSamples    = errors.New("invalid samples per pixel")
	ErrInvalidDepth      = errors.New("invalid max depth")
	ErrInvalidFOV        = errors.New("invalid vertical field of view")
	ErrInvalidFocus      = errors.New("invalid focus distance")
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center        core.Vec3 // Camera position (look-from)
	LookAt        core.Vec3 // Point the camera is looking at
	Up            core.Vec3 // Up direction (usually (0,1,0))
	Width         int       // Image width in pixels
	Height        int       // Image height in pixels; 0 derives it from AspectRatio
	AspectRatio   float64   // Width / height, used when Height is 0
	VFov          float64   // Vertical field of view in degrees
	DefocusAngle  float64   // Cone angle of rays through each pixel in degrees (0 = pinhole)
	FocusDistance float64   // Distance from the camera to the plane of perfect focus
}

// DefaultCameraConfig returns a 400px wide 16:9 pinhole camera at the origin looking down -Z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Center:        core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          90.0,
		DefocusAngle:  0.0,
		FocusDistance: 10.0,
	}
}

// MergeCameraConfig overlays the non-zero fields of override onto base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base

	if override.Center != (core.Vec3{}) {
		result.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.DefocusAngle != 0 {
		result.DefocusAngle = override.DefocusAngle
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}

	return result
}

// Resolution returns the image size. An explicit Height wins over AspectRatio.
func (c CameraConfig) Resolution() (width, height int) {
	if c.Height > 0 {
		return c.Width, c.Height
	}
	return c.Width, max(1, int(float64(c.Width)/c.AspectRatio))
}

// WithResolution overrides the image size where width or height is positive.
// A width given alone keeps the current aspect ratio.
func (c CameraConfig) WithResolution(width, height int) CameraConfig {
	if width > 0 && height == 0 && c.Height > 0 {
		c.AspectRatio = float64(c.Width) / float64(c.Height)
		c.Height = 0
	}
	return MergeCameraConfig(c, CameraConfig{Width: width, Height: height})
}

// Validate reports configuration that cannot produce an image
func (c CameraConfig) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("width %d must be positive: %w", c.Width, ErrInvalidResolution)
	}
	if c.Height < 0 {
		return fmt.Errorf("height %d must not be negative: %w", c.Height, ErrInvalidResolution)
	}
	if c.Height == 0 && !(c.AspectRatio > 0) {
		return fmt.Errorf("aspect ratio %g must be positive when height is not set: %w", c.AspectRatio, ErrInvalidResolution)
	}
	if !(c.VFov > 0 && c.VFov < 180) {
		return fmt.Errorf("vfov %g must be in (0, 180) degrees: %w", c.VFov, ErrInvalidFOV)
	}
	if !(c.FocusDistance > 0) {
		return fmt.Errorf("focus distance %g must be positive: %w", c.FocusDistance, ErrInvalidFocus)
	}
	return nil
}

// Camera holds the render context derived from a CameraConfig.
// It is immutable once built and safe to share between workers.
type Camera struct {
	config CameraConfig
	width  int
	height int

	center       core.Vec3 // Camera center
	pixel00      core.Vec3 // Location of pixel (0, 0) center
	pixelDeltaU  core.Vec3 // Offset to pixel to the right
	pixelDeltaV  core.Vec3 // Offset to pixel below
	u, v, w      core.Vec3 // Camera frame basis vectors
	defocusDiskU core.Vec3 // Defocus disk horizontal radius
	defocusDiskV core.Vec3 // Defocus disk vertical radius
}

// NewCamera validates the configuration and derives the render context
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	width, height := config.Resolution()

	// Viewport dimensions on the focus plane
	theta := core.DegreesToRadians(config.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * config.FocusDistance
	viewportWidth := viewportHeight * float64(width) / float64(height)

	// Orthonormal camera basis
	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Negate().Multiply(viewportHeight)

	pixelDeltaU := viewportU.Divide(float64(width))
	pixelDeltaV := viewportV.Divide(float64(height))

	viewportUpperLeft := config.Center.
		Subtract(w.Multiply(config.FocusDistance)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	pixel00 := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5))

	defocusRadius := config.FocusDistance * math.Tan(core.DegreesToRadians(config.DefocusAngle/2))

	return &Camera{
		config:       config,
		width:        width,
		height:       height,
		center:       config.Center,
		pixel00:      pixel00,
		pixelDeltaU:  pixelDeltaU,
		pixelDeltaV:  pixelDeltaV,
		u:            u,
		v:            v,
		w:            w,
		defocusDiskU: u.Multiply(defocusRadius),
		defocusDiskV: v.Multiply(defocusRadius),
	}, nil
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig { return c.config }

// GetRay returns a ray through a random point in pixel (i, j), where j counts down from the top row.
// With a positive defocus angle the origin is sampled on the defocus disk.
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	offsetX := sampler.Get1D() - 0.5
	offsetY := sampler.Get1D() - 0.5

	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i) + offsetX)).
		Add(c.pixelDeltaV.Multiply(float64(j) + offsetY))

	origin := c.center
	if c.config.DefocusAngle > 0 {
		origin = c.defocusDiskSample(sampler)
	}

	return core.NewRay(origin, pixelSample.Subtract(origin))
}

// defocusDiskSample returns a random point on the camera's defocus disk
func (c *Camera) defocusDiskSample(sampler core.Sampler) core.Vec3 {
	p := core.RandomInUnitDisk(sampler)
	return c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
}

// GetCameraForward returns the unit direction the camera is looking
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}
