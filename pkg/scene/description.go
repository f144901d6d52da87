package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/df07/go-rayjay/pkg/core"
	"github.com/df07/go-rayjay/pkg/geometry"
	"github.com/df07/go-rayjay/pkg/material"
	"github.com/df07/go-rayjay/pkg/renderer"
)

// Scene description errors
var (
	ErrUnknownMaterial     = errors.New("unknown material")
	ErrUnknownMaterialType = errors.New("unknown material type")
	ErrUnknownEntityType   = errors.New("unknown entity type")
	ErrInvalidMaterial     = errors.New("invalid material")
)

// Description is the declarative JSON form of a scene
type Description struct {
	Name        string                         `json:"name"`
	Description string                         `json:"description,omitempty"`
	Group       string                         `json:"group,omitempty"`
	Shading     Shading                        `json:"shading,omitempty"`
	Camera      CameraDescription              `json:"camera"`
	Sampling    SamplingDescription            `json:"sampling"`
	Materials   map[string]MaterialDescription `json:"materials,omitempty"`
	Entities    []EntityDescription            `json:"entities"`

	// Warnings collects non-fatal import problems, such as skipped glTF meshes
	Warnings []string `json:"-"`
}

// CameraDescription overrides fields of the default camera; zero values keep the default
type CameraDescription struct {
	Width         int     `json:"width,omitempty"`
	Height        int     `json:"height,omitempty"`
	AspectRatio   float64 `json:"aspectRatio,omitempty"`
	VFov          float64 `json:"vfov,omitempty"`
	LookFrom      *Vector `json:"lookFrom,omitempty"`
	LookAt        *Vector `json:"lookAt,omitempty"`
	Up            *Vector `json:"up,omitempty"`
	DefocusAngle  float64 `json:"defocusAngle,omitempty"`
	FocusDistance float64 `json:"focusDistance,omitempty"`
}

// SamplingDescription overrides fields of the default sampling configuration.
// MaxDepth and Seed are pointers so an explicit 0 is kept.
type SamplingDescription struct {
	SamplesPerPixel int    `json:"samplesPerPixel,omitempty"`
	MaxDepth        *int   `json:"maxDepth,omitempty"`
	Seed            *int64 `json:"seed,omitempty"`
}

// MaterialDescription describes one material
type MaterialDescription struct {
	Type            string      `json:"type"`
	Albedo          *ColorValue `json:"albedo,omitempty"`
	Fuzz            float64     `json:"fuzz,omitempty"`
	RefractionIndex float64     `json:"refractionIndex,omitempty"`
}

// EntityDescription describes one entity; spheres are the only kind
type EntityDescription struct {
	Type     string      `json:"type"`
	Center   Vector      `json:"center"`
	Radius   float64     `json:"radius"`
	Material MaterialRef `json:"material"`
}

// Vector is a JSON [x, y, z] triple
type Vector [3]float64

// Vec3 converts to the core vector type
func (v Vector) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// ColorValue is a linear color written as [r, g, b] or as an sRGB "#rrggbb" string
type ColorValue core.Color

// UnmarshalJSON accepts both color notations
func (c *ColorValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var hex string
		if err := json.Unmarshal(data, &hex); err != nil {
			return err
		}
		parsed, err := colorful.Hex(hex)
		if err != nil {
			return fmt.Errorf("invalid color %q: %w", hex, err)
		}
		r, g, b := parsed.LinearRgb()
		*c = ColorValue(core.NewColor(r, g, b))
		return nil
	}

	var rgb [3]float64
	if err := json.Unmarshal(data, &rgb); err != nil {
		return fmt.Errorf("color must be [r,g,b] or \"#rrggbb\": %w", err)
	}
	*c = ColorValue(core.NewColor(rgb[0], rgb[1], rgb[2]))
	return nil
}

// MarshalJSON always writes the array form
func (c ColorValue) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{c.X, c.Y, c.Z})
}

// MaterialRef is either the name of a shared material or an inline description
type MaterialRef struct {
	Name   string
	Inline *MaterialDescription
}

// UnmarshalJSON accepts a string name or a material object
func (m *MaterialRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &m.Name)
	}
	m.Inline = &MaterialDescription{}
	return json.Unmarshal(data, m.Inline)
}

// MarshalJSON writes the name when set, otherwise the inline material
func (m MaterialRef) MarshalJSON() ([]byte, error) {
	if m.Inline == nil {
		return json.Marshal(m.Name)
	}
	return json.Marshal(m.Inline)
}

// Load reads a scene file. JSON files are parsed directly; .gltf and .glb files
// go through the glTF importer.
func Load(path string) (*Description, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return LoadGLTF(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer file.Close()

	desc, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if desc.Name == "" {
		desc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return desc, nil
}

// Parse decodes a JSON scene description, rejecting unknown fields
func Parse(r io.Reader) (*Description, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var desc Description
	if err := dec.Decode(&desc); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &desc, nil
}

// Build turns the description into a renderable scene. Named materials are built
// once and shared by every sphere that references them.
func (d *Description) Build() (*Scene, error) {
	named := make(map[string]material.Material, len(d.Materials))

	// Sorted so the first reported error is stable
	names := make([]string, 0, len(d.Materials))
	for name := range d.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mat, err := buildMaterial(d.Materials[name])
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		named[name] = mat
	}

	world := geometry.NewShapeList()
	for i, entity := range d.Entities {
		shape, err := buildEntity(entity, named)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		world.Add(shape)
	}

	return &Scene{
		Name:           d.Name,
		World:          world,
		CameraConfig:   d.Camera.apply(renderer.DefaultCameraConfig()),
		SamplingConfig: d.Sampling.apply(renderer.DefaultSamplingConfig()),
		Shading:        d.Shading,
	}, nil
}

// apply overlays the description onto base. Vectors that are present replace the
// base even when zero, since the origin is a valid position or target.
func (c CameraDescription) apply(base renderer.CameraConfig) renderer.CameraConfig {
	config := renderer.MergeCameraConfig(base, renderer.CameraConfig{
		Width:         c.Width,
		Height:        c.Height,
		AspectRatio:   c.AspectRatio,
		VFov:          c.VFov,
		DefocusAngle:  c.DefocusAngle,
		FocusDistance: c.FocusDistance,
	})
	if c.LookFrom != nil {
		config.Center = c.LookFrom.Vec3()
	}
	if c.LookAt != nil {
		config.LookAt = c.LookAt.Vec3()
	}
	if c.Up != nil {
		config.Up = c.Up.Vec3()
	}
	return config
}

func (s SamplingDescription) apply(base renderer.SamplingConfig) renderer.SamplingConfig {
	config := renderer.MergeSamplingConfig(base, renderer.SamplingConfig{SamplesPerPixel: s.SamplesPerPixel})
	if s.MaxDepth != nil {
		config.MaxDepth = *s.MaxDepth
	}
	if s.Seed != nil {
		config.Seed = *s.Seed
	}
	return config
}

func buildEntity(entity EntityDescription, named map[string]material.Material) (geometry.Shape, error) {
	if entity.Type != "sphere" {
		return nil, fmt.Errorf("%w %q", ErrUnknownEntityType, entity.Type)
	}

	var mat material.Material
	switch {
	case entity.Material.Inline != nil:
		m, err := buildMaterial(*entity.Material.Inline)
		if err != nil {
			return nil, err
		}
		mat = m
	default:
		m, ok := named[entity.Material.Name]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownMaterial, entity.Material.Name)
		}
		mat = m
	}

	return geometry.NewSphere(entity.Center.Vec3(), entity.Radius, mat), nil
}

func buildMaterial(desc MaterialDescription) (material.Material, error) {
	switch desc.Type {
	case "lambertian":
		if desc.Albedo == nil {
			return nil, fmt.Errorf("lambertian needs an albedo: %w", ErrInvalidMaterial)
		}
		return material.NewLambertian(core.Color(*desc.Albedo)), nil
	case "metal":
		if desc.Albedo == nil {
			return nil, fmt.Errorf("metal needs an albedo: %w", ErrInvalidMaterial)
		}
		return material.NewMetal(core.Color(*desc.Albedo), desc.Fuzz), nil
	case "dielectric":
		if !(desc.RefractionIndex > 0) {
			return nil, fmt.Errorf("dielectric refraction index %g must be positive: %w", desc.RefractionIndex, ErrInvalidMaterial)
		}
		return material.NewDielectric(desc.RefractionIndex), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMaterialType, desc.Type)
	}
}
