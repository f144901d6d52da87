package scene

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/df07/go-rayjay/pkg/core"
	"github.com/df07/go-rayjay/pkg/loaders"
)

// GLTFGroup is the discovery group for imported glTF scenes
const GLTFGroup = "glTF Scenes"

// LoadGLTF imports a .gltf or .glb file as a scene description
func LoadGLTF(path string) (*Description, error) {
	imported, err := loaders.LoadGLTF(path)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return FromGLTF(name, imported), nil
}

// FromGLTF converts loaded glTF content into a description. Spheres without a
// material get a neutral diffuse gray.
func FromGLTF(name string, imported *loaders.GLTFScene) *Description {
	desc := &Description{
		Name:      name,
		Group:     GLTFGroup,
		Materials: make(map[string]MaterialDescription, len(imported.Materials)),
	}

	keys := make([]string, len(imported.Materials))
	for i, m := range imported.Materials {
		key := m.Name
		if _, taken := desc.Materials[key]; key == "" || taken {
			key = fmt.Sprintf("material%d", i)
		}
		keys[i] = key
		desc.Materials[key] = gltfMaterial(m)
	}

	for _, sphere := range imported.Spheres {
		ref := MaterialRef{Inline: &MaterialDescription{Type: "lambertian", Albedo: colorValue(core.NewColor(0.5, 0.5, 0.5))}}
		if sphere.Material >= 0 && sphere.Material < len(keys) {
			ref = MaterialRef{Name: keys[sphere.Material]}
		}
		desc.Entities = append(desc.Entities, EntityDescription{
			Type:     "sphere",
			Center:   vector(sphere.Center),
			Radius:   sphere.Radius,
			Material: ref,
		})
	}

	if cam := imported.Camera; cam != nil {
		lookFrom := vector(cam.Position)
		lookAt := vector(cam.Position.Add(cam.Forward))
		up := vector(cam.Up)
		desc.Camera = CameraDescription{
			LookFrom:    &lookFrom,
			LookAt:      &lookAt,
			Up:          &up,
			VFov:        cam.YFov * 180 / math.Pi,
			AspectRatio: cam.AspectRatio,
		}
	}

	for _, skipped := range imported.Skipped {
		desc.Warnings = append(desc.Warnings, fmt.Sprintf("mesh %q is not a sphere and was skipped", skipped))
	}

	return desc
}

func gltfMaterial(m loaders.GLTFMaterial) MaterialDescription {
	switch m.Kind {
	case loaders.GLTFGlass:
		return MaterialDescription{Type: "dielectric", RefractionIndex: m.IOR}
	case loaders.GLTFMetal:
		return MaterialDescription{Type: "metal", Albedo: colorValue(m.BaseColor), Fuzz: m.Roughness}
	default:
		return MaterialDescription{Type: "lambertian", Albedo: colorValue(m.BaseColor)}
	}
}

func vector(v core.Vec3) Vector {
	return Vector{v.X, v.Y, v.Z}
}

func colorValue(c core.Color) *ColorValue {
	value := ColorValue(c)
	return &value
}
