package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-rayjay/pkg/core"
)

// BuiltinGroup is the discovery group for scenes compiled into the binary
const BuiltinGroup = "Built-in Scenes"

// ErrUnknownScene is returned when no built-in scene has the requested name
var ErrUnknownScene = errors.New("unknown scene")

var builtins = map[string]func() *Description{
	"default": NewDefaultDescription,
	"final":   NewFinalDescription,
	"normals": NewNormalsDescription,
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinDescription returns the description of a built-in scene
func BuiltinDescription(name string) (*Description, error) {
	create, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownScene, name, Names())
	}
	return create(), nil
}

// ByName builds a built-in scene
func ByName(name string) (*Scene, error) {
	desc, err := BuiltinDescription(name)
	if err != nil {
		return nil, err
	}
	return desc.Build()
}

func lambertian(r, g, b float64) MaterialDescription {
	return MaterialDescription{Type: "lambertian", Albedo: colorValue(core.NewColor(r, g, b))}
}

func metal(r, g, b, fuzz float64) MaterialDescription {
	return MaterialDescription{Type: "metal", Albedo: colorValue(core.NewColor(r, g, b)), Fuzz: fuzz}
}

func dielectric(index float64) MaterialDescription {
	return MaterialDescription{Type: "dielectric", RefractionIndex: index}
}

func maxDepth(depth int) *int {
	return &depth
}

func sphere(center core.Vec3, radius float64, material string) EntityDescription {
	return EntityDescription{Type: "sphere", Center: vector(center), Radius: radius, Material: MaterialRef{Name: material}}
}

func inlineSphere(center core.Vec3, radius float64, material MaterialDescription) EntityDescription {
	return EntityDescription{Type: "sphere", Center: vector(center), Radius: radius, Material: MaterialRef{Inline: &material}}
}

// NewDefaultDescription creates the three-sphere scene with a hollow glass bubble.
// The bubble is an inner sphere with the inverse refraction index.
func NewDefaultDescription() *Description {
	return &Description{
		Name:        "default",
		Description: "Ground, diffuse, hollow glass and fuzzy metal spheres",
		Group:       BuiltinGroup,
		Sampling:    SamplingDescription{SamplesPerPixel: 100, MaxDepth: maxDepth(50)},
		Materials: map[string]MaterialDescription{
			"ground": lambertian(0.8, 0.8, 0.0),
			"center": lambertian(0.1, 0.2, 0.5),
			"left":   dielectric(1.5),
			"bubble": dielectric(1.0 / 1.5),
			"right":  metal(0.8, 0.6, 0.2, 1.0),
		},
		Entities: []EntityDescription{
			sphere(core.NewVec3(0, -100.5, -1), 100, "ground"),
			sphere(core.NewVec3(0, 0, -1.2), 0.5, "center"),
			sphere(core.NewVec3(-1, 0, -1), 0.5, "left"),
			sphere(core.NewVec3(-1, 0, -1), 0.4, "bubble"),
			sphere(core.NewVec3(1, 0, -1), 0.5, "right"),
		},
	}
}

// finalSceneSeed fixes the layout of the small spheres
const finalSceneSeed = 1

// NewFinalDescription creates the large random scene: a grid of small spheres with
// randomly chosen materials around one glass, one diffuse and one metal sphere
func NewFinalDescription() *Description {
	lookFrom, lookAt := Vector{13, 2, 3}, Vector{0, 0, 0}

	desc := &Description{
		Name:        "final",
		Description: "Seeded field of small random spheres around three large ones",
		Group:       BuiltinGroup,
		Camera: CameraDescription{
			Width:         480,
			Height:        360,
			VFov:          20,
			LookFrom:      &lookFrom,
			LookAt:        &lookAt,
			DefocusAngle:  0.6,
			FocusDistance: 10,
		},
		Sampling: SamplingDescription{SamplesPerPixel: 50, MaxDepth: maxDepth(50)},
		Materials: map[string]MaterialDescription{
			"ground": lambertian(0.5, 0.5, 0.5),
			"glass":  dielectric(1.5),
		},
		Entities: []EntityDescription{
			sphere(core.NewVec3(0, -1000, 0), 1000, "ground"),
		},
	}

	random := core.NewSeededSampler(finalSceneSeed)
	avoid := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Get1D()
			center := core.NewVec3(float64(a)+0.9*random.Get1D(), 0.2, float64(b)+0.9*random.Get1D())

			if center.Subtract(avoid).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				albedo := random.Get3D().MultiplyVec(random.Get3D())
				desc.Entities = append(desc.Entities, inlineSphere(center, 0.2, lambertian(albedo.X, albedo.Y, albedo.Z)))
			case chooseMat < 0.95:
				albedo := core.RandomVec3InRange(random, 0.5, 1)
				fuzz := core.RandomInRange(random, 0, 0.5)
				desc.Entities = append(desc.Entities, inlineSphere(center, 0.2, metal(albedo.X, albedo.Y, albedo.Z, fuzz)))
			default:
				desc.Entities = append(desc.Entities, sphere(center, 0.2, "glass"))
			}
		}
	}

	desc.Entities = append(desc.Entities,
		sphere(core.NewVec3(0, 1, 0), 1.0, "glass"),
		inlineSphere(core.NewVec3(-4, 1, 0), 1.0, lambertian(0.4, 0.2, 0.1)),
		inlineSphere(core.NewVec3(4, 1, 0), 1.0, metal(0.7, 0.6, 0.5, 0.0)),
	)

	return desc
}

// NewNormalsDescription creates a normal-shaded scene with a large ground sphere and a small one in front
func NewNormalsDescription() *Description {
	return &Description{
		Name:        "normals",
		Description: "Surface normals of a large and a small sphere",
		Group:       BuiltinGroup,
		Shading:     ShadingNormals,
		Sampling:    SamplingDescription{SamplesPerPixel: 10, MaxDepth: maxDepth(1)},
		Entities: []EntityDescription{
			inlineSphere(core.NewVec3(0, -100.5, -1.2), 100, lambertian(0.5, 0.5, 0.5)),
			inlineSphere(core.NewVec3(0, 0, -1), 0.5, lambertian(0.5, 0.5, 0.5)),
		},
	}
}
