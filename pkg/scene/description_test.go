package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-rayjay/pkg/core"
	"github.com/df07/go-rayjay/pkg/geometry"
	"github.com/df07/go-rayjay/pkg/material"
	"github.com/df07/go-rayjay/pkg/renderer"
)

const demoScene = `{
  "name": "demo",
  "camera":   { "width": 400, "aspectRatio": 1.7778, "vfov": 20, "lookFrom": [13,2,3],
                "lookAt": [0,0,0], "up": [0,1,0], "defocusAngle": 0.6, "focusDistance": 10 },
  "sampling": { "samplesPerPixel": 10, "maxDepth": 10, "seed": 42 },
  "materials": { "glass": { "type": "dielectric", "refractionIndex": 1.5 } },
  "entities": [
    { "type": "sphere", "center": [0,-1000,0], "radius": 1000,
      "material": { "type": "lambertian", "albedo": [0.5,0.5,0.5] } },
    { "type": "sphere", "center": [0,1,0], "radius": 1, "material": "glass" },
    { "type": "sphere", "center": [2,1,0], "radius": 1, "material": "glass" }
  ]
}`

func colorClose(a, b core.Color, tolerance float64) bool {
	return math.Abs(a.X-b.X) < tolerance && math.Abs(a.Y-b.Y) < tolerance && math.Abs(a.Z-b.Z) < tolerance
}

func TestParseAndBuild(t *testing.T) {
	desc, err := Parse(strings.NewReader(demoScene))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	scene, err := desc.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if scene.Name != "demo" {
		t.Errorf("Name = %q, want demo", scene.Name)
	}
	if scene.GetPrimitiveCount() != 3 {
		t.Errorf("Expected 3 primitives, got %d", scene.GetPrimitiveCount())
	}

	cam := scene.CameraConfig
	if cam.Center != core.NewVec3(13, 2, 3) {
		t.Errorf("Camera center = %v, want (13,2,3)", cam.Center)
	}
	if cam.LookAt != core.NewVec3(0, 0, 0) {
		t.Errorf("Camera lookAt = %v, want the origin", cam.LookAt)
	}
	if cam.Up != core.NewVec3(0, 1, 0) {
		t.Errorf("Camera up = %v, want (0,1,0)", cam.Up)
	}
	if cam.VFov != 20 || cam.DefocusAngle != 0.6 || cam.FocusDistance != 10 {
		t.Errorf("Camera lens = (%v, %v, %v), want (20, 0.6, 10)", cam.VFov, cam.DefocusAngle, cam.FocusDistance)
	}
	if scene.SamplingConfig.SamplesPerPixel != 10 || scene.SamplingConfig.MaxDepth != 10 || scene.SamplingConfig.Seed != 42 {
		t.Errorf("Sampling = %+v", scene.SamplingConfig)
	}
	if scene.SamplingConfig.NumWorkers <= 0 {
		t.Errorf("Unset worker count should keep the default, got %d", scene.SamplingConfig.NumWorkers)
	}
}

func TestBuildKeepsExplicitZeros(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantDepth int
		wantSeed  int64
		wantAt    core.Vec3
	}{
		{
			name:      "zero depth and seed",
			json:      `{"name":"z","sampling":{"samplesPerPixel":1,"maxDepth":0,"seed":0},"entities":[]}`,
			wantDepth: 0,
			wantSeed:  0,
			wantAt:    core.NewVec3(0, 0, -1),
		},
		{
			name:      "absent fields keep defaults",
			json:      `{"name":"d","entities":[]}`,
			wantDepth: renderer.DefaultSamplingConfig().MaxDepth,
			wantSeed:  renderer.DefaultSamplingConfig().Seed,
			wantAt:    core.NewVec3(0, 0, -1),
		},
		{
			name:      "camera aimed at the origin",
			json:      `{"name":"o","camera":{"lookFrom":[0,0,5],"lookAt":[0,0,0]},"entities":[]}`,
			wantDepth: renderer.DefaultSamplingConfig().MaxDepth,
			wantSeed:  renderer.DefaultSamplingConfig().Seed,
			wantAt:    core.NewVec3(0, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := Parse(strings.NewReader(tt.json))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			scene, err := desc.Build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if scene.SamplingConfig.MaxDepth != tt.wantDepth {
				t.Errorf("MaxDepth = %d, want %d", scene.SamplingConfig.MaxDepth, tt.wantDepth)
			}
			if scene.SamplingConfig.Seed != tt.wantSeed {
				t.Errorf("Seed = %d, want %d", scene.SamplingConfig.Seed, tt.wantSeed)
			}
			if scene.CameraConfig.LookAt != tt.wantAt {
				t.Errorf("LookAt = %v, want %v", scene.CameraConfig.LookAt, tt.wantAt)
			}
			if err := scene.SamplingConfig.Validate(); err != nil {
				t.Errorf("Sampling config invalid: %v", err)
			}
		})
	}
}

func TestBuildSharesNamedMaterials(t *testing.T) {
	desc, err := Parse(strings.NewReader(demoScene))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	scene, err := desc.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	shapes := scene.World.Shapes()
	first := shapes[1].(*geometry.Sphere).Material
	second := shapes[2].(*geometry.Sphere).Material
	if first != second {
		t.Error("Spheres naming the same material should share one instance")
	}
	if _, ok := first.(*material.Dielectric); !ok {
		t.Errorf("Expected *material.Dielectric, got %T", first)
	}
}

func TestBuildDefaultsCamera(t *testing.T) {
	desc, err := Parse(strings.NewReader(`{"entities": []}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	scene, err := desc.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := renderer.DefaultCameraConfig()
	if scene.CameraConfig != want {
		t.Errorf("CameraConfig = %+v, want defaults %+v", scene.CameraConfig, want)
	}
}

func TestColorValue(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    core.Color
		wantErr bool
	}{
		{"array", `{"type": "lambertian", "albedo": [0.1, 0.2, 0.3]}`, core.NewColor(0.1, 0.2, 0.3), false},
		{"hex white", `{"type": "lambertian", "albedo": "#ffffff"}`, core.NewColor(1, 1, 1), false},
		{"hex black", `{"type": "lambertian", "albedo": "#000000"}`, core.NewColor(0, 0, 0), false},
		// sRGB 0x80 is about 0.2158 in linear light
		{"hex mid gray", `{"type": "lambertian", "albedo": "#808080"}`, core.NewColor(0.2158, 0.2158, 0.2158), false},
		{"bad hex", `{"type": "lambertian", "albedo": "#zzzzzz"}`, core.Color{}, true},
		{"wrong shape", `{"type": "lambertian", "albedo": {"r": 1}}`, core.Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := `{"entities": [{"type": "sphere", "center": [0,0,0], "radius": 1, "material": ` + tt.json + `}]}`
			desc, err := Parse(strings.NewReader(content))
			if tt.wantErr {
				if err == nil {
					t.Error("Expected parse error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			got := core.Color(*desc.Entities[0].Material.Inline.Albedo)
			if !colorClose(got, tt.want, 1e-3) {
				t.Errorf("albedo = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr error
		mention string
	}{
		{
			name:    "unknown material name",
			json:    `{"entities": [{"type": "sphere", "center": [0,0,0], "radius": 1, "material": "missing"}]}`,
			wantErr: ErrUnknownMaterial,
			mention: "entity 0",
		},
		{
			name:    "unknown material type",
			json:    `{"materials": {"weird": {"type": "plastic"}}, "entities": []}`,
			wantErr: ErrUnknownMaterialType,
			mention: `material "weird"`,
		},
		{
			name:    "unknown entity type",
			json:    `{"entities": [{"type": "sphere", "center": [0,0,0], "radius": 1, "material": {"type": "dielectric", "refractionIndex": 1.5}}, {"type": "cube"}]}`,
			wantErr: ErrUnknownEntityType,
			mention: "entity 1",
		},
		{
			name:    "missing albedo",
			json:    `{"entities": [{"type": "sphere", "center": [0,0,0], "radius": 1, "material": {"type": "metal", "fuzz": 0.1}}]}`,
			wantErr: ErrInvalidMaterial,
			mention: "entity 0",
		},
		{
			name:    "non-positive refraction index",
			json:    `{"materials": {"glass": {"type": "dielectric"}}, "entities": []}`,
			wantErr: ErrInvalidMaterial,
			mention: `material "glass"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := Parse(strings.NewReader(tt.json))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			_, err = desc.Build()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.mention) {
				t.Errorf("Error %q should mention %q", err.Error(), tt.mention)
			}
		})
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	if _, err := Parse(strings.NewReader(`{"entities": [], "lights": []}`)); err == nil {
		t.Error("Expected error for unknown field")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my-scene.json")
	content := `{"entities": [{"type": "sphere", "center": [0,0,-1], "radius": 0.5, "material": {"type": "lambertian", "albedo": "#336699"}}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	desc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if desc.Name != "my-scene" {
		t.Errorf("Name = %q, want name derived from file", desc.Name)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
