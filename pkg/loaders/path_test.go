package loaders

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateScenePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"json in scenes", "scenes/spheres.json", false},
		{"gltf in scenes", "scenes/spheres.gltf", false},
		{"glb in parent scenes", "../scenes/spheres.glb", false},
		{"temp dir", filepath.Join(os.TempDir(), "scene.json"), false},
		{"empty", "", true},
		{"outside scenes", "etc/passwd.json", true},
		{"traversal out of scenes", "scenes/../../etc/passwd.json", true},
		{"wrong extension", "scenes/spheres.pbrt", true},
		{"null byte", "scenes/a\x00.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScenePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScenePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestIsSceneFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.json", true},
		{"a.GLTF", true},
		{"a.glb", true},
		{"a.obj", false},
		{"a", false},
	}

	for _, tt := range tests {
		if got := IsSceneFile(tt.path); got != tt.want {
			t.Errorf("IsSceneFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
