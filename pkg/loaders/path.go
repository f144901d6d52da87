package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SceneExtensions lists the file types a scene can be loaded from
var SceneExtensions = []string{".json", ".gltf", ".glb"}

// ValidateScenePath checks a scene path that came from an untrusted source such as a
// web request. Only scene files under a scenes/ directory (or the temp dir) pass.
func ValidateScenePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Check for null bytes (could indicate path manipulation)
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	cleanPath := filepath.ToSlash(filepath.Clean(filename))

	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}

	inScenes := strings.HasPrefix(cleanPath, "scenes/") || strings.Contains(cleanPath, "/scenes/")
	inTemp := strings.HasPrefix(cleanPath, filepath.ToSlash(os.TempDir()))
	if !inScenes && !inTemp {
		return fmt.Errorf("file path must be in scenes/ directory")
	}

	// Anything still climbing after Clean must land in a scenes directory
	if strings.Contains(cleanPath, "..") && !inScenes {
		return fmt.Errorf("invalid file path: directory traversal not allowed")
	}

	if !IsSceneFile(cleanPath) {
		return fmt.Errorf("invalid file type: only %s files are allowed", strings.Join(SceneExtensions, ", "))
	}

	return nil
}

// IsSceneFile reports whether the file extension is a supported scene format
func IsSceneFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range SceneExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
