package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-rayjay/pkg/loaders"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the scene file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const (
	sceneTypeBuiltin = "builtin"
	sceneTypeFile    = "file"
	fileIDPrefix     = "file:"

	// FileGroup is the default group for JSON scene files without one
	FileGroup = "Scene Files"
)

// ScenesDir returns the first scenes directory found relative to the working directory, or ""
func ScenesDir() string {
	for _, path := range []string{"scenes", "../scenes"} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListFileScenes scans dir for JSON and glTF scene files. A missing directory yields an empty list.
func ListFileScenes(dir string) ([]SceneInfo, error) {
	scenes := []SceneInfo{}
	if dir == "" {
		return scenes, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return scenes, nil
		}
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !loaders.IsSceneFile(entry.Name()) {
			continue
		}
		filePath := filepath.Join(dir, entry.Name())
		sceneInfo, err := ReadSceneMetadata(filePath)
		if err != nil {
			// Listed with fallback values; loading it will report the problem
			sceneInfo.Description = fmt.Sprintf("unreadable metadata: %v", err)
		}
		scenes = append(scenes, sceneInfo)
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ReadSceneMetadata extracts name, description and group from a scene file.
// glTF files and unreadable files keep the filename-derived values.
func ReadSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          fileIDPrefix + filename,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       FileGroup,
		Type:        sceneTypeFile,
		FilePath:    filePath,
	}

	if strings.ToLower(filepath.Ext(filename)) != ".json" {
		sceneInfo.Group = GLTFGroup
		return sceneInfo, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		// If we can't read the file, return with fallback values
		return sceneInfo, nil
	}
	defer file.Close()

	var meta struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Group       string `json:"group"`
	}
	if err := json.NewDecoder(file).Decode(&meta); err != nil {
		return sceneInfo, fmt.Errorf("%s: %w", filePath, err)
	}

	if meta.Name != "" {
		sceneInfo.Name = meta.Name
		sceneInfo.DisplayName = meta.Name
	}
	if meta.Group != "" {
		sceneInfo.Group = meta.Group
	}
	sceneInfo.Description = meta.Description

	return sceneInfo, nil
}

// ListBuiltinScenes returns metadata for the scenes compiled into the binary
func ListBuiltinScenes() []SceneInfo {
	var scenes []SceneInfo
	for _, name := range Names() {
		desc, _ := BuiltinDescription(name)
		scenes = append(scenes, SceneInfo{
			ID:          name,
			Name:        name,
			DisplayName: titleCase(name),
			Description: desc.Description,
			Group:       BuiltinGroup,
			Type:        sceneTypeBuiltin,
		})
	}
	return scenes
}

// ListAllScenes returns built-in scenes and the files in ScenesDir, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	return ListScenes(ScenesDir())
}

// ListScenes returns built-in scenes and the files in dir, grouped by category.
// The built-in group comes first, then the others alphabetically.
func ListScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := ListFileScenes(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}

	allScenes := append(ListBuiltinScenes(), fileScenes...)

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != BuiltinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if builtInGroup, exists := groupMap[BuiltinGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   BuiltinGroup,
			Scenes: builtInGroup,
		})
	}

	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// Resolve returns the description for a scene ID: a built-in name, or "file:<name>"
// for a file in dir. File IDs never escape dir.
func Resolve(id, dir string) (*Description, error) {
	name, isFile := strings.CutPrefix(id, fileIDPrefix)
	if !isFile {
		return BuiltinDescription(id)
	}

	if dir == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("%w %q", ErrUnknownScene, id)
	}

	path := filepath.Join(dir, name)
	if err := loaders.ValidateScenePath(path); err != nil {
		return nil, fmt.Errorf("scene %q: %w", id, err)
	}
	return Load(path)
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
