package loaders

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/df07/go-rayjay/pkg/core"
)

// GLTFMaterialKind classifies a glTF PBR material into the closest analytic material
type GLTFMaterialKind int

const (
	GLTFDiffuse GLTFMaterialKind = iota
	GLTFMetal
	GLTFGlass
)

func (k GLTFMaterialKind) String() string {
	switch k {
	case GLTFMetal:
		return "metal"
	case GLTFGlass:
		return "glass"
	default:
		return "diffuse"
	}
}

// GLTFMaterial is a glTF material reduced to the parameters the renderer understands
type GLTFMaterial struct {
	Name      string
	Kind      GLTFMaterialKind
	BaseColor core.Color // Linear base color factor
	Roughness float64
	IOR       float64
}

// GLTFSphere is a mesh node recognized as a sphere, in world space
type GLTFSphere struct {
	Name     string
	Center   core.Vec3
	Radius   float64
	Material int // Index into GLTFScene.Materials (-1 = no material)
}

// GLTFCamera is the first perspective camera found while walking the scene
type GLTFCamera struct {
	Position    core.Vec3
	Forward     core.Vec3
	Up          core.Vec3
	YFov        float64 // Vertical field of view in radians
	AspectRatio float64 // 0 when the file does not specify one
}

// GLTFScene contains the parsed glTF content relevant to a sphere renderer
type GLTFScene struct {
	Materials []GLTFMaterial
	Spheres   []GLTFSphere
	Camera    *GLTFCamera
	Skipped   []string // Mesh nodes that were not recognized as spheres
}

const (
	transmissionExtension = "KHR_materials_transmission"
	iorExtension          = "KHR_materials_ior"
	defaultIOR            = 1.5
)

// LoadGLTF opens a .gltf or .glb file and extracts its spheres, materials and camera
func LoadGLTF(filename string) (*GLTFScene, error) {
	doc, err := gltf.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open glTF file: %w", err)
	}
	return ConvertGLTF(doc)
}

// ParseGLTF decodes glTF content from an io.Reader. External buffers are not resolved.
func ParseGLTF(reader io.Reader) (*GLTFScene, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(reader).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode glTF: %w", err)
	}
	return ConvertGLTF(doc)
}

// ConvertGLTF walks the default scene of doc. Mesh nodes whose node or mesh name
// contains "sphere" become spheres; the mesh's POSITION bounds give the local
// center and radius, falling back to a unit sphere.
func ConvertGLTF(doc *gltf.Document) (*GLTFScene, error) {
	scene := &GLTFScene{}
	for _, m := range doc.Materials {
		scene.Materials = append(scene.Materials, convertMaterial(m))
	}

	visited := make([]bool, len(doc.Nodes))
	var walk func(index int, parent mat4) error
	walk = func(index int, parent mat4) error {
		if index < 0 || index >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", index)
		}
		if visited[index] {
			return fmt.Errorf("node %d is reachable more than once", index)
		}
		visited[index] = true

		node := doc.Nodes[index]
		world := parent.mul(localTransform(node))

		if node.Camera != nil && scene.Camera == nil {
			camera, err := convertCamera(doc, *node.Camera, world)
			if err != nil {
				return err
			}
			scene.Camera = camera
		}

		if node.Mesh != nil {
			if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
				return fmt.Errorf("node %d: mesh index %d out of range", index, *node.Mesh)
			}
			mesh := doc.Meshes[*node.Mesh]
			if isSphere(node.Name) || isSphere(mesh.Name) {
				scene.Spheres = append(scene.Spheres, convertSphere(doc, node, mesh, world))
			} else {
				scene.Skipped = append(scene.Skipped, nodeName(node, index))
			}
		}

		for _, child := range node.Children {
			if err := walk(child, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range rootNodes(doc) {
		if err := walk(root, identity); err != nil {
			return nil, err
		}
	}

	return scene, nil
}

// rootNodes returns the nodes of the default scene, or every parentless node if the file has no scenes
func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		index := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			index = *doc.Scene
		}
		return doc.Scenes[index].Nodes
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, node := range doc.Nodes {
		for _, child := range node.Children {
			if child >= 0 && child < len(isChild) {
				isChild[child] = true
			}
		}
	}

	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// localTransform prefers an explicit matrix and otherwise composes TRS
func localTransform(node *gltf.Node) mat4 {
	m := mat4(node.Matrix)
	if m != (mat4{}) && m != identity {
		return m
	}
	return trs(node.Translation, node.Rotation, node.Scale)
}

func isSphere(name string) bool {
	return strings.Contains(strings.ToLower(name), "sphere")
}

func nodeName(node *gltf.Node, index int) string {
	if node.Name != "" {
		return node.Name
	}
	return fmt.Sprintf("node %d", index)
}

func convertSphere(doc *gltf.Document, node *gltf.Node, mesh *gltf.Mesh, world mat4) GLTFSphere {
	center, radius := core.NewVec3(0, 0, 0), 1.0
	materialIndex := -1

	for _, prim := range mesh.Primitives {
		if materialIndex < 0 && prim.Material != nil && *prim.Material < len(doc.Materials) {
			materialIndex = *prim.Material
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok || posIdx >= len(doc.Accessors) {
			continue
		}
		accessor := doc.Accessors[posIdx]
		if len(accessor.Min) == 3 && len(accessor.Max) == 3 {
			lo := core.NewVec3(accessor.Min[0], accessor.Min[1], accessor.Min[2])
			hi := core.NewVec3(accessor.Max[0], accessor.Max[1], accessor.Max[2])
			center = lo.Add(hi).Multiply(0.5)
			extent := hi.Subtract(lo)
			radius = math.Max(extent.X, math.Max(extent.Y, extent.Z)) / 2
			break
		}
	}

	name := node.Name
	if name == "" {
		name = mesh.Name
	}

	return GLTFSphere{
		Name:     name,
		Center:   world.transformPoint(center),
		Radius:   radius * world.maxScale(),
		Material: materialIndex,
	}
}

func convertCamera(doc *gltf.Document, index int, world mat4) (*GLTFCamera, error) {
	if index < 0 || index >= len(doc.Cameras) {
		return nil, fmt.Errorf("camera index %d out of range", index)
	}
	persp := doc.Cameras[index].Perspective
	if persp == nil {
		// Orthographic cameras have no equivalent
		return nil, nil
	}

	camera := &GLTFCamera{
		Position: world.transformPoint(core.NewVec3(0, 0, 0)),
		Forward:  world.transformDirection(core.NewVec3(0, 0, -1)).Normalize(),
		Up:       world.transformDirection(core.NewVec3(0, 1, 0)).Normalize(),
		YFov:     persp.Yfov,
	}
	if persp.AspectRatio != nil {
		camera.AspectRatio = *persp.AspectRatio
	}
	return camera, nil
}

// convertMaterial applies glTF's metallic-roughness defaults (base color white,
// metallic 1, roughness 1) when factors are absent
func convertMaterial(m *gltf.Material) GLTFMaterial {
	result := GLTFMaterial{
		Name:      m.Name,
		Kind:      GLTFMetal,
		BaseColor: core.NewColor(1, 1, 1),
		Roughness: 1,
		IOR:       defaultIOR,
	}

	metallic := 1.0
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			c := *pbr.BaseColorFactor
			result.BaseColor = core.NewColor(c[0], c[1], c[2])
		}
		if pbr.MetallicFactor != nil {
			metallic = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			result.Roughness = *pbr.RoughnessFactor
		}
	}
	if metallic < 0.5 {
		result.Kind = GLTFDiffuse
	}

	var transmission struct {
		TransmissionFactor float64 `json:"transmissionFactor"`
	}
	if decodeExtension(m.Extensions, transmissionExtension, &transmission) && transmission.TransmissionFactor >= 0.5 {
		result.Kind = GLTFGlass
	}

	var ior struct {
		IOR float64 `json:"ior"`
	}
	if decodeExtension(m.Extensions, iorExtension, &ior) && ior.IOR > 0 {
		result.IOR = ior.IOR
	}

	return result
}

// decodeExtension decodes a material extension whether the decoder kept it as raw
// JSON or as an already registered Go value
func decodeExtension(extensions gltf.Extensions, name string, v any) bool {
	raw, ok := extensions[name]
	if !ok {
		return false
	}

	var data []byte
	switch value := raw.(type) {
	case json.RawMessage:
		data = value
	case []byte:
		data = value
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return false
		}
		data = encoded
	}
	return json.Unmarshal(data, v) == nil
}
