package server

import (
	"math"
	"net/http"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/df07/go-rayjay/pkg/core"
	"github.com/df07/go-rayjay/pkg/geometry"
	"github.com/df07/go-rayjay/pkg/integrator"
	"github.com/df07/go-rayjay/pkg/material"
	"github.com/df07/go-rayjay/pkg/renderer"
	"github.com/df07/go-rayjay/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"` // From the camera to the hit point
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult contains the first intersection along a pixel's center ray
type InspectResult struct {
	Hit       bool
	Ray       core.Ray
	HitRecord *material.HitRecord
	Shape     geometry.Shape // The shape that was hit, nil if it could not be identified
}

// centerSampler always returns the middle of the unit square, so rays go through
// the pixel center and start at the middle of the defocus disk
type centerSampler struct{}

func (centerSampler) Get1D() float64 { return 0.5 }
func (centerSampler) Get2D() core.Vec2 { return core.Vec2{X: 0.5, Y: 0.5} }
func (centerSampler) Get3D() core.Vec3 { return core.NewVec3(0.5, 0.5, 0.5) }

// hexColor formats a linear color as an sRGB hex string
func hexColor(c core.Color) string {
	return colorful.LinearRgb(c.X, c.Y, c.Z).Clamped().Hex()
}

// extractMaterialInfo extracts detailed material information with type assertions
func (s *Server) extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = hexColor(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = hexColor(m.Albedo)
		properties["fuzz"] = m.Fuzz
		return "metal", properties

	case *material.Dielectric:
		properties["refractionIndex"] = m.RefractionIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func (s *Server) extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{geom.Center.X, geom.Center.Y, geom.Center.Z}
		properties["radius"] = geom.Radius
		return "sphere", properties
	default:
		return "unknown", properties
	}
}

// inspectPixel casts a ray through the center of pixel (pixelX, pixelY) and returns the first object hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) (InspectResult, error) {
	camera, err := renderer.NewCamera(sceneObj.CameraConfig)
	if err != nil {
		return InspectResult{}, err
	}

	ray := camera.GetRay(pixelX, pixelY, centerSampler{})
	interval := core.NewInterval(integrator.SelfIntersectionEpsilon, math.Inf(1))

	hit, isHit := sceneObj.World.Hit(ray, interval)
	if !isHit {
		return InspectResult{Hit: false, Ray: ray}, nil
	}

	// The shape list only reports the closest hit record, so find the shape that produced it
	for _, shape := range sceneObj.World.Shapes() {
		if shapeHit, ok := shape.Hit(ray, interval.WithMax(math.Nextafter(hit.T, math.Inf(1)))); ok && shapeHit.T == hit.T {
			return InspectResult{Hit: true, Ray: ray, HitRecord: hit, Shape: shape}, nil
		}
	}

	return InspectResult{Hit: true, Ray: ray, HitRecord: hit}, nil
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	inspectReq, err := parseSceneParams(values)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := parseIntParam(values, "x", -1, 0, maxImageSize-1)
	if err != nil || pixelX < 0 {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := parseIntParam(values, "y", -1, 0, maxImageSize-1)
	if err != nil || pixelY < 0 {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(inspectReq)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	width, height := sceneObj.CameraConfig.Resolution()
	if pixelX >= width || pixelY >= height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	result, err := inspectPixel(sceneObj, pixelX, pixelY)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := s.extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := s.extractGeometryInfo(result.Shape)

	properties := map[string]interface{}{
		"material": materialProps,
		"geometry": geometryProps,
	}

	response := InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        [3]float64{result.HitRecord.Point.X, result.HitRecord.Point.Y, result.HitRecord.Point.Z},
		Normal:       [3]float64{result.HitRecord.Normal.X, result.HitRecord.Normal.Y, result.HitRecord.Normal.Z},
		Distance:     result.HitRecord.Point.Subtract(result.Ray.Origin).Length(),
		FrontFace:    result.HitRecord.FrontFace,
		Properties:   properties,
	}
	writeJSON(w, http.StatusOK, response)
}
